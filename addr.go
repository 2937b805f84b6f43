package btadapter

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddrLen is the size of a device address in bytes.
const AddrLen = 6

// Addr is a device address in the byte order the controller reports it,
// most significant byte first.
type Addr [AddrLen]byte

// ParseAddr parses "AA:BB:CC:DD:EE:FF" (separators optional, any case).
func ParseAddr(s string) (Addr, error) {
	var a Addr

	hexStr := strings.Replace(strings.Replace(s, ":", "", -1), "-", "", -1)
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %v", s, err)
	}
	if len(b) != AddrLen {
		return a, fmt.Errorf("invalid address %q: want %v bytes, have %v", s, AddrLen, len(b))
	}

	copy(a[:], b)
	return a, nil
}

func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

func (a Addr) Bytes() []byte {
	out := make([]byte, AddrLen)
	copy(out, a[:])
	return out
}

// MarshalText lets addresses appear as strings in JSON output.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Addr) UnmarshalText(b []byte) error {
	v, err := ParseAddr(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
