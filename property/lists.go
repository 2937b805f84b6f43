package property

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rigado/btadapter"
)

const uuidLen = 16

// DecodeAllowlistedPlayers splits a NUL separated list of media player
// names. Empty names are skipped and duplicates keep their first position.
// A final name with no terminating NUL is kept or dropped per trailing.
func DecodeAllowlistedPlayers(blob []byte, trailing btadapter.TrailingSegment) []string {
	segs := bytes.Split(blob, []byte{0})

	// Split always yields the text after the last NUL as its own segment,
	// empty when the blob is NUL terminated.
	last := len(segs) - 1
	if trailing == btadapter.TrailingDrop {
		segs = segs[:last]
	}

	out := make([]string, 0, len(segs))
	seen := make(map[string]bool, len(segs))
	for _, s := range segs {
		if len(s) == 0 {
			continue
		}
		name := strings.ToValidUTF8(string(s), "\uFFFD")
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// DecodeAddressList splits blob into 6 byte device addresses in blob order.
func DecodeAddressList(blob []byte) ([]btadapter.Addr, error) {
	recs, err := chunks(blob, btadapter.AddrLen)
	if err != nil {
		return nil, errors.Wrap(err, "address list")
	}

	out := make([]btadapter.Addr, len(recs))
	for i, rec := range recs {
		copy(out[i][:], rec)
	}
	return out, nil
}

// DecodeAddr decodes a single device address.
func DecodeAddr(blob []byte) (btadapter.Addr, error) {
	var a btadapter.Addr
	if err := exactLen(blob, btadapter.AddrLen); err != nil {
		return a, errors.Wrap(err, "address")
	}
	copy(a[:], blob)
	return a, nil
}

// DecodeUUIDList splits blob into 128-bit service UUIDs, each most
// significant byte first.
func DecodeUUIDList(blob []byte) ([]uuid.UUID, error) {
	recs, err := chunks(blob, uuidLen)
	if err != nil {
		return nil, errors.Wrap(err, "uuid list")
	}

	out := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		u, err := uuid.FromBytes(rec)
		if err != nil {
			return nil, errors.Wrap(err, "uuid list")
		}
		out = append(out, u)
	}
	return out, nil
}

// DecodeClassOfDevice decodes the 3 byte class of device, first byte most
// significant.
func DecodeClassOfDevice(blob []byte) (uint32, error) {
	if err := exactLen(blob, 3); err != nil {
		return 0, errors.Wrap(err, "class of device")
	}
	return uint32(blob[0])<<16 | uint32(blob[1])<<8 | uint32(blob[2]), nil
}

// DecodeUint32 decodes the little endian integer used by the scan mode,
// discoverable timeout and IO capability properties.
func DecodeUint32(blob []byte) (uint32, error) {
	b, err := getBytes(blob, 0, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func exactLen(blob []byte, n int) error {
	switch {
	case len(blob) < n:
		return errors.Wrapf(ErrTooShort, "want %v bytes, have %v", n, len(blob))
	case len(blob) > n:
		return errors.Wrapf(ErrMisaligned, "want %v bytes, have %v", n, len(blob))
	}
	return nil
}
