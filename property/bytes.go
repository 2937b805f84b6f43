package property

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	// ErrTooShort is returned when a blob is shorter than its layout.
	ErrTooShort = errors.New("blob too short")

	// ErrMisaligned is returned when a blob is not a whole number of
	// records, or is longer than a fixed-size table.
	ErrMisaligned = errors.New("blob misaligned")
)

func getByte(b []byte, i int) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return 0, err
	}
	return bb[0], nil
}

func getBool(b []byte, i int) (bool, error) {
	v, err := getByte(b, i)
	return v != 0, err
}

func getUint16LE(b []byte, i int) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getBytes(b []byte, start int, count int) ([]byte, error) {
	//end is non-inclusive
	end := start + count
	if start < 0 || count < 0 || end > len(b) {
		return nil, errors.Wrapf(ErrTooShort, "want %v bytes at %v, have %v", count, start, len(b))
	}
	return b[start:end], nil
}

func putBool(b []byte, i int, v bool) {
	if v {
		b[i] = 1
	} else {
		b[i] = 0
	}
}

// chunks splits b into records of size sz, failing if anything is left over.
func chunks(b []byte, sz int) ([][]byte, error) {
	if len(b)%sz != 0 {
		return nil, errors.Wrapf(ErrMisaligned, "%v bytes is not a multiple of %v", len(b), sz)
	}

	out := make([][]byte, 0, len(b)/sz)
	for j := 0; j < len(b); j += sz {
		out = append(out, b[j:j+sz])
	}
	return out, nil
}
