package property

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// CodecCount is the number of codec slots in the buffer constraint table.
	CodecCount = 32

	constraintLen = 6

	// BufferConstraintsLen is the size of the dynamic audio buffer blob.
	BufferConstraintsLen = CodecCount * constraintLen
)

// BufferConstraint holds the buffer times of one codec, in milliseconds.
type BufferConstraint struct {
	DefaultMs uint16 `json:"default_ms"`
	MaxMs     uint16 `json:"max_ms"`
	MinMs     uint16 `json:"min_ms"`
}

// BufferConstraintTable is indexed by codec.
type BufferConstraintTable [CodecCount]BufferConstraint

// DecodeBufferConstraints decodes the dynamic audio buffer blob, which must
// be exactly BufferConstraintsLen bytes.
func DecodeBufferConstraints(blob []byte) (BufferConstraintTable, error) {
	var t BufferConstraintTable
	err := t.UnmarshalBinary(blob)
	return t, err
}

func (t *BufferConstraintTable) UnmarshalBinary(blob []byte) error {
	switch {
	case len(blob) < BufferConstraintsLen:
		return errors.Wrapf(ErrTooShort, "buffer constraints: want %v bytes, have %v", BufferConstraintsLen, len(blob))
	case len(blob) > BufferConstraintsLen:
		return errors.Wrapf(ErrMisaligned, "buffer constraints: want %v bytes, have %v", BufferConstraintsLen, len(blob))
	}

	recs, err := chunks(blob, constraintLen)
	if err != nil {
		return errors.Wrap(err, "buffer constraints")
	}

	var v BufferConstraintTable
	for i, rec := range recs {
		v[i] = BufferConstraint{
			DefaultMs: binary.LittleEndian.Uint16(rec[0:]),
			MaxMs:     binary.LittleEndian.Uint16(rec[2:]),
			MinMs:     binary.LittleEndian.Uint16(rec[4:]),
		}
	}

	*t = v
	return nil
}

func (t BufferConstraintTable) MarshalBinary() ([]byte, error) {
	b := make([]byte, BufferConstraintsLen)
	for i, c := range t {
		rec := b[i*constraintLen:]
		binary.LittleEndian.PutUint16(rec[0:], c.DefaultMs)
		binary.LittleEndian.PutUint16(rec[2:], c.MaxMs)
		binary.LittleEndian.PutUint16(rec[4:], c.MinMs)
	}
	return b, nil
}
