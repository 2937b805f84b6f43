package property

import (
	"testing"

	"github.com/pkg/errors"
)

func TestBufferConstraintsDecode(t *testing.T) {
	blob := make([]byte, BufferConstraintsLen)
	copy(blob, []byte{10, 0, 20, 0, 5, 0})
	copy(blob[31*6:], []byte{0x10, 0x27, 0xff, 0xff, 0x01, 0x00})

	tbl, err := DecodeBufferConstraints(blob)
	if err != nil {
		t.Fatal(err)
	}

	if exp := (BufferConstraint{DefaultMs: 10, MaxMs: 20, MinMs: 5}); tbl[0] != exp {
		t.Fatalf("codec 0: have %+v, want %+v", tbl[0], exp)
	}
	if exp := (BufferConstraint{DefaultMs: 10000, MaxMs: 0xffff, MinMs: 1}); tbl[31] != exp {
		t.Fatalf("codec 31: have %+v, want %+v", tbl[31], exp)
	}
	for i := 1; i < 31; i++ {
		if tbl[i] != (BufferConstraint{}) {
			t.Fatalf("codec %v: have %+v, want zero", i, tbl[i])
		}
	}

	out, err := tbl.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != string(blob) {
		t.Fatalf("re-encode mismatch:\nhave % x\nwant % x", out, blob)
	}
}

func TestBufferConstraintsLength(t *testing.T) {
	tests := []struct {
		n   int
		exp error
	}{
		{0, ErrTooShort},
		{6, ErrTooShort},
		{BufferConstraintsLen - 1, ErrTooShort},
		{BufferConstraintsLen + 1, ErrMisaligned},
		{BufferConstraintsLen + 6, ErrMisaligned},
	}

	for _, tt := range tests {
		tbl := BufferConstraintTable{{DefaultMs: 1}}
		err := tbl.UnmarshalBinary(make([]byte, tt.n))
		if errors.Cause(err) != tt.exp {
			t.Fatalf("len %v: have %v, want %v", tt.n, err, tt.exp)
		}
		if tbl[0].DefaultMs != 1 {
			t.Fatalf("len %v: table modified on error", tt.n)
		}
	}
}
