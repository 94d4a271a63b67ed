package scale

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestCompactBoundaries(t *testing.T) {
	tests := []struct {
		value   uint64
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{1<<30 - 1, []byte{0xfe, 0xff, 0xff, 0xff}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{1<<32 - 1, []byte{0x03, 0xff, 0xff, 0xff, 0xff}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{1<<64 - 1, []byte{0x13, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		w := NewWriter()
		w.WriteCompact(tt.value)
		if !bytes.Equal(w.Bytes(), tt.encoded) {
			t.Errorf("WriteCompact(%d): got %x, want %x", tt.value, w.Bytes(), tt.encoded)
		}

		r := FromBytes(tt.encoded)
		got, err := r.ReadCompact()
		if err != nil {
			t.Errorf("ReadCompact(%x): %v", tt.encoded, err)
			continue
		}
		if got != tt.value {
			t.Errorf("ReadCompact(%x): got %d, want %d", tt.encoded, got, tt.value)
		}
		if r.Position() != len(tt.encoded) {
			t.Errorf("ReadCompact(%x): position %d, want %d", tt.encoded, r.Position(), len(tt.encoded))
		}
	}
}

func TestReadCompact_NonCanonical(t *testing.T) {
	tests := [][]byte{
		{0x01, 0x00},
		{0x02, 0x00, 0x00, 0x00},
		{0x03, 0x00, 0x00, 0x00, 0x00},
		{0x07, 0xff, 0xff, 0xff, 0x7f, 0x00},
	}
	for _, encoded := range tests {
		_, err := FromBytes(encoded).ReadCompact()
		if !errors.Is(err, ErrNonCanonical) {
			t.Errorf("ReadCompact(%x): got %v, want ErrNonCanonical", encoded, err)
		}
	}
}

func TestReadCompactU32_Overflow(t *testing.T) {
	w := NewWriter()
	w.WriteCompact(1 << 32)
	_, err := FromBytes(w.Bytes()).ReadCompactU32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestStr(t *testing.T) {
	w := NewWriter()
	w.WriteStr("hello")
	w.WriteStr("")

	r := FromBytes(w.Bytes())
	for _, want := range []string{"hello", ""} {
		got, err := r.ReadStr()
		if err != nil {
			t.Fatalf("ReadStr: %v", err)
		}
		if got != want {
			t.Errorf("ReadStr: got %q, want %q", got, want)
		}
	}

	_, err := FromBytes([]byte{0x08, 0xff, 0xfe}).ReadStr()
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}

	_, err = FromBytes([]byte{0x28, 'a'}).ReadStr()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF for short string, got %v", err)
	}
}

func TestBoolAndOption(t *testing.T) {
	r := FromBytes([]byte{0x00, 0x01, 0x02})
	if v, err := r.ReadBool(); err != nil || v {
		t.Errorf("ReadBool: %v, %v", v, err)
	}
	if v, err := r.ReadOption(); err != nil || !v {
		t.Errorf("ReadOption: %v, %v", v, err)
	}
	_, err := r.ReadOption()
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Position != 3 {
		t.Errorf("expected ParseError at 3, got %v", err)
	}
	if !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}

func TestFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0x04030201)
	w.WriteU64LE(1 << 40)
	if !bytes.Equal(w.Bytes()[:4], []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("WriteU32LE: got %x", w.Bytes()[:4])
	}

	r := FromBytes(w.Bytes())
	u32, err := r.ReadU32LE()
	if err != nil || u32 != 0x04030201 {
		t.Errorf("ReadU32LE: 0x%08x, %v", u32, err)
	}
	u64, err := r.ReadU64LE()
	if err != nil || u64 != 1<<40 {
		t.Errorf("ReadU64LE: %d, %v", u64, err)
	}
	if _, err := r.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}
