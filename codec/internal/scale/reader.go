// Package scale implements the primitive encodings of the SCALE wire
// format: compact integers, length-prefixed strings, options and
// little-endian fixed-width integers.
package scale

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"unicode/utf8"
)

var (
	// ErrOverflow is returned when a compact value does not fit the target width.
	ErrOverflow = errors.New("scale: overflow")
	// ErrNonCanonical is returned when a compact value uses a longer mode than needed.
	ErrNonCanonical = errors.New("scale: non-canonical compact encoding")
	// ErrInvalidUTF8 is returned for strings that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("scale: invalid UTF-8")
	// ErrInvalidBool is returned for bool bytes other than 0 and 1.
	ErrInvalidBool = errors.New("scale: invalid bool")
	// ErrInvalidOption is returned for option tags other than 0 and 1.
	ErrInvalidOption = errors.New("scale: invalid option tag")
)

// Reader wraps an io.ByteReader with position tracking and SCALE read methods.
type Reader struct {
	r   io.ByteReader
	pos int
}

// NewReader creates a new Reader wrapping the given io.ByteReader.
func NewReader(r io.ByteReader) *Reader {
	return &Reader{r: r}
}

// FromBytes creates a Reader over data.
func FromBytes(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes, or -1 when unknown.
func (r *Reader) Remaining() int {
	if br, ok := r.r.(*bytes.Reader); ok {
		return br.Len()
	}
	return -1
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if rem := r.Remaining(); rem >= 0 && n > rem {
		return nil, r.wrapError(io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

// ReadCompact reads a compact-encoded unsigned integer of at most 64 bits.
func (r *Reader) ReadCompact() (uint64, error) {
	b0, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b0 & 0b11 {
	case 0b00:
		return uint64(b0 >> 2), nil
	case 0b01:
		b1, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint16([]byte{b0, b1})) >> 2
		if v < 1<<6 {
			return 0, r.wrapError(ErrNonCanonical)
		}
		return v, nil
	case 0b10:
		rest, err := r.ReadBytes(3)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint32([]byte{b0, rest[0], rest[1], rest[2]})) >> 2
		if v < 1<<14 {
			return 0, r.wrapError(ErrNonCanonical)
		}
		return v, nil
	default:
		n := int(b0>>2) + 4
		if n > 8 {
			return 0, r.wrapError(ErrOverflow)
		}
		raw, err := r.ReadBytes(n)
		if err != nil {
			return 0, err
		}
		var buf [8]byte
		copy(buf[:], raw)
		v := binary.LittleEndian.Uint64(buf[:])
		if v < 1<<30 || compactBigLen(v) != n {
			return 0, r.wrapError(ErrNonCanonical)
		}
		return v, nil
	}
}

// ReadCompactU32 reads a compact integer that must fit in 32 bits.
func (r *Reader) ReadCompactU32() (uint32, error) {
	v, err := r.ReadCompact()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, r.wrapError(ErrOverflow)
	}
	return uint32(v), nil
}

// ReadLen reads a compact length prefix and checks it against the input.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadCompactU32()
	if err != nil {
		return 0, err
	}
	if rem := r.Remaining(); rem >= 0 && int(n) > rem {
		return 0, r.wrapError(io.ErrUnexpectedEOF)
	}
	return int(n), nil
}

// ReadStr reads a length-prefixed UTF-8 string.
func (r *Reader) ReadStr() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", r.wrapError(ErrInvalidUTF8)
	}
	return string(data), nil
}

// ReadBool reads a bool byte.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, r.wrapError(ErrInvalidBool)
}

// ReadOption reads an option tag and reports whether a value follows.
func (r *Reader) ReadOption() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, r.wrapError(ErrInvalidOption)
}

// ReadU32LE reads a little-endian uint32.
func (r *Reader) ReadU32LE() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64LE reads a little-endian uint64.
func (r *Reader) ReadU64LE() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ParseError reports a decoding failure with its byte position.
type ParseError struct {
	Err      error
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scale: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (r *Reader) wrapError(err error) error {
	return &ParseError{Position: r.pos, Err: err}
}

// compactBigLen returns the byte length of v in big-integer mode.
func compactBigLen(v uint64) int {
	n := (bits.Len64(v) + 7) / 8
	if n < 4 {
		n = 4
	}
	return n
}
