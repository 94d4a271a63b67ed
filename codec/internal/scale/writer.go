package scale

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for SCALE encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteCompact writes v in the shortest compact mode.
func (w *Writer) WriteCompact(v uint64) {
	switch {
	case v < 1<<6:
		w.buf.WriteByte(byte(v << 2))
	case v < 1<<14:
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v<<2)|0b01)
		w.buf.Write(b[:])
	case v < 1<<30:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v<<2)|0b10)
		w.buf.Write(b[:])
	default:
		n := compactBigLen(v)
		w.buf.WriteByte(byte(n-4)<<2 | 0b11)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		w.buf.Write(b[:n])
	}
}

// WriteLen writes a compact length prefix.
func (w *Writer) WriteLen(n int) {
	w.WriteCompact(uint64(n))
}

// WriteStr writes a length-prefixed string.
func (w *Writer) WriteStr(s string) {
	w.WriteLen(len(s))
	w.buf.WriteString(s)
}

// WriteBool writes a bool byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteOption writes an option tag.
func (w *Writer) WriteOption(some bool) {
	w.WriteBool(some)
}

// WriteU32LE writes a little-endian uint32.
func (w *Writer) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU64LE writes a little-endian uint64.
func (w *Writer) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}
