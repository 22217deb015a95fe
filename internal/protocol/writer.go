// Package protocol implements the outbound wire format: a little-endian
// packet writer and the codec the simulation core emits packets through.
package protocol

import (
	"bytes"
	"unicode/utf16"
)

// Writer provides methods for writing packet data.
// Uses Little-Endian byte order for all multi-byte values.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: bytes.NewBuffer(make([]byte, 0, capacity)),
	}
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(b byte) {
	w.buf.WriteByte(b)
}

// WriteShort writes an int16 (2 bytes, LE).
func (w *Writer) WriteShort(val int16) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteInt writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt(val int32) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteUint writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUint(val uint32) {
	w.WriteInt(int32(val))
}

// WriteLong writes an int64 (8 bytes, LE).
func (w *Writer) WriteLong(val int64) {
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
	w.buf.WriteByte(byte(val >> 32))
	w.buf.WriteByte(byte(val >> 40))
	w.buf.WriteByte(byte(val >> 48))
	w.buf.WriteByte(byte(val >> 56))
}

// WriteString writes a UTF-16LE null-terminated string.
func (w *Writer) WriteString(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.buf.WriteByte(byte(u))
		w.buf.WriteByte(byte(u >> 8))
	}
	w.buf.WriteByte(0)
	w.buf.WriteByte(0)
}

// Bytes returns the accumulated packet.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
