package packet

import (
	"bytes"
	"math"
)

// Writer provides methods for writing packet data.
// Multi-byte values are Little-Endian. Bits are packed MSB-first; every
// byte-aligned write flushes a pending bit run first.
type Writer struct {
	buf *bytes.Buffer

	bitPos  uint8 // free bits left in curBits, 8 = empty
	curBits byte
}

// NewWriter creates a new packet writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf:    bytes.NewBuffer(make([]byte, 0, capacity)),
		bitPos: 8,
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(bit bool) {
	w.bitPos--
	if bit {
		w.curBits |= 1 << w.bitPos
	}
	if w.bitPos == 0 {
		w.buf.WriteByte(w.curBits)
		w.bitPos = 8
		w.curBits = 0
	}
}

// WriteBits appends the low n bits of val, most significant first.
func (w *Writer) WriteBits(val uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit((val>>uint(i))&1 == 1)
	}
}

// FlushBits pads the current bit run with zeros up to the byte boundary.
func (w *Writer) FlushBits() {
	if w.bitPos == 8 {
		return
	}
	w.buf.WriteByte(w.curBits)
	w.bitPos = 8
	w.curBits = 0
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.FlushBits()
	return w.buf.WriteByte(b)
}

// WriteShort writes an int16 (2 bytes, LE).
func (w *Writer) WriteShort(val int16) {
	w.FlushBits()
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
}

// WriteUInt16 writes a uint16 (2 bytes, LE).
func (w *Writer) WriteUInt16(val uint16) {
	w.WriteShort(int16(val))
}

// WriteInt writes an int32 (4 bytes, LE).
func (w *Writer) WriteInt(val int32) {
	w.FlushBits()
	w.buf.WriteByte(byte(val))
	w.buf.WriteByte(byte(val >> 8))
	w.buf.WriteByte(byte(val >> 16))
	w.buf.WriteByte(byte(val >> 24))
}

// WriteUInt32 writes a uint32 (4 bytes, LE).
func (w *Writer) WriteUInt32(val uint32) {
	w.WriteInt(int32(val))
}

// WriteFloat32 writes an IEEE-754 float32 (4 bytes, LE).
func (w *Writer) WriteFloat32(val float32) {
	w.WriteUInt32(math.Float32bits(val))
}

// WriteLong writes an int64 (8 bytes, LE).
func (w *Writer) WriteLong(val int64) {
	w.FlushBits()
	for shift := 0; shift < 64; shift += 8 {
		w.buf.WriteByte(byte(val >> shift))
	}
}

// WriteString writes a UTF-16LE null-terminated string.
func (w *Writer) WriteString(s string) {
	w.FlushBits()
	for _, r := range s {
		if r <= 0xFFFF {
			w.buf.WriteByte(byte(r))
			w.buf.WriteByte(byte(r >> 8))
			continue
		}
		r -= 0x10000
		high := uint16((r >> 10) + 0xD800)
		low := uint16((r & 0x3FF) + 0xDC00)
		w.buf.WriteByte(byte(high))
		w.buf.WriteByte(byte(high >> 8))
		w.buf.WriteByte(byte(low))
		w.buf.WriteByte(byte(low >> 8))
	}
	w.buf.WriteByte(0x00)
	w.buf.WriteByte(0x00)
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.FlushBits()
	_, _ = w.buf.Write(data)
}

// Bytes returns the accumulated packet data, flushing any pending bits.
func (w *Writer) Bytes() []byte {
	w.FlushBits()
	return w.buf.Bytes()
}

// Len returns the current length of the packet in whole bytes.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.Reset()
	w.bitPos = 8
	w.curBits = 0
}
