package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

// DefaultStringCapacity is the typical character name length.
const DefaultStringCapacity = 16

// ErrMalformed is returned when a message is shorter than its declared layout.
// Only the offending message is dropped; the session stays open.
var ErrMalformed = errors.New("malformed message")

// Reader provides methods for reading packet data.
// Multi-byte values are Little-Endian. Bit fields are read MSB-first from the
// current byte; any byte-aligned read ends the current bit run.
type Reader struct {
	data []byte
	pos  int

	bitPos  uint8 // bits consumed from curBits, 8 = no bit run in progress
	curBits byte
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:   data,
		bitPos: 8,
	}
}

func (r *Reader) short(op string, need int) error {
	return fmt.Errorf("%s: %w (pos=%d, need=%d, len=%d)", op, ErrMalformed, r.pos, need, len(r.data))
}

// resetBits discards the rest of the current bit run.
func (r *Reader) resetBits() {
	r.bitPos = 8
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.bitPos == 8 {
		if r.pos >= len(r.data) {
			return false, r.short("ReadBit", 1)
		}
		r.curBits = r.data[r.pos]
		r.pos++
		r.bitPos = 0
	}
	bit := (r.curBits >> (7 - r.bitPos)) & 1
	r.bitPos++
	return bit == 1, nil
}

// ReadBits reads an n-bit unsigned value, most significant bit first.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("ReadBits: invalid width %d", n)
	}
	var val uint32
	for i := n - 1; i >= 0; i-- {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			val |= 1 << uint(i)
		}
	}
	return val, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	r.resetBits()
	if r.pos >= len(r.data) {
		return 0, r.short("ReadByte", 1)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadShort reads an int16 (2 bytes, LE).
func (r *Reader) ReadShort() (int16, error) {
	r.resetBits()
	if r.pos+2 > len(r.data) {
		return 0, r.short("ReadShort", 2)
	}
	val := int16(binary.LittleEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return val, nil
}

// ReadUInt16 reads a uint16 (2 bytes, LE).
func (r *Reader) ReadUInt16() (uint16, error) {
	v, err := r.ReadShort()
	return uint16(v), err
}

// ReadInt reads an int32 (4 bytes, LE).
func (r *Reader) ReadInt() (int32, error) {
	r.resetBits()
	if r.pos+4 > len(r.data) {
		return 0, r.short("ReadInt", 4)
	}
	val := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return val, nil
}

// ReadUInt32 reads a uint32 (4 bytes, LE).
func (r *Reader) ReadUInt32() (uint32, error) {
	v, err := r.ReadInt()
	return uint32(v), err
}

// ReadFloat32 reads an IEEE-754 float32 (4 bytes, LE).
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUInt32()
	return math.Float32frombits(v), err
}

// ReadLong reads an int64 (8 bytes, LE).
func (r *Reader) ReadLong() (int64, error) {
	r.resetBits()
	if r.pos+8 > len(r.data) {
		return 0, r.short("ReadLong", 8)
	}
	val := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return val, nil
}

// ReadString reads a UTF-16LE null-terminated string.
func (r *Reader) ReadString() (string, error) {
	r.resetBits()
	units := make([]uint16, 0, DefaultStringCapacity)

	for {
		if r.pos+2 > len(r.data) {
			return "", r.short("ReadString", 2)
		}
		u := binary.LittleEndian.Uint16(r.data[r.pos:])
		r.pos += 2
		if u == 0 {
			break
		}
		units = append(units, u)
	}

	return string(utf16.Decode(units)), nil
}

// ReadBytes reads n bytes. Zero-copy: returns a subslice of the internal data.
// Caller MUST NOT modify returned bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	r.resetBits()
	if n < 0 {
		return nil, fmt.Errorf("ReadBytes: negative count %d", n)
	}
	if r.pos+n > len(r.data) {
		return nil, r.short("ReadBytes", n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip consumes the rest of the message.
// Used when a request is rejected mid-way so the stream stays aligned.
func (r *Reader) Skip() {
	r.resetBits()
	r.pos = len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
