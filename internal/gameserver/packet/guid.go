package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Guid is an opaque 64-bit object identifier split into its 8 bytes
// (index 0 is the least significant byte).
//
// On the wire a Guid travels in two passes: one presence bit per byte
// (set when the byte is non-zero), then only the present bytes XOR 1.
// Each message fixes its own order for both passes, see GuidLayout.
type Guid [8]byte

// GuidFromUint64 splits v into a Guid.
func GuidFromUint64(v uint64) Guid {
	var g Guid
	binary.LittleEndian.PutUint64(g[:], v)
	return g
}

// Uint64 joins the Guid back into a 64-bit value.
func (g Guid) Uint64() uint64 {
	return binary.LittleEndian.Uint64(g[:])
}

// GuidLayout is the per-message permutation pair of a Guid field:
// Mask is the order of presence bits, Bytes the order of data bytes.
//
// Messages that put other fields between parts of the guid split an order
// into consecutive runs: MaskRuns and ByteRuns hold run lengths.
// Empty means a single run of 8.
type GuidLayout struct {
	Mask     []uint8
	Bytes    []uint8
	MaskRuns []int
	ByteRuns []int
}

// Validate reports whether both orders are permutations of 0..7
// and the run lengths cover them exactly.
func (l GuidLayout) Validate() error {
	if err := checkPermutation(l.Mask); err != nil {
		return fmt.Errorf("mask order: %w", err)
	}
	if err := checkPermutation(l.Bytes); err != nil {
		return fmt.Errorf("byte order: %w", err)
	}
	if err := checkRuns(l.MaskRuns); err != nil {
		return fmt.Errorf("mask runs: %w", err)
	}
	if err := checkRuns(l.ByteRuns); err != nil {
		return fmt.Errorf("byte runs: %w", err)
	}
	return nil
}

// MaskRun returns the i-th run of the mask order.
func (l GuidLayout) MaskRun(i int) []uint8 {
	return run(l.Mask, l.MaskRuns, i)
}

// ByteRun returns the i-th run of the byte order.
func (l GuidLayout) ByteRun(i int) []uint8 {
	return run(l.Bytes, l.ByteRuns, i)
}

// run slices order by run lengths. Panics on an index outside the layout:
// layouts are package-level tables checked by tests.
func run(order []uint8, runs []int, i int) []uint8 {
	if len(runs) == 0 {
		if i != 0 {
			panic(fmt.Sprintf("guid layout: run %d of a single-run order", i))
		}
		return order
	}
	start := 0
	for _, n := range runs[:i] {
		start += n
	}
	return order[start : start+runs[i]]
}

func checkRuns(runs []int) error {
	if len(runs) == 0 {
		return nil
	}
	total := 0
	for _, n := range runs {
		if n <= 0 {
			return errors.New("empty run")
		}
		total += n
	}
	if total != 8 {
		return fmt.Errorf("runs cover %d indices, expected 8", total)
	}
	return nil
}

func checkPermutation(order []uint8) error {
	if len(order) != 8 {
		return fmt.Errorf("expected 8 indices, got %d", len(order))
	}
	var seen [8]bool
	for _, i := range order {
		if i > 7 {
			return fmt.Errorf("index %d out of range", i)
		}
		if seen[i] {
			return fmt.Errorf("index %d repeated", i)
		}
		seen[i] = true
	}
	return nil
}

// Read decodes a Guid written as one contiguous mask run followed by one byte run.
// Split layouts are read run by run with ReadGuidMask / ReadGuidBytes.
func (l GuidLayout) Read(r *Reader) (Guid, error) {
	var g Guid
	if err := r.ReadGuidMask(&g, l.Mask...); err != nil {
		return g, err
	}
	if err := r.ReadGuidBytes(&g, l.Bytes...); err != nil {
		return g, err
	}
	return g, nil
}

// Write encodes g as one mask run, a flush, and one byte run.
func (l GuidLayout) Write(w *Writer, g Guid) {
	w.WriteGuidMask(g, l.Mask...)
	w.FlushBits()
	w.WriteGuidBytes(g, l.Bytes...)
}

// ReadGuidMask reads presence bits for the given byte indices.
// A present byte is marked as 1 until ReadGuidBytes fills it in.
func (r *Reader) ReadGuidMask(g *Guid, order ...uint8) error {
	for _, i := range order {
		bit, err := r.ReadBit()
		if err != nil {
			return fmt.Errorf("reading guid mask bit %d: %w", i, err)
		}
		if bit {
			g[i] = 1
		} else {
			g[i] = 0
		}
	}
	return nil
}

// ReadGuidBytes reads the data bytes of present indices in the given order.
func (r *Reader) ReadGuidBytes(g *Guid, order ...uint8) error {
	for _, i := range order {
		if g[i] == 0 {
			continue
		}
		b, err := r.ReadByte()
		if err != nil {
			return fmt.Errorf("reading guid byte %d: %w", i, err)
		}
		g[i] ^= b
	}
	return nil
}

// WriteGuidMask writes presence bits for the given byte indices.
func (w *Writer) WriteGuidMask(g Guid, order ...uint8) {
	for _, i := range order {
		w.WriteBit(g[i] != 0)
	}
}

// WriteGuidBytes writes the present bytes in the given order.
func (w *Writer) WriteGuidBytes(g Guid, order ...uint8) {
	for _, i := range order {
		if g[i] != 0 {
			_ = w.WriteByte(g[i] ^ 1)
		}
	}
}
