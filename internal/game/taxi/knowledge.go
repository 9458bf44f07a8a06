package taxi

// MaskSize is the size of the knowledge bitmask in bytes.
// One bit per destination, destination N lives in bit (N-1).
const MaskSize = 162

// MaxDestinationID is the highest destination the mask can represent.
const MaxDestinationID = DestinationID(MaskSize * 8)

// Knowledge is the per-player set of discovered destinations.
// Owned by exactly one player and touched only on that player's turn.
type Knowledge struct {
	mask [MaskSize]byte
}

// NewKnowledge returns an empty mask.
func NewKnowledge() *Knowledge {
	return &Knowledge{}
}

// KnowledgeFromBytes restores a persisted mask. Shorter input is zero-padded,
// longer input is truncated.
func KnowledgeFromBytes(b []byte) *Knowledge {
	k := &Knowledge{}
	copy(k.mask[:], b)
	return k
}

func maskBit(id DestinationID) (field int, bit byte, ok bool) {
	if id == 0 || id > MaxDestinationID {
		return 0, 0, false
	}
	field = int((id - 1) / 8)
	bit = 1 << ((id - 1) % 8)
	return field, bit, true
}

// IsKnown reports whether the destination has been discovered.
// Out-of-range ids are never known.
func (k *Knowledge) IsKnown(id DestinationID) bool {
	field, bit, ok := maskBit(id)
	if !ok {
		return false
	}
	return k.mask[field]&bit != 0
}

// MarkKnown sets the destination bit. Returns true only when the bit changed
// from unset to set; already known or out-of-range ids return false.
func (k *Knowledge) MarkKnown(id DestinationID) bool {
	field, bit, ok := maskBit(id)
	if !ok {
		return false
	}
	if k.mask[field]&bit != 0 {
		return false
	}
	k.mask[field] |= bit
	return true
}

// Snapshot returns a copy of the mask. With all set every byte is 0xFF.
func (k *Knowledge) Snapshot(all bool) [MaskSize]byte {
	if all {
		var full [MaskSize]byte
		for i := range full {
			full[i] = 0xFF
		}
		return full
	}
	return k.mask
}

// Bytes returns a copy of the mask for persistence.
func (k *Knowledge) Bytes() []byte {
	out := make([]byte, MaskSize)
	copy(out, k.mask[:])
	return out
}

// Count returns the number of known destinations.
func (k *Knowledge) Count() int {
	n := 0
	for _, b := range k.mask {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}
