package world

import "sync/atomic"

// Диапазоны runtime id. 0 не выдаётся никогда.
const (
	playerIDBase = 0x10000000
	npcIDBase    = 0x20000000
	idRangeSize  = 0x10000000
)

// ObjectIDGenerator hands out runtime object ids for one process lifetime.
// Players and NPCs draw from disjoint ranges, so the kind of an object is
// recoverable from its id alone (see IsNpcID).
type ObjectIDGenerator struct {
	players idRange
	npcs    idRange
}

type idRange struct {
	base uint32
	used atomic.Uint32
}

// next returns base+1, base+2, ... and panics once the range is exhausted.
func (r *idRange) next() uint32 {
	n := r.used.Add(1)
	if n >= idRangeSize {
		panic("world: object id range exhausted")
	}
	return r.base + n
}

// NewObjectIDGenerator creates a generator with both ranges unused.
func NewObjectIDGenerator() *ObjectIDGenerator {
	return &ObjectIDGenerator{
		players: idRange{base: playerIDBase},
		npcs:    idRange{base: npcIDBase},
	}
}

// NextPlayerID returns a fresh player object id.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.players.next()
}

// NextNpcID returns a fresh NPC object id.
func (g *ObjectIDGenerator) NextNpcID() uint32 {
	return g.npcs.next()
}

// IsNpcID reports whether id lies in the NPC range.
func IsNpcID(id uint32) bool {
	return id > npcIDBase && id < npcIDBase+idRangeSize
}

// IsPlayerID reports whether id lies in the player range.
func IsPlayerID(id uint32) bool {
	return id > playerIDBase && id < playerIDBase+idRangeSize
}
