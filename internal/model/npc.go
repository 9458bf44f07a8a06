package model

import "github.com/udisondev/skyroute/internal/game/taxi"

// NpcFlags: роли NPC (битовая маска).
type NpcFlags uint32

const (
	NpcFlagGossip       NpcFlags = 0x00000001
	NpcFlagFlightMaster NpcFlags = 0x00002000
)

var _ taxi.Interactable = (*Npc)(nil)

// Npc: неигровой персонаж в мире.
type Npc struct {
	*WorldObject

	entry     uint32
	factionID uint32
	flags     NpcFlags
	grantsAll bool
}

// NewNpc creates an NPC placed at loc.
func NewNpc(objectID, entry uint32, name string, loc Location, factionID uint32, flags NpcFlags) *Npc {
	return &Npc{
		WorldObject: NewWorldObject(objectID, name, loc),
		entry:       entry,
		factionID:   factionID,
		flags:       flags,
	}
}

// Entry returns the creature template id.
func (n *Npc) Entry() uint32 {
	return n.entry
}

// Flags returns the role mask.
func (n *Npc) Flags() NpcFlags {
	return n.flags
}

// GUID returns the full creature guid.
func (n *Npc) GUID() uint64 {
	return MakeCreatureGUID(n.entry, n.ObjectID())
}

// FactionID returns the NPC faction.
func (n *Npc) FactionID() uint32 {
	return n.factionID
}

// SetGrantsAllDestinations marks the NPC as a dispatcher that lists every destination.
func (n *Npc) SetGrantsAllDestinations(on bool) {
	n.grantsAll = on
}

// GrantsAllDestinations reports whether menus built by this NPC ignore the player's mask.
func (n *Npc) GrantsAllDestinations() bool {
	return n.grantsAll
}

// HasRole reports whether the NPC may serve role.
func (n *Npc) HasRole(role taxi.Role) bool {
	switch role {
	case taxi.RoleAny:
		return true
	case taxi.RoleFlightMaster:
		return n.flags&NpcFlagFlightMaster != 0
	default:
		return false
	}
}
