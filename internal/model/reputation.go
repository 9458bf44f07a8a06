package model

import (
	"sync"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

// FactionTemplate is the static disposition of an NPC faction per team.
type FactionTemplate struct {
	ID      uint32
	Name    string
	Default [2]taxi.Reaction // indexed by taxi.Team
}

// FactionTable maps faction id to template. Built once at startup, read-only after.
type FactionTable map[uint32]FactionTemplate

// Reaction returns the default reaction of faction toward team.
// Unknown factions are neutral.
func (t FactionTable) Reaction(factionID uint32, team taxi.Team) taxi.Reaction {
	ft, ok := t[factionID]
	if !ok || !team.Valid() {
		return taxi.ReactionNeutral
	}
	return ft.Default[team]
}

// Reputation: standing игрока с фракциями.
// Переопределения (квесты, GM) поверх значений FactionTable.
type Reputation struct {
	table FactionTable

	mu        sync.RWMutex
	overrides map[uint32]taxi.Reaction
}

// NewReputation creates a reputation backed by table.
func NewReputation(table FactionTable) *Reputation {
	return &Reputation{
		table:     table,
		overrides: make(map[uint32]taxi.Reaction),
	}
}

// SetStanding overrides the reaction of one faction.
func (r *Reputation) SetStanding(factionID uint32, reaction taxi.Reaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[factionID] = reaction
}

// Reaction returns how faction reacts to a player of team.
func (r *Reputation) Reaction(factionID uint32, team taxi.Team) taxi.Reaction {
	r.mu.RLock()
	rc, ok := r.overrides[factionID]
	r.mu.RUnlock()
	if ok {
		return rc
	}
	return r.table.Reaction(factionID, team)
}
