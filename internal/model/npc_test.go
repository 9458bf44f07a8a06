package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

func TestNpc_GUID(t *testing.T) {
	t.Parallel()

	npc := NewNpc(0x20000005, 352, "Dungar", NewLocation(0, 0, 0, 0, 0), 12, NpcFlagFlightMaster)
	guid := npc.GUID()

	assert.Equal(t, uint16(HighGuidUnit), GUIDHigh(guid))
	assert.Equal(t, uint32(0x20000005), GUIDLow(guid))
	assert.Equal(t, uint64(0xF130_0160_2000_0005), guid)
}

func TestNpc_HasRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags NpcFlags
		role  taxi.Role
		want  bool
	}{
		{"any role", 0, taxi.RoleAny, true},
		{"flight master", NpcFlagFlightMaster | NpcFlagGossip, taxi.RoleFlightMaster, true},
		{"gossip only", NpcFlagGossip, taxi.RoleFlightMaster, false},
		{"unknown role", NpcFlagFlightMaster, taxi.Role(99), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			npc := NewNpc(1, 1, "n", Location{}, 0, tt.flags)
			assert.Equal(t, tt.want, npc.HasRole(tt.role))
		})
	}
}

func TestFactionTable_Reaction(t *testing.T) {
	t.Parallel()

	table := FactionTable{
		29: {ID: 29, Default: [2]taxi.Reaction{taxi.ReactionHostile, taxi.ReactionFriendly}},
	}
	assert.Equal(t, taxi.ReactionHostile, table.Reaction(29, taxi.TeamAlliance))
	assert.Equal(t, taxi.ReactionFriendly, table.Reaction(29, taxi.TeamHorde))
	assert.Equal(t, taxi.ReactionNeutral, table.Reaction(1, taxi.TeamHorde))
	assert.Equal(t, taxi.ReactionNeutral, table.Reaction(29, taxi.Team(5)))
}
