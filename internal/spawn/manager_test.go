package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skyroute/internal/data"
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/world"
)

func newTestManager(t *testing.T) (*Manager, *world.World) {
	t.Helper()
	w := world.New(5)
	return NewManager(w, world.NewObjectIDGenerator()), w
}

func TestManager_DoSpawn(t *testing.T) {
	mgr, w := newTestManager(t)

	def := data.DispatcherDef{Entry: 352, Name: "Dungar Longdrink", MapID: 0, X: -8836.2, Y: 492.1, Z: 109.6, FactionID: 12}
	npc, err := mgr.DoSpawn(def)
	require.NoError(t, err)

	assert.Equal(t, uint32(352), npc.Entry())
	assert.Equal(t, uint32(12), npc.FactionID())
	assert.True(t, npc.HasRole(taxi.RoleFlightMaster))
	assert.False(t, npc.GrantsAllDestinations())
	assert.True(t, world.IsNpcID(npc.ObjectID()))

	got, ok := w.GetNpc(npc.ObjectID())
	require.True(t, ok)
	assert.Same(t, npc, got)
	assert.Equal(t, 1, mgr.SpawnCount())

	_, err = mgr.DoSpawn(def)
	assert.Error(t, err, "duplicate entry")
	assert.Equal(t, 1, mgr.SpawnCount())
}

func TestManager_SpawnAll_Builtin(t *testing.T) {
	td, err := data.LoadTaxiData("", 100)
	require.NoError(t, err)

	mgr, w := newTestManager(t)
	require.NoError(t, mgr.SpawnAll(td.Dispatchers))
	assert.Equal(t, len(td.Dispatchers), mgr.SpawnCount())
	assert.Equal(t, len(td.Dispatchers), w.ObjectCount())

	grimwing, ok := mgr.Get(29480)
	require.True(t, ok)
	assert.True(t, grimwing.GrantsAllDestinations())
}

func TestManager_DespawnNpc(t *testing.T) {
	mgr, w := newTestManager(t)

	npc, err := mgr.DoSpawn(data.DispatcherDef{Entry: 523, Name: "Thor", X: -10628.9, Y: 1035.9, Z: 34.1, FactionID: 12})
	require.NoError(t, err)

	mgr.DespawnNpc(npc)
	_, ok := mgr.Get(523)
	assert.False(t, ok)
	_, ok = w.GetNpc(npc.ObjectID())
	assert.False(t, ok)
	assert.Zero(t, mgr.SpawnCount())

	// second despawn is a no-op
	mgr.DespawnNpc(npc)
	assert.Zero(t, mgr.SpawnCount())

}
