package spawn

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/skyroute/internal/data"
	"github.com/udisondev/skyroute/internal/model"
	"github.com/udisondev/skyroute/internal/world"
)

// Manager spawns flight masters from static data and keeps them by entry.
type Manager struct {
	spawned sync.Map // map[uint32]*model.Npc, entry → npc
	world   *world.World
	ids     *world.ObjectIDGenerator

	spawnCount atomic.Int32 // cached count (O(1) access)
}

// NewManager creates new spawn manager
func NewManager(w *world.World, ids *world.ObjectIDGenerator) *Manager {
	return &Manager{
		world: w,
		ids:   ids,
	}
}

// DoSpawn spawns one dispatcher.
// Returns spawned NPC or error
func (m *Manager) DoSpawn(def data.DispatcherDef) (*model.Npc, error) {
	if _, ok := m.spawned.Load(def.Entry); ok {
		return nil, fmt.Errorf("dispatcher %d already spawned", def.Entry)
	}

	objectID := m.ids.NextNpcID()
	loc := model.NewLocation(def.MapID, def.X, def.Y, def.Z, 0)
	npc := model.NewNpc(objectID, def.Entry, def.Name, loc, def.FactionID, model.NpcFlagFlightMaster)
	npc.SetGrantsAllDestinations(def.GrantsAllDestinations)

	if err := m.world.AddNpc(npc); err != nil {
		return nil, fmt.Errorf("adding dispatcher %d to world: %w", def.Entry, err)
	}
	m.spawned.Store(def.Entry, npc)
	m.spawnCount.Add(1)

	slog.Debug("NPC spawned",
		"objectID", objectID,
		"name", npc.Name(),
		"entry", def.Entry,
		"location", loc)

	return npc, nil
}

// DespawnNpc removes NPC from world.
func (m *Manager) DespawnNpc(npc *model.Npc) {
	if _, ok := m.spawned.LoadAndDelete(npc.Entry()); !ok {
		slog.Warn("despawning unknown NPC", "objectID", npc.ObjectID())
		return
	}
	m.world.RemoveObject(npc.ObjectID())
	m.spawnCount.Add(-1)

	slog.Debug("NPC despawned",
		"objectID", npc.ObjectID(),
		"name", npc.Name())
}

// Get returns the spawned dispatcher by entry.
func (m *Manager) Get(entry uint32) (*model.Npc, bool) {
	value, ok := m.spawned.Load(entry)
	if !ok {
		return nil, false
	}
	return value.(*model.Npc), true
}

// SpawnCount returns number of spawned NPCs (O(1) cached count)
func (m *Manager) SpawnCount() int {
	return int(m.spawnCount.Load())
}

// SpawnAll spawns every dispatcher. Failed entries are logged and skipped;
// the first error is returned after the pass.
func (m *Manager) SpawnAll(defs []data.DispatcherDef) error {
	count := 0
	var firstErr error

	for _, def := range defs {
		if _, err := m.DoSpawn(def); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("failed to spawn NPC",
				"entry", def.Entry,
				"error", err)
			continue
		}
		count++
	}

	if firstErr != nil {
		slog.Warn("SpawnAll completed with errors", "spawned", count, "error", firstErr)
		return fmt.Errorf("spawning dispatchers: %w", firstErr)
	}

	slog.Info("all NPCs spawned", "count", count)
	return nil
}
