package world

import (
	"fmt"
	"sync"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/model"
)

// World is the spatial registry of players and NPCs.
// Each map gets its own region grid, allocated on first use.
type World struct {
	reach float32 // interaction distance for FindInteractable

	mu   sync.Mutex
	maps map[uint32]*mapGrid

	objects sync.Map // map[uint32]*model.WorldObject, objectID → object
	npcs    sync.Map // map[uint32]*model.Npc
	players sync.Map // map[uint32]*model.Player
}

type mapGrid struct {
	regions [GridsPerMap][GridsPerMap]*Region
}

// New creates an empty world. reach is the interaction distance.
func New(reach float32) *World {
	return &World{
		reach: reach,
		maps:  make(map[uint32]*mapGrid),
	}
}

// newMapGrid creates the region grid and sets up surrounding regions
func newMapGrid(mapID uint32) *mapGrid {
	g := &mapGrid{}
	for gx := range int32(GridsPerMap) {
		for gy := range int32(GridsPerMap) {
			g.regions[gx][gy] = NewRegion(mapID, gx, gy)
		}
	}

	// Set surrounding regions for each region (3×3 window)
	for gx := range int32(GridsPerMap) {
		for gy := range int32(GridsPerMap) {
			surrounding := make([]*Region, 0, 9)
			for dx := int32(-1); dx <= 1; dx++ {
				for dy := int32(-1); dy <= 1; dy++ {
					if nx, ny := gx+dx, gy+dy; IsValidGridIndex(nx, ny) {
						surrounding = append(surrounding, g.regions[nx][ny])
					}
				}
			}
			g.regions[gx][gy].setSurroundingRegions(surrounding)
		}
	}
	return g
}

func (w *World) grid(mapID uint32) *mapGrid {
	w.mu.Lock()
	defer w.mu.Unlock()
	g, ok := w.maps[mapID]
	if !ok {
		g = newMapGrid(mapID)
		w.maps[mapID] = g
	}
	return g
}

// GetRegion returns region at map coordinates.
// Returns nil if coordinates are out of bounds
func (w *World) GetRegion(p taxi.Point) *Region {
	gx, gy := CoordToGridIndex(p.X, p.Y)
	if !IsValidGridIndex(gx, gy) {
		return nil
	}
	return w.grid(p.MapID).regions[gx][gy]
}

// MapCount returns the number of maps with an allocated grid
func (w *World) MapCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.maps)
}

// addObject adds object to world and its region
func (w *World) addObject(obj *model.WorldObject) error {
	loc := obj.Location()
	region := w.GetRegion(loc.Point())
	if region == nil {
		return fmt.Errorf("invalid coordinates for object %d: map %d (%.1f, %.1f)", obj.ObjectID(), loc.MapID, loc.X, loc.Y)
	}
	w.objects.Store(obj.ObjectID(), obj)
	region.AddObject(obj)
	return nil
}

// AddNpc adds NPC to world and registers it for guid lookups.
func (w *World) AddNpc(npc *model.Npc) error {
	if err := w.addObject(npc.WorldObject); err != nil {
		return fmt.Errorf("adding npc to world: %w", err)
	}
	w.npcs.Store(npc.ObjectID(), npc)
	return nil
}

// AddPlayer adds player to world.
func (w *World) AddPlayer(p *model.Player) error {
	if err := w.addObject(p.WorldObject); err != nil {
		return fmt.Errorf("adding player to world: %w", err)
	}
	w.players.Store(p.ObjectID(), p)
	return nil
}

// RemoveObject removes object from world and its region
func (w *World) RemoveObject(objectID uint32) {
	value, ok := w.objects.LoadAndDelete(objectID)
	if !ok {
		return
	}
	obj := value.(*model.WorldObject)
	if region := w.GetRegion(obj.Location().Point()); region != nil {
		region.RemoveObject(objectID)
	}
	switch {
	case IsNpcID(objectID):
		w.npcs.Delete(objectID)
	case IsPlayerID(objectID):
		w.players.Delete(objectID)
	}
}

// Relocate moves an object between regions after its location changed.
// from is the location before the move.
func (w *World) Relocate(obj *model.WorldObject, from model.Location) {
	if _, ok := w.objects.Load(obj.ObjectID()); !ok {
		return
	}
	oldRegion := w.GetRegion(from.Point())
	newRegion := w.GetRegion(obj.Location().Point())
	if oldRegion == newRegion {
		return
	}
	if oldRegion != nil {
		oldRegion.RemoveObject(obj.ObjectID())
	}
	if newRegion != nil {
		newRegion.AddObject(obj)
	}
}

// GetNpc returns NPC by ObjectID.
func (w *World) GetNpc(objectID uint32) (*model.Npc, bool) {
	value, ok := w.npcs.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Npc), true
}

// GetPlayer returns player by ObjectID.
func (w *World) GetPlayer(objectID uint32) (*model.Player, bool) {
	value, ok := w.players.Load(objectID)
	if !ok {
		return nil, false
	}
	return value.(*model.Player), true
}

// ObjectCount returns total number of objects in world. O(N), не для горячего пути.
func (w *World) ObjectCount() int {
	count := 0
	w.objects.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// FindInteractable resolves an NPC by guid for p. The NPC must be on the
// player's map, inside the player's 3×3 region window, within reach and
// able to serve role.
func (w *World) FindInteractable(p taxi.Player, guid uint64, role taxi.Role) (taxi.Interactable, bool) {
	npc, ok := w.GetNpc(model.GUIDLow(guid))
	if !ok || npc.GUID() != guid || !npc.HasRole(role) {
		return nil, false
	}

	pp := p.Point()
	np := npc.Point()
	if pp.MapID != np.MapID {
		return nil, false
	}

	playerRegion := w.GetRegion(pp)
	npcRegion := w.GetRegion(np)
	if playerRegion == nil || npcRegion == nil || !playerRegion.IsNeighbour(npcRegion) {
		return nil, false
	}

	reach := float64(w.reach)
	if np.DistanceSquared(pp) > reach*reach {
		return nil, false
	}
	return npc, true
}
