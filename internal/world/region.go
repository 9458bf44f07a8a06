package world

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/udisondev/skyroute/internal/model"
)

// Region represents a single grid cell of one map (GridSize×GridSize game units)
type Region struct {
	mapID  uint32
	gx, gy int32 // grid coordinates

	objects sync.Map // map[uint32]*model.WorldObject, objectID → object

	surroundingRegions []*Region // 3×3 window (9 regions max, excluding out-of-bounds)

	version atomic.Uint64 // incremented on Add/Remove
}

// NewRegion creates a new region
func NewRegion(mapID uint32, gx, gy int32) *Region {
	return &Region{
		mapID: mapID,
		gx:    gx,
		gy:    gy,
	}
}

// MapID returns the map the region belongs to
func (r *Region) MapID() uint32 {
	return r.mapID
}

// GX returns region X index
func (r *Region) GX() int32 {
	return r.gx
}

// GY returns region Y index
func (r *Region) GY() int32 {
	return r.gy
}

// Version returns current region version (incremented on Add/Remove).
func (r *Region) Version() uint64 {
	return r.version.Load()
}

// AddObject adds object to region (concurrent-safe)
func (r *Region) AddObject(obj *model.WorldObject) {
	r.objects.Store(obj.ObjectID(), obj)
	r.version.Add(1)
}

// RemoveObject removes object from region (concurrent-safe)
func (r *Region) RemoveObject(objectID uint32) {
	r.objects.Delete(objectID)
	r.version.Add(1)
}

// HasObject reports whether objectID is registered in this region
func (r *Region) HasObject(objectID uint32) bool {
	_, ok := r.objects.Load(objectID)
	return ok
}

// ForEachObject iterates over all objects in this region
// If fn returns false, iteration stops
func (r *Region) ForEachObject(fn func(*model.WorldObject) bool) {
	r.objects.Range(func(_, value any) bool {
		return fn(value.(*model.WorldObject))
	})
}

// setSurroundingRegions sets surrounding regions (3×3 window).
// Called ONCE when the map grid is built, immutable after.
func (r *Region) setSurroundingRegions(regions []*Region) {
	r.surroundingRegions = regions
}

// SurroundingRegions returns surrounding regions (ZERO-COPY immutable slice)
// IMPORTANT: returned slice is shared, do not modify.
func (r *Region) SurroundingRegions() []*Region {
	return r.surroundingRegions
}

// IsNeighbour reports whether other lies in this region's 3×3 window
func (r *Region) IsNeighbour(other *Region) bool {
	return slices.Contains(r.surroundingRegions, other)
}
