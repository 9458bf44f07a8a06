package model

import (
	"sync"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

// WorldObject is the positioned part shared by players and NPCs.
// objectID и name неизменяемы, позиция под mutex.
type WorldObject struct {
	objectID uint32
	name     string

	mu       sync.RWMutex
	location Location
}

// NewWorldObject creates an object placed at loc.
func NewWorldObject(objectID uint32, name string, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		name:     name,
		location: loc,
	}
}

// ObjectID returns the runtime object id.
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Name returns the display name.
func (w *WorldObject) Name() string {
	return w.name
}

// Location returns a copy of the current position.
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation replaces the position, map included.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}

// Point returns the position as a route point.
func (w *WorldObject) Point() taxi.Point {
	return w.Location().Point()
}

// SetPoint moves the object to pt keeping its orientation.
func (w *WorldObject) SetPoint(pt taxi.Point) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = LocationFromPoint(pt, w.location.Orientation)
}
