package model

import "github.com/udisondev/skyroute/internal/game/taxi"

// Location представляет координаты в игровом мире.
// Value type, передаётся по значению (immutable).
type Location struct {
	MapID       uint32
	X           float32
	Y           float32
	Z           float32
	Orientation float32
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(mapID uint32, x, y, z, orientation float32) Location {
	return Location{MapID: mapID, X: x, Y: y, Z: z, Orientation: orientation}
}

// LocationFromPoint строит Location из точки маршрута.
func LocationFromPoint(p taxi.Point, orientation float32) Location {
	return Location{MapID: p.MapID, X: p.X, Y: p.Y, Z: p.Z, Orientation: orientation}
}

// WithOrientation возвращает новый Location с обновлённым направлением (immutable pattern).
func (l Location) WithOrientation(o float32) Location {
	l.Orientation = o
	return l
}

// WithCoordinates возвращает новый Location с обновлёнными координатами (immutable pattern).
func (l Location) WithCoordinates(x, y, z float32) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// Point returns the map-qualified position without orientation.
func (l Location) Point() taxi.Point {
	return taxi.Point{MapID: l.MapID, X: l.X, Y: l.Y, Z: l.Z}
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
// Карта не учитывается, сравнение MapID на стороне вызывающего.
func (l Location) DistanceSquared(other Location) float64 {
	return l.Point().DistanceSquared(other.Point())
}
