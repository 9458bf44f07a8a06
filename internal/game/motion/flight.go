// Package motion drives riders along taxi paths.
package motion

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

// DefaultFlightSpeed is the taxi mount speed in game units per second.
const DefaultFlightSpeed = 32

// PathSource resolves path waypoints. *taxi.Graph satisfies it.
type PathSource interface {
	Path(id uint32) (*taxi.Path, bool)
}

// Rider is the entity carried by a flight.
type Rider interface {
	Mount(displayID uint32)
	SetInTaxiFlight(on bool)
	// SetPoint moves the rider without a relocation (same map).
	SetPoint(p taxi.Point)
}

// Flight follows one taxi path at a time. A path is flown in segments:
// a segment ends at the last waypoint before the map changes, or at the
// end of the path. Finish marks the segment done and parks the cursor on
// the first waypoint after it.
//
// Not safe for concurrent use: it is driven from the rider's session only.
type Flight struct {
	paths PathSource
	rider Rider
	speed float64
	now   func() time.Time

	kind     taxi.MovementKind
	pathID   uint32
	mountID  uint32
	path     []taxi.Point
	index    int
	stop     int // segment end, exclusive
	finished bool
	due      time.Time
}

// Option configures a Flight.
type Option func(*Flight)

// WithSpeed sets the flight speed in units per second.
func WithSpeed(speed float64) Option {
	return func(f *Flight) {
		if speed > 0 {
			f.speed = speed
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(f *Flight) { f.now = now }
}

// NewFlight creates an idle flight for rider.
func NewFlight(paths PathSource, rider Rider, opts ...Option) *Flight {
	f := &Flight{
		paths: paths,
		rider: rider,
		speed: DefaultFlightSpeed,
		now:   time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// BeginPathFlight starts flying pathID from waypoint start.
func (f *Flight) BeginPathFlight(mountVisualID, pathID uint32, start int) {
	p, ok := f.paths.Path(pathID)
	if !ok {
		slog.Warn("flight path not found", "path", pathID)
		f.Stop()
		return
	}

	f.path = p.Waypoints
	f.pathID = pathID
	f.mountID = mountVisualID
	f.index = min(max(start, 0), len(f.path))
	f.stop = segmentEnd(f.path, f.index)
	f.finished = false
	f.kind = taxi.MovementFlight
	f.due = f.now().Add(f.segmentDuration())

	f.rider.Mount(mountVisualID)
	f.rider.SetInTaxiFlight(true)
}

// segmentEnd returns the index of the first waypoint on a different map than
// path[from], or len(path).
func segmentEnd(path []taxi.Point, from int) int {
	if from >= len(path) {
		return len(path)
	}
	mapID := path[from].MapID
	for i := from + 1; i < len(path); i++ {
		if path[i].MapID != mapID {
			return i
		}
	}
	return len(path)
}

func (f *Flight) segmentDuration() time.Duration {
	var dist float64
	for i := max(f.index, 1); i < f.stop; i++ {
		if f.path[i].MapID != f.path[i-1].MapID {
			continue
		}
		dist += math.Sqrt(f.path[i].DistanceSquared(f.path[i-1]))
	}
	return time.Duration(dist / f.speed * float64(time.Second))
}

// CurrentMovementKind returns what the rider is doing.
func (f *Flight) CurrentMovementKind() taxi.MovementKind {
	return f.kind
}

// CurrentPath returns the waypoints of the current path.
func (f *Flight) CurrentPath() []taxi.Point {
	return f.path
}

// CurrentWaypointIndex returns the waypoint cursor.
func (f *Flight) CurrentWaypointIndex() int {
	return f.index
}

// AdvanceWaypointPastTeleport skips the waypoint the rider was relocated to.
func (f *Flight) AdvanceWaypointPastTeleport() {
	if f.index < len(f.path) {
		f.index++
	}
}

// PathID returns the path being flown.
func (f *Flight) PathID() uint32 {
	return f.pathID
}

// MountID returns the mount of the current flight.
func (f *Flight) MountID() uint32 {
	return f.mountID
}

// Due reports whether the current segment should be over by now.
func (f *Flight) Due(now time.Time) bool {
	return f.kind == taxi.MovementFlight && !f.finished && !now.Before(f.due)
}

// Finish completes the current segment. It returns false when no segment is
// in progress, so a duplicate completion signal is ignored.
func (f *Flight) Finish() bool {
	if f.kind != taxi.MovementFlight || f.finished {
		return false
	}
	f.finished = true
	if len(f.path) == 0 {
		return true
	}

	last := max(f.stop-1, 0)
	f.rider.SetPoint(f.path[last])
	if f.stop < len(f.path) {
		f.index = f.stop
	} else {
		f.index = len(f.path) - 1
	}
	return true
}

// Stop abandons the flight.
func (f *Flight) Stop() {
	f.kind = taxi.MovementIdle
	f.finished = true
	f.path = nil
	f.index = 0
	f.stop = 0
}
