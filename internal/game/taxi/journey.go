package taxi

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the journey state machine position.
type State uint8

const (
	StateIdle State = iota
	StateInFlight
	StateAwaitingZoneContinuation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateAwaitingZoneContinuation:
		return "awaiting_zone_continuation"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Journey is the in-progress multi-leg trip of one player.
// It exists (State != StateIdle) only while the player is in powered flight.
type Journey struct {
	state State

	source      DestinationID   // origin of the current leg
	destination DestinationID   // end of the current leg
	remaining   []DestinationID // legs after the current one, front = next

	// currentLegEndsOutsideOriginZone: the current leg lands on another map
	// and the zone continuation has not run yet.
	crossesZone bool

	pathID    uint32
	mountID   uint32
	totalCost uint32
}

// NewJourney returns an idle journey.
func NewJourney() *Journey {
	return &Journey{}
}

// State returns the current state.
func (j *Journey) State() State {
	return j.state
}

// Active reports whether a trip is in progress.
func (j *Journey) Active() bool {
	return j.state != StateIdle
}

// Source returns the origin of the current leg, 0 when idle.
func (j *Journey) Source() DestinationID {
	return j.source
}

// Destination returns the end of the current leg, 0 when idle.
func (j *Journey) Destination() DestinationID {
	return j.destination
}

// Remaining returns a copy of the destinations after the current leg.
func (j *Journey) Remaining() []DestinationID {
	if len(j.remaining) == 0 {
		return nil
	}
	out := make([]DestinationID, len(j.remaining))
	copy(out, j.remaining)
	return out
}

// CurrentLegEndsOutsideOriginZone reports whether the current leg still owes a zone continuation.
func (j *Journey) CurrentLegEndsOutsideOriginZone() bool {
	return j.crossesZone
}

// PathID returns the path flown by the current leg.
func (j *Journey) PathID() uint32 {
	return j.pathID
}

// MountID returns the mount visual of the current leg.
func (j *Journey) MountID() uint32 {
	return j.mountID
}

// TotalCost returns the summed cost of the activated route.
func (j *Journey) TotalCost() uint32 {
	return j.totalCost
}

// ClearActiveLegs drops the leg queue and source. The knowledge mask is untouched.
func (j *Journey) ClearActiveLegs() {
	*j = Journey{}
}

// start records a validated route: route[0] is the origin, route[1] the first leg's end.
func (j *Journey) start(route []DestinationID, cost uint32) {
	j.source = route[0]
	j.destination = route[1]
	j.remaining = append([]DestinationID(nil), route[2:]...)
	j.totalCost = cost
	j.state = StateInFlight
}

// beginLeg records the path flown for the current leg.
func (j *Journey) beginLeg(pathID, mountID uint32, crossesZone bool) {
	j.pathID = pathID
	j.mountID = mountID
	j.crossesZone = crossesZone
	j.state = StateInFlight
}

// advance pops the next destination. The reached destination becomes the source.
// Returns false when nothing is left to fly.
func (j *Journey) advance() (DestinationID, bool) {
	if len(j.remaining) == 0 {
		return 0, false
	}
	j.source = j.destination
	j.destination = j.remaining[0]
	j.remaining = j.remaining[1:]
	return j.destination, true
}

// Route returns [source, destination, remaining...] or nil when idle.
func (j *Journey) Route() []DestinationID {
	if !j.Active() {
		return nil
	}
	route := make([]DestinationID, 0, 2+len(j.remaining))
	route = append(route, j.source, j.destination)
	return append(route, j.remaining...)
}

// FormatRoute serializes a route as space-separated ids for persistence.
func FormatRoute(route []DestinationID) string {
	parts := make([]string, len(route))
	for i, id := range route {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, " ")
}

// ParseRoute parses a persisted route. An empty string yields an empty route.
func ParseRoute(s string) ([]DestinationID, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	route := make([]DestinationID, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing route node %q: %w", f, err)
		}
		if v == 0 {
			return nil, fmt.Errorf("parsing route: zero node")
		}
		route = append(route, DestinationID(v))
	}
	return route, nil
}
