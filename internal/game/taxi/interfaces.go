package taxi

// Player is the player aggregate as seen by the taxi subsystem.
// All calls happen on the player's own handling turn.
type Player interface {
	Name() string
	Point() Point
	Team() Team

	Knowledge() *Knowledge
	Journey() *Journey
	Motion() Movement

	// TaxiOverride is the "knows all destinations" flag.
	TaxiOverride() bool
	SetTaxiOverride(on bool)

	ReactionTo(target Interactable) Reaction
	IsBusy() bool
	IsMounted() bool
	IsHostilePvP() bool

	ClearFeignDeath()
	CleanupAfterFlight()
	SetFallReference(z float32)
	ApplyEffect(effectID uint32)
	TeleportTo(dst Point)
}

// Role is the interaction role an NPC must carry.
type Role uint8

const (
	RoleAny Role = iota
	RoleFlightMaster
)

// Interactable is an NPC a player talks to.
type Interactable interface {
	GUID() uint64
	Point() Point
	FactionID() uint32
	// GrantsAllDestinations marks dispatchers whose menu lists every destination.
	GrantsAllDestinations() bool
}

// Locator resolves an NPC near the player by guid.
type Locator interface {
	// FindInteractable returns the NPC only when it is on the player's map,
	// within interaction reach and carries role.
	FindInteractable(p Player, guid uint64, role Role) (Interactable, bool)
}

// Movement drives the physical flight along a path.
type Movement interface {
	BeginPathFlight(mountVisualID, pathID uint32, startWaypoint int)
	CurrentMovementKind() MovementKind
	CurrentPath() []Point
	CurrentWaypointIndex() int
	AdvanceWaypointPastTeleport()
}

// EventKind names a journey event.
type EventKind string

const (
	EventActivated        EventKind = "activated"
	EventLegStarted       EventKind = "leg_started"
	EventZoneContinuation EventKind = "zone_continuation"
	EventLanded           EventKind = "landed"
	EventTerminated       EventKind = "terminated"
	EventInterrupted      EventKind = "interrupted"
	EventDiscovered       EventKind = "discovered"
)

// Event is one journey transition, reported to an EventSink.
type Event struct {
	Kind        EventKind
	Player      string
	Source      DestinationID
	Destination DestinationID
	PathID      uint32
	MapID       uint32
	Cost        uint32
}

// EventSink receives journey events.
type EventSink interface {
	Record(ev Event)
}

type discardSink struct{}

func (discardSink) Record(Event) {}

// WithOverride runs fn with the override flag forced on when grant is set
// and restores the previous value afterwards.
func WithOverride(p Player, grant bool, fn func()) {
	prev := p.TaxiOverride()
	if grant {
		p.SetTaxiOverride(true)
	}
	defer p.SetTaxiOverride(prev)
	fn()
}
