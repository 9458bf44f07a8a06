package taxi

import (
	"fmt"
	"log/slog"
)

// DefaultLandingEffectID is the "just landed" debuff applied to hostile PvP players.
const DefaultLandingEffectID = 2479

// Settings tunes the journey controller.
type Settings struct {
	// InteractionDistance is the talk range; departure must be within twice that of the source node.
	InteractionDistance float32
	LandingEffectID     uint32
	// InstantFlight relocates straight to the last node instead of flying.
	InstantFlight bool
}

// DefaultSettings returns the stock controller settings.
func DefaultSettings() Settings {
	return Settings{
		InteractionDistance: 5,
		LandingEffectID:     DefaultLandingEffectID,
	}
}

// LegOutcome describes what a leg-completion signal did.
type LegOutcome struct {
	// Discovered: an intermediate hub was added to the mask (override mode).
	Discovered bool
	// Relocated: a cross-map relocation was issued, the leg is still in progress.
	Relocated bool
	// NextLeg: the next leg started.
	NextLeg bool
	// Landed: the journey ended and the player is idle.
	Landed bool
}

// Controller drives per-player journeys. It keeps no per-player state itself:
// the Journey lives on the player and every call runs on that player's turn.
type Controller struct {
	graph    *Graph
	settings Settings
	sink     EventSink
}

// NewController creates a journey controller. sink may be nil.
func NewController(graph *Graph, settings Settings, sink EventSink) *Controller {
	if sink == nil {
		sink = discardSink{}
	}
	return &Controller{graph: graph, settings: settings, sink: sink}
}

// Graph returns the travel graph the controller flies on.
func (c *Controller) Graph() *Graph {
	return c.graph
}

func (c *Controller) mountFor(e Edge, team Team) uint32 {
	if e.MountVisualID != 0 {
		return e.MountVisualID
	}
	return c.graph.MountVisualFor(e.Origin, team)
}

func (c *Controller) crossesZone(p Player, dest DestinationID) bool {
	n, ok := c.graph.Node(dest)
	return ok && n.Position.MapID != p.Point().MapID
}

// Activate validates route (origin first) and starts the first leg.
// A non-OK result is a reject code for the client. ErrRouteTooShort means
// "ignore without reply". On any failure the journey stays idle.
// Knowledge checks are the Gate's job and must have passed already.
func (c *Controller) Activate(p Player, route []DestinationID, dispatcher Interactable) (ActivateResult, error) {
	if len(route) < 2 {
		return ActivateOK, ErrRouteTooShort
	}
	if p.IsBusy() {
		return ActivatePlayerBusy, nil
	}
	if dispatcher != nil && p.IsMounted() {
		return ActivatePlayerAlreadyMounted, nil
	}

	source, ok := c.graph.Node(route[0])
	if !ok {
		return ActivateNoSuchPath, nil
	}
	if dispatcher != nil && !source.Position.IsZero() {
		reach := float64(2 * c.settings.InteractionDistance)
		pos := p.Point()
		if source.Position.MapID != pos.MapID || source.Position.DistanceSquared(pos) > reach*reach {
			return ActivateTooFarAway, nil
		}
	}

	var (
		first Edge
		total uint32
	)
	for i := 1; i < len(route); i++ {
		e, ok := c.graph.LookupEdge(route[i-1], route[i])
		if !ok {
			slog.Debug("taxi route has unresolved leg",
				"character", p.Name(),
				"from", route[i-1],
				"to", route[i])
			return ActivateNoSuchPath, nil
		}
		if i == 1 {
			first = e
		}
		total += e.Cost
	}

	mount := c.mountFor(first, p.Team())
	if mount == 0 || first.PathID == 0 {
		return ActivateUnspecifiedServerError, nil
	}

	j := p.Journey()
	j.ClearActiveLegs()
	j.start(route, total)

	c.sink.Record(Event{
		Kind:        EventActivated,
		Player:      p.Name(),
		Source:      route[0],
		Destination: route[len(route)-1],
		PathID:      first.PathID,
		MapID:       p.Point().MapID,
		Cost:        total,
	})

	if c.settings.InstantFlight {
		last, _ := c.graph.Node(route[len(route)-1])
		j.ClearActiveLegs()
		p.TeleportTo(last.Position)
		c.land(p)
		return ActivateOK, nil
	}

	c.beginLeg(p, first, mount)
	return ActivateOK, nil
}

// Restore resumes a persisted route after login. The player is placed at the
// source node of the saved leg and the leg is flown again from its start.
func (c *Controller) Restore(p Player, route []DestinationID) error {
	if len(route) < 2 {
		return ErrRouteTooShort
	}
	var first Edge
	for i := 1; i < len(route); i++ {
		e, ok := c.graph.LookupEdge(route[i-1], route[i])
		if !ok {
			return fmt.Errorf("restoring leg %d→%d: %w", route[i-1], route[i], ErrUnresolvedEdge)
		}
		if i == 1 {
			first = e
		}
	}
	mount := c.mountFor(first, p.Team())
	if mount == 0 {
		return fmt.Errorf("restoring route from %d: no mount for %s", route[0], p.Team())
	}
	source, _ := c.graph.Node(route[0])

	j := p.Journey()
	j.ClearActiveLegs()
	j.start(route, 0)
	p.TeleportTo(source.Position)
	c.beginLeg(p, first, mount)
	return nil
}

func (c *Controller) beginLeg(p Player, e Edge, mount uint32) {
	p.ClearFeignDeath()
	p.Journey().beginLeg(e.PathID, mount, c.crossesZone(p, e.Destination))
	p.Motion().BeginPathFlight(mount, e.PathID, 1)

	c.sink.Record(Event{
		Kind:        EventLegStarted,
		Player:      p.Name(),
		Source:      e.Origin,
		Destination: e.Destination,
		PathID:      e.PathID,
		MapID:       p.Point().MapID,
	})
}

// OnPathFlightComplete handles the movement collaborator's end-of-path signal.
// Signals for one player must be delivered one at a time.
func (c *Controller) OnPathFlightComplete(p Player) LegOutcome {
	j := p.Journey()
	switch j.State() {
	case StateIdle:
		return LegOutcome{}
	case StateAwaitingZoneContinuation:
		slog.Debug("path complete while awaiting zone continuation, ignored",
			"character", p.Name(),
			"destination", j.Destination())
		return LegOutcome{}
	}

	if j.CurrentLegEndsOutsideOriginZone() && c.crossesZone(p, j.Destination()) {
		return c.continueAcrossZone(p)
	}

	next, ok := j.advance()
	if !ok {
		c.sink.Record(Event{
			Kind:        EventLanded,
			Player:      p.Name(),
			Destination: j.Destination(),
			MapID:       p.Point().MapID,
		})
		j.ClearActiveLegs()
		c.land(p)
		return LegOutcome{Landed: true}
	}

	var out LegOutcome
	source := j.Source()
	// Keep a way back for players who drop override mid-route.
	if p.TaxiOverride() && p.Knowledge().MarkKnown(source) {
		out.Discovered = true
		c.sink.Record(Event{Kind: EventDiscovered, Player: p.Name(), Source: source, MapID: p.Point().MapID})
	}

	e, found := c.graph.LookupEdge(source, next)
	mount := uint32(0)
	if found {
		mount = c.mountFor(e, p.Team())
	}
	if !found || mount == 0 {
		slog.Debug("taxi leg unresolved, journey terminated",
			"character", p.Name(),
			"from", source,
			"to", next)
		c.sink.Record(Event{Kind: EventTerminated, Player: p.Name(), Source: source, Destination: next, MapID: p.Point().MapID})
		j.ClearActiveLegs()
		c.land(p)
		out.Landed = true
		return out
	}

	c.beginLeg(p, e, mount)
	out.NextLeg = true
	return out
}

// continueAcrossZone relocates the player to the first waypoint of the path
// on the destination map. The leg stays current until OnRelocated resumes it.
func (c *Controller) continueAcrossZone(p Player) LegOutcome {
	j := p.Journey()
	m := p.Motion()
	if m.CurrentMovementKind() != MovementFlight {
		return LegOutcome{}
	}
	path := m.CurrentPath()
	idx := m.CurrentWaypointIndex()
	if idx < 0 || idx >= len(path) {
		slog.Warn("zone continuation waypoint out of range",
			"character", p.Name(),
			"index", idx,
			"waypoints", len(path))
		j.ClearActiveLegs()
		c.land(p)
		return LegOutcome{Landed: true}
	}
	wp := path[idx]
	m.AdvanceWaypointPastTeleport()

	dest, _ := c.graph.Node(j.Destination())
	wp.MapID = dest.Position.MapID

	j.crossesZone = false
	j.state = StateAwaitingZoneContinuation
	p.TeleportTo(wp)

	c.sink.Record(Event{
		Kind:        EventZoneContinuation,
		Player:      p.Name(),
		Source:      j.Source(),
		Destination: j.Destination(),
		PathID:      j.PathID(),
		MapID:       wp.MapID,
	})
	return LegOutcome{Relocated: true}
}

// OnRelocated resumes a leg after the cross-map relocation finished.
// Returns false when no continuation was pending.
func (c *Controller) OnRelocated(p Player) bool {
	j := p.Journey()
	if j.State() != StateAwaitingZoneContinuation {
		return false
	}
	j.state = StateInFlight
	m := p.Motion()
	m.BeginPathFlight(j.MountID(), j.PathID(), m.CurrentWaypointIndex())
	return true
}

// Interrupt ends the journey unconditionally (disconnect, forced dismount).
// Zone continuation is never attempted from here.
func (c *Controller) Interrupt(p Player) {
	j := p.Journey()
	if !j.Active() {
		return
	}
	c.sink.Record(Event{
		Kind:        EventInterrupted,
		Player:      p.Name(),
		Source:      j.Source(),
		Destination: j.Destination(),
		MapID:       p.Point().MapID,
	})
	j.ClearActiveLegs()
	p.CleanupAfterFlight()
}

func (c *Controller) land(p Player) {
	p.CleanupAfterFlight()
	p.SetFallReference(p.Point().Z)
	if p.IsHostilePvP() && c.settings.LandingEffectID != 0 {
		p.ApplyEffect(c.settings.LandingEffectID)
	}
}
