package taxi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testController(t *testing.T, mutate ...func(*Settings)) (*Controller, *Graph, *recordingSink) {
	t.Helper()
	g := testGraph(t)
	s := DefaultSettings()
	for _, m := range mutate {
		m(&s)
	}
	sink := &recordingSink{}
	return NewController(g, s, sink), g, sink
}

func stationPos(t *testing.T, g *Graph, id DestinationID) Point {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, "node %d", id)
	return n.Position
}

func TestController_MultiLegSameMap(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, stationPos(t, g, 1))
	npc := &fakeNPC{pos: stationPos(t, g, 1)}

	res, err := c.Activate(p, []DestinationID{1, 2, 3}, npc)
	require.NoError(t, err)
	require.Equal(t, ActivateOK, res)

	j := p.Journey()
	assert.Equal(t, StateInFlight, j.State())
	assert.Equal(t, DestinationID(1), j.Source())
	assert.Equal(t, DestinationID(2), j.Destination())
	assert.Equal(t, []DestinationID{3}, j.Remaining())
	assert.Equal(t, uint32(120), j.TotalCost())
	assert.False(t, j.CurrentLegEndsOutsideOriginZone())

	assert.Equal(t, uint32(10), p.motion.pathID)
	assert.Equal(t, uint32(mountAlliance), p.motion.mount)
	assert.Equal(t, 1, p.motion.index, "first waypoint is skipped")
	assert.Equal(t, 1, p.feignCleared)

	out := c.OnPathFlightComplete(p)
	assert.Equal(t, LegOutcome{NextLeg: true}, out)
	assert.Equal(t, StateInFlight, j.State())
	assert.Equal(t, DestinationID(2), j.Source())
	assert.Equal(t, DestinationID(3), j.Destination())
	assert.Empty(t, j.Remaining())
	assert.Equal(t, uint32(11), p.motion.pathID)
	assert.Equal(t, 1, p.motion.index)
	assert.Empty(t, p.teleports, "same-map leg never relocates")

	p.pos = stationPos(t, g, 3)
	out = c.OnPathFlightComplete(p)
	assert.Equal(t, LegOutcome{Landed: true}, out)
	assert.Equal(t, StateIdle, j.State())
	assert.Zero(t, j.Source())
	assert.Equal(t, 1, p.cleanups)
	assert.Equal(t, []float32{30}, p.fallZ)
	assert.Empty(t, p.effects)
	assert.Zero(t, p.knowledge.Count(), "mask untouched without override")

	assert.Equal(t, []EventKind{EventActivated, EventLegStarted, EventLegStarted, EventLanded}, sink.kinds())
}

func TestController_CrossMapLeg(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, stationPos(t, g, 2))

	res, err := c.Activate(p, []DestinationID{2, 4}, &fakeNPC{pos: stationPos(t, g, 2)})
	require.NoError(t, err)
	require.Equal(t, ActivateOK, res)

	j := p.Journey()
	require.True(t, j.CurrentLegEndsOutsideOriginZone())
	assert.Empty(t, j.Remaining())

	// The flight stops at the first waypoint on the new map.
	p.motion.index = 2

	out := c.OnPathFlightComplete(p)
	assert.Equal(t, LegOutcome{Relocated: true}, out)
	assert.Equal(t, StateAwaitingZoneContinuation, j.State())
	assert.Equal(t, DestinationID(4), j.Destination(), "leg is not consumed")
	assert.Empty(t, j.Remaining())
	assert.False(t, j.CurrentLegEndsOutsideOriginZone())
	require.Len(t, p.teleports, 1)
	assert.Equal(t, Point{MapID: 1, X: 60, Y: 40, Z: 60}, p.teleports[0])
	assert.Equal(t, 1, p.motion.advanced)
	assert.Zero(t, p.cleanups)

	// A stray completion while relocating changes nothing.
	assert.Equal(t, LegOutcome{}, c.OnPathFlightComplete(p))
	assert.Equal(t, StateAwaitingZoneContinuation, j.State())

	require.True(t, c.OnRelocated(p))
	assert.Equal(t, StateInFlight, j.State())
	assert.Equal(t, 2, p.motion.begins)
	assert.Equal(t, uint32(12), p.motion.pathID)
	assert.Equal(t, 3, p.motion.index, "resumes after the relocation waypoint")

	out = c.OnPathFlightComplete(p)
	assert.Equal(t, LegOutcome{Landed: true}, out)
	assert.Equal(t, StateIdle, j.State())
	assert.Len(t, p.teleports, 1, "continuation runs once per leg")

	assert.Equal(t, []EventKind{EventActivated, EventLegStarted, EventZoneContinuation, EventLanded}, sink.kinds())
	assert.False(t, c.OnRelocated(p))
}

func TestController_ActivateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		route   []DestinationID
		setup   func(p *fakePlayer)
		noNPC   bool
		want    ActivateResult
		wantErr error
	}{
		{name: "single node", route: []DestinationID{1}, wantErr: ErrRouteTooShort},
		{name: "empty", route: nil, wantErr: ErrRouteTooShort},
		{name: "busy", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.busy = true }, want: ActivatePlayerBusy},
		{name: "mounted", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.mounted = true }, want: ActivatePlayerAlreadyMounted},
		{name: "unknown source", route: []DestinationID{42, 2}, want: ActivateNoSuchPath},
		{name: "too far", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.pos = Point{X: 11, Z: 10} }, want: ActivateTooFarAway},
		{name: "other map", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.pos.MapID = 1 }, want: ActivateTooFarAway},
		{name: "missing edge", route: []DestinationID{1, 3}, want: ActivateNoSuchPath},
		{name: "missing later edge", route: []DestinationID{1, 2, 1}, want: ActivateNoSuchPath},
		{name: "no mount", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.team = Team(9) }, want: ActivateUnspecifiedServerError},
		{name: "within reach", route: []DestinationID{1, 2}, setup: func(p *fakePlayer) { p.pos = Point{X: 9, Z: 10} }, want: ActivateOK},
		{name: "no dispatcher skips reach", route: []DestinationID{1, 2}, noNPC: true, setup: func(p *fakePlayer) { p.pos = Point{X: 500}; p.mounted = true }, want: ActivateOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, g, sink := testController(t)
			p := newFakePlayer(g, stationPos(t, g, 1))
			if tt.setup != nil {
				tt.setup(p)
			}
			var npc Interactable = &fakeNPC{pos: stationPos(t, g, 1)}
			if tt.noNPC {
				npc = nil
			}

			res, err := c.Activate(p, tt.route, npc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, res)
			}

			if tt.want == ActivateOK && tt.wantErr == nil {
				assert.Equal(t, StateInFlight, p.Journey().State())
				return
			}
			assert.Equal(t, StateIdle, p.Journey().State())
			assert.Empty(t, p.Journey().Remaining())
			assert.Zero(t, p.motion.begins)
			assert.Empty(t, sink.events)
		})
	}
}

func TestController_OverrideDiscoversHubs(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, stationPos(t, g, 1))
	p.override = true

	_, err := c.Activate(p, []DestinationID{1, 2, 3}, nil)
	require.NoError(t, err)

	out := c.OnPathFlightComplete(p)
	assert.True(t, out.Discovered)
	assert.True(t, out.NextLeg)
	assert.True(t, p.knowledge.IsKnown(2))
	assert.Equal(t, 1, p.knowledge.Count())

	out = c.OnPathFlightComplete(p)
	assert.True(t, out.Landed)
	assert.False(t, out.Discovered)
	assert.Contains(t, sink.kinds(), EventDiscovered)
}

func TestController_UnresolvedLaterLegTerminates(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, stationPos(t, g, 1))

	_, err := c.Activate(p, []DestinationID{1, 2}, nil)
	require.NoError(t, err)
	// The graph has no 2→5 edge, as if the data changed under the journey.
	p.Journey().remaining = []DestinationID{5}

	out := c.OnPathFlightComplete(p)
	assert.Equal(t, LegOutcome{Landed: true}, out)
	assert.Equal(t, StateIdle, p.Journey().State())
	assert.Equal(t, 1, p.cleanups)
	assert.Len(t, p.fallZ, 1)
	assert.Equal(t, EventTerminated, sink.events[len(sink.events)-1].Kind)
}

func TestController_LandingEffect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pvp    bool
		effect uint32
		want   []uint32
	}{
		{"peaceful", false, DefaultLandingEffectID, nil},
		{"hostile pvp", true, DefaultLandingEffectID, []uint32{DefaultLandingEffectID}},
		{"effect disabled", true, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, g, _ := testController(t, func(s *Settings) { s.LandingEffectID = tt.effect })
			p := newFakePlayer(g, stationPos(t, g, 1))
			p.pvp = tt.pvp

			_, err := c.Activate(p, []DestinationID{1, 2}, nil)
			require.NoError(t, err)
			c.OnPathFlightComplete(p)

			assert.Equal(t, tt.want, p.effects)
		})
	}
}

func TestController_Interrupt(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, stationPos(t, g, 2))

	_, err := c.Activate(p, []DestinationID{2, 4}, nil)
	require.NoError(t, err)
	p.motion.index = 2
	require.True(t, c.OnPathFlightComplete(p).Relocated)

	c.Interrupt(p)
	assert.Equal(t, StateIdle, p.Journey().State())
	assert.Equal(t, 1, p.cleanups)
	assert.Empty(t, p.fallZ, "interrupt is not a landing")
	assert.False(t, c.OnRelocated(p), "nothing to resume after interrupt")
	assert.Len(t, p.teleports, 1)
	assert.Equal(t, EventInterrupted, sink.events[len(sink.events)-1].Kind)

	// Idle interrupt is a no-op.
	c.Interrupt(p)
	assert.Equal(t, 1, p.cleanups)
}

func TestController_InstantFlight(t *testing.T) {
	t.Parallel()

	c, g, _ := testController(t, func(s *Settings) { s.InstantFlight = true })
	p := newFakePlayer(g, stationPos(t, g, 1))

	res, err := c.Activate(p, []DestinationID{1, 2, 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActivateOK, res)
	assert.Equal(t, StateIdle, p.Journey().State())
	assert.Equal(t, []Point{stationPos(t, g, 3)}, p.teleports)
	assert.Zero(t, p.motion.begins)
	assert.Equal(t, 1, p.cleanups)
}

func TestController_Restore(t *testing.T) {
	t.Parallel()

	c, g, _ := testController(t)
	p := newFakePlayer(g, Point{MapID: 0, X: 150, Y: 0, Z: 50})

	require.NoError(t, c.Restore(p, []DestinationID{2, 3, 1}))
	j := p.Journey()
	assert.Equal(t, StateInFlight, j.State())
	assert.Equal(t, DestinationID(3), j.Destination())
	assert.Equal(t, []DestinationID{1}, j.Remaining())
	assert.Equal(t, []Point{stationPos(t, g, 2)}, p.teleports)
	assert.Equal(t, uint32(11), p.motion.pathID)

	p2 := newFakePlayer(g, Point{})
	assert.ErrorIs(t, c.Restore(p2, []DestinationID{1, 3}), ErrUnresolvedEdge)
	assert.ErrorIs(t, c.Restore(p2, []DestinationID{1}), ErrRouteTooShort)
	assert.Equal(t, StateIdle, p2.Journey().State())
}

func TestController_CompletionWhileIdle(t *testing.T) {
	t.Parallel()

	c, g, sink := testController(t)
	p := newFakePlayer(g, Point{})

	assert.Equal(t, LegOutcome{}, c.OnPathFlightComplete(p))
	assert.Zero(t, p.cleanups)
	assert.Empty(t, sink.events)
}
