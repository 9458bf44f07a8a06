package taxi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	guidMaster  = 0x0000_0100_0000_0042
	guidVendor  = 0x0000_0100_0000_0043
	guidNowhere = 0x0000_0100_0000_0044
)

func testGate(t *testing.T) (*Gate, *Graph) {
	t.Helper()
	g := testGraph(t)
	loc := &fakeLocator{npcs: map[uint64]*fakeNPC{
		guidMaster:  {guid: guidMaster, pos: Point{MapID: 0, X: 2, Y: 2, Z: 10}, role: RoleFlightMaster},
		guidVendor:  {guid: guidVendor, pos: Point{MapID: 0, X: 98, Y: 0, Z: 20}, role: RoleAny},
		guidNowhere: {guid: guidNowhere, pos: Point{MapID: 0, X: 0, Y: 900, Z: 0}, role: RoleFlightMaster},
	}}
	return NewGate(g, loc), g
}

func TestGate_Classify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		guid     uint64
		setup    func(p *fakePlayer)
		want     Eligibility
		wantNode DestinationID
		wantErr  error
	}{
		{name: "unknown target", guid: 0xDEAD, wantErr: ErrInteractionUnavailable},
		{name: "hostile", guid: guidMaster, setup: func(p *fakePlayer) { p.reaction = ReactionHostile }, want: NotEligible},
		{name: "neutral is eligible", guid: guidMaster, setup: func(p *fakePlayer) { p.reaction = ReactionNeutral }, want: Unlearned, wantNode: 1},
		{name: "unlearned", guid: guidMaster, want: Unlearned, wantNode: 1},
		{name: "learned", guid: guidMaster, setup: func(p *fakePlayer) { p.knowledge.MarkKnown(1) }, want: Learned, wantNode: 1},
		{name: "override counts as learned", guid: guidMaster, setup: func(p *fakePlayer) { p.override = true }, want: Learned, wantNode: 1},
		{name: "not a flight master", guid: guidVendor, wantErr: ErrInteractionUnavailable},
		{name: "hostile non flight master gets no reply", guid: guidVendor, setup: func(p *fakePlayer) { p.reaction = ReactionHostile }, wantErr: ErrInteractionUnavailable},
		{name: "no station nearby", guid: guidNowhere, wantErr: ErrNoDestination},
		{name: "hostile short-circuits missing station", guid: guidNowhere, setup: func(p *fakePlayer) { p.reaction = ReactionHated }, want: NotEligible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gate, g := testGate(t)
			p := newFakePlayer(g, Point{})
			if tt.setup != nil {
				tt.setup(p)
			}
			before := p.knowledge.Bytes()

			got, _, node, err := gate.Classify(p, tt.guid)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNode, node)
			assert.Equal(t, before, p.knowledge.Bytes(), "classification must not touch the mask")
		})
	}
}

func TestGate_DispatcherRequiresRole(t *testing.T) {
	t.Parallel()

	gate, g := testGate(t)
	p := newFakePlayer(g, Point{})

	npc, err := gate.Dispatcher(p, guidMaster)
	require.NoError(t, err)
	assert.Equal(t, uint64(guidMaster), npc.GUID())

	_, err = gate.Dispatcher(p, guidVendor)
	assert.ErrorIs(t, err, ErrInteractionUnavailable)
}

func TestGate_DispatcherReaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		reaction Reaction
		wantErr  error
	}{
		{"hated", ReactionHated, ErrNotEligible},
		{"hostile", ReactionHostile, ErrNotEligible},
		{"neutral", ReactionNeutral, nil},
		{"friendly", ReactionFriendly, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gate, g := testGate(t)
			p := newFakePlayer(g, Point{})
			p.reaction = tt.reaction

			npc, err := gate.Dispatcher(p, guidMaster)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, npc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(guidMaster), npc.GUID())
		})
	}
}

func TestGate_OverrideLeavesMaskUntouched(t *testing.T) {
	t.Parallel()

	gate, g := testGate(t)
	p := newFakePlayer(g, Point{})
	p.override = true

	for id := DestinationID(1); id <= 5; id++ {
		assert.True(t, gate.Knows(p, id))
	}
	assert.Zero(t, p.knowledge.Count())

	p.override = false
	assert.False(t, gate.Knows(p, 1))
}

func TestGate_CheckRoute(t *testing.T) {
	t.Parallel()

	gate, g := testGate(t)

	t.Run("unknown endpoint", func(t *testing.T) {
		p := newFakePlayer(g, Point{})
		p.knowledge.MarkKnown(1)
		err := gate.CheckRoute(p, []DestinationID{1, 2}, nil)
		assert.ErrorIs(t, err, ErrRouteNotVisited)
	})

	t.Run("all known", func(t *testing.T) {
		p := newFakePlayer(g, Point{})
		p.knowledge.MarkKnown(1)
		p.knowledge.MarkKnown(2)
		assert.NoError(t, gate.CheckRoute(p, []DestinationID{1, 2}, nil))
	})

	t.Run("player override", func(t *testing.T) {
		p := newFakePlayer(g, Point{})
		p.override = true
		assert.NoError(t, gate.CheckRoute(p, []DestinationID{1, 2, 3}, nil))
	})

	t.Run("dispatcher grants all", func(t *testing.T) {
		p := newFakePlayer(g, Point{})
		npc := &fakeNPC{grantsAll: true}
		assert.NoError(t, gate.CheckRoute(p, []DestinationID{1, 2, 3}, npc))
		assert.False(t, p.override)
	})
}

func TestWithOverride(t *testing.T) {
	t.Parallel()

	_, g := testGate(t)
	p := newFakePlayer(g, Point{})

	var inside bool
	WithOverride(p, true, func() { inside = p.TaxiOverride() })
	assert.True(t, inside)
	assert.False(t, p.TaxiOverride(), "restored after scope")

	p.override = true
	WithOverride(p, false, func() { inside = p.TaxiOverride() })
	assert.True(t, inside, "existing override stays visible")
	assert.True(t, p.TaxiOverride())

	p.override = false
	func() {
		defer func() { _ = recover() }()
		WithOverride(p, true, func() { panic("boom") })
	}()
	assert.False(t, p.TaxiOverride(), "restored on panic")
}
