package taxi

import "testing"

type fakeMotion struct {
	kind     MovementKind
	path     []Point
	index    int
	mount    uint32
	pathID   uint32
	begins   int
	advanced int
	graph    *Graph
}

func (m *fakeMotion) BeginPathFlight(mount, pathID uint32, start int) {
	m.kind = MovementFlight
	m.mount = mount
	m.pathID = pathID
	m.index = start
	m.begins++
	if m.graph != nil {
		if p, ok := m.graph.Path(pathID); ok {
			m.path = p.Waypoints
		}
	}
}

func (m *fakeMotion) CurrentMovementKind() MovementKind { return m.kind }
func (m *fakeMotion) CurrentPath() []Point { return m.path }
func (m *fakeMotion) CurrentWaypointIndex() int { return m.index }
func (m *fakeMotion) AdvanceWaypointPastTeleport() {
	m.advanced++
	m.index++
}

type fakePlayer struct {
	name      string
	pos       Point
	team      Team
	knowledge *Knowledge
	journey   *Journey
	motion    *fakeMotion

	override bool
	reaction Reaction
	busy     bool
	mounted  bool
	pvp      bool

	feignCleared int
	cleanups     int
	fallZ        []float32
	effects      []uint32
	teleports    []Point
}

func newFakePlayer(g *Graph, pos Point) *fakePlayer {
	return &fakePlayer{
		name:      "Pilot",
		pos:       pos,
		team:      TeamAlliance,
		knowledge: NewKnowledge(),
		journey:   NewJourney(),
		motion:    &fakeMotion{graph: g},
		reaction:  ReactionFriendly,
	}
}

func (p *fakePlayer) Name() string { return p.name }
func (p *fakePlayer) Point() Point { return p.pos }
func (p *fakePlayer) Team() Team { return p.team }
func (p *fakePlayer) Knowledge() *Knowledge { return p.knowledge }
func (p *fakePlayer) Journey() *Journey { return p.journey }
func (p *fakePlayer) Motion() Movement { return p.motion }
func (p *fakePlayer) TaxiOverride() bool { return p.override }
func (p *fakePlayer) SetTaxiOverride(on bool) { p.override = on }
func (p *fakePlayer) ReactionTo(Interactable) Reaction { return p.reaction }
func (p *fakePlayer) IsBusy() bool { return p.busy }
func (p *fakePlayer) IsMounted() bool { return p.mounted }
func (p *fakePlayer) IsHostilePvP() bool { return p.pvp }
func (p *fakePlayer) ClearFeignDeath() { p.feignCleared++ }
func (p *fakePlayer) CleanupAfterFlight() { p.cleanups++; p.motion.kind = MovementIdle }
func (p *fakePlayer) SetFallReference(z float32) { p.fallZ = append(p.fallZ, z) }
func (p *fakePlayer) ApplyEffect(id uint32) { p.effects = append(p.effects, id) }
func (p *fakePlayer) TeleportTo(dst Point) { p.teleports = append(p.teleports, dst); p.pos = dst }

type fakeNPC struct {
	guid      uint64
	pos       Point
	faction   uint32
	grantsAll bool
	role      Role
}

func (n *fakeNPC) GUID() uint64 { return n.guid }
func (n *fakeNPC) Point() Point { return n.pos }
func (n *fakeNPC) FactionID() uint32 { return n.faction }
func (n *fakeNPC) GrantsAllDestinations() bool { return n.grantsAll }

type fakeLocator struct {
	npcs map[uint64]*fakeNPC
}

func (l *fakeLocator) FindInteractable(_ Player, guid uint64, role Role) (Interactable, bool) {
	n, ok := l.npcs[guid]
	if !ok {
		return nil, false
	}
	if role != RoleAny && n.role != role {
		return nil, false
	}
	return n, true
}

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Record(ev Event) { s.events = append(s.events, ev) }

func (s *recordingSink) kinds() []EventKind {
	out := make([]EventKind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}

const (
	mountAlliance = 541
	mountHorde    = 295
)

func both(a, h uint32) [teamCount]uint32 { return [teamCount]uint32{a, h} }

// testGraph:
//
//	map 0: 1 (0,0) ─10→ 2 (100,0) ─11→ 3 (200,0) ─13→ 1
//	                     2 ─12→ 4 (map 1)
//	map 0: 5 (300,0) horde only
func testGraph(t *testing.T) *Graph {
	t.Helper()
	nodes := []Node{
		{ID: 1, Name: "Stormwind", Position: Point{MapID: 0, X: 0, Y: 0, Z: 10}, Teams: [teamCount]bool{true, true}, Mounts: both(mountAlliance, mountHorde)},
		{ID: 2, Name: "Lakeshire", Position: Point{MapID: 0, X: 100, Y: 0, Z: 20}, Teams: [teamCount]bool{true, true}, Mounts: both(mountAlliance, mountHorde)},
		{ID: 3, Name: "Sentinel Hill", Position: Point{MapID: 0, X: 200, Y: 0, Z: 30}, Teams: [teamCount]bool{true, true}, Mounts: both(mountAlliance, mountHorde)},
		{ID: 4, Name: "Auberdine", Position: Point{MapID: 1, X: 50, Y: 50, Z: 5}, Teams: [teamCount]bool{true, true}, Mounts: both(mountAlliance, mountHorde)},
		{ID: 5, Name: "Kargath", Position: Point{MapID: 0, X: 300, Y: 0, Z: 0}, Teams: [teamCount]bool{false, true}, Mounts: both(0, mountHorde)},
	}
	paths := []Path{
		{ID: 10, From: 1, To: 2, Cost: 50, Waypoints: []Point{{0, 0, 0, 10}, {0, 50, 0, 40}, {0, 100, 0, 20}}},
		{ID: 11, From: 2, To: 3, Cost: 70, Waypoints: []Point{{0, 100, 0, 20}, {0, 150, 0, 50}, {0, 200, 0, 30}}},
		{ID: 12, From: 2, To: 4, Cost: 300, Waypoints: []Point{{0, 100, 0, 20}, {0, 90, 10, 60}, {1, 60, 40, 60}, {1, 55, 45, 30}, {1, 50, 50, 5}}},
		{ID: 13, From: 3, To: 1, Cost: 90, Mount: 1147, Waypoints: []Point{{0, 200, 0, 30}, {0, 0, 0, 10}}},
	}
	g, err := NewGraph(nodes, paths, 60)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}
