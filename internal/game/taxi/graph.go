package taxi

import (
	"fmt"
	"slices"
)

// Node is a travel station.
type Node struct {
	ID       DestinationID
	Name     string
	Position Point
	// Teams lists which sides may use the station.
	Teams [teamCount]bool
	// Mounts holds the mount visual per team, zero when undefined.
	Mounts [teamCount]uint32
}

// Path is a flyable connection between two stations.
type Path struct {
	ID        uint32
	From      DestinationID
	To        DestinationID
	Cost      uint32
	Mount     uint32 // optional per-path mount visual override
	Waypoints []Point
}

// Edge is the (origin, destination) → path record handed to the journey controller.
type Edge struct {
	Origin        DestinationID
	Destination   DestinationID
	PathID        uint32
	MountVisualID uint32
	Cost          uint32
}

type edgeKey struct {
	from, to DestinationID
}

// Graph is the static travel graph. Built once at startup, read-only after:
// every session reads it concurrently without locking.
type Graph struct {
	nodes  map[DestinationID]*Node
	order  []DestinationID // sorted, for deterministic nearest-node ties
	paths  map[uint32]*Path
	edges  map[edgeKey]Edge
	radius float64 // nearest-node search radius, <= 0 means unbounded
}

// NewGraph indexes nodes and paths. radius bounds NearestDestination, <= 0 disables it.
func NewGraph(nodes []Node, paths []Path, radius float64) (*Graph, error) {
	g := &Graph{
		nodes:  make(map[DestinationID]*Node, len(nodes)),
		order:  make([]DestinationID, 0, len(nodes)),
		paths:  make(map[uint32]*Path, len(paths)),
		edges:  make(map[edgeKey]Edge, len(paths)),
		radius: radius,
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == 0 || n.ID > MaxDestinationID {
			return nil, fmt.Errorf("node %q: id %d out of range [1, %d]", n.Name, n.ID, MaxDestinationID)
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("node %d: duplicate id", n.ID)
		}
		g.nodes[n.ID] = &n
		g.order = append(g.order, n.ID)
	}
	slices.Sort(g.order)

	for i := range paths {
		p := paths[i]
		if p.ID == 0 {
			return nil, fmt.Errorf("path %d→%d: zero id", p.From, p.To)
		}
		if _, dup := g.paths[p.ID]; dup {
			return nil, fmt.Errorf("path %d: duplicate id", p.ID)
		}
		if _, ok := g.nodes[p.From]; !ok {
			return nil, fmt.Errorf("path %d: unknown origin node %d", p.ID, p.From)
		}
		if _, ok := g.nodes[p.To]; !ok {
			return nil, fmt.Errorf("path %d: unknown destination node %d", p.ID, p.To)
		}
		key := edgeKey{p.From, p.To}
		if _, dup := g.edges[key]; dup {
			return nil, fmt.Errorf("path %d: second path for %d→%d", p.ID, p.From, p.To)
		}
		g.paths[p.ID] = &p
		g.edges[key] = Edge{
			Origin:        p.From,
			Destination:   p.To,
			PathID:        p.ID,
			MountVisualID: p.Mount,
			Cost:          p.Cost,
		}
	}

	return g, nil
}

// NodeCount returns the number of stations.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// PathCount returns the number of paths.
func (g *Graph) PathCount() int {
	return len(g.paths)
}

// Node returns the station by id.
func (g *Graph) Node(id DestinationID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Path returns the path by id.
func (g *Graph) Path(id uint32) (*Path, bool) {
	p, ok := g.paths[id]
	return p, ok
}

// NearestDestination returns the closest station on pos's map usable by team,
// or 0 when the map has none within the search radius.
func (g *Graph) NearestDestination(pos Point, team Team) DestinationID {
	if !team.Valid() {
		return 0
	}
	var (
		best     DestinationID
		bestDist float64
	)
	limit := g.radius * g.radius
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Position.MapID != pos.MapID || !n.Teams[team] || n.Mounts[team] == 0 {
			continue
		}
		d := n.Position.DistanceSquared(pos)
		if g.radius > 0 && d > limit {
			continue
		}
		if best == 0 || d < bestDist {
			best = id
			bestDist = d
		}
	}
	return best
}

// LookupEdge returns the direct path from origin to destination.
// A missing edge is a normal outcome, not an error.
func (g *Graph) LookupEdge(origin, destination DestinationID) (Edge, bool) {
	e, ok := g.edges[edgeKey{origin, destination}]
	return e, ok
}

// MountVisualFor returns the mount visual used when departing from origin, zero if undefined.
func (g *Graph) MountVisualFor(origin DestinationID, team Team) uint32 {
	n, ok := g.nodes[origin]
	if !ok || !team.Valid() {
		return 0
	}
	return n.Mounts[team]
}
