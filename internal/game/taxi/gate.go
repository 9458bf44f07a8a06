package taxi

import "fmt"

// Gate runs the eligibility checks that precede any taxi state change.
type Gate struct {
	graph   *Graph
	locator Locator
}

// NewGate creates a Gate over the shared graph.
func NewGate(graph *Graph, locator Locator) *Gate {
	return &Gate{graph: graph, locator: locator}
}

// Knows reports whether the player may use id: known in the mask or override active.
// The mask itself is not touched.
func (g *Gate) Knows(p Player, id DestinationID) bool {
	return p.TaxiOverride() || p.Knowledge().IsKnown(id)
}

// Dispatcher resolves a flight master near the player that is willing to serve it.
// A hostile dispatcher is refused before any state change.
func (g *Gate) Dispatcher(p Player, guid uint64) (Interactable, error) {
	npc, ok := g.locator.FindInteractable(p, guid, RoleFlightMaster)
	if !ok {
		return nil, fmt.Errorf("flight master %#x: %w", guid, ErrInteractionUnavailable)
	}
	if p.ReactionTo(npc) < ReactionNeutral {
		return nil, fmt.Errorf("flight master %#x: %w", guid, ErrNotEligible)
	}
	return npc, nil
}

// CurrentNode returns the station served by the NPC for this player's team.
func (g *Gate) CurrentNode(p Player, npc Interactable) (DestinationID, error) {
	node := g.graph.NearestDestination(npc.Point(), p.Team())
	if node == 0 {
		return 0, ErrNoDestination
	}
	return node, nil
}

// Classify evaluates a status query against guid:
//  1. a flight master must be resolvable or ErrInteractionUnavailable;
//  2. hostile NPC → NotEligible;
//  3. no station nearby → ErrNoDestination (no reply);
//  4. Learned or Unlearned by the knowledge mask.
func (g *Gate) Classify(p Player, guid uint64) (Eligibility, Interactable, DestinationID, error) {
	npc, ok := g.locator.FindInteractable(p, guid, RoleFlightMaster)
	if !ok {
		return NotEligible, nil, 0, fmt.Errorf("status target %#x: %w", guid, ErrInteractionUnavailable)
	}
	if p.ReactionTo(npc) < ReactionNeutral {
		return NotEligible, npc, 0, nil
	}
	node, err := g.CurrentNode(p, npc)
	if err != nil {
		return NotEligible, npc, 0, err
	}
	if g.Knows(p, node) {
		return Learned, npc, node, nil
	}
	return Unlearned, npc, node, nil
}

// CheckRoute verifies every requested endpoint is known, unless the player or
// the dispatcher grants override.
func (g *Gate) CheckRoute(p Player, route []DestinationID, dispatcher Interactable) error {
	override := p.TaxiOverride() || (dispatcher != nil && dispatcher.GrantsAllDestinations())
	if override {
		return nil
	}
	for _, id := range route {
		if !p.Knowledge().IsKnown(id) {
			return fmt.Errorf("destination %d: %w", id, ErrRouteNotVisited)
		}
	}
	return nil
}
