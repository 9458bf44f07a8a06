package taxi

import "errors"

var (
	// ErrInteractionUnavailable: target not found, out of reach or wrong role.
	// The request is dropped without a reply.
	ErrInteractionUnavailable = errors.New("interaction unavailable")

	// ErrNoDestination: no station near the target. No reply is sent.
	ErrNoDestination = errors.New("no nearby destination")

	// ErrNotEligible: the dispatcher is hostile toward the player.
	ErrNotEligible = errors.New("not eligible")

	// ErrRouteNotVisited: a requested leg endpoint is not known to the player.
	ErrRouteNotVisited = errors.New("route not visited")

	// ErrUnresolvedEdge: two consecutive destinations have no connecting path.
	ErrUnresolvedEdge = errors.New("unresolved edge")

	// ErrRouteTooShort: fewer than two destinations were requested.
	ErrRouteTooShort = errors.New("route too short")
)
