package taxi

import "fmt"

// DestinationID identifies a travel station. Zero means "none".
type DestinationID uint32

// Team is the faction side a player belongs to.
type Team uint8

const (
	TeamAlliance Team = iota
	TeamHorde
	teamCount
)

func (t Team) String() string {
	switch t {
	case TeamAlliance:
		return "alliance"
	case TeamHorde:
		return "horde"
	default:
		return fmt.Sprintf("team(%d)", uint8(t))
	}
}

// Valid reports whether t is a known team.
func (t Team) Valid() bool {
	return t < teamCount
}

// Point is a position on a specific map.
type Point struct {
	MapID uint32
	X     float32
	Y     float32
	Z     float32
}

// DistanceSquared returns the 3D squared distance, ignoring the map.
func (p Point) DistanceSquared(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	dz := float64(p.Z - o.Z)
	return dx*dx + dy*dy + dz*dz
}

// IsZero reports whether the point carries no coordinates.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// Reaction is the disposition of an NPC faction toward a player.
type Reaction int8

const (
	ReactionHated Reaction = iota
	ReactionHostile
	ReactionUnfriendly
	ReactionNeutral
	ReactionFriendly
	ReactionHonored
	ReactionRevered
	ReactionExalted
)

// Eligibility classifies a queried destination relative to a player.
type Eligibility uint8

const (
	NotEligible Eligibility = iota
	Unlearned
	Learned
)

func (e Eligibility) String() string {
	switch e {
	case NotEligible:
		return "not_eligible"
	case Unlearned:
		return "unlearned"
	case Learned:
		return "learned"
	default:
		return fmt.Sprintf("eligibility(%d)", uint8(e))
	}
}

// NodeStatus is the 2-bit status code of a TaxiNodeStatus reply.
type NodeStatus uint8

const (
	StatusNone NodeStatus = iota
	StatusLearned
	StatusUnlearned
	StatusNotEligible
)

// Status maps the eligibility class onto its wire code.
func (e Eligibility) Status() NodeStatus {
	switch e {
	case Learned:
		return StatusLearned
	case Unlearned:
		return StatusUnlearned
	case NotEligible:
		return StatusNotEligible
	default:
		return StatusNone
	}
}

// ActivateResult is the 4-bit reject code of an ActivateTaxiReply.
type ActivateResult uint8

const (
	ActivateOK ActivateResult = iota
	ActivateUnspecifiedServerError
	ActivateNoSuchPath
	ActivateNotEnoughMoney
	ActivateTooFarAway
	ActivateNoVendorNearby
	ActivateNotVisited
	ActivatePlayerBusy
	ActivatePlayerAlreadyMounted
	ActivatePlayerShapeshifted
	ActivatePlayerMoving
	ActivateSameNode
	ActivateNotStanding
)

func (r ActivateResult) String() string {
	switch r {
	case ActivateOK:
		return "ok"
	case ActivateUnspecifiedServerError:
		return "unspecified_server_error"
	case ActivateNoSuchPath:
		return "no_such_path"
	case ActivateNotEnoughMoney:
		return "not_enough_money"
	case ActivateTooFarAway:
		return "too_far_away"
	case ActivateNoVendorNearby:
		return "no_vendor_nearby"
	case ActivateNotVisited:
		return "not_visited"
	case ActivatePlayerBusy:
		return "player_busy"
	case ActivatePlayerAlreadyMounted:
		return "player_already_mounted"
	case ActivatePlayerShapeshifted:
		return "player_shapeshifted"
	case ActivatePlayerMoving:
		return "player_moving"
	case ActivateSameNode:
		return "same_node"
	case ActivateNotStanding:
		return "not_standing"
	default:
		return fmt.Sprintf("activate_result(%d)", uint8(r))
	}
}

// MovementKind is what the movement collaborator is currently driving.
type MovementKind uint8

const (
	MovementIdle MovementKind = iota
	MovementFlight
)
