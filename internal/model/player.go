package model

import (
	"slices"
	"sync"

	"github.com/udisondev/skyroute/internal/game/taxi"
)

var _ taxi.Player = (*Player)(nil)

// Player: игровой персонаж.
// Владеет маской известных точек полёта и текущим маршрутом (1:1).
// Всё, что трогает taxi, вызывается только из сессии игрока.
type Player struct {
	*WorldObject

	characterID int64
	team        taxi.Team
	reputation  *Reputation

	knowledge *taxi.Knowledge
	journey   *taxi.Journey

	playerMu sync.RWMutex // отдельный mutex для player data

	motion       taxi.Movement
	taxiOverride bool
	benchmark    bool

	inCombat   bool
	loggingOut bool
	mountID    uint32 // display id, 0 = пеший
	inFlight   bool
	pvpFlagged bool
	feignDeath bool
	fallZ      float32
	effects    []uint32

	onTeleport func(from Location, dst taxi.Point)
}

// NewPlayer creates a player aggregate. knowledge may be nil for a fresh character.
func NewPlayer(objectID uint32, characterID int64, name string, team taxi.Team, loc Location, rep *Reputation, knowledge *taxi.Knowledge) *Player {
	if knowledge == nil {
		knowledge = taxi.NewKnowledge()
	}
	return &Player{
		WorldObject: NewWorldObject(objectID, name, loc),
		characterID: characterID,
		team:        team,
		reputation:  rep,
		knowledge:   knowledge,
		journey:     taxi.NewJourney(),
		fallZ:       loc.Z,
	}
}

// CharacterID returns the persistent character id.
func (p *Player) CharacterID() int64 {
	return p.characterID
}

// GUID returns the player guid.
func (p *Player) GUID() uint64 {
	return uint64(p.ObjectID())
}

// Team returns the player's side.
func (p *Player) Team() taxi.Team {
	return p.team
}

// Knowledge returns the discovered destinations mask.
func (p *Player) Knowledge() *taxi.Knowledge {
	return p.knowledge
}

// Journey returns the in-progress trip.
func (p *Player) Journey() *taxi.Journey {
	return p.journey
}

// SetMotion attaches the movement collaborator.
func (p *Player) SetMotion(m taxi.Movement) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.motion = m
}

// Motion returns the movement collaborator.
func (p *Player) Motion() taxi.Movement {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.motion
}

// TaxiOverride reports the "knows all destinations" flag.
func (p *Player) TaxiOverride() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.taxiOverride
}

// SetTaxiOverride sets the "knows all destinations" flag.
func (p *Player) SetTaxiOverride(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.taxiOverride = on
}

// TaxiBenchmark reports whether benchmark mode is on.
func (p *Player) TaxiBenchmark() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.benchmark
}

// SetTaxiBenchmark toggles benchmark mode.
func (p *Player) SetTaxiBenchmark(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.benchmark = on
}

// Reputation returns the player's faction standings.
func (p *Player) Reputation() *Reputation {
	return p.reputation
}

// ReactionTo returns the disposition of target's faction toward the player.
func (p *Player) ReactionTo(target taxi.Interactable) taxi.Reaction {
	if p.reputation == nil {
		return taxi.ReactionNeutral
	}
	return p.reputation.Reaction(target.FactionID(), p.team)
}

// SetInCombat marks the player as fighting.
func (p *Player) SetInCombat(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.inCombat = on
}

// SetLoggingOut marks a pending logout.
func (p *Player) SetLoggingOut(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.loggingOut = on
}

// IsBusy reports whether the player is in combat or logging out.
func (p *Player) IsBusy() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.inCombat || p.loggingOut
}

// Mount sets the mount display. Called by the flight motion when a leg starts.
func (p *Player) Mount(displayID uint32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.mountID = displayID
}

// MountDisplayID returns the current mount display, 0 when on foot.
func (p *Player) MountDisplayID() uint32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.mountID
}

// IsMounted reports whether the player rides anything.
func (p *Player) IsMounted() bool {
	return p.MountDisplayID() != 0
}

// SetInTaxiFlight marks powered flight. Called by the flight motion.
func (p *Player) SetInTaxiFlight(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.inFlight = on
}

// InTaxiFlight reports powered flight.
func (p *Player) InTaxiFlight() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.inFlight
}

// SetPvPFlag toggles the hostile PvP state.
func (p *Player) SetPvPFlag(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.pvpFlagged = on
}

// IsHostilePvP reports the hostile PvP state.
func (p *Player) IsHostilePvP() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.pvpFlagged
}

// SetFeignDeath toggles feign death.
func (p *Player) SetFeignDeath(on bool) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.feignDeath = on
}

// IsFeignDeath reports feign death.
func (p *Player) IsFeignDeath() bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.feignDeath
}

// ClearFeignDeath drops feign death before flying.
func (p *Player) ClearFeignDeath() {
	p.SetFeignDeath(false)
}

// CleanupAfterFlight dismounts, clears powered flight flags and stops the flight motion.
func (p *Player) CleanupAfterFlight() {
	p.playerMu.Lock()
	p.mountID = 0
	p.inFlight = false
	m := p.motion
	p.playerMu.Unlock()

	if s, ok := m.(interface{ Stop() }); ok {
		s.Stop()
	}
}

// SetFallReference resets the height fall damage is measured from.
func (p *Player) SetFallReference(z float32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.fallZ = z
}

// FallReference returns the fall damage reference height.
func (p *Player) FallReference() float32 {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return p.fallZ
}

// ApplyEffect records an effect applied by id.
func (p *Player) ApplyEffect(effectID uint32) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.effects = append(p.effects, effectID)
}

// HasEffect reports whether effectID was applied.
func (p *Player) HasEffect(effectID uint32) bool {
	p.playerMu.RLock()
	defer p.playerMu.RUnlock()
	return slices.Contains(p.effects, effectID)
}

// SetTeleportHook installs the callback run after every TeleportTo.
// The session uses it to move the player between world regions and notify the client.
func (p *Player) SetTeleportHook(fn func(from Location, dst taxi.Point)) {
	p.playerMu.Lock()
	defer p.playerMu.Unlock()
	p.onTeleport = fn
}

// TeleportTo relocates the player, possibly to another map.
func (p *Player) TeleportTo(dst taxi.Point) {
	from := p.Location()
	p.SetLocation(LocationFromPoint(dst, from.Orientation))

	p.playerMu.RLock()
	hook := p.onTeleport
	p.playerMu.RUnlock()
	if hook != nil {
		hook(from, dst)
	}
}
