package gameserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/skyroute/internal/game/motion"
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/clientpackets"
	"github.com/udisondev/skyroute/internal/gameserver/serverpackets"
	"github.com/udisondev/skyroute/internal/model"
)

// handleEnterWorld processes the EnterWorld packet (opcode 0x0001).
// Creates the player, loads the known-destination mask and resumes a saved journey.
func (h *Handler) handleEnterWorld(ctx context.Context, client *GameClient, data []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseEnterWorld(data)
	if err != nil {
		return 0, false, fmt.Errorf("parsing EnterWorld: %w", err)
	}

	team := taxi.Team(pkt.Team)
	if !team.Valid() {
		slog.Warn("invalid team in EnterWorld",
			"team", pkt.Team,
			"client", client.IP())
		return 0, false, nil
	}

	state, err := h.persister.LoadPlayerTaxi(ctx, pkt.CharacterID)
	if err != nil {
		return 0, false, fmt.Errorf("loading character %d: %w", pkt.CharacterID, err)
	}

	start := h.cfg.StartLocation
	loc := model.NewLocation(start.MapID, start.X, start.Y, start.Z, 0)
	player := model.NewPlayer(h.ids.NextPlayerID(), pkt.CharacterID, pkt.Name, team, loc, model.NewReputation(h.factions), state.Knowledge)
	player.SetTaxiBenchmark(state.Benchmark)

	flight := motion.NewFlight(h.graph, player, motion.WithSpeed(h.cfg.FlightSpeed))
	player.SetMotion(flight)
	player.SetTeleportHook(func(from model.Location, dst taxi.Point) {
		h.onTeleport(client, player, from, dst)
	})

	if !h.clientManager.Register(player.CharacterID(), client) {
		slog.Warn("character already online",
			"characterID", pkt.CharacterID,
			"client", client.IP())
		return 0, false, nil
	}
	if err := h.world.AddPlayer(player); err != nil {
		h.clientManager.Unregister(player.CharacterID(), client)
		return 0, false, fmt.Errorf("spawning character %d: %w", pkt.CharacterID, err)
	}

	client.SetActivePlayer(player, flight)
	client.SetState(ClientStateInGame)

	slog.Info("player entered world",
		"character", player.Name(),
		"characterID", pkt.CharacterID,
		"team", team,
		"known", player.Knowledge().Count(),
		"client", client.IP())

	if len(state.Route) > 0 {
		h.withTurn(client, player, func() {
			if err := h.controller.Restore(player, state.Route); err != nil {
				slog.Warn("saved journey not restored",
					"character", player.Name(),
					"route", taxi.FormatRoute(state.Route),
					"error", err)
			}
		})
	}

	go h.runFlightTicker(ctx, client)

	return 0, true, nil
}

// handleMoveToLocation processes the MoveToLocation packet (opcode 0x0002).
// Position updates are ignored while the player is on a journey.
func (h *Handler) handleMoveToLocation(client *GameClient, player *model.Player, data []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseMoveToLocation(data)
	if err != nil {
		return dropMalformed(client, "MoveToLocation", err)
	}

	if player.Journey().Active() {
		slog.Debug("movement ignored during flight",
			"character", player.Name(),
			"state", player.Journey().State())
		return 0, true, nil
	}

	player.SetPoint(pkt.Destination)
	return 0, true, nil
}

// handleZoneArrived processes the ZoneArrived packet (opcode 0x0003).
func (h *Handler) handleZoneArrived(player *model.Player) (int, bool, error) {
	if !h.controller.OnRelocated(player) {
		slog.Debug("zone arrival without pending continuation", "character", player.Name())
	}
	return 0, true, nil
}

// onTeleport tells the client to load the destination.
func (h *Handler) onTeleport(client *GameClient, player *model.Player, from model.Location, dst taxi.Point) {
	if err := client.SendPacket(serverpackets.NewWorld{Destination: dst}); err != nil {
		slog.Warn("failed to send NewWorld",
			"character", player.Name(),
			"error", err)
	}
	slog.Debug("player relocated",
		"character", player.Name(),
		"fromMap", from.MapID,
		"toMap", dst.MapID)
}
