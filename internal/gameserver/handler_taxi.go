package gameserver

import (
	"errors"
	"log/slog"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/clientpackets"
	"github.com/udisondev/skyroute/internal/gameserver/serverpackets"
	"github.com/udisondev/skyroute/internal/model"
)

// handleTaxiNodeStatusQuery processes TaxiNodeStatusQuery (opcode 0x1020).
// Only flight masters in reach are answered; no station nearby means no reply.
func (h *Handler) handleTaxiNodeStatusQuery(client *GameClient, player *model.Player, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseTaxiNodeStatusQuery(data)
	if err != nil {
		return dropMalformed(client, "TaxiNodeStatusQuery", err)
	}

	guid := pkt.UnitGUID.Uint64()
	eligibility, _, _, err := h.gate.Classify(player, guid)
	if err != nil {
		slog.Debug("taxi status query dropped",
			"character", player.Name(),
			"unit", guid,
			"error", err)
		return 0, true, nil
	}

	return writeReply(buf, serverpackets.NewTaxiNodeStatus(guid, eligibility.Status()))
}

// handleTaxiQueryAvailableNodes processes TaxiQueryAvailableNodes (opcode 0x1021).
// The first visit to a station discovers it; later visits open the flight map.
func (h *Handler) handleTaxiQueryAvailableNodes(client *GameClient, player *model.Player, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseTaxiQueryAvailableNodes(data)
	if err != nil {
		return dropMalformed(client, "TaxiQueryAvailableNodes", err)
	}

	guid := pkt.UnitGUID.Uint64()
	npc, err := h.gate.Dispatcher(player, guid)
	if err != nil {
		slog.Debug("taxi menu request dropped",
			"character", player.Name(),
			"error", err)
		return 0, true, nil
	}

	player.ClearFeignDeath()

	node, err := h.gate.CurrentNode(player, npc)
	if err != nil {
		slog.Debug("flight master has no station",
			"character", player.Name(),
			"unit", guid)
		return 0, true, nil
	}

	if player.Knowledge().MarkKnown(node) {
		slog.Info("taxi node discovered",
			"character", player.Name(),
			"node", node)
		if err := client.SendPacket(serverpackets.NewTaxiPath{}); err != nil {
			return 0, false, err
		}
		return writeReply(buf, serverpackets.NewTaxiNodeStatus(guid, taxi.StatusLearned))
	}

	var mask [taxi.MaskSize]byte
	taxi.WithOverride(player, npc.GrantsAllDestinations(), func() {
		mask = player.Knowledge().Snapshot(player.TaxiOverride())
	})
	return writeReply(buf, serverpackets.NewShowTaxiNodes(guid, node, mask))
}

// handleActivateTaxiExpress processes ActivateTaxiExpress (opcode 0x1022).
// The whole message is parsed before any check so a rejected request
// still leaves the stream aligned.
func (h *Handler) handleActivateTaxiExpress(client *GameClient, player *model.Player, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseActivateTaxiExpress(data)
	if err != nil {
		return dropMalformed(client, "ActivateTaxiExpress", err)
	}

	route := make([]taxi.DestinationID, len(pkt.Nodes))
	for i, n := range pkt.Nodes {
		route[i] = taxi.DestinationID(n)
	}

	// Knowledge is checked before the dispatcher. A missing or hostile
	// dispatcher grants nothing and is answered with TooFarAway below.
	dispatcher, _ := h.gate.Dispatcher(player, pkt.UnitGUID.Uint64())

	if err := h.gate.CheckRoute(player, route, dispatcher); err != nil {
		slog.Debug("taxi express rejected",
			"character", player.Name(),
			"error", err)
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: taxi.ActivateNotVisited})
	}

	if len(route) == 0 {
		return 0, true, nil
	}

	if dispatcher == nil {
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: taxi.ActivateTooFarAway})
	}

	return h.activate(player, route, dispatcher, buf)
}

// handleActivateTaxi processes ActivateTaxi (opcode 0x1023): a direct flight.
func (h *Handler) handleActivateTaxi(client *GameClient, player *model.Player, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseActivateTaxi(data)
	if err != nil {
		return dropMalformed(client, "ActivateTaxi", err)
	}

	npc, err := h.gate.Dispatcher(player, pkt.UnitGUID.Uint64())
	if err != nil {
		slog.Debug("taxi activation without usable flight master",
			"character", player.Name(),
			"error", err)
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: taxi.ActivateTooFarAway})
	}

	from := taxi.DestinationID(pkt.From)
	to := taxi.DestinationID(pkt.To)
	if _, ok := h.graph.Node(to); !ok {
		slog.Debug("taxi activation to unknown node",
			"character", player.Name(),
			"to", to)
		return 0, true, nil
	}

	route := []taxi.DestinationID{from, to}
	if err := h.gate.CheckRoute(player, route, npc); err != nil {
		slog.Debug("taxi activation rejected",
			"character", player.Name(),
			"error", err)
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: taxi.ActivateNotVisited})
	}

	return h.activate(player, route, npc, buf)
}

// activate starts the journey. Only failures are answered.
func (h *Handler) activate(player *model.Player, route []taxi.DestinationID, dispatcher taxi.Interactable, buf []byte) (int, bool, error) {
	result, err := h.controller.Activate(player, route, dispatcher)
	if errors.Is(err, taxi.ErrRouteTooShort) {
		return 0, true, nil
	}
	if err != nil {
		slog.Warn("taxi activation failed",
			"character", player.Name(),
			"error", err)
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: taxi.ActivateUnspecifiedServerError})
	}

	if result != taxi.ActivateOK {
		slog.Debug("taxi activation refused",
			"character", player.Name(),
			"route", taxi.FormatRoute(route),
			"result", result)
		return writeReply(buf, serverpackets.ActivateTaxiReply{Result: result})
	}

	slog.Info("taxi journey started",
		"character", player.Name(),
		"route", taxi.FormatRoute(route),
		"cost", player.Journey().TotalCost())
	return 0, true, nil
}

// handleMoveSplineDone processes MoveSplineDone (opcode 0x1024).
// A duplicate of a completion already delivered by the flight ticker is ignored.
func (h *Handler) handleMoveSplineDone(client *GameClient, player *model.Player) (int, bool, error) {
	flight := client.Flight()
	if flight == nil || !flight.Finish() {
		slog.Debug("spline done without active segment", "character", player.Name())
		return 0, true, nil
	}
	return 0, true, h.completeLeg(client, player)
}

// handleSetTaxiBenchmarkMode processes SetTaxiBenchmarkMode (opcode 0x1025).
func (h *Handler) handleSetTaxiBenchmarkMode(client *GameClient, player *model.Player, data []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseSetTaxiBenchmarkMode(data)
	if err != nil {
		return dropMalformed(client, "SetTaxiBenchmarkMode", err)
	}
	player.SetTaxiBenchmark(pkt.Enabled)
	slog.Debug("taxi benchmark mode", "character", player.Name(), "enabled", pkt.Enabled)
	return 0, true, nil
}

// completeLeg feeds a finished segment to the controller. Must run on the player's turn.
func (h *Handler) completeLeg(client *GameClient, player *model.Player) error {
	out := h.controller.OnPathFlightComplete(player)
	if out.Discovered {
		if err := client.SendPacket(serverpackets.NewTaxiPath{}); err != nil {
			return err
		}
	}
	if out.Landed {
		slog.Info("taxi journey finished",
			"character", player.Name(),
			"map", player.Point().MapID)
	}
	return nil
}
