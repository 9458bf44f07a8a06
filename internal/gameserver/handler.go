package gameserver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/skyroute/internal/config"
	"github.com/udisondev/skyroute/internal/constants"
	"github.com/udisondev/skyroute/internal/db"
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver/clientpackets"
	"github.com/udisondev/skyroute/internal/gameserver/packet"
	"github.com/udisondev/skyroute/internal/model"
	"github.com/udisondev/skyroute/internal/world"
)

// PlayerPersister loads and saves the per-character travel state.
// *db.PlayerPersistenceService implements it.
type PlayerPersister interface {
	LoadPlayerTaxi(ctx context.Context, characterID int64) (db.PlayerTaxiState, error)
	SavePlayer(ctx context.Context, player *model.Player) error
}

// Handler processes game client packets.
type Handler struct {
	cfg           config.TaxiConfig
	world         *world.World
	ids           *world.ObjectIDGenerator
	graph         *taxi.Graph
	gate          *taxi.Gate
	controller    *taxi.Controller
	factions      model.FactionTable
	clientManager *ClientManager
	persister     PlayerPersister
}

// NewHandler creates a new packet handler for game clients.
func NewHandler(
	cfg config.TaxiConfig,
	w *world.World,
	ids *world.ObjectIDGenerator,
	controller *taxi.Controller,
	factions model.FactionTable,
	persister PlayerPersister,
) *Handler {
	return &Handler{
		cfg:           cfg,
		world:         w,
		ids:           ids,
		graph:         controller.Graph(),
		gate:          taxi.NewGate(controller.Graph(), w),
		controller:    controller,
		factions:      factions,
		clientManager: NewClientManager(),
		persister:     persister,
	}
}

// ClientManager returns the registry of in-world clients.
func (h *Handler) ClientManager() *ClientManager {
	return h.clientManager
}

// HandlePacket dispatches a decrypted packet to the appropriate handler.
// The reply goes into buf. Returns the reply length (0 = nothing to send)
// and whether the connection stays open.
func (h *Handler) HandlePacket(
	ctx context.Context,
	client *GameClient,
	data, buf []byte,
) (int, bool, error) {
	if len(data) < constants.PacketOpcodeSize {
		return 0, false, fmt.Errorf("packet too short: %d bytes", len(data))
	}

	opcode := binary.LittleEndian.Uint16(data)
	body := data[constants.PacketOpcodeSize:]
	state := client.State()

	switch state {
	case ClientStateConnected:
		switch opcode {
		case clientpackets.OpcodeEnterWorld:
			return h.handleEnterWorld(ctx, client, body)
		default:
			slog.Warn("invalid opcode for state CONNECTED",
				"opcode", fmt.Sprintf("0x%04X", opcode),
				"client", client.IP())
			return 0, false, nil
		}

	case ClientStateInGame:
		player := client.ActivePlayer()
		if player == nil {
			return 0, false, fmt.Errorf("in-game client without player")
		}
		var (
			n        int
			keepOpen bool
			err      error
		)
		h.withTurn(client, player, func() {
			n, keepOpen, err = h.handleInGame(client, player, opcode, body, buf)
		})
		return n, keepOpen, err

	default:
		return 0, false, fmt.Errorf("invalid state: %v", state)
	}
}

func (h *Handler) handleInGame(client *GameClient, player *model.Player, opcode uint16, body, buf []byte) (int, bool, error) {
	switch opcode {
	case clientpackets.OpcodeMoveToLocation:
		return h.handleMoveToLocation(client, player, body)
	case clientpackets.OpcodeZoneArrived:
		return h.handleZoneArrived(player)
	case clientpackets.OpcodeTaxiNodeStatusQuery:
		return h.handleTaxiNodeStatusQuery(client, player, body, buf)
	case clientpackets.OpcodeTaxiQueryAvailableNodes:
		return h.handleTaxiQueryAvailableNodes(client, player, body, buf)
	case clientpackets.OpcodeActivateTaxiExpress:
		return h.handleActivateTaxiExpress(client, player, body, buf)
	case clientpackets.OpcodeActivateTaxi:
		return h.handleActivateTaxi(client, player, body, buf)
	case clientpackets.OpcodeMoveSplineDone:
		return h.handleMoveSplineDone(client, player)
	case clientpackets.OpcodeSetTaxiBenchmarkMode:
		return h.handleSetTaxiBenchmarkMode(client, player, body)
	default:
		slog.Warn("unknown packet opcode",
			"opcode", fmt.Sprintf("0x%04X", opcode),
			"character", player.Name(),
			"client", client.IP())
		return 0, true, nil
	}
}

// withTurn runs fn on the player's turn and moves the player between world
// regions if fn changed its position.
func (h *Handler) withTurn(client *GameClient, player *model.Player, fn func()) {
	client.Turn(func() {
		before := player.Location()
		fn()
		h.world.Relocate(player.WorldObject, before)
	})
}

// dropMalformed logs and drops one message. The session stays open.
func dropMalformed(client *GameClient, name string, err error) (int, bool, error) {
	if !errors.Is(err, packet.ErrMalformed) {
		return 0, false, fmt.Errorf("parsing %s: %w", name, err)
	}
	slog.Warn("malformed packet dropped",
		"packet", name,
		"client", client.IP(),
		"error", err)
	return 0, true, nil
}

// writeReply serializes pkt into buf.
func writeReply(buf []byte, pkt ServerPacket) (int, bool, error) {
	data, err := pkt.Write()
	if err != nil {
		return 0, false, fmt.Errorf("serializing %T: %w", pkt, err)
	}

	n := copy(buf, data)
	if n != len(data) {
		return 0, false, fmt.Errorf("buffer too small: need %d bytes, have %d", len(data), len(buf))
	}
	return n, true, nil
}
