package gameserver

import (
	"context"
	"log/slog"
	"time"
)

const defaultFlightTick = 250 * time.Millisecond

// runFlightTicker completes flight segments the client never reported.
// One goroutine per in-world client; exits with the client.
func (h *Handler) runFlightTicker(ctx context.Context, client *GameClient) {
	tick := h.cfg.FlightTick
	if tick <= 0 {
		tick = defaultFlightTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			return
		case now := <-t.C:
			h.tickFlight(client, now)
		}
	}
}

// tickFlight finishes the current segment when it is due.
func (h *Handler) tickFlight(client *GameClient, now time.Time) {
	player := client.ActivePlayer()
	flight := client.Flight()
	if player == nil || flight == nil {
		return
	}

	h.withTurn(client, player, func() {
		if !flight.Due(now) || !flight.Finish() {
			return
		}
		if err := h.completeLeg(client, player); err != nil {
			slog.Warn("flight tick failed",
				"character", player.Name(),
				"error", err)
		}
	})
}
