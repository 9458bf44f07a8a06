package gameserver

import (
	"context"
	"log/slog"
	"time"
)

// saveTimeout bounds one player save on disconnect or shutdown.
const saveTimeout = 3 * time.Second

// OnDisconnection handles player disconnection (TCP connection lost).
//
// Flow:
// 1. If player is nil → return (already cleaned up)
// 2. Save the player with the journey still in place, so it resumes on next login
// 3. Interrupt the journey, remove the player from the world
func (h *Handler) OnDisconnection(ctx context.Context, client *GameClient) {
	player := client.ActivePlayer()
	if player == nil {
		// Already cleaned up or never entered the world
		return
	}

	client.Turn(func() {
		// Break client-player link; prevents double-processing
		client.SetActivePlayer(nil, nil)

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if err := h.persister.SavePlayer(saveCtx, player); err != nil {
			slog.Error("failed to save player on disconnect",
				"character", player.Name(),
				"error", err)
		}

		h.controller.Interrupt(player)
		h.world.RemoveObject(player.ObjectID())
		h.clientManager.Unregister(player.CharacterID(), client)
	})

	slog.Info("player removed from world",
		"character", player.Name(),
		"objectID", player.ObjectID(),
		"client", client.IP())
}

// SaveAll saves every in-world player and returns how many were saved.
// Used by autosave and on shutdown.
func (h *Handler) SaveAll(ctx context.Context) int {
	saved := 0
	for _, client := range h.clientManager.Snapshot() {
		client.Turn(func() {
			player := client.ActivePlayer()
			if player == nil {
				return
			}
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
			defer cancel()
			if err := h.persister.SavePlayer(saveCtx, player); err != nil {
				slog.Error("save player failed",
					"character", player.Name(),
					"error", err)
				return
			}
			saved++
		})
	}
	return saved
}

// RunAutosave periodically saves every in-world player until ctx is done.
// interval <= 0 disables autosave; players are then saved only on exit.
func (h *Handler) RunAutosave(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if saved := h.SaveAll(ctx); saved > 0 {
				slog.Debug("autosave complete", "players", saved)
			}
		}
	}
}
