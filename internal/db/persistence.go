package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/model"
)

// PlayerTaxiState is what EnterWorld needs to rebuild the travel state.
type PlayerTaxiState struct {
	Knowledge *taxi.Knowledge
	// Route is the saved journey, empty when the character landed before logout.
	Route     []taxi.DestinationID
	Benchmark bool
}

// PlayerPersistenceService сохраняет/загружает состояние полётов игрока.
type PlayerPersistenceService struct {
	repo TaxiRepository
}

// NewPlayerPersistenceService создаёт новый сервис.
func NewPlayerPersistenceService(repo TaxiRepository) *PlayerPersistenceService {
	return &PlayerPersistenceService{repo: repo}
}

// LoadPlayerTaxi loads the saved state. A character without a record starts
// with an empty mask. A corrupt route is dropped with a warning, the mask survives.
func (s *PlayerPersistenceService) LoadPlayerTaxi(ctx context.Context, characterID int64) (PlayerTaxiState, error) {
	rec, err := s.repo.LoadTaxi(ctx, characterID)
	if err != nil {
		return PlayerTaxiState{}, fmt.Errorf("loading taxi state: %w", err)
	}
	if rec == nil {
		return PlayerTaxiState{Knowledge: taxi.NewKnowledge()}, nil
	}

	st := PlayerTaxiState{
		Knowledge: taxi.KnowledgeFromBytes(rec.KnownMask),
		Benchmark: rec.Benchmark,
	}
	route, err := taxi.ParseRoute(rec.Route)
	if err != nil {
		slog.Warn("dropping corrupt saved route",
			"characterID", characterID,
			"route", rec.Route,
			"error", err)
		return st, nil
	}
	st.Route = route
	return st, nil
}

// SavePlayer saves the player's mask, current journey and benchmark flag.
func (s *PlayerPersistenceService) SavePlayer(ctx context.Context, player *model.Player) error {
	charID := player.CharacterID()
	rec := TaxiRecord{
		KnownMask: player.Knowledge().Bytes(),
		Route:     taxi.FormatRoute(player.Journey().Route()),
		Benchmark: player.TaxiBenchmark(),
	}
	if err := s.repo.SaveTaxi(ctx, charID, rec); err != nil {
		return fmt.Errorf("saving character %d: %w", charID, err)
	}
	slog.Debug("player taxi state saved",
		"characterID", charID,
		"known", player.Knowledge().Count(),
		"route", rec.Route)
	return nil
}
