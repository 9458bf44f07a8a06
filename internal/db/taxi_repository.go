package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaxiRepository реализует TaxiRepository для PostgreSQL.
type PostgresTaxiRepository struct {
	pool *pgxpool.Pool
}

var _ TaxiRepository = (*PostgresTaxiRepository)(nil)

// NewPostgresTaxiRepository создаёт новый PostgreSQL repository.
func NewPostgresTaxiRepository(pool *pgxpool.Pool) *PostgresTaxiRepository {
	return &PostgresTaxiRepository{pool: pool}
}

// LoadTaxi returns the character's travel state, nil when none was saved.
func (r *PostgresTaxiRepository) LoadTaxi(ctx context.Context, characterID int64) (*TaxiRecord, error) {
	var rec TaxiRecord
	err := r.pool.QueryRow(ctx,
		`SELECT known_mask, route, benchmark FROM character_taxi WHERE character_id = $1`,
		characterID,
	).Scan(&rec.KnownMask, &rec.Route, &rec.Benchmark)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying taxi state for character %d: %w", characterID, err)
	}
	return &rec, nil
}

// SaveTaxi upserts the character's travel state.
func (r *PostgresTaxiRepository) SaveTaxi(ctx context.Context, characterID int64, rec TaxiRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO character_taxi (character_id, known_mask, route, benchmark, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (character_id) DO UPDATE
		 SET known_mask = EXCLUDED.known_mask,
		     route = EXCLUDED.route,
		     benchmark = EXCLUDED.benchmark,
		     updated_at = NOW()`,
		characterID, rec.KnownMask, rec.Route, rec.Benchmark,
	)
	if err != nil {
		return fmt.Errorf("saving taxi state for character %d: %w", characterID, err)
	}
	return nil
}
