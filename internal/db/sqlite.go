package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/udisondev/skyroute/internal/db/migrations"
)

// SQLiteTaxiRepository реализует TaxiRepository поверх встроенной SQLite.
// Для одиночного сервера без PostgreSQL.
type SQLiteTaxiRepository struct {
	db *sql.DB
}

var _ TaxiRepository = (*SQLiteTaxiRepository)(nil)

// OpenSQLite opens (or creates) the database file and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteTaxiRepository, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// SQLite пишет одним соединением
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.ExecContext(ctx, p); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", p, err)
		}
	}

	if err := migrate(ctx, sqlDB, "sqlite3", migrations.DirSQLite); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteTaxiRepository{db: sqlDB}, nil
}

// Close closes the database.
func (r *SQLiteTaxiRepository) Close() error {
	return r.db.Close()
}

// LoadTaxi returns the character's travel state, nil when none was saved.
func (r *SQLiteTaxiRepository) LoadTaxi(ctx context.Context, characterID int64) (*TaxiRecord, error) {
	var (
		rec       TaxiRecord
		benchmark int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT known_mask, route, benchmark FROM character_taxi WHERE character_id = ?`,
		characterID,
	).Scan(&rec.KnownMask, &rec.Route, &benchmark)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying taxi state for character %d: %w", characterID, err)
	}
	rec.Benchmark = benchmark != 0
	return &rec, nil
}

// SaveTaxi upserts the character's travel state.
func (r *SQLiteTaxiRepository) SaveTaxi(ctx context.Context, characterID int64, rec TaxiRecord) error {
	benchmark := 0
	if rec.Benchmark {
		benchmark = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO character_taxi (character_id, known_mask, route, benchmark, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (character_id) DO UPDATE
		 SET known_mask = excluded.known_mask,
		     route = excluded.route,
		     benchmark = excluded.benchmark,
		     updated_at = excluded.updated_at`,
		characterID, rec.KnownMask, rec.Route, benchmark, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving taxi state for character %d: %w", characterID, err)
	}
	return nil
}
