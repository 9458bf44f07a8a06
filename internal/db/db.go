package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// pingTimeout ограничивает проверку соединения при старте.
const pingTimeout = 5 * time.Second

// PoolOptions tunes the pgx pool. Zero values keep pgx defaults.
type PoolOptions struct {
	MaxConns        int32
	MaxConnIdleTime time.Duration
}

// DB owns the PostgreSQL pool shared by the taxi repository and migrations.
type DB struct {
	pool *pgxpool.Pool
	dsn  string
}

// New parses dsn, applies opts and verifies the server is reachable.
func New(ctx context.Context, dsn string, opts PoolOptions) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{pool: pool, dsn: dsn}, nil
}

// Migrate applies the embedded postgres migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, d.dsn)
}

// TaxiRepository returns a repository bound to this pool.
func (d *DB) TaxiRepository() *PostgresTaxiRepository {
	return NewPostgresTaxiRepository(d.pool)
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// Close closes the pool. Safe to call once after all users are done.
func (d *DB) Close() {
	d.pool.Close()
}
