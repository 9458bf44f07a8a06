package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/udisondev/skyroute/internal/config"
	"github.com/udisondev/skyroute/internal/data"
	"github.com/udisondev/skyroute/internal/db"
	"github.com/udisondev/skyroute/internal/flightlog"
	"github.com/udisondev/skyroute/internal/game/taxi"
	"github.com/udisondev/skyroute/internal/gameserver"
	"github.com/udisondev/skyroute/internal/spawn"
	"github.com/udisondev/skyroute/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.ResolvePath(*configPath)); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath string) error {
	// Load config FIRST to determine log level
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	closeLog := setupLogger(cfg.Log)
	defer closeLog()

	slog.Info("skyroute server starting",
		"config", cfgPath,
		"log_level", cfg.Log.Level,
		"bind", cfg.BindAddress,
		"port", cfg.Port)

	repo, closeDB, err := openStorage(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB()

	td, err := data.LoadTaxiData(cfg.Taxi.DataPath, cfg.Taxi.NearestNodeRadius)
	if err != nil {
		return fmt.Errorf("loading taxi data: %w", err)
	}

	worldInstance := world.New(cfg.Taxi.InteractionDistance)
	ids := world.NewObjectIDGenerator()

	spawnMgr := spawn.NewManager(worldInstance, ids)
	if err := spawnMgr.SpawnAll(td.Dispatchers); err != nil {
		return fmt.Errorf("spawning flight masters: %w", err)
	}
	slog.Info("flight masters spawned", "count", spawnMgr.SpawnCount())

	var sink taxi.EventSink
	if cfg.Taxi.FlightLogDir != "" {
		journal := flightlog.New(cfg.Taxi.FlightLogDir, "flights")
		defer func() {
			if err := journal.Close(); err != nil {
				slog.Error("closing flight journal", "error", err)
			}
		}()
		sink = journal
		slog.Info("flight journal enabled", "dir", cfg.Taxi.FlightLogDir)
	}

	controller := taxi.NewController(td.Graph, taxi.Settings{
		InteractionDistance: cfg.Taxi.InteractionDistance,
		LandingEffectID:     cfg.Taxi.LandingEffectID,
		InstantFlight:       cfg.Taxi.InstantFlight,
	}, sink)

	persistence := db.NewPlayerPersistenceService(repo)
	handler := gameserver.NewHandler(cfg.Taxi, worldInstance, ids, controller, td.FactionTable(), persistence)
	gameServer := gameserver.NewServer(cfg, handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gameServer.Run(gctx); err != nil {
			return fmt.Errorf("game server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return handler.RunAutosave(gctx, cfg.AutosaveInterval)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("skyroute server stopped")
	return nil
}

// setupLogger installs the default slog handler. A configured file gets
// size-based rotation; otherwise logs go to stdout.
func setupLogger(cfg config.LogConfig) func() {
	var (
		out     io.Writer = os.Stdout
		closeFn           = func() {}
	)
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		out = rotator
		closeFn = func() { _ = rotator.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return closeFn
}

// openStorage selects the taxi repository backend.
func openStorage(ctx context.Context, cfg config.DatabaseConfig) (db.TaxiRepository, func(), error) {
	switch cfg.Driver {
	case "postgres":
		database, err := db.New(ctx, cfg.DSN(), db.PoolOptions{
			MaxConns:        cfg.MaxConns,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		slog.Info("database connected", "host", cfg.Host, "dbname", cfg.DBName)

		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
		return database.TaxiRepository(), database.Close, nil

	case "sqlite":
		repo, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		slog.Info("sqlite storage opened", "path", cfg.SQLitePath)
		return repo, func() {
			if err := repo.Close(); err != nil {
				slog.Error("closing sqlite", "error", err)
			}
		}, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
