package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file path.
const EnvConfigPath = "SKYROUTE_CONFIG"

// DefaultConfigPath is used when neither a flag nor the env variable is set.
const DefaultConfigPath = "config/skyroute.yaml"

// Server holds all configuration for the skyroute server.
type Server struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Write queue / timeouts
	WriteTimeout  time.Duration `yaml:"write_timeout"`   // per-write deadline (default: 5s)
	ReadTimeout   time.Duration `yaml:"read_timeout"`    // idle client disconnect (default: 120s)
	SendQueueSize int           `yaml:"send_queue_size"` // per-client outbox capacity (default: 256)

	// AutosaveInterval: периодическое сохранение онлайн игроков, 0 = только при выходе.
	AutosaveInterval time.Duration `yaml:"autosave_interval"`

	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Taxi     TaxiConfig     `yaml:"taxi"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver: "postgres" или "sqlite".
	Driver string `yaml:"driver"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns        int32         `yaml:"max_conns"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`

	SQLitePath string `yaml:"sqlite_path"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// LogConfig controls slog output.
type LogConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
	// File enables size-rotated file output instead of stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SlogLevel parses Level, unknown values fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Location is a map position in config.
type Location struct {
	MapID uint32  `yaml:"map"`
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	Z     float32 `yaml:"z"`
}

// TaxiConfig tunes the travel subsystem.
type TaxiConfig struct {
	// DataPath: YAML с графом; пусто = встроенные данные.
	DataPath            string  `yaml:"data_path"`
	NearestNodeRadius   float64 `yaml:"nearest_node_radius"`
	InteractionDistance float32 `yaml:"interaction_distance"`
	LandingEffectID     uint32  `yaml:"landing_effect_id"`
	InstantFlight       bool    `yaml:"instant_flight"`
	// FlightSpeed in yards per second.
	FlightSpeed float64 `yaml:"flight_speed"`
	// FlightTick is how often in-flight sessions check for leg completion.
	FlightTick   time.Duration `yaml:"flight_tick"`
	FlightLogDir string        `yaml:"flight_log_dir"`
	// StartLocation is where new characters enter the world.
	StartLocation Location `yaml:"start_location"`
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		BindAddress:      "0.0.0.0",
		Port:             8085,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      120 * time.Second,
		SendQueueSize:    256,
		AutosaveInterval: 5 * time.Minute,
		Database: DatabaseConfig{
			Driver:     "sqlite",
			Host:       "127.0.0.1",
			Port:       5432,
			User:       "skyroute",
			Password:   "skyroute",
			DBName:     "skyroute",
			SSLMode:    "disable",
			SQLitePath: "data/skyroute.db",
			MaxConns:   8,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		Taxi: TaxiConfig{
			NearestNodeRadius:   100,
			InteractionDistance: 5,
			LandingEffectID:     2479,
			FlightSpeed:         32,
			FlightTick:          250 * time.Millisecond,
			StartLocation:       Location{MapID: 0, X: -8833.4, Y: 488.9, Z: 109.6},
		},
	}
}

// ResolvePath returns flagPath, else $SKYROUTE_CONFIG, else DefaultConfigPath.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultConfigPath
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would break startup later in a less obvious way.
func (s Server) Validate() error {
	var errs []error
	if s.Port <= 0 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", s.Port))
	}
	if s.AutosaveInterval < 0 {
		errs = append(errs, fmt.Errorf("autosave_interval must not be negative, got %v", s.AutosaveInterval))
	}
	if s.SendQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("send_queue_size must be positive, got %d", s.SendQueueSize))
	}
	switch s.Database.Driver {
	case "postgres":
	case "sqlite":
		if s.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", s.Database.Driver))
	}
	if s.Taxi.InteractionDistance <= 0 {
		errs = append(errs, fmt.Errorf("taxi.interaction_distance must be positive, got %v", s.Taxi.InteractionDistance))
	}
	if s.Taxi.FlightSpeed <= 0 {
		errs = append(errs, fmt.Errorf("taxi.flight_speed must be positive, got %v", s.Taxi.FlightSpeed))
	}
	if s.Taxi.FlightTick <= 0 {
		errs = append(errs, fmt.Errorf("taxi.flight_tick must be positive, got %v", s.Taxi.FlightTick))
	}
	return errors.Join(errs...)
}
