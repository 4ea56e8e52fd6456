package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the persisted runtime configuration.
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Logging       LoggingConfig       `toml:"logging"`
	Identity      IdentityConfig      `toml:"identity"`
	Notifications NotificationsConfig `toml:"notifications"`
	Server        ServerConfig        `toml:"server"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver   string `toml:"driver" env:"EXPEDIENTES_DB_DRIVER"`
	Path     string `toml:"path" env:"EXPEDIENTES_DB_PATH"`
	DSN      string `toml:"dsn" env:"EXPEDIENTES_DB_DSN"`
	MaxConns int32  `toml:"max_conns" env:"EXPEDIENTES_DB_MAX_CONNS"`
	MinConns int32  `toml:"min_conns" env:"EXPEDIENTES_DB_MIN_CONNS"`
}

// LoggingConfig configures runtime log sinks.
type LoggingConfig struct {
	Level   string        `toml:"level" env:"EXPEDIENTES_LOG_LEVEL"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig configures the logfmt file sink used in dev mode.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled" env:"EXPEDIENTES_LOG_DEV_FILE"`
	Dir     string `toml:"dir" env:"EXPEDIENTES_LOG_DEV_DIR"`
}

// IdentityConfig names the local operator recorded as actor on mutations.
type IdentityConfig struct {
	CurrentUser string `toml:"current_user" env:"EXPEDIENTES_USER"`
	Office      string `toml:"office" env:"EXPEDIENTES_OFFICE"`
}

// NotificationsConfig configures the actuacion notification log.
type NotificationsConfig struct {
	Limit int `toml:"limit" env:"EXPEDIENTES_NOTIFICATIONS_LIMIT"`
}

// ServerConfig configures the local JSON API.
type ServerConfig struct {
	Bind        string `toml:"bind" env:"EXPEDIENTES_BIND"`
	APIEndpoint string `toml:"api_endpoint" env:"EXPEDIENTES_API_ENDPOINT"`
}

// Default returns the default configuration for a sqlite database at dbPath.
func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Driver:   DriverSQLite,
			Path:     dbPath,
			MaxConns: 10,
			MinConns: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".expedientes/log",
			},
		},
		Identity: IdentityConfig{
			CurrentUser: "operador",
		},
		Notifications: NotificationsConfig{
			Limit: 10,
		},
		Server: ServerConfig{
			Bind:        "127.0.0.1:5437",
			APIEndpoint: "/api/v1",
		},
	}
}

// Load reads path over defaults, then applies environment overrides.
// A missing or empty file keeps the defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		case len(content) > 0:
			if err := toml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("decode toml: %w", err)
			}
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the requested operation.
func (c Config) Validate() error {
	switch strings.TrimSpace(strings.ToLower(c.Database.Driver)) {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database path is required")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid database.driver: %q", c.Database.Driver)
	}
	if c.Database.MaxConns < 0 || c.Database.MinConns < 0 {
		return errors.New("database connection limits must be >= 0")
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return errors.New("database.min_conns must be <= database.max_conns")
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}

	if strings.TrimSpace(c.Identity.CurrentUser) == "" {
		return errors.New("identity.current_user is required")
	}

	if c.Notifications.Limit <= 0 {
		return fmt.Errorf("notifications.limit must be > 0, got %d", c.Notifications.Limit)
	}

	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind is required")
	}
	if !strings.HasPrefix(strings.TrimSpace(c.Server.APIEndpoint), "/") {
		return fmt.Errorf("server.api_endpoint must start with '/': %q", c.Server.APIEndpoint)
	}
	return nil
}

// UpsertIdentity writes the identity section of the TOML file at path, keeping other sections.
func UpsertIdentity(path, currentUser, office string) error {
	currentUser = strings.TrimSpace(currentUser)
	if currentUser == "" {
		return errors.New("current user is required")
	}
	doc := map[string]any{}
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read config: %w", err)
	case len(content) > 0:
		if err := toml.Unmarshal(content, &doc); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	}
	doc["identity"] = map[string]any{
		"current_user": currentUser,
		"office":       strings.TrimSpace(office),
	}
	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EnsureConfigDir creates the parent directory of path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
