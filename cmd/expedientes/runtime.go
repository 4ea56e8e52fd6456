package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/defensoria/expedientes/internal/adapters/storage/postgres"
	"github.com/defensoria/expedientes/internal/adapters/storage/sqlite"
	"github.com/defensoria/expedientes/internal/app"
	"github.com/defensoria/expedientes/internal/config"
	"github.com/defensoria/expedientes/internal/domain"
	"github.com/defensoria/expedientes/internal/events"
	"github.com/defensoria/expedientes/internal/platform"
	"github.com/defensoria/expedientes/internal/store"
)

// runtimeEnv holds everything a command needs after configuration is resolved.
type runtimeEnv struct {
	cfg        config.Config
	configPath string
	paths      platform.Paths
	logger     *runtimeLogger
	bus        *events.Bus[domain.ActuacionStatusChanged]
	svc        *app.Service
	ready      func(context.Context) error
	closers    []func() error
}

// Close releases storage and log sinks in reverse order.
func (e *runtimeEnv) Close() error {
	var firstErr error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// resolvePaths resolves per-user paths from the root flags.
func (o *rootOptions) resolvePaths() (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
}

// resolveConfigPath applies the --config flag, then EXPEDIENTES_CONFIG, then the per-user default.
func (o *rootOptions) resolveConfigPath(paths platform.Paths) string {
	if strings.TrimSpace(o.configPath) != "" {
		return o.configPath
	}
	if envPath := strings.TrimSpace(os.Getenv("EXPEDIENTES_CONFIG")); envPath != "" {
		return envPath
	}
	return paths.ConfigPath
}

// open loads configuration, starts logging and opens the configured storage backend.
func (o *rootOptions) open(ctx context.Context, command string) (*runtimeEnv, error) {
	paths, err := o.resolvePaths()
	if err != nil {
		return nil, err
	}
	configPath := o.resolveConfigPath(paths)
	cfg, err := config.Load(configPath, config.Default(paths.DBPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbPath := strings.TrimSpace(o.dbPath); dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(o.stderr, o.appName, o.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	env := &runtimeEnv{
		cfg:        cfg,
		configPath: configPath,
		paths:      paths,
		logger:     logger,
		closers:    []func() error{logger.Close},
	}
	logger.Debug("startup configuration resolved", "app", o.appName, "dev_mode", o.devMode, "command", command)
	logger.Debug("configuration loaded", "config_path", configPath, "driver", cfg.Database.Driver, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Debug("dev file logging enabled", "path", devPath)
	}

	backend, err := env.openBackend(ctx)
	if err != nil {
		_ = env.Close()
		return nil, err
	}

	env.bus = events.NewBus[domain.ActuacionStatusChanged]()
	env.bus.Subscribe(func(change domain.ActuacionStatusChanged) {
		logger.Info("actuacion status changed",
			"actuacion", change.Actuacion.ID,
			"expediente", change.Actuacion.ExpedientID,
			"from", change.OldStatus,
			"to", change.NewStatus,
		)
	})
	repo := store.NewRepository(backend, logger.Component("store"))
	env.svc = app.NewService(repo, env.bus, uuid.NewString, nil, app.ServiceConfig{
		NotificationLimit: cfg.Notifications.Limit,
		DefaultActor:      cfg.Identity.CurrentUser,
	})
	logger.Debug("application service initialized", "actor", cfg.Identity.CurrentUser, "notification_limit", cfg.Notifications.Limit)
	return env, nil
}

// openBackend opens the storage driver named by the configuration.
func (e *runtimeEnv) openBackend(ctx context.Context) (store.Backend, error) {
	db := e.cfg.Database
	switch strings.ToLower(strings.TrimSpace(db.Driver)) {
	case config.DriverMemory:
		e.logger.Warn("using in-memory storage; data is discarded on exit")
		return store.NewMemoryBackend(), nil
	case config.DriverSQLite:
		e.logger.Debug("opening sqlite backend", "db_path", db.Path)
		backend, err := sqlite.Open(db.Path)
		if err != nil {
			e.logger.Error("sqlite open failed", "db_path", db.Path, "err", err)
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		e.ready = backend.Ping
		e.closers = append(e.closers, backend.Close)
		return backend, nil
	case config.DriverPostgres:
		e.logger.Debug("opening postgres backend", "max_conns", db.MaxConns)
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			e.logger.Error("postgres connect failed", "err", err)
			return nil, fmt.Errorf("open postgres pool: %w", err)
		}
		backend, err := postgres.NewBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		e.ready = backend.Ping
		e.closers = append(e.closers, func() error {
			backend.Close()
			return nil
		})
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}

// parseBoolEnv parses one boolean environment variable and reports whether it was set.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
