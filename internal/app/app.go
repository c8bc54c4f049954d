package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/egabank/ega/internal/cache"
	"github.com/egabank/ega/internal/config"
	"github.com/egabank/ega/internal/logging"
	"github.com/egabank/ega/internal/remote"
	"github.com/egabank/ega/internal/remotesync"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/statement"
	"github.com/egabank/ega/internal/store"
	"go.uber.org/zap"
)

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Service    *service.Service
	Store      *store.Store
	Sync       *remotesync.Policy
	Statements *statement.Builder
	Remote     *remote.Client
	Cache      *cache.Snapshots
	Location   *time.Location
	Loaded     store.LoadResult
	DBPath     string
}

// NewApp initializes logging, the local cache, the remote client and the
// core services, then loads the collections. The returned cleanup drains
// queued remote writes before closing the cache.
func NewApp(ctx context.Context, cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		OutputPath:  cfg.Log.File,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	dbPathRaw := cfg.Database.Path
	if dbPathRaw == "" {
		appDir, err := GetAppDataDir()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(appDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPathRaw = filepath.Join(appDir, "ega.db")
	}

	snapshots, err := cache.Open(dbPathRaw, migrationFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize local cache: %w", err)
	}

	st := store.New(snapshots, logging.Component(logger, "store"))

	var (
		client *remote.Client
		src    store.Source
		sink   remotesync.Remote
	)
	if cfg.RemoteEnabled() {
		client, err = remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout, logging.Component(logger, "remote"))
		if err != nil {
			snapshots.Close()
			return nil, nil, fmt.Errorf("failed to initialize remote client: %w", err)
		}
		src, sink = client, client
	}

	policy := remotesync.New(sink, st, remotesync.Options{
		CallTimeout: cfg.Remote.Timeout,
		Logger:      logging.Component(logger, "sync"),
	})

	loaded, err := st.Load(ctx, src)
	if err != nil {
		snapshots.Close()
		return nil, nil, err
	}
	policy.Start()

	svc := service.NewService(st, policy, service.Config{Logger: logging.Component(logger, "ledger")})

	cleanup := func() {
		drain := cfg.Remote.DrainTimeout
		if drain <= 0 {
			drain = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), drain)
		defer cancel()
		if err := policy.Close(ctx); err != nil {
			logger.Warn("pending remote writes were dropped", zap.Error(err))
		}
		if err := snapshots.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing cache: %v\n", err)
		}
		_ = logger.Sync()
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Service:    svc,
		Store:      st,
		Sync:       policy,
		Statements: statement.NewBuilder(st),
		Remote:     client,
		Cache:      snapshots,
		Location:   loc,
		Loaded:     loaded,
		DBPath:     dbPathRaw,
	}, cleanup, nil
}

func GetAppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".ega"), nil
	}

	return filepath.Join(configDir, "ega"), nil
}
