package main

import (
	"context"
	"fmt"

	"github.com/goodtune/apptime/internal/activity"
	"github.com/goodtune/apptime/internal/config"
	"github.com/goodtune/apptime/internal/storage"
	"github.com/goodtune/apptime/internal/storage/bolt"
	"github.com/goodtune/apptime/internal/storage/file"
	"github.com/goodtune/apptime/internal/storage/redis"
	"github.com/rs/zerolog"
)

func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = "file"
	}

	switch storageType {
	case "file":
		return file.Open(cfg.Path)
	case "bolt":
		return bolt.Open(cfg.Path)
	case "redis":
		return redis.Open(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (expected file, bolt or redis)", storageType)
	}
}

// openLedger loads configuration and storage for the offline commands.
// The returned ledger never probes; the caller closes the store.
func openLedger(ctx context.Context) (*activity.Ledger, storage.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	logger := zerolog.Nop()
	if cfg.Logging.Level == "debug" {
		logger = setupLogger(cfg.Logging)
	}

	ledger := activity.NewLedger(ctx, activity.Options{Store: store.Snapshots()}, logger)
	return ledger, store, nil
}
