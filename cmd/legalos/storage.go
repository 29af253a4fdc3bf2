package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/database/pgsql"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/storage/filekv"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/storage/memorykv"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/adapters/storage/sqlitekv"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/config"
	"github.com/DeepsSystems/Sasingian-Lawyers/pkg/database"
)

// openStore opens the KV backend selected by STORAGE_BACKEND. The returned
// cleanup releases it and must be called once the server has stopped.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.KVStore, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; nothing will survive a restart")
		kv := memorykv.New()
		return kv, func() { _ = kv.Close() }, nil

	case config.StorageFile:
		kv, err := filekv.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file storage", slog.String("dir", cfg.DataDir))
		return kv, func() { _ = kv.Close() }, nil

	case config.StorageSQLite:
		kv, err := sqlitekv.Open(cfg.SQLitePath, !cfg.IsProduction)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using SQLite storage", slog.String("path", cfg.SQLitePath))
		return kv, func() {
			if err := kv.Close(); err != nil {
				logger.Error("Error closing SQLite store", slog.String("error", err.Error()))
			}
		}, nil

	case config.StoragePostgres:
		logger.Info("Running database migrations...")
		if err := pgsql.Migrate(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return pgsql.NewKVStore(pool), func() { database.ClosePgxPool(pool, logger) }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
