// Package app builds the storage backend and authenticator selected by the configuration.
// Both binaries share it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/config"
	"github.com/mmynk/livrocaixa/internal/storage"
	"github.com/mmynk/livrocaixa/internal/storage/memory"
	"github.com/mmynk/livrocaixa/internal/storage/postgres"
	"github.com/mmynk/livrocaixa/internal/storage/sqlite"
)

// OpenStore opens the configured backend. Callers must Close it.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		slog.Warn("Using in-memory storage; data is lost on exit")
		return memory.New(), nil
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.StorageBackend, "database", cfg.DBPath)
		return store, nil
	case config.BackendPostgres:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		slog.Info("Storage initialized", "backend", cfg.StorageBackend)
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

// NewAuthenticator returns the configured authenticator over the login directory.
func NewAuthenticator(cfg *config.Config, store storage.Store) (auth.Authenticator, error) {
	dir := auth.NewDirectory(store)
	switch cfg.Authenticator {
	case config.AuthMock:
		return auth.NewPlaintextAuthenticator(dir), nil
	case config.AuthPassword:
		return auth.NewPasswordAuthenticator(dir), nil
	}
	return nil, fmt.Errorf("unknown authenticator %q", cfg.Authenticator)
}
