package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// Seed initialises empty collections for a tenant that has none yet.
// A tenant that already has a transactions collection is left alone.
func Seed(ctx context.Context, store storage.Store, tenant string) error {
	_, err := store.Get(ctx, tenant, storage.CollectionTransactions)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to check tenant data: %w", err)
	}

	if err := storage.Save(ctx, store, tenant, storage.CollectionTransactions, []models.Transaction{}); err != nil {
		return err
	}
	if err := storage.Save(ctx, store, tenant, storage.CollectionSheets, []models.Sheet{}); err != nil {
		return err
	}
	if err := storage.Save(ctx, store, tenant, storage.CollectionUsers, []models.User{}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Seeded tenant collections", "tenant", tenant)
	return nil
}
