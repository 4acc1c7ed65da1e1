package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// Sheets holds the monthly ledger sheets of each tenant.
type Sheets struct {
	list *list[models.Sheet]
}

// NewSheets creates the sheet repository.
func NewSheets(store storage.Store) *Sheets {
	return &Sheets{
		list: newList(store, storage.CollectionSheets, func(s models.Sheet) string { return s.ID }),
	}
}

// Add validates in, computes the balance once and stores the sheet.
func (r *Sheets) Add(ctx context.Context, tenant string, in models.SheetInput) (*models.Sheet, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sheet := in.Sheet(uuid.NewString())
	if err := r.list.insert(ctx, tenant, sheet, nil); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	return &sheet, nil
}

// List returns the tenant's sheets in insertion order.
func (r *Sheets) List(ctx context.Context, tenant string) ([]models.Sheet, error) {
	return r.list.all(ctx, tenant)
}

// Delete removes the sheet with the given id.
func (r *Sheets) Delete(ctx context.Context, tenant, id string) (*models.Sheet, error) {
	removed, err := r.list.remove(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
