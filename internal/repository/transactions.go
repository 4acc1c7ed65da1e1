package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// Transactions is the ledger of each tenant.
type Transactions struct {
	list *list[models.Transaction]
}

// NewTransactions creates the transaction repository.
func NewTransactions(store storage.Store) *Transactions {
	return &Transactions{
		list: newList(store, storage.CollectionTransactions, func(t models.Transaction) string { return t.ID }),
	}
}

// Add validates in and appends it with a fresh id.
func (r *Transactions) Add(ctx context.Context, tenant string, in models.TransactionInput) (*models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tx := in.Transaction(uuid.NewString())
	if err := r.list.insert(ctx, tenant, tx, nil); err != nil {
		return nil, fmt.Errorf("failed to add transaction: %w", err)
	}
	return &tx, nil
}

// List returns the tenant's transactions in insertion order.
func (r *Transactions) List(ctx context.Context, tenant string) ([]models.Transaction, error) {
	return r.list.all(ctx, tenant)
}

// Delete removes exactly the transaction with the given id.
func (r *Transactions) Delete(ctx context.Context, tenant, id string) (*models.Transaction, error) {
	removed, err := r.list.remove(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
