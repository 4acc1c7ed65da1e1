// Package storage provides the tenant-partitioned key-value store every other package persists through.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a (tenant, collection) key holds no value.
var ErrNotFound = errors.New("not found")

// SystemTenant owns data that belongs to no single user, such as the login directory.
const SystemTenant = "system"

// Collection names. Each holds one JSON document per tenant.
const (
	CollectionTransactions = "transactions"
	CollectionSheets       = "sheets"
	CollectionUsers        = "users"
	CollectionProfile      = "profile"
	CollectionStats        = "stats"
	CollectionAchievements = "achievements"
	CollectionSessions     = "sessions"
)

// Store defines the interface for tenant-scoped document storage.
// Values are whole JSON documents keyed by (tenant, collection); writes replace the
// previous value entirely. This abstraction allows swapping backends (memory, SQLite,
// PostgreSQL) without changing the repositories.
type Store interface {
	// Get returns the stored document, or ErrNotFound.
	Get(ctx context.Context, tenant, collection string) ([]byte, error)

	// Put replaces the document at (tenant, collection).
	Put(ctx context.Context, tenant, collection string, blob []byte) error

	// Delete removes the document. Deleting a missing key is not an error.
	Delete(ctx context.Context, tenant, collection string) error

	// Close releases any resources held by the store.
	Close() error
}
