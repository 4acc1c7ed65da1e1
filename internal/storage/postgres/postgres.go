// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5:// scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/livrocaixa/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store on a documents table with a JSONB body.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to dsn, applies migrations and returns a ready store.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func runMigrations(dsn string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(dsn))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// migrateURL rewrites a postgres:// DSN to the scheme the migrate pgx5 driver listens on.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Get retrieves the document stored for (tenant, collection).
func (s *PostgresStore) Get(ctx context.Context, tenant, collection string) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		"SELECT body::text FROM documents WHERE tenant_id = $1 AND collection = $2",
		tenant, collection,
	).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return body, nil
}

// Put inserts or replaces the document for (tenant, collection).
func (s *PostgresStore) Put(ctx context.Context, tenant, collection string, blob []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (tenant_id, collection, body, updated_at)
		 VALUES ($1, $2, $3::jsonb, now())
		 ON CONFLICT (tenant_id, collection) DO UPDATE SET
		     body = excluded.body,
		     updated_at = excluded.updated_at`,
		tenant, collection, string(blob),
	)
	if err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}

// Delete removes the document for (tenant, collection) if it exists.
func (s *PostgresStore) Delete(ctx context.Context, tenant, collection string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM documents WHERE tenant_id = $1 AND collection = $2",
		tenant, collection,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
