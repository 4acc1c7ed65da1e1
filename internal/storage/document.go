package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Load decodes the document at (tenant, collection) into a T.
//
// A missing key yields fallback. A document that fails to decode is logged, discarded
// and overwritten with fallback, which is then returned; callers never see parse errors.
// Only backend failures are returned as errors.
func Load[T any](ctx context.Context, s Store, tenant, collection string, fallback T) (T, error) {
	blob, err := s.Get(ctx, tenant, collection)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to load %s/%s: %w", tenant, collection, err)
	}

	var value T
	if err := json.Unmarshal(blob, &value); err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored document",
			"tenant", tenant,
			"collection", collection,
			"bytes", len(blob),
			"error", err,
		)
		if err := Save(ctx, s, tenant, collection, fallback); err != nil {
			return fallback, fmt.Errorf("failed to reset %s/%s: %w", tenant, collection, err)
		}
		return fallback, nil
	}
	return value, nil
}

// Save encodes value as JSON and replaces the document at (tenant, collection).
func Save[T any](ctx context.Context, s Store, tenant, collection string, value T) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", tenant, collection, err)
	}
	if err := s.Put(ctx, tenant, collection, blob); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", tenant, collection, err)
	}
	return nil
}
