// Package memory provides an in-process implementation of storage.Store for tests and the CLI demo mode.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mmynk/livrocaixa/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Key addresses one document.
type Key struct {
	Tenant     string
	Collection string
}

// Store keeps documents in a map. Values are copied on the way in and out,
// so callers can never alias stored bytes.
type Store struct {
	mu   sync.RWMutex
	docs map[Key][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{docs: make(map[Key][]byte)}
}

// Get returns a copy of the stored document.
func (s *Store) Get(_ context.Context, tenant, collection string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.docs[Key{tenant, collection}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(blob), nil
}

// Put stores a copy of blob.
func (s *Store) Put(_ context.Context, tenant, collection string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[Key{tenant, collection}] = slices.Clone(blob)
	return nil
}

// Delete removes the document if present.
func (s *Store) Delete(_ context.Context, tenant, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, Key{tenant, collection})
	return nil
}

// Keys lists every stored key, ordered by tenant then collection.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return cmp.Or(cmp.Compare(a.Tenant, b.Tenant), cmp.Compare(a.Collection, b.Collection))
	})
	return keys
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
