// Package repository persists the tenant-scoped collections of the treasury books.
//
// Every collection is one JSON array per tenant in a storage.Store. Operations load the
// array, change it and write it back whole. The tenant is always passed explicitly.
package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/mmynk/livrocaixa/internal/storage"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// list is a JSON array of T stored at (tenant, collection).
type list[T any] struct {
	store      storage.Store
	collection string
	id         func(T) string

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

func newList[T any](store storage.Store, collection string, id func(T) string) *list[T] {
	return &list[T]{store: store, collection: collection, id: id}
}

func (l *list[T]) all(ctx context.Context, tenant string) ([]T, error) {
	return storage.Load(ctx, l.store, tenant, l.collection, []T{})
}

func (l *list[T]) save(ctx context.Context, tenant string, items []T) error {
	return storage.Save(ctx, l.store, tenant, l.collection, items)
}

// insert appends item after check accepts the current contents.
func (l *list[T]) insert(ctx context.Context, tenant string, item T, check func([]T) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.all(ctx, tenant)
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(items); err != nil {
			return err
		}
	}
	return l.save(ctx, tenant, append(items, item))
}

// remove deletes exactly the record with the given id.
func (l *list[T]) remove(ctx context.Context, tenant, id string) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	items, err := l.all(ctx, tenant)
	if err != nil {
		return zero, err
	}
	i := slices.IndexFunc(items, func(item T) bool { return l.id(item) == id })
	if i < 0 {
		return zero, ErrNotFound
	}
	removed := items[i]
	if err := l.save(ctx, tenant, slices.Delete(items, i, i+1)); err != nil {
		return zero, err
	}
	return removed, nil
}

// update applies fn to the record with the given id. fn sees the other records so it
// can enforce uniqueness.
func (l *list[T]) update(ctx context.Context, tenant, id string, fn func(item *T, others []T) error) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	items, err := l.all(ctx, tenant)
	if err != nil {
		return zero, err
	}
	i := slices.IndexFunc(items, func(item T) bool { return l.id(item) == id })
	if i < 0 {
		return zero, ErrNotFound
	}
	others := slices.Concat(items[:i], items[i+1:])
	if err := fn(&items[i], others); err != nil {
		return zero, err
	}
	if err := l.save(ctx, tenant, items); err != nil {
		return zero, err
	}
	return items[i], nil
}
