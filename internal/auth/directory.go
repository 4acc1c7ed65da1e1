package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// Directory is the list of accounts that can log in. It lives in the system tenant.
//
// Every mutation is a read-modify-write of the whole list; mu serialises them within
// one process.
type Directory struct {
	store storage.Store
	mu    sync.Mutex
}

// NewDirectory creates a Directory over store.
func NewDirectory(store storage.Store) *Directory {
	return &Directory{store: store}
}

// List returns every account, passwords included.
func (d *Directory) List(ctx context.Context) ([]models.User, error) {
	return storage.Load(ctx, d.store, storage.SystemTenant, storage.CollectionUsers, []models.User{})
}

func (d *Directory) save(ctx context.Context, users []models.User) error {
	return storage.Save(ctx, d.store, storage.SystemTenant, storage.CollectionUsers, users)
}

// FindByEmail looks up an account case-insensitively.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(users, func(u models.User) bool { return models.SameEmail(u.Email, email) })
	if i < 0 {
		return nil, ErrUserNotFound
	}
	return &users[i], nil
}

// FindByID looks up an account by id.
func (d *Directory) FindByID(ctx context.Context, id string) (*models.User, error) {
	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, ErrUserNotFound
	}
	return &users[i], nil
}

// Create appends u. A duplicate email returns ErrEmailExists and leaves the list unchanged.
// If assignRole is set it is called with the current list size before the append.
func (d *Directory) Create(ctx context.Context, u *models.User, assignRole func(existing int) models.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(users, func(x models.User) bool { return models.SameEmail(x.Email, u.Email) }) {
		return ErrEmailExists
	}
	if assignRole != nil {
		u.Role = assignRole(len(users))
	}
	if err := d.save(ctx, append(users, *u)); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update applies fn to the account with the given id and persists the result.
func (d *Directory) Update(ctx context.Context, id string, fn func(*models.User) error) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return nil, ErrUserNotFound
	}
	if err := fn(&users[i]); err != nil {
		return nil, err
	}
	if err := d.save(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	updated := users[i]
	return &updated, nil
}

// Delete removes the account with the given id.
func (d *Directory) Delete(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return ErrUserNotFound
	}
	if err := d.save(ctx, slices.Delete(users, i, i+1)); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// bootstrap seeds the default administrator when the directory is empty.
// secret is the stored form of DefaultAdminPassword for the calling authenticator.
func (d *Directory) bootstrap(ctx context.Context, secret func(string) (string, error), now time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	stored, err := secret(DefaultAdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:          uuid.NewString(),
		Username:    usernameFor(DefaultAdminEmail),
		Email:       DefaultAdminEmail,
		FullName:    DefaultAdminName,
		Role:        models.RoleAdmin,
		Password:    stored,
		IsActive:    true,
		DateCreated: now,
	}
	if err := d.save(ctx, []models.User{admin}); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	slog.InfoContext(ctx, "Bootstrapped default administrator", "email", DefaultAdminEmail)
	return nil
}
