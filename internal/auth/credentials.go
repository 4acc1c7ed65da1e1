package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/models"
)

// ErrUserInactive is returned when a disabled account tries to log in.
var ErrUserInactive = errors.New("user is inactive")

// scheme is how an authenticator stores and checks secrets.
type scheme struct {
	minLength int
	hash      func(plain string) (string, error)
	matches   func(stored, plain string) bool
}

// directoryAuth implements the registration and login rules on top of a Directory.
// The concrete authenticators differ only in their scheme.
type directoryAuth struct {
	dir    *Directory
	scheme scheme
	now    func() time.Time
}

func (a *directoryAuth) validateCredential(credential string) error {
	if len(credential) < a.scheme.minLength {
		return &models.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", a.scheme.minLength),
		}
	}
	return nil
}

func (a *directoryAuth) register(ctx context.Context, self Authenticator, in RegisterInput) (*models.User, error) {
	if err := validateRegistration(in, self); err != nil {
		return nil, err
	}

	stored, err := a.scheme.hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := strings.TrimSpace(in.Email)
	user := &models.User{
		ID:          uuid.NewString(),
		Username:    usernameFor(email),
		Email:       email,
		FullName:    strings.TrimSpace(in.Name),
		Password:    stored,
		IsActive:    true,
		DateCreated: a.now(),
	}
	err = a.dir.Create(ctx, user, func(existing int) models.Role {
		if existing == 0 {
			return models.RoleAdmin
		}
		return models.RoleViewer
	})
	if err != nil {
		return nil, err
	}

	public := user.Public()
	return &public, nil
}

func (a *directoryAuth) authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	if err := a.dir.bootstrap(ctx, a.scheme.hash, a.now()); err != nil {
		return nil, err
	}

	user, err := a.dir.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !a.scheme.matches(user.Password, credential) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	now := a.now()
	updated, err := a.dir.Update(ctx, user.ID, func(u *models.User) error {
		u.LastLogin = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	public := updated.Public()
	return &public, nil
}

func (a *directoryAuth) changePassword(ctx context.Context, self Authenticator, userID, current, next string) error {
	if err := self.ValidateCredential(next); err != nil {
		return err
	}
	stored, err := a.scheme.hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = a.dir.Update(ctx, userID, func(u *models.User) error {
		if !a.scheme.matches(u.Password, current) {
			return ErrInvalidCredentials
		}
		u.Password = stored
		return nil
	})
	return err
}
