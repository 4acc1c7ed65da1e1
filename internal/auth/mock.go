package auth

import (
	"context"
	"time"

	"github.com/mmynk/livrocaixa/internal/models"
)

// PlaintextAuthenticator is the mock authenticator: passwords are stored and compared
// as plaintext. It exists for demos and local use and provides no security.
type PlaintextAuthenticator struct {
	directoryAuth
}

// Ensure PlaintextAuthenticator implements Authenticator
var _ Authenticator = (*PlaintextAuthenticator)(nil)

// NewPlaintextAuthenticator creates the mock authenticator over dir.
func NewPlaintextAuthenticator(dir *Directory) *PlaintextAuthenticator {
	return &PlaintextAuthenticator{directoryAuth{
		dir: dir,
		scheme: scheme{
			minLength: 6,
			hash:      func(plain string) (string, error) { return plain, nil },
			matches:   func(stored, plain string) bool { return stored == plain },
		},
		now: time.Now,
	}}
}

// ValidateCredential requires at least 6 characters.
func (a *PlaintextAuthenticator) ValidateCredential(credential string) error {
	return a.validateCredential(credential)
}

// Register creates an account with the password stored as given.
func (a *PlaintextAuthenticator) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return a.register(ctx, a, in)
}

// Authenticate matches the email case-insensitively and the password exactly.
func (a *PlaintextAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	return a.authenticate(ctx, email, credential)
}

// ChangePassword replaces the password after checking the current one.
func (a *PlaintextAuthenticator) ChangePassword(ctx context.Context, userID, current, next string) error {
	return a.changePassword(ctx, a, userID, current, next)
}
