package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/livrocaixa/internal/models"
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	directoryAuth
}

// Ensure PasswordAuthenticator implements Authenticator
var _ Authenticator = (*PasswordAuthenticator)(nil)

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(dir *Directory) *PasswordAuthenticator {
	return newPasswordAuthenticator(dir, bcrypt.DefaultCost)
}

func newPasswordAuthenticator(dir *Directory, cost int) *PasswordAuthenticator {
	return &PasswordAuthenticator{directoryAuth{
		dir: dir,
		scheme: scheme{
			minLength: 8,
			hash: func(plain string) (string, error) {
				hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
				return string(hashed), err
			},
			matches: func(stored, plain string) bool {
				return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
			},
		},
		now: time.Now,
	}}
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	return a.validateCredential(credential)
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return a.register(ctx, a, in)
}

// Authenticate verifies the email and password, returning the user if valid.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	return a.authenticate(ctx, email, credential)
}

// ChangePassword replaces the stored hash after checking the current password.
func (a *PasswordAuthenticator) ChangePassword(ctx context.Context, userID, current, next string) error {
	return a.changePassword(ctx, a, userID, current, next)
}
