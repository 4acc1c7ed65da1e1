package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/livrocaixa/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// Default administrator created when a login finds the directory empty.
const (
	DefaultAdminEmail    = "admin@adag.org"
	DefaultAdminPassword = "admin123"
	DefaultAdminName     = "Administrador"
)

// RegisterInput carries the self-service registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between the plaintext mock and the bcrypt-backed
// implementation without changing the service layer code.
type Authenticator interface {
	// Register creates a new account. The first account in an empty directory becomes
	// admin; every later one is a viewer.
	Register(ctx context.Context, in RegisterInput) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error

	// ChangePassword replaces the credential of userID after verifying current.
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// validateRegistration checks the fields both authenticators share.
func validateRegistration(in RegisterInput, a Authenticator) error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, &models.ValidationError{Field: "name", Reason: "is required"})
	}
	if err := models.ValidateEmail(in.Email); err != nil {
		errs = append(errs, err)
	}
	if err := a.ValidateCredential(in.Password); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// usernameFor derives a handle from the local part of the email.
func usernameFor(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return strings.ToLower(local)
}
