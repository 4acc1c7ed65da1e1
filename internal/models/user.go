package models

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// User represents an account record.
//
// The same shape is used for the system directory (accounts that can log in)
// and for each tenant's member list (managed from the user management view).
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the short handle.
	Username string `json:"username"`

	// Email is unique within a user list, compared case-insensitively.
	Email string `json:"email"`

	// FullName is the display name.
	FullName string `json:"fullName"`

	// Role is admin, editor or viewer.
	Role Role `json:"role"`

	// Password is plaintext for the mock authenticator and a bcrypt hash for the password
	// authenticator. Never returned to clients; see Public.
	Password string `json:"password,omitempty"`

	// IsActive is false for invited members until they accept, or when toggled off.
	IsActive bool `json:"isActive"`

	// DateCreated is when the account was created.
	DateCreated time.Time `json:"dateCreated"`

	// LastLogin is set on each successful login.
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Public returns a copy of the user without the password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// SameEmail compares two addresses case-insensitively.
func SameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.Index(email, "@"):], ".") {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// MemberInput carries the fields of a member added from the user management view.
type MemberInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// Validate requires every field. An empty role is allowed and defaults to viewer.
func (in MemberInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Username) == "" {
		errs = append(errs, invalid("username", "is required"))
	}
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, invalid("fullName", "is required"))
	}
	if err := ValidateEmail(in.Email); err != nil {
		errs = append(errs, err)
	}
	if in.Password == "" {
		errs = append(errs, invalid("password", "is required"))
	}
	if in.Role != "" && !in.Role.Valid() {
		errs = append(errs, invalid("role", "must be admin, editor or viewer"))
	}
	return errors.Join(errs...)
}

// PasswordChange is a request to replace the caller's password.
type PasswordChange struct {
	Current string `json:"currentPassword"`
	New     string `json:"newPassword"`
	Confirm string `json:"confirmPassword"`
}

// Validate requires the new password and a matching confirmation.
func (p PasswordChange) Validate() error {
	var errs []error
	if p.Current == "" {
		errs = append(errs, invalid("currentPassword", "is required"))
	}
	if p.New == "" {
		errs = append(errs, invalid("newPassword", "is required"))
	}
	if p.New != p.Confirm {
		errs = append(errs, invalid("confirmPassword", "passwords do not match"))
	}
	return errors.Join(errs...)
}

// MemberUpdate carries the editable fields of an existing member.
type MemberUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Validate requires every field and a known role.
func (in MemberUpdate) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Username) == "" {
		errs = append(errs, invalid("username", "is required"))
	}
	if strings.TrimSpace(in.FullName) == "" {
		errs = append(errs, invalid("fullName", "is required"))
	}
	if err := ValidateEmail(in.Email); err != nil {
		errs = append(errs, err)
	}
	if !in.Role.Valid() {
		errs = append(errs, invalid("role", "must be admin, editor or viewer"))
	}
	return errors.Join(errs...)
}
