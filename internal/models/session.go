package models

import "time"

// Session is the current-session marker: a reduced user record with no password.
type Session struct {
	// ID identifies this login. It is also the jti of the issued token.
	ID string `json:"id"`

	// UserID is the authenticated user, and therefore the tenant whose books are in scope.
	UserID string `json:"userId"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`

	// StartedAt is when the login happened.
	StartedAt time.Time `json:"startedAt"`
}

// NewSession builds the marker for u.
func NewSession(id string, u *User, now time.Time) Session {
	return Session{
		ID:        id,
		UserID:    u.ID,
		Name:      u.DisplayName(),
		Email:     u.Email,
		Role:      u.Role,
		StartedAt: now,
	}
}
