package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// ErrNoSession is returned when a token is well formed but its session has ended.
var ErrNoSession = errors.New("session ended")

// Sessions tracks who is logged in. A tenant is authenticated while its session
// marker exists; logging out deletes the marker and every token bound to it.
type Sessions struct {
	store storage.Store
	jwt   *JWTManager
	now   func() time.Time
}

// NewSessions creates a session tracker.
func NewSessions(store storage.Store, jwt *JWTManager) *Sessions {
	return &Sessions{store: store, jwt: jwt, now: time.Now}
}

// Begin persists the marker for user and returns the signed token.
func (s *Sessions) Begin(ctx context.Context, user *models.User) (string, models.Session, error) {
	session := models.NewSession(uuid.NewString(), user, s.now().UTC().Truncate(time.Second))

	token, err := s.jwt.Generate(session)
	if err != nil {
		return "", models.Session{}, err
	}
	if err := storage.Save(ctx, s.store, user.ID, storage.CollectionSessions, session); err != nil {
		return "", models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	return token, session, nil
}

// Resolve validates token and returns the live session it belongs to.
func (s *Sessions) Resolve(ctx context.Context, token string) (models.Session, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		return models.Session{}, err
	}

	current, err := storage.Load(ctx, s.store, claims.UserID, storage.CollectionSessions, models.Session{})
	if err != nil {
		return models.Session{}, err
	}
	if current.ID == "" || current.ID != claims.ID {
		return models.Session{}, ErrNoSession
	}
	return current, nil
}

// End deletes the marker behind token. Ending an already ended session is not an error.
func (s *Sessions) End(ctx context.Context, token string) error {
	session, err := s.Resolve(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, session.UserID, storage.CollectionSessions); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}
