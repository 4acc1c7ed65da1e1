package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	sessionKey contextKey = "session"
	tokenKey   contextKey = "token"
)

// WithSession stores the resolved session and its raw token in ctx.
func WithSession(ctx context.Context, s models.Session, token string) context.Context {
	ctx = context.WithValue(ctx, sessionKey, s)
	return context.WithValue(ctx, tokenKey, token)
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(models.Session)
	return s, ok
}

// GetUserID extracts the user ID, which is also the tenant, from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	s, _ := SessionFrom(ctx)
	return s.UserID
}

// GetToken returns the bearer token the session was resolved from.
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireSession returns a middleware that resolves the bearer token to a live
// session and adds it to the request context. Procedures listed in public are
// passed through untouched.
func RequireSession(sessions *auth.Sessions, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if open[req.Spec().Procedure] {
				return next(ctx, req)
			}

			token, err := BearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			session, err := sessions.Resolve(ctx, token)
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrNoSession) {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			if err != nil {
				slog.ErrorContext(ctx, "Failed to resolve session", "procedure", req.Spec().Procedure, "error", err)
				return nil, connect.NewError(connect.CodeInternal, errors.New("failed to resolve session"))
			}

			return next(WithSession(ctx, session, token), req)
		}
	}
}
