package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/metrics"
	"github.com/mmynk/livrocaixa/internal/middleware"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// AuthService procedures.
var (
	RegisterProcedure    = procedure("AuthService", "Register")
	LoginProcedure       = procedure("AuthService", "Login")
	LogoutProcedure      = procedure("AuthService", "Logout")
	CurrentUserProcedure = procedure("AuthService", "CurrentUser")
)

// PublicProcedures can be called without a session.
var PublicProcedures = []string{RegisterProcedure, LoginProcedure, LogoutProcedure}

// LoginRequest carries the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Token   string         `json:"token"`
	Session models.Session `json:"session"`
}

// AuthService implements registration, login and logout.
type AuthService struct {
	authenticator auth.Authenticator
	sessions      *auth.Sessions
	store         storage.Store
	profiles      *repository.Profiles
	events        events.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	authenticator auth.Authenticator,
	sessions *auth.Sessions,
	store storage.Store,
	profiles *repository.Profiles,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		store:         store,
		profiles:      profiles,
		events:        publisher,
		metrics:       m,
		logger:        logger,
	}
}

// Mount registers the service on mux.
func (s *AuthService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, RegisterProcedure, s.Register, opts...)
	handle(mux, LoginProcedure, s.Login, opts...)
	handle(mux, LogoutProcedure, s.Logout, opts...)
	handle(mux, CurrentUserProcedure, s.CurrentUser, opts...)
}

// Register creates a new account and logs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[auth.RegisterInput]) (*connect.Response[AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	user, err := s.authenticator.Register(ctx, *req.Msg)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Msg.Email, "error", err)
		return nil, toConnectError(err)
	}

	resp, err := s.begin(ctx, user)
	if err != nil {
		return nil, err
	}

	events.Notify(ctx, s.events, events.New(events.UserRegistered, user.ID, user.ID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	}))

	s.logger.Info("User registered successfully", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

// Login authenticates a user and starts a session.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserInactive) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, toConnectError(err)
	}
	s.metrics.LoginAttempts.WithLabelValues("success").Inc()

	resp, err := s.begin(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return resp, nil
}

// begin prepares the tenant's books, records the access and issues the token.
func (s *AuthService) begin(ctx context.Context, user *models.User) (*connect.Response[AuthResponse], error) {
	if err := repository.Seed(ctx, s.store, user.ID); err != nil {
		s.logger.Error("Failed to seed tenant", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	token, session, err := s.sessions.Begin(ctx, user)
	if err != nil {
		s.logger.Error("Failed to start session", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.profiles.RecordAccess(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to record access", "user_id", user.ID, "error", err)
	}

	return connect.NewResponse(&AuthResponse{Token: token, Session: session}), nil
}

// Logout ends the session behind the bearer token. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[Empty], error) {
	token, err := middleware.BearerToken(req.Header().Get("Authorization"))
	if err != nil {
		return connect.NewResponse(&Empty{}), nil
	}

	if err := s.sessions.End(ctx, token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return connect.NewResponse(&Empty{}), nil
		}
		s.logger.Error("Logout failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("User logged out")
	return connect.NewResponse(&Empty{}), nil
}

// CurrentUser returns the session of the caller.
func (s *AuthService) CurrentUser(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[models.Session], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&session), nil
}

// sessionFrom returns the caller's session or Unauthenticated.
func sessionFrom(ctx context.Context) (models.Session, error) {
	session, ok := middleware.SessionFrom(ctx)
	if !ok || session.UserID == "" {
		return models.Session{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return session, nil
}
