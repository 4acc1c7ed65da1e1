package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
)

// ProfileService procedures.
var (
	GetProfileProcedure     = procedure("ProfileService", "GetProfile")
	UpdateProfileProcedure  = procedure("ProfileService", "UpdateProfile")
	ChangePasswordProcedure = procedure("ProfileService", "ChangePassword")
	GetProgressProcedure    = procedure("ProfileService", "GetProgress")
)

// ProfileService implements the profile page RPCs.
type ProfileService struct {
	profiles *repository.Profiles
	logger   *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles *repository.Profiles, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Mount registers the service on mux.
func (s *ProfileService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, GetProfileProcedure, s.GetProfile, opts...)
	handle(mux, UpdateProfileProcedure, s.UpdateProfile, opts...)
	handle(mux, ChangePasswordProcedure, s.ChangePassword, opts...)
	handle(mux, GetProgressProcedure, s.GetProgress, opts...)
}

func (s *ProfileService) GetProfile(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[models.Profile], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Get(ctx, session)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&p), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, req *connect.Request[models.Profile]) (*connect.Response[models.Profile], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Update(ctx, session.UserID, *req.Msg)
	if err != nil {
		s.logger.Warn("UpdateProfile failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&p), nil
}

// ChangePassword replaces the caller's login password.
func (s *ProfileService) ChangePassword(ctx context.Context, req *connect.Request[models.PasswordChange]) (*connect.Response[Empty], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.ChangePassword(ctx, session.UserID, *req.Msg); err != nil {
		s.logger.Warn("ChangePassword failed", "user_id", session.UserID, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			err = &models.ValidationError{Field: "currentPassword", Reason: "is incorrect"}
		}
		return nil, toConnectError(err)
	}
	s.logger.Info("Password changed", "user_id", session.UserID)
	return connect.NewResponse(&Empty{}), nil
}

// GetProgress returns the activity stats and achievements.
func (s *ProfileService) GetProgress(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[models.Progress], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.profiles.Progress(ctx, session.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&progress), nil
}
