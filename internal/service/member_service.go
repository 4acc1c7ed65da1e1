package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
)

// MemberService procedures.
var (
	AddMemberProcedure           = procedure("MemberService", "AddMember")
	InviteMemberProcedure        = procedure("MemberService", "InviteMember")
	ListMembersProcedure         = procedure("MemberService", "ListMembers")
	UpdateMemberProcedure        = procedure("MemberService", "UpdateMember")
	ToggleMemberProcedure        = procedure("MemberService", "ToggleMember")
	ResetMemberPasswordProcedure = procedure("MemberService", "ResetMemberPassword")
	DeleteMemberProcedure        = procedure("MemberService", "DeleteMember")
)

// InviteRequest invites a member by email.
type InviteRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UpdateMemberRequest replaces the editable fields of member ID.
type UpdateMemberRequest struct {
	ID string `json:"id"`
	models.MemberUpdate
}

// ResetPasswordRequest sets a new password for member ID.
type ResetPasswordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// MemberList is the caller's member list without passwords.
type MemberList struct {
	Members []models.User `json:"members"`
}

// MemberService implements the user management RPCs over the caller's member list.
type MemberService struct {
	members *repository.Members
	events  events.Publisher
	logger  *slog.Logger
}

// NewMemberService creates a new member service.
func NewMemberService(members *repository.Members, publisher events.Publisher, logger *slog.Logger) *MemberService {
	return &MemberService{members: members, events: publisher, logger: logger}
}

// Mount registers the service on mux.
func (s *MemberService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, AddMemberProcedure, s.AddMember, opts...)
	handle(mux, InviteMemberProcedure, s.InviteMember, opts...)
	handle(mux, ListMembersProcedure, s.ListMembers, opts...)
	handle(mux, UpdateMemberProcedure, s.UpdateMember, opts...)
	handle(mux, ToggleMemberProcedure, s.ToggleMember, opts...)
	handle(mux, ResetMemberPasswordProcedure, s.ResetMemberPassword, opts...)
	handle(mux, DeleteMemberProcedure, s.DeleteMember, opts...)
}

func (s *MemberService) AddMember(ctx context.Context, req *connect.Request[models.MemberInput]) (*connect.Response[models.User], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddMember request", "tenant", session.UserID, "email", req.Msg.Email)

	user, err := s.members.Add(ctx, session.UserID, *req.Msg)
	if err != nil {
		s.logger.Warn("AddMember failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}
	events.Notify(ctx, s.events, events.New(events.MemberAdded, session.UserID, user.ID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	}))
	return connect.NewResponse(user), nil
}

// InviteMember creates an inactive member with a temporary password.
func (s *MemberService) InviteMember(ctx context.Context, req *connect.Request[InviteRequest]) (*connect.Response[models.User], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("InviteMember request", "tenant", session.UserID, "email", req.Msg.Email)

	user, err := s.members.Invite(ctx, session.UserID, req.Msg.Email, req.Msg.Role)
	if err != nil {
		s.logger.Warn("InviteMember failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}
	events.Notify(ctx, s.events, events.New(events.MemberAdded, session.UserID, user.ID, map[string]string{
		"email":   user.Email,
		"role":    string(user.Role),
		"invited": "true",
	}))
	return connect.NewResponse(user), nil
}

func (s *MemberService) ListMembers(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[MemberList], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.members.List(ctx, session.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MemberList{Members: users}), nil
}

func (s *MemberService) UpdateMember(ctx context.Context, req *connect.Request[UpdateMemberRequest]) (*connect.Response[models.User], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.members.Update(ctx, session.UserID, req.Msg.ID, req.Msg.MemberUpdate)
	if err != nil {
		s.logger.Warn("UpdateMember failed", "tenant", session.UserID, "member_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(user), nil
}

// ToggleMember flips the active flag of a member.
func (s *MemberService) ToggleMember(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[models.User], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.members.ToggleActive(ctx, session.UserID, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Member toggled", "tenant", session.UserID, "member_id", user.ID, "active", user.IsActive)
	return connect.NewResponse(user), nil
}

func (s *MemberService) ResetMemberPassword(ctx context.Context, req *connect.Request[ResetPasswordRequest]) (*connect.Response[Empty], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.members.ResetPassword(ctx, session.UserID, req.Msg.ID, req.Msg.Password); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Member password reset", "tenant", session.UserID, "member_id", req.Msg.ID)
	return connect.NewResponse(&Empty{}), nil
}

func (s *MemberService) DeleteMember(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.members.Delete(ctx, session.UserID, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	s.logger.Info("Member deleted", "tenant", session.UserID, "member_id", req.Msg.ID)
	return connect.NewResponse(&Empty{}), nil
}
