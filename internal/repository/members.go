package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// InvitedName is the placeholder full name of an invited member.
const InvitedName = "Usuário Convidado"

// Members is the user list each tenant manages from the user management view.
// It is separate from the login directory.
type Members struct {
	list *list[models.User]
	now  func() time.Time
}

// NewMembers creates the member repository.
func NewMembers(store storage.Store) *Members {
	return &Members{
		list: newList(store, storage.CollectionUsers, func(u models.User) string { return u.ID }),
		now:  time.Now,
	}
}

func emailTaken(email string) func([]models.User) error {
	return func(users []models.User) error {
		if slices.ContainsFunc(users, func(u models.User) bool { return models.SameEmail(u.Email, email) }) {
			return auth.ErrEmailExists
		}
		return nil
	}
}

func publicUsers(users []models.User) []models.User {
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out
}

// List returns the members without their passwords.
func (r *Members) List(ctx context.Context, tenant string) ([]models.User, error) {
	users, err := r.list.all(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return publicUsers(users), nil
}

// Add creates an active member. The role defaults to viewer.
func (r *Members) Add(ctx context.Context, tenant string, in models.MemberInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleViewer
	}
	user := models.User{
		ID:          uuid.NewString(),
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.TrimSpace(in.Email),
		FullName:    strings.TrimSpace(in.FullName),
		Role:        role,
		Password:    in.Password,
		IsActive:    true,
		DateCreated: r.now(),
	}
	if err := r.list.insert(ctx, tenant, user, emailTaken(user.Email)); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// Invite creates an inactive member with a temporary password.
func (r *Members) Invite(ctx context.Context, tenant, email string, role models.Role) (*models.User, error) {
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleViewer
	}
	if !role.Valid() {
		return nil, &models.ValidationError{Field: "role", Reason: "must be admin, editor or viewer"}
	}
	email = strings.TrimSpace(email)
	local, _, _ := strings.Cut(email, "@")
	user := models.User{
		ID:          uuid.NewString(),
		Username:    local,
		Email:       email,
		FullName:    InvitedName,
		Role:        role,
		Password:    temporaryPassword(),
		IsActive:    false,
		DateCreated: r.now(),
	}
	if err := r.list.insert(ctx, tenant, user, emailTaken(email)); err != nil {
		return nil, fmt.Errorf("failed to invite member: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// Update replaces the editable fields of a member.
func (r *Members) Update(ctx context.Context, tenant, id string, in models.MemberUpdate) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	updated, err := r.list.update(ctx, tenant, id, func(u *models.User, others []models.User) error {
		if err := emailTaken(in.Email)(others); err != nil {
			return err
		}
		u.Username = strings.TrimSpace(in.Username)
		u.Email = strings.TrimSpace(in.Email)
		u.FullName = strings.TrimSpace(in.FullName)
		u.Role = in.Role
		return nil
	})
	if err != nil {
		return nil, err
	}
	public := updated.Public()
	return &public, nil
}

// ToggleActive flips the active flag.
func (r *Members) ToggleActive(ctx context.Context, tenant, id string) (*models.User, error) {
	updated, err := r.list.update(ctx, tenant, id, func(u *models.User, _ []models.User) error {
		u.IsActive = !u.IsActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	public := updated.Public()
	return &public, nil
}

// ResetPassword replaces a member's password.
func (r *Members) ResetPassword(ctx context.Context, tenant, id, password string) error {
	if password == "" {
		return &models.ValidationError{Field: "password", Reason: "is required"}
	}
	_, err := r.list.update(ctx, tenant, id, func(u *models.User, _ []models.User) error {
		u.Password = password
		return nil
	})
	return err
}

// Delete removes a member.
func (r *Members) Delete(ctx context.Context, tenant, id string) error {
	_, err := r.list.remove(ctx, tenant, id)
	return err
}

// temporaryPassword is eight random lowercase hex characters.
func temporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
