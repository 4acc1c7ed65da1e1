package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
)

// DefaultBio is shown until the user writes their own.
const DefaultBio = "Membro da equipe de tesouraria da ADAG Amor Genuíno."

// Experience awards.
const (
	xpFirstAccess = 5
	xpNewDay      = 5
	xpPerLevel    = 100
)

type milestone struct {
	id, title, description string
	max                    int
	progress               func(models.Stats) int
}

var milestones = []milestone{
	{"1", "Primeiros Passos", "Completou o primeiro login no sistema", 1, func(s models.Stats) int {
		if s.FirstAccess.IsZero() {
			return 0
		}
		return 1
	}},
	{"2", "Gerente Financeiro", "Registrou mais de 20 transações", 20, func(s models.Stats) int { return s.TransactionsCreated }},
	{"3", "Mestre dos Relatórios", "Gerou mais de 10 relatórios", 10, func(s models.Stats) int { return s.ReportsGenerated }},
	{"4", "Usuário Dedicado", "Acessou o sistema por 30 dias", 30, func(s models.Stats) int { return s.DaysActive }},
	{"5", "Especialista em Tesouraria", "Alcançou o nível 5 no sistema", 5, func(s models.Stats) int { return s.Level }},
}

// Achievements derives the achievement list from stats.
func Achievements(s models.Stats) []models.Achievement {
	out := make([]models.Achievement, len(milestones))
	for i, m := range milestones {
		p := min(m.progress(s), m.max)
		out[i] = models.Achievement{
			ID:          m.id,
			Title:       m.title,
			Description: m.description,
			Unlocked:    p >= m.max,
			Progress:    p,
			MaxProgress: m.max,
		}
	}
	return out
}

// NewStats is the state before any recorded activity.
func NewStats() models.Stats {
	return models.Stats{Level: 1, NextLevelXP: xpPerLevel}
}

func level(s *models.Stats) {
	s.Level = s.XP/xpPerLevel + 1
	s.NextLevelXP = s.Level * xpPerLevel
}

// Profiles stores profile data and activity stats per tenant.
type Profiles struct {
	store storage.Store
	auth  auth.Authenticator
	now   func() time.Time

	// mu serialises stats updates within this process.
	mu sync.Mutex
}

// NewProfiles creates the profile repository. Password changes go through authenticator.
func NewProfiles(store storage.Store, authenticator auth.Authenticator) *Profiles {
	return &Profiles{store: store, auth: authenticator, now: time.Now}
}

// Get returns the stored profile, defaulting unset fields from the session.
func (r *Profiles) Get(ctx context.Context, session models.Session) (models.Profile, error) {
	p, err := storage.Load(ctx, r.store, session.UserID, storage.CollectionProfile, models.Profile{})
	if err != nil {
		return models.Profile{}, err
	}
	if p.Name == "" {
		p.Name = session.Name
	}
	if p.Email == "" {
		p.Email = session.Email
	}
	if p.Username == "" {
		local, _, _ := strings.Cut(session.Email, "@")
		p.Username = local
	}
	if p.Bio == "" {
		p.Bio = DefaultBio
	}
	return p, nil
}

// Update validates and stores the profile.
func (r *Profiles) Update(ctx context.Context, tenant string, p models.Profile) (models.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Profile{}, &models.ValidationError{Field: "name", Reason: "is required"}
	}
	if err := models.ValidateEmail(p.Email); err != nil {
		return models.Profile{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Username = strings.TrimSpace(p.Username)
	if err := storage.Save(ctx, r.store, tenant, storage.CollectionProfile, p); err != nil {
		return models.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}

// ChangePassword checks the confirmation and replaces the login password.
func (r *Profiles) ChangePassword(ctx context.Context, userID string, change models.PasswordChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	return r.auth.ChangePassword(ctx, userID, change.Current, change.New)
}

// Progress returns the stats and the achievements derived from them.
// The recomputed achievements are persisted.
func (r *Profiles) Progress(ctx context.Context, tenant string) (models.Progress, error) {
	stats, err := storage.Load(ctx, r.store, tenant, storage.CollectionStats, NewStats())
	if err != nil {
		return models.Progress{}, err
	}
	achievements := Achievements(stats)
	if err := storage.Save(ctx, r.store, tenant, storage.CollectionAchievements, achievements); err != nil {
		return models.Progress{}, fmt.Errorf("failed to save achievements: %w", err)
	}
	return models.Progress{Stats: stats, Achievements: achievements}, nil
}

// RecordAccess counts a login. The first access and each new calendar day award xp.
func (r *Profiles) RecordAccess(ctx context.Context, tenant string) error {
	now := r.now()
	today := models.DateOf(now)
	return r.record(ctx, tenant, func(s *models.Stats) {
		switch {
		case s.FirstAccess.IsZero():
			s.FirstAccess = now
			s.DaysActive = 1
			s.XP += xpFirstAccess
			s.LastAccess = today
		case s.LastAccess.Compare(today) != 0:
			s.DaysActive++
			s.XP += xpNewDay
			s.LastAccess = today
		}
	})
}

// RecordTransaction counts a created transaction.
func (r *Profiles) RecordTransaction(ctx context.Context, tenant string) error {
	return r.record(ctx, tenant, func(s *models.Stats) { s.TransactionsCreated++ })
}

// RecordReport counts a generated report or export.
func (r *Profiles) RecordReport(ctx context.Context, tenant string) error {
	return r.record(ctx, tenant, func(s *models.Stats) { s.ReportsGenerated++ })
}

// RecordSheet counts a created sheet.
func (r *Profiles) RecordSheet(ctx context.Context, tenant string) error {
	return r.record(ctx, tenant, func(s *models.Stats) { s.SheetsManaged++ })
}

func (r *Profiles) record(ctx context.Context, tenant string, fn func(*models.Stats)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := storage.Load(ctx, r.store, tenant, storage.CollectionStats, NewStats())
	if err != nil {
		return err
	}
	fn(&stats)
	level(&stats)
	if err := storage.Save(ctx, r.store, tenant, storage.CollectionStats, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	if err := storage.Save(ctx, r.store, tenant, storage.CollectionAchievements, Achievements(stats)); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}
	return nil
}
