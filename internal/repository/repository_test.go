package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/livrocaixa/internal/auth"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/storage"
	"github.com/mmynk/livrocaixa/internal/storage/memory"
)

func income(amount, date, description string) models.TransactionInput {
	return models.TransactionInput{
		Date:        models.MustParseDate(date),
		Kind:        models.KindIncome,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Category:    "Dízimos",
		Responsible: "Tesoureiro",
	}
}

func TestTransactions_AddAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactions(memory.New())

	var ids []string
	for _, in := range []models.TransactionInput{
		income("10", "2024-01-01", "a"),
		income("20", "2024-01-02", "b"),
		income("30", "2024-01-03", "c"),
	} {
		tx, err := repo.Add(ctx, "u-1", in)
		require.NoError(t, err)
		require.NotEmpty(t, tx.ID)
		ids = append(ids, tx.ID)
	}
	before, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, before, 3)

	removed, err := repo.Delete(ctx, "u-1", ids[1])
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Description)

	after, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[1])

	_, err = repo.Delete(ctx, "u-1", ids[1])
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransactions_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewTransactions(store)

	bad := income("-1", "2024-01-01", "")
	bad.Kind = "transfer"
	_, err := repo.Add(ctx, "u-1", bad)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, store.Keys(), "rejected input must not be stored")
}

func TestTransactions_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactions(memory.New())

	_, err := repo.Add(ctx, "u-1", income("10", "2024-01-01", "a"))
	require.NoError(t, err)

	other, err := repo.List(ctx, "u-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSheets_BalanceComputedAtCreation(t *testing.T) {
	ctx := context.Background()
	repo := NewSheets(memory.New())

	sheet, err := repo.Add(ctx, "u-1", models.SheetInput{
		Month:      3,
		Year:       2024,
		Narrative:  "Março",
		Income:     decimal.RequireFromString("1500.50"),
		Expense:    decimal.RequireFromString("400.25"),
		RecordDate: models.MustParseDate("2024-03-31"),
	})
	require.NoError(t, err)
	assert.True(t, sheet.Balance.Equal(decimal.RequireFromString("1100.25")))

	_, err = repo.Add(ctx, "u-1", models.SheetInput{Month: 13, Year: 2024, Narrative: "x", RecordDate: models.Today()})
	require.ErrorIs(t, err, models.ErrValidation)

	sheets, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	_, err = repo.Delete(ctx, "u-1", sheet.ID)
	require.NoError(t, err)
	sheets, err = repo.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, sheets)
}

func TestMembers(t *testing.T) {
	ctx := context.Background()
	repo := NewMembers(memory.New())

	added, err := repo.Add(ctx, "u-1", models.MemberInput{
		Username: "ana",
		Email:    "ana@adag.org",
		FullName: "Ana Souza",
		Password: "segredo",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, added.Role)
	assert.True(t, added.IsActive)
	assert.Empty(t, added.Password)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := repo.Add(ctx, "u-1", models.MemberInput{
			Username: "ana2", Email: "ANA@adag.org", FullName: "Outra", Password: "x",
		})
		require.ErrorIs(t, err, auth.ErrEmailExists)
		members, err := repo.List(ctx, "u-1")
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		_, err := repo.Add(ctx, "u-1", models.MemberInput{Email: "x@adag.org"})
		require.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("invite creates an inactive member", func(t *testing.T) {
		invited, err := repo.Invite(ctx, "u-1", "novo@adag.org", models.RoleEditor)
		require.NoError(t, err)
		assert.False(t, invited.IsActive)
		assert.Equal(t, "novo", invited.Username)
		assert.Equal(t, InvitedName, invited.FullName)

		stored, err := repo.list.all(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Len(t, stored[1].Password, 8)
	})

	t.Run("toggle flips active", func(t *testing.T) {
		toggled, err := repo.ToggleActive(ctx, "u-1", added.ID)
		require.NoError(t, err)
		assert.False(t, toggled.IsActive)
		toggled, err = repo.ToggleActive(ctx, "u-1", added.ID)
		require.NoError(t, err)
		assert.True(t, toggled.IsActive)
	})

	t.Run("update cannot steal another email", func(t *testing.T) {
		_, err := repo.Update(ctx, "u-1", added.ID, models.MemberUpdate{
			Username: "ana", Email: "novo@adag.org", FullName: "Ana", Role: models.RoleAdmin,
		})
		require.ErrorIs(t, err, auth.ErrEmailExists)

		updated, err := repo.Update(ctx, "u-1", added.ID, models.MemberUpdate{
			Username: "ana", Email: "ana@adag.org", FullName: "Ana S.", Role: models.RoleAdmin,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)
		assert.Equal(t, "Ana S.", updated.FullName)
	})

	t.Run("reset password", func(t *testing.T) {
		require.NoError(t, repo.ResetPassword(ctx, "u-1", added.ID, "nova"))
		stored, err := repo.list.all(ctx, "u-1")
		require.NoError(t, err)
		assert.Equal(t, "nova", stored[0].Password)
		require.ErrorIs(t, repo.ResetPassword(ctx, "u-1", "missing", "nova"), ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "u-1", added.ID))
		members, err := repo.List(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "novo@adag.org", members[0].Email)
	})
}

func TestProfiles_Defaults(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewProfiles(store, auth.NewPlaintextAuthenticator(auth.NewDirectory(store)))

	p, err := repo.Get(ctx, models.Session{UserID: "u-1", Name: "Maria", Email: "maria@adag.org"})
	require.NoError(t, err)
	assert.Equal(t, "Maria", p.Name)
	assert.Equal(t, "maria", p.Username)
	assert.Equal(t, DefaultBio, p.Bio)

	_, err = repo.Update(ctx, "u-1", models.Profile{Name: "", Email: "maria@adag.org"})
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = repo.Update(ctx, "u-1", models.Profile{Name: "Maria Silva", Email: "maria@adag.org", Bio: "Tesoureira"})
	require.NoError(t, err)
	p, err = repo.Get(ctx, models.Session{UserID: "u-1", Name: "Maria", Email: "maria@adag.org"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva", p.Name)
	assert.Equal(t, "Tesoureira", p.Bio)
}

func TestProfiles_ChangePassword(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	authenticator := auth.NewPlaintextAuthenticator(auth.NewDirectory(store))
	repo := NewProfiles(store, authenticator)

	u, err := authenticator.Register(ctx, auth.RegisterInput{Name: "Maria", Email: "maria@adag.org", Password: "segredo"})
	require.NoError(t, err)

	err = repo.ChangePassword(ctx, u.ID, models.PasswordChange{Current: "segredo", New: "novasenha", Confirm: "outra"})
	require.ErrorIs(t, err, models.ErrValidation)

	err = repo.ChangePassword(ctx, u.ID, models.PasswordChange{Current: "segredo", New: "novasenha", Confirm: "novasenha"})
	require.NoError(t, err)
	_, err = authenticator.Authenticate(ctx, "maria@adag.org", "novasenha")
	require.NoError(t, err)
}

func TestProfiles_Gamification(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repo := NewProfiles(store, nil)
	day := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return day }

	progress, err := repo.Progress(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Stats.Level)
	assert.Equal(t, 100, progress.Stats.NextLevelXP)
	assert.False(t, progress.Achievements[0].Unlocked)

	// First access
	require.NoError(t, repo.RecordAccess(ctx, "u-1"))
	// Same day again awards nothing
	day = day.Add(3 * time.Hour)
	require.NoError(t, repo.RecordAccess(ctx, "u-1"))

	progress, err = repo.Progress(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 5, progress.Stats.XP)
	assert.Equal(t, 1, progress.Stats.DaysActive)
	assert.True(t, progress.Achievements[0].Unlocked)

	// 19 more distinct days: 5 + 19*5 = 100 xp, level 2
	for range 19 {
		day = day.AddDate(0, 0, 1)
		require.NoError(t, repo.RecordAccess(ctx, "u-1"))
	}
	progress, err = repo.Progress(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 20, progress.Stats.DaysActive)
	assert.Equal(t, 100, progress.Stats.XP)
	assert.Equal(t, 2, progress.Stats.Level)
	assert.Equal(t, 200, progress.Stats.NextLevelXP)
	assert.Equal(t, 20, progress.Achievements[3].Progress)
	assert.False(t, progress.Achievements[3].Unlocked)

	for range 20 {
		require.NoError(t, repo.RecordTransaction(ctx, "u-1"))
	}
	require.NoError(t, repo.RecordReport(ctx, "u-1"))
	require.NoError(t, repo.RecordSheet(ctx, "u-1"))

	progress, err = repo.Progress(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 20, progress.Stats.TransactionsCreated)
	assert.True(t, progress.Achievements[1].Unlocked)
	assert.Equal(t, 1, progress.Achievements[2].Progress)
	assert.Equal(t, 1, progress.Stats.SheetsManaged)

	stored, err := storage.Load(ctx, store, "u-1", storage.CollectionAchievements, []models.Achievement{})
	require.NoError(t, err)
	assert.Equal(t, progress.Achievements, stored)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, Seed(ctx, store, "u-1"))
	assert.Equal(t, []memory.Key{
		{Tenant: "u-1", Collection: storage.CollectionSheets},
		{Tenant: "u-1", Collection: storage.CollectionTransactions},
		{Tenant: "u-1", Collection: storage.CollectionUsers},
	}, store.Keys())

	// Existing data survives a second seed
	repo := NewTransactions(store)
	_, err := repo.Add(ctx, "u-1", income("10", "2024-01-01", "a"))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, store, "u-1"))
	txs, err := repo.List(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
