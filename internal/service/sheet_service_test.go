package service

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/livrocaixa/internal/models"
)

func addSheet(t *testing.T, env *testEnv, token string, month, year int, income, expense int64) *models.Sheet {
	t.Helper()
	return mustCall[models.SheetInput, models.Sheet](t, env, AddSheetProcedure, token, &models.SheetInput{
		Month:      month,
		Year:       year,
		Narrative:  "Fechamento mensal",
		Income:     decimal.NewFromInt(income),
		Expense:    decimal.NewFromInt(expense),
		RecordDate: models.NewDate(year, 12, 31),
	})
}

func TestAddSheet(t *testing.T) {
	env := setupTestServer(t, nil)
	token := register(t, env, "Maria", "maria@adag.org")

	sheet := addSheet(t, env, token, 3, 2024, 500, 320)
	if !sheet.Balance.Equal(decimal.NewFromInt(180)) {
		t.Errorf("Expected balance 180, got %s", sheet.Balance)
	}

	_, err := call[models.SheetInput, models.Sheet](t, env, AddSheetProcedure, token, &models.SheetInput{Month: 0})
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestListSheets(t *testing.T) {
	env := setupTestServer(t, nil)
	token := register(t, env, "Maria", "maria@adag.org")

	addSheet(t, env, token, 1, 2024, 100, 50)
	addSheet(t, env, token, 2, 2024, 200, 20)
	addSheet(t, env, token, 12, 2023, 80, 90)

	resp := mustCall[models.SheetCriteria, SheetList](t, env, ListSheetsProcedure, token, &models.SheetCriteria{Year: 2024})
	if len(resp.Sheets) != 2 {
		t.Fatalf("Expected 2 sheets for 2024, got %d", len(resp.Sheets))
	}
	if resp.Sheets[0].Month != 2 {
		t.Errorf("Expected newest sheet first, got month %d", resp.Sheets[0].Month)
	}
	if !resp.Totals.Balance.Equal(decimal.NewFromInt(230)) {
		t.Errorf("Expected total balance 230, got %s", resp.Totals.Balance)
	}

	all := mustCall[models.SheetCriteria, SheetList](t, env, ListSheetsProcedure, token, &models.SheetCriteria{})
	if len(all.Sheets) != 3 {
		t.Errorf("Expected 3 sheets, got %d", len(all.Sheets))
	}
}

func TestDeleteSheet(t *testing.T) {
	env := setupTestServer(t, nil)
	token := register(t, env, "Maria", "maria@adag.org")
	sheet := addSheet(t, env, token, 1, 2024, 100, 50)

	mustCall[IDRequest, Empty](t, env, DeleteSheetProcedure, token, &IDRequest{ID: sheet.ID})

	_, err := call[IDRequest, Empty](t, env, DeleteSheetProcedure, token, &IDRequest{ID: sheet.ID})
	expectCode(t, err, connect.CodeNotFound)
}
