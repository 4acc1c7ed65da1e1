package ledger

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/livrocaixa/internal/models"
)

// FilterSheets keeps the sheets of the selected year whose narrative contains the search text.
func FilterSheets(sheets []models.Sheet, c models.SheetCriteria) []models.Sheet {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]models.Sheet, 0, len(sheets))
	for _, s := range sheets {
		if c.Year != 0 && s.Year != c.Year {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.Narrative), search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSheets returns a copy ordered by year then month, newest first unless ascending is set.
func SortSheets(sheets []models.Sheet, ascending bool) []models.Sheet {
	out := slices.Clone(sheets)
	slices.SortStableFunc(out, func(a, b models.Sheet) int {
		c := cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
		if ascending {
			return c
		}
		return -c
	})
	return out
}

// SumSheets totals income and expense, and sums the balances as stored on each sheet.
func SumSheets(sheets []models.Sheet) models.SheetTotals {
	totals := models.SheetTotals{Income: decimal.Zero, Expense: decimal.Zero, Balance: decimal.Zero}
	for _, s := range sheets {
		totals.Income = totals.Income.Add(s.Income)
		totals.Expense = totals.Expense.Add(s.Expense)
		totals.Balance = totals.Balance.Add(s.Balance)
	}
	return totals
}
