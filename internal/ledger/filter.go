// Package ledger implements the aggregation pipeline over a tenant's transactions:
// filter, then sort, then aggregate. Every function is pure and allocation-only;
// inputs are never mutated.
package ledger

import (
	"strings"

	"github.com/mmynk/livrocaixa/internal/models"
)

// Filter returns the transactions for which every criterion holds, in input order.
//
// Criteria are combined with AND:
//   - Year and Month match the calendar date (0 means any)
//   - Category matches exactly (empty or "all" means any)
//   - Search is a case-insensitive substring of description, category or responsible
//   - Start and End bound the date, both inclusive
//   - IncomeOnly drops expenses
//
// An empty result is valid output. Applying the same criteria twice gives the same result.
func Filter(txs []models.Transaction, c models.Criteria) []models.Transaction {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	category := strings.TrimSpace(c.Category)
	anyCategory := c.AllCategories()
	start, hasStart := c.Since()
	end, hasEnd := c.Until()

	out := make([]models.Transaction, 0, len(txs))
	for _, t := range txs {
		if c.Year != 0 && t.Date.Year() != c.Year {
			continue
		}
		if c.Month != 0 && int(t.Date.Month()) != c.Month {
			continue
		}
		if !anyCategory && t.Category != category {
			continue
		}
		if hasStart && t.Date.Compare(start) < 0 {
			continue
		}
		if hasEnd && t.Date.Compare(end) > 0 {
			continue
		}
		if c.IncomeOnly && t.Kind != models.KindIncome {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchesSearch expects needle already lower-cased.
func matchesSearch(t models.Transaction, needle string) bool {
	return strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.Category), needle) ||
		strings.Contains(strings.ToLower(t.Responsible), needle)
}
