package ledger

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/livrocaixa/internal/models"
)

// Sort returns a stably sorted copy of txs.
//
// Dates compare chronologically, amounts numerically and categories with
// Brazilian Portuguese collation, so accented names sort next to their base letter.
// Descending inverts the comparator; equal keys keep their input order either way.
// An empty or unknown key returns the input order.
func Sort(txs []models.Transaction, key models.SortKey, dir models.Direction) []models.Transaction {
	out := slices.Clone(txs)

	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	if dir == models.Descending {
		asc := cmp
		cmp = func(a, b models.Transaction) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key models.SortKey) func(a, b models.Transaction) int {
	switch key {
	case models.SortByDate:
		return func(a, b models.Transaction) int { return a.Date.Compare(b.Date) }
	case models.SortByAmount:
		return func(a, b models.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case models.SortByCategory:
		col := newCollator()
		return func(a, b models.Transaction) int { return col.CompareString(a.Category, b.Category) }
	default:
		return nil
	}
}

// newCollator returns a fresh collator; collators are not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese)
}

// CategoryNames returns the distinct categories of txs in collation order.
func CategoryNames(txs []models.Transaction) []string {
	seen := make(map[string]struct{}, len(txs))
	names := make([]string, 0)
	for _, t := range txs {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		names = append(names, t.Category)
	}
	Collate(names)
	return names
}

// Collate sorts names in place with Brazilian Portuguese collation.
func Collate(names []string) {
	col := newCollator()
	slices.SortStableFunc(names, col.CompareString)
}
