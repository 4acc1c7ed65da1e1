package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/livrocaixa/internal/models"
)

// Aggregate derives every report view from txs.
//
// The derivations are independent folds over the same set:
//   - Totals: income sum, expense sum, balance = income - expense
//   - Months: always 12 rows, grouped by calendar month of the date
//   - Categories: grouped by the exact category string, net = income - expense
//   - Shares: per-category chart slices, zero slices omitted
//   - Series: running balance in chronological order, starting from 0
//   - Largest: biggest single income and expense
//
// Empty input yields a zero report with 12 zero rows, never an error.
func Aggregate(txs []models.Transaction) models.Report {
	categories := ByCategory(txs)
	return models.Report{
		Totals:     Totals(txs),
		Months:     Months(txs),
		Categories: categories,
		Shares:     shares(categories),
		Series:     RunningBalance(txs),
		Largest:    largest(txs),
	}
}

// Totals sums income and expense separately and derives the balance.
func Totals(txs []models.Transaction) models.Totals {
	totals := models.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		if t.IsIncome() {
			totals.Income = totals.Income.Add(t.Amount)
			totals.IncomeCount++
		} else {
			totals.Expense = totals.Expense.Add(t.Amount)
			totals.ExpenseCount++
		}
	}
	totals.Balance = totals.Income.Sub(totals.Expense)
	return totals
}

// Months returns exactly 12 rows, January first. Rows for months without data are zero.
// Transactions from different years fall into the same row; filter by year upstream.
func Months(txs []models.Transaction) []models.MonthRow {
	rows := make([]models.MonthRow, 12)
	for i := range rows {
		rows[i] = models.MonthRow{
			Month:   i + 1,
			Name:    MonthName(i + 1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, t := range txs {
		row := &rows[t.Date.Month()-1]
		if t.IsIncome() {
			row.Income = row.Income.Add(t.Amount)
		} else {
			row.Expense = row.Expense.Add(t.Amount)
		}
	}

	for i := range rows {
		rows[i].Balance = rows[i].Income.Sub(rows[i].Expense)
	}
	return rows
}

// ByCategory groups txs by category. The key set comes from the data.
func ByCategory(txs []models.Transaction) map[string]models.CategoryTotals {
	categories := make(map[string]models.CategoryTotals)
	for _, t := range txs {
		ct, ok := categories[t.Category]
		if !ok {
			ct = models.CategoryTotals{Income: decimal.Zero, Expense: decimal.Zero}
		}
		if t.IsIncome() {
			ct.Income = ct.Income.Add(t.Amount)
		} else {
			ct.Expense = ct.Expense.Add(t.Amount)
		}
		ct.Net = ct.Income.Sub(ct.Expense)
		categories[t.Category] = ct
	}
	return categories
}

// RunningBalance orders txs chronologically (stable, independent of any prior sort) and
// accumulates signed amounts from 0. The series has one point per transaction.
func RunningBalance(txs []models.Transaction) []models.BalancePoint {
	ordered := Sort(txs, models.SortByDate, models.Ascending)

	series := make([]models.BalancePoint, 0, len(ordered))
	balance := decimal.Zero
	for _, t := range ordered {
		balance = balance.Add(t.Signed())
		series = append(series, models.BalancePoint{Date: t.Date, Balance: balance})
	}
	return series
}

func shares(categories map[string]models.CategoryTotals) models.Shares {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	Collate(names)

	out := models.Shares{Income: []models.Share{}, Expense: []models.Share{}}
	for _, name := range names {
		ct := categories[name]
		if ct.Income.IsPositive() {
			out.Income = append(out.Income, models.Share{Category: name, Amount: ct.Income})
		}
		if ct.Expense.IsPositive() {
			out.Expense = append(out.Expense, models.Share{Category: name, Amount: ct.Expense})
		}
	}
	return out
}

func largest(txs []models.Transaction) models.Largest {
	l := models.Largest{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range txs {
		if t.IsIncome() {
			l.Income = decimal.Max(l.Income, t.Amount)
		} else {
			l.Expense = decimal.Max(l.Expense, t.Amount)
		}
	}
	return l
}
