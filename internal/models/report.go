package models

import "github.com/shopspring/decimal"

// Totals sums a set of transactions. Balance is always Income - Expense.
type Totals struct {
	Income       decimal.Decimal `json:"income"`
	Expense      decimal.Decimal `json:"expense"`
	Balance      decimal.Decimal `json:"balance"`
	IncomeCount  int             `json:"incomeCount"`
	ExpenseCount int             `json:"expenseCount"`
}

// MonthRow is one row of the per-month table.
type MonthRow struct {
	// Month is 1-12.
	Month int `json:"month"`

	// Name is the Portuguese month name.
	Name string `json:"name"`

	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CategoryTotals is one entry of the per-category table.
type CategoryTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

// Share is one slice of a per-category chart.
type Share struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Shares holds the income and expense chart slices.
type Shares struct {
	Income  []Share `json:"income"`
	Expense []Share `json:"expense"`
}

// BalancePoint is one point of the running-balance series.
type BalancePoint struct {
	Date    Date            `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Largest holds the biggest single income and expense.
type Largest struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Report is the aggregate view derived from a filtered set of transactions.
// It is recomputed on every request and never persisted.
type Report struct {
	Totals Totals `json:"totals"`

	// Months always has 12 rows, January first.
	Months []MonthRow `json:"months"`

	// Categories is keyed by the exact category string.
	Categories map[string]CategoryTotals `json:"categories"`

	Shares Shares `json:"shares"`

	// Series has one point per transaction, in chronological order.
	Series []BalancePoint `json:"series"`

	Largest Largest `json:"largest"`
}

// SheetTotals sums a set of sheets. Balance sums the stored sheet balances.
type SheetTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}
