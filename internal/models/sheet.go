package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Sheet is a manually entered monthly summary (planilha). It is independent of transactions.
type Sheet struct {
	// ID is the unique identifier for the sheet (UUID format).
	ID string `json:"id"`

	// Month is the calendar month, 1-12.
	Month int `json:"month"`

	// Year is the calendar year.
	Year int `json:"year"`

	// Narrative is the history text (historico) describing the month.
	Narrative string `json:"narrative"`

	// Income is the month's total income.
	Income decimal.Decimal `json:"income"`

	// Expense is the month's total expense.
	Expense decimal.Decimal `json:"expense"`

	// Balance is Income - Expense as computed at creation. It is stored and never re-derived.
	Balance decimal.Decimal `json:"balance"`

	// RecordDate is the day the sheet was recorded.
	RecordDate Date `json:"recordDate"`
}

// SheetInput carries the user-supplied fields of a new sheet.
type SheetInput struct {
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Narrative  string          `json:"narrative"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	RecordDate Date            `json:"recordDate"`
}

// Validate checks the month range, the year, the narrative and non-negative totals.
func (in SheetInput) Validate() error {
	var errs []error
	if in.Month < 1 || in.Month > 12 {
		errs = append(errs, invalid("month", "must be between 1 and 12"))
	}
	if in.Year <= 0 {
		errs = append(errs, invalid("year", "is required"))
	}
	if strings.TrimSpace(in.Narrative) == "" {
		errs = append(errs, invalid("narrative", "is required"))
	}
	if in.Income.IsNegative() {
		errs = append(errs, invalid("income", "must not be negative"))
	}
	if in.Expense.IsNegative() {
		errs = append(errs, invalid("expense", "must not be negative"))
	}
	if in.RecordDate.IsZero() {
		errs = append(errs, invalid("recordDate", "is required"))
	}
	return errors.Join(errs...)
}

// Sheet builds the record with the given id and computes its balance.
func (in SheetInput) Sheet(id string) Sheet {
	return Sheet{
		ID:         id,
		Month:      in.Month,
		Year:       in.Year,
		Narrative:  strings.TrimSpace(in.Narrative),
		Income:     in.Income,
		Expense:    in.Expense,
		Balance:    in.Income.Sub(in.Expense),
		RecordDate: in.RecordDate,
	}
}
