package models

import (
	"errors"
	"strings"
)

// SortKey selects the field the sort stage orders by.
type SortKey string

const (
	SortNone       SortKey = ""
	SortByDate     SortKey = "date"
	SortByAmount   SortKey = "amount"
	SortByCategory SortKey = "category"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Criteria is the ephemeral filter and sort selection. It is never persisted.
// A zero value selects every transaction in stored order.
type Criteria struct {
	// Month is 1-12, or 0 for all months.
	Month int `json:"month,omitempty"`

	// Year is the calendar year, or 0 for all years.
	Year int `json:"year,omitempty"`

	// Category must match exactly. Empty or "all" disables the filter.
	Category string `json:"category,omitempty"`

	// Search is matched case-insensitively against description, category and responsible.
	Search string `json:"search,omitempty"`

	// Start and End bound the date range, both inclusive. Nil or zero means unbounded.
	Start *Date `json:"start,omitempty"`
	End   *Date `json:"end,omitempty"`

	// IncomeOnly keeps only income transactions.
	IncomeOnly bool `json:"incomeOnly,omitempty"`

	SortBy    SortKey   `json:"sortBy,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// AllCategories reports whether the category criterion is absent.
func (c Criteria) AllCategories() bool {
	cat := strings.TrimSpace(c.Category)
	return cat == "" || strings.EqualFold(cat, "all") || strings.EqualFold(cat, "todas")
}

// Since returns the inclusive lower date bound. A nil or zero Start is unbounded.
func (c Criteria) Since() (Date, bool) {
	if c.Start == nil || c.Start.IsZero() {
		return Date{}, false
	}
	return *c.Start, true
}

// Until returns the inclusive upper date bound. A nil or zero End is unbounded.
func (c Criteria) Until() (Date, bool) {
	if c.End == nil || c.End.IsZero() {
		return Date{}, false
	}
	return *c.End, true
}

// Validate rejects out-of-range months and unknown sort settings.
func (c Criteria) Validate() error {
	var errs []error
	if c.Month < 0 || c.Month > 12 {
		errs = append(errs, invalid("month", "must be between 1 and 12, or 0 for all"))
	}
	if c.Year < 0 {
		errs = append(errs, invalid("year", "must not be negative"))
	}
	switch c.SortBy {
	case SortNone, SortByDate, SortByAmount, SortByCategory:
	default:
		errs = append(errs, invalid("sortBy", "must be date, amount or category"))
	}
	switch c.Direction {
	case "", Ascending, Descending:
	default:
		errs = append(errs, invalid("direction", "must be asc or desc"))
	}
	return errors.Join(errs...)
}

// SheetCriteria filters the sheet list.
type SheetCriteria struct {
	// Year is the calendar year, or 0 for all years.
	Year int `json:"year,omitempty"`

	// Search is matched case-insensitively against the narrative.
	Search string `json:"search,omitempty"`
}
