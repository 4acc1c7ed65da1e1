package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tells whether a transaction adds to or subtracts from the balance.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind accepts the canonical names and the Portuguese labels used by older exports.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "entrada":
		return KindIncome, true
	case "expense", "saida", "saída":
		return KindExpense, true
	default:
		return "", false
	}
}

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Label is the human-facing name used in exports.
func (k Kind) Label() string {
	if k == KindIncome {
		return "Entrada"
	}
	return "Saída"
}

// Transaction represents a single financial event in a tenant's books.
// Transactions are created and deleted but never edited in place.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	// Assigned at creation, never reused.
	ID string `json:"id"`

	// Date is the calendar day of the event.
	Date Date `json:"date"`

	// Kind is income or expense, fixed at creation.
	Kind Kind `json:"kind"`

	// Amount is always non-negative. Its sign in any balance is derived from Kind.
	Amount decimal.Decimal `json:"amount"`

	// Description is the free-text history line.
	Description string `json:"description"`

	// Category is a user-supplied grouping key with no fixed enumeration.
	Category string `json:"category"`

	// Responsible names the person who handled the money.
	Responsible string `json:"responsible"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`
}

// Signed returns the amount as a balance contribution: positive for income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsIncome reports whether the transaction is an income.
func (t Transaction) IsIncome() bool {
	return t.Kind == KindIncome
}

// TransactionInput carries the user-supplied fields of a new transaction.
type TransactionInput struct {
	Date        Date            `json:"date"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Responsible string          `json:"responsible"`
	Notes       string          `json:"notes,omitempty"`
}

// Validate checks required fields and the non-negative amount invariant.
// All problems are reported together.
func (in TransactionInput) Validate() error {
	var errs []error
	if in.Date.IsZero() {
		errs = append(errs, invalid("date", "is required"))
	}
	if !in.Kind.Valid() {
		errs = append(errs, invalid("kind", "must be income or expense"))
	}
	if in.Amount.IsNegative() {
		errs = append(errs, invalid("amount", "must not be negative"))
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, invalid("description", "is required"))
	}
	if strings.TrimSpace(in.Category) == "" {
		errs = append(errs, invalid("category", "is required"))
	}
	if strings.TrimSpace(in.Responsible) == "" {
		errs = append(errs, invalid("responsible", "is required"))
	}
	return errors.Join(errs...)
}

// Transaction builds the record with the given id. Text fields are trimmed.
func (in TransactionInput) Transaction(id string) Transaction {
	return Transaction{
		ID:          id,
		Date:        in.Date,
		Kind:        in.Kind,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Responsible: strings.TrimSpace(in.Responsible),
		Notes:       strings.TrimSpace(in.Notes),
	}
}
