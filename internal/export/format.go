// Package export renders ledger data as CSV, XLSX and PDF files and publishes the
// ledger book to Google Sheets.
//
// Renderers consume data the ledger pipeline already computed; nothing here feeds
// back into filtering or aggregation.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/models"
)

const (
	dateLayout      = "02/01/2006"
	shortDateLayout = "02/01/06"
)

// Amount formats d with two decimals and a dot, for machine-oriented cells.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Money formats d as Brazilian reais for human-oriented output, rounded to cents.
// Digits come from the decimal itself; only the grouping of whole reais is localized.
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = message.NewPrinter(language.BrazilianPortuguese).Sprint(number.Decimal(n))
	} else {
		whole = group(whole, ".")
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return "R$ " + sign + whole + "," + cents
}

// group inserts sep between every three digits from the right.
func group(digits, sep string) string {
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatDate renders d as dd/MM/yyyy.
func FormatDate(d models.Date) string {
	return d.Format(dateLayout)
}

// Period describes the time window selected by c.
func Period(c models.Criteria) string {
	start, hasStart := c.Since()
	end, hasEnd := c.Until()
	switch {
	case hasStart && hasEnd:
		return fmt.Sprintf("%s a %s", FormatDate(start), FormatDate(end))
	case c.Month != 0 && c.Year != 0:
		return fmt.Sprintf("%s de %d", ledger.MonthName(c.Month), c.Year)
	case c.Year != 0:
		return fmt.Sprintf("Ano %d", c.Year)
	default:
		return "Todos os períodos"
	}
}

// monthTag is the per-month sheet name, e.g. "Janeiro-2024".
func monthTag(month, year int) string {
	return ledger.MonthName(month) + "-" + strconv.Itoa(year)
}

// blankIfZero renders zero amounts as an empty cell.
func blankIfZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return Amount(d)
}
