package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/mmynk/livrocaixa/internal/models"
)

// Layout selects the CSV columns.
type Layout string

const (
	// LayoutDetailed is the administration layout with every column.
	LayoutDetailed Layout = "detailed"
	// LayoutSimple is the members layout: date, kind, amount and description.
	LayoutSimple Layout = "simple"
)

var csvHeaders = map[Layout][]string{
	LayoutDetailed: {"Data", "Tipo", "Valor", "Descrição", "Categoria", "Responsável", "Observações"},
	LayoutSimple:   {"Data", "Tipo", "Valor", "Descrição"},
}

// WriteCSV writes txs in the given layout. Text fields are always quoted; dates and
// amounts never are.
func WriteCSV(w io.Writer, txs []models.Transaction, layout Layout) error {
	if layout != LayoutSimple {
		layout = LayoutDetailed
	}
	bw := bufio.NewWriter(w)

	bw.WriteString(strings.Join(csvHeaders[layout], ","))
	bw.WriteString("\n")

	for _, t := range txs {
		fields := []string{
			FormatDate(t.Date),
			quote(t.Kind.Label()),
			Amount(t.Amount),
			quote(t.Description),
		}
		if layout == LayoutDetailed {
			fields = append(fields, quote(t.Category), quote(t.Responsible), quote(t.Notes))
		}
		bw.WriteString(strings.Join(fields, ","))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
