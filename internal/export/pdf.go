package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/models"
)

// table is one bordered block of a PDF document.
type table struct {
	title  string
	header []string
	widths []float64
	align  string // one of L, C, R per column
	body   [][]string
	foot   [][]string
}

const (
	pdfFont      = "Helvetica"
	pdfRowHeight = 6.0
)

// writePDF renders an A4 portrait document with a title, a period line and tables.
func writePDF(title, period string, tables []table) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("Livro Caixa", true)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, pdfRowHeight, tr("Período: "+period), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, t := range tables {
		if t.title != "" {
			pdf.SetFont(pdfFont, "B", 12)
			pdf.CellFormat(0, 8, tr(t.title), "", 1, "L", false, 0, "")
		}

		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range t.header {
			pdf.CellFormat(t.widths[i], pdfRowHeight+1, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFont, "", 9)
		for _, row := range t.body {
			writeRow(pdf, tr, t, row, false)
		}

		pdf.SetFont(pdfFont, "B", 9)
		for _, row := range t.foot {
			writeRow(pdf, tr, t, row, true)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(pdf *fpdf.Fpdf, tr func(string) string, t table, row []string, fill bool) {
	if fill {
		pdf.SetFillColor(245, 245, 245)
	}
	for i := range t.widths {
		var text string
		if i < len(row) {
			text = row[i]
		}
		align := "L"
		if i < len(t.align) {
			align = t.align[i : i+1]
		}
		pdf.CellFormat(t.widths[i], pdfRowHeight, tr(text), "1", 0, align, fill, 0, "")
	}
	pdf.Ln(-1)
}

// TransactionsPDF lists txs with income, expense and balance footers.
func TransactionsPDF(txs []models.Transaction, c models.Criteria) ([]byte, error) {
	totals := ledger.Totals(txs)
	t := table{
		header: []string{"Data", "Tipo", "Descrição", "Categoria", "Responsável", "Valor"},
		widths: []float64{22, 18, 56, 30, 34, 26},
		align:  "CLLLLR",
		foot: [][]string{
			{"Total Entradas", "", "", "", "", Money(totals.Income)},
			{"Total Saídas", "", "", "", "", Money(totals.Expense)},
			{"Saldo", "", "", "", "", Money(totals.Balance)},
		},
	}
	for _, tx := range txs {
		t.body = append(t.body, []string{
			FormatDate(tx.Date), tx.Kind.Label(), tx.Description, tx.Category, tx.Responsible, Money(tx.Amount),
		})
	}
	return writePDF("Relatório de Transações", Period(c), []table{t})
}

// ReportPDF renders the summary block, the monthly table and the category table.
func ReportPDF(report models.Report, c models.Criteria) ([]byte, error) {
	tot := report.Totals
	summary := table{
		title:  "Resumo",
		header: []string{"Indicador", "Valor"},
		widths: []float64{80, 50},
		align:  "LR",
		body: [][]string{
			{"Total de Entradas", Money(tot.Income)},
			{"Total de Saídas", Money(tot.Expense)},
			{"Lançamentos de entrada", strconv.Itoa(tot.IncomeCount)},
			{"Lançamentos de saída", strconv.Itoa(tot.ExpenseCount)},
			{"Maior entrada", Money(report.Largest.Income)},
			{"Maior saída", Money(report.Largest.Expense)},
		},
		foot: [][]string{{"Saldo", Money(tot.Balance)}},
	}

	months := table{
		title:  "Movimento Mensal",
		header: []string{"Mês", "Entradas", "Saídas", "Saldo"},
		widths: []float64{46, 46, 46, 46},
		align:  "LRRR",
		foot:   [][]string{{"Total", Money(tot.Income), Money(tot.Expense), Money(tot.Balance)}},
	}
	for _, m := range report.Months {
		months.body = append(months.body, []string{m.Name, Money(m.Income), Money(m.Expense), Money(m.Balance)})
	}

	categories := table{
		title:  "Por Categoria",
		header: []string{"Categoria", "Entradas", "Saídas", "Saldo"},
		widths: []float64{46, 46, 46, 46},
		align:  "LRRR",
	}
	for _, name := range categoryOrder(report.Categories) {
		ct := report.Categories[name]
		categories.body = append(categories.body, []string{name, Money(ct.Income), Money(ct.Expense), Money(ct.Net)})
	}

	return writePDF("Relatório Geral", Period(c), []table{summary, months, categories})
}

// SheetsPDF lists sheets by year then month with a totals footer.
func SheetsPDF(sheets []models.Sheet, year int) ([]byte, error) {
	totals := ledger.SumSheets(sheets)
	t := table{
		header: []string{"Mês", "Ano", "Histórico", "Entradas", "Saídas", "Saldo", "Registro"},
		widths: []float64{22, 14, 52, 26, 26, 26, 20},
		align:  "LCLRRRC",
		foot: [][]string{
			{"Totais", "", "", Money(totals.Income), Money(totals.Expense), Money(totals.Balance), ""},
		},
	}
	for _, s := range ledger.SortSheets(sheets, true) {
		t.body = append(t.body, []string{
			ledger.MonthName(s.Month), strconv.Itoa(s.Year), s.Narrative,
			Money(s.Income), Money(s.Expense), Money(s.Balance), FormatDate(s.RecordDate),
		})
	}

	period := "Todos os períodos"
	if year != 0 {
		period = fmt.Sprintf("Ano %d", year)
	}
	return writePDF("Planilhas Financeiras", period, []table{t})
}
