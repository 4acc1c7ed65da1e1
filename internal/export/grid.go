package export

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/models"
)

// Grid is one named sheet of cells. The same grids feed the XLSX writer and the
// Google Sheets publisher.
type Grid struct {
	Name string
	Rows [][]string

	// Widths are column widths in characters, first column first.
	Widths []float64

	// Merges are cell ranges such as {"A1", "F1"}.
	Merges [][2]string
}

const (
	SummarySheet = "Resumo"
	ReportSheet  = "Relatório Geral"
	SheetsSheet  = "Planilhas"
)

type monthKey struct{ year, month int }

func (k monthKey) compare(o monthKey) int {
	return cmp.Or(cmp.Compare(k.year, o.year), cmp.Compare(k.month, o.month))
}

// LedgerBook lays txs out as a cash book: one grid per month present in the data,
// oldest first, followed by the summary grid.
func LedgerBook(txs []models.Transaction, c models.Criteria) []Grid {
	byMonth := make(map[monthKey][]models.Transaction)
	for _, t := range txs {
		k := monthKey{t.Date.Year(), int(t.Date.Month())}
		byMonth[k] = append(byMonth[k], t)
	}
	keys := make([]monthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, monthKey.compare)

	grids := make([]Grid, 0, len(keys)+1)
	summary := [][]string{
		{"RESUMO FINANCEIRO"},
		{""},
		{"Período:", Period(c)},
		{""},
		{"Mês", "Entradas", "Saídas", "Saldo"},
	}
	var grand models.Totals
	for i, k := range keys {
		month := ledger.Sort(byMonth[k], models.SortByDate, models.Ascending)
		grids = append(grids, monthGrid(k, i+1, month))

		totals := ledger.Totals(month)
		grand.Income = grand.Income.Add(totals.Income)
		grand.Expense = grand.Expense.Add(totals.Expense)
		summary = append(summary, []string{
			monthTag(k.month, k.year), Amount(totals.Income), Amount(totals.Expense), Amount(totals.Balance),
		})
	}
	summary = append(summary,
		[]string{""},
		[]string{"TOTAL GERAL", Amount(grand.Income), Amount(grand.Expense), Amount(grand.Income.Sub(grand.Expense))},
	)

	return append(grids, Grid{
		Name:   SummarySheet,
		Rows:   summary,
		Widths: []float64{20, 15, 15, 15},
		Merges: [][2]string{{"A1", "D1"}},
	})
}

func monthGrid(k monthKey, folio int, txs []models.Transaction) Grid {
	tag := monthTag(k.month, k.year)
	rows := [][]string{
		{"LIVRO CAIXA"},
		{"MÊS E ANO:", "", tag, "", "Folha nº", strconv.Itoa(folio)},
		{"", "HISTÓRICO", "ENTRADAS", "SAÍDAS", "SALDO"},
		{"Saldo anterior", "", "", "", Amount(decimal.Zero)},
	}

	balance := decimal.Zero
	var income, expense decimal.Decimal
	for _, t := range txs {
		var in, out decimal.Decimal
		if t.IsIncome() {
			in = t.Amount
		} else {
			out = t.Amount
		}
		income = income.Add(in)
		expense = expense.Add(out)
		balance = balance.Add(t.Signed())
		rows = append(rows, []string{
			t.Date.Format(shortDateLayout), t.Description, blankIfZero(in), blankIfZero(out), Amount(balance),
		})
	}

	rows = append(rows,
		[]string{"TOTAIS DESTA FOLHA", "", Amount(income), Amount(expense), ""},
		[]string{"SALDO ATUAL", "", "", "", Amount(balance)},
		[]string{""},
		[]string{"Responsável: ____________________________"},
		[]string{"Tesouraria: ____________________________"},
	)

	return Grid{
		Name:   tag,
		Rows:   rows,
		Widths: []float64{10, 40, 15, 15, 15, 8},
		Merges: [][2]string{{"A1", "F1"}, {"C2", "D2"}},
	}
}

// ReportGrid is the single-sheet general report: summary, months and categories.
func ReportGrid(report models.Report, c models.Criteria) Grid {
	t := report.Totals
	rows := [][]string{
		{"RELATÓRIO GERAL"},
		{"Período:", Period(c)},
		{""},
		{"Total de Entradas", Amount(t.Income), strconv.Itoa(t.IncomeCount) + " lançamentos"},
		{"Total de Saídas", Amount(t.Expense), strconv.Itoa(t.ExpenseCount) + " lançamentos"},
		{"Saldo", Amount(t.Balance)},
		{""},
		{"Mês", "Entradas", "Saídas", "Saldo"},
	}
	for _, m := range report.Months {
		rows = append(rows, []string{m.Name, Amount(m.Income), Amount(m.Expense), Amount(m.Balance)})
	}
	rows = append(rows, []string{""}, []string{"Categoria", "Entradas", "Saídas", "Saldo"})
	for _, name := range categoryOrder(report.Categories) {
		ct := report.Categories[name]
		rows = append(rows, []string{name, Amount(ct.Income), Amount(ct.Expense), Amount(ct.Net)})
	}

	return Grid{
		Name:   ReportSheet,
		Rows:   rows,
		Widths: []float64{25, 15, 15, 15},
		Merges: [][2]string{{"A1", "D1"}},
	}
}

// SheetsGrid lists sheets by year then month, ascending, with a totals row.
func SheetsGrid(sheets []models.Sheet, year int) Grid {
	yearLabel := "Todos"
	if year != 0 {
		yearLabel = strconv.Itoa(year)
	}
	rows := [][]string{
		{"RELATÓRIO DE PLANILHAS FINANCEIRAS"},
		{""},
		{"Ano:", yearLabel},
		{""},
		{"Mês", "Ano", "Histórico", "Entradas", "Saídas", "Saldo", "Data de Registro"},
	}
	for _, s := range ledger.SortSheets(sheets, true) {
		rows = append(rows, []string{
			ledger.MonthName(s.Month), strconv.Itoa(s.Year), s.Narrative,
			Amount(s.Income), Amount(s.Expense), Amount(s.Balance), FormatDate(s.RecordDate),
		})
	}
	totals := ledger.SumSheets(sheets)
	rows = append(rows,
		[]string{""},
		[]string{"TOTAIS", "", "", Amount(totals.Income), Amount(totals.Expense), Amount(totals.Balance), ""},
	)

	return Grid{
		Name:   SheetsSheet,
		Rows:   rows,
		Widths: []float64{15, 10, 40, 15, 15, 15, 20},
		Merges: [][2]string{{"A1", "G1"}},
	}
}

func categoryOrder(categories map[string]models.CategoryTotals) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	ledger.Collate(names)
	return names
}
