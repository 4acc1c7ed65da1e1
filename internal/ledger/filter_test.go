package ledger

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/mmynk/livrocaixa/internal/models"
)

func ids(txs []models.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func datePtr(s string) *models.Date {
	d := models.MustParseDate(s)
	return &d
}

func sampleLedger() []models.Transaction {
	txs := []models.Transaction{
		tx("1", models.KindIncome, "100", "2024-01-05", "Dízimos"),
		tx("2", models.KindExpense, "40", "2024-01-20", "Manutenção"),
		tx("3", models.KindIncome, "60", "2024-02-01", "Ofertas"),
		tx("4", models.KindExpense, "15", "2023-02-14", "Água"),
		tx("5", models.KindIncome, "75", "2024-03-31", "Ofertas"),
	}
	txs[1].Description = "Conserto do TELHADO"
	txs[3].Responsible = "Maria Souza"
	return txs
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria models.Criteria
		want     []string
	}{
		{name: "no criteria keeps everything", criteria: models.Criteria{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "year", criteria: models.Criteria{Year: 2023}, want: []string{"4"}},
		{name: "month across years", criteria: models.Criteria{Month: 2}, want: []string{"3", "4"}},
		{name: "month and year", criteria: models.Criteria{Month: 2, Year: 2024}, want: []string{"3"}},
		{name: "category exact", criteria: models.Criteria{Category: "Ofertas"}, want: []string{"3", "5"}},
		{name: "category all", criteria: models.Criteria{Category: "all"}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "category is not a substring match", criteria: models.Criteria{Category: "Ofer"}, want: []string{}},
		{name: "search description case-insensitive", criteria: models.Criteria{Search: "telhado"}, want: []string{"2"}},
		{name: "search responsible", criteria: models.Criteria{Search: "SOUZA"}, want: []string{"4"}},
		{name: "search category", criteria: models.Criteria{Search: "ofertas"}, want: []string{"3", "5"}},
		{
			name:     "date range inclusive on both bounds",
			criteria: models.Criteria{Start: datePtr("2024-01-20"), End: datePtr("2024-02-01")},
			want:     []string{"2", "3"},
		},
		{name: "start only", criteria: models.Criteria{Start: datePtr("2024-02-01")}, want: []string{"3", "5"}},
		{name: "end only", criteria: models.Criteria{End: datePtr("2024-01-05")}, want: []string{"1", "4"}},
		{
			name:     "zero date bounds are unbounded",
			criteria: models.Criteria{Start: &models.Date{}, End: &models.Date{}},
			want:     []string{"1", "2", "3", "4", "5"},
		},
		{name: "income only", criteria: models.Criteria{IncomeOnly: true}, want: []string{"1", "3", "5"}},
		{
			name:     "criteria combine with AND",
			criteria: models.Criteria{Year: 2024, IncomeOnly: true, Search: "desc 5"},
			want:     []string{"5"},
		},
		{name: "no match is valid", criteria: models.Criteria{Year: 1999}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleLedger(), tt.criteria))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterBlankDateBoundsFromJSON(t *testing.T) {
	var c models.Criteria
	if err := json.Unmarshal([]byte(`{"start":"","end":""}`), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := c.Since(); ok {
		t.Errorf("Expected blank start to be unbounded, got %v", c.Start)
	}

	got := ids(Filter(sampleLedger(), c))
	if len(got) != len(sampleLedger()) {
		t.Errorf("Filter() kept %v, want every transaction", got)
	}
}

func TestFilterIdempotent(t *testing.T) {
	criteria := []models.Criteria{
		{},
		{Year: 2024, Search: "o"},
		{Month: 1, IncomeOnly: true},
		{Start: datePtr("2024-01-01"), End: datePtr("2024-12-31"), Category: "Ofertas"},
	}
	for _, c := range criteria {
		once := Filter(sampleLedger(), c)
		twice := Filter(once, c)
		if !slices.Equal(ids(once), ids(twice)) {
			t.Errorf("Filter not idempotent for %+v: %v then %v", c, ids(once), ids(twice))
		}
	}
}

func TestFilterSheets(t *testing.T) {
	sheets := []models.Sheet{
		{ID: "a", Month: 1, Year: 2024, Narrative: "Campanha de inverno", Balance: dec("10")},
		{ID: "b", Month: 3, Year: 2024, Narrative: "Reforma", Balance: dec("-5")},
		{ID: "c", Month: 12, Year: 2023, Narrative: "Natal", Balance: dec("7")},
	}

	got := FilterSheets(sheets, models.SheetCriteria{Year: 2024, Search: "REFORMA"})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("FilterSheets() = %+v, want [b]", got)
	}

	sorted := SortSheets(sheets, false)
	if sorted[0].ID != "b" || sorted[1].ID != "a" || sorted[2].ID != "c" {
		t.Errorf("SortSheets(desc) = %s,%s,%s, want b,a,c", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	asc := SortSheets(sheets, true)
	if asc[0].ID != "c" || asc[2].ID != "b" {
		t.Errorf("SortSheets(asc) = %s,%s,%s, want c,a,b", asc[0].ID, asc[1].ID, asc[2].ID)
	}

	totals := SumSheets(sheets)
	if !totals.Balance.Equal(dec("12")) {
		t.Errorf("SumSheets balance = %s, want 12", totals.Balance)
	}
}
