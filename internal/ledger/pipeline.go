package ledger

import "github.com/mmynk/livrocaixa/internal/models"

// Result is the pipeline output: the ordered subset and the report derived from it.
type Result struct {
	Transactions []models.Transaction `json:"transactions"`
	Report       models.Report        `json:"report"`
}

// Run filters txs by c, sorts the subset by c.SortBy/c.Direction and aggregates it.
// Everything is recomputed from scratch on every call.
func Run(txs []models.Transaction, c models.Criteria) Result {
	ordered := Sort(Filter(txs, c), c.SortBy, c.Direction)
	return Result{
		Transactions: ordered,
		Report:       Aggregate(ordered),
	}
}
