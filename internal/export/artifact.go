package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mmynk/livrocaixa/internal/models"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for a format an export kind cannot produce.
var ErrUnsupportedFormat = errors.New("unsupported export format")

var contentTypes = map[Format]string{
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

// Artifact is a rendered export file.
type Artifact struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

func newArtifact(name string, f Format, data []byte) Artifact {
	return Artifact{FileName: name + "." + string(f), ContentType: contentTypes[f], Data: data}
}

// Transactions renders the filtered transactions. CSV honours layout; XLSX is the
// ledger book; PDF is the transaction table.
func Transactions(txs []models.Transaction, c models.Criteria, f Format, layout Layout, now time.Time) (Artifact, error) {
	switch f {
	case FormatCSV:
		if layout != LayoutSimple {
			layout = LayoutDetailed
		}
		var buf bytes.Buffer
		if err := WriteCSV(&buf, txs, layout); err != nil {
			return Artifact{}, fmt.Errorf("failed to write csv: %w", err)
		}
		name := fmt.Sprintf("relatorio_%s_%s", layout, now.Format("02-01-2006"))
		return newArtifact(name, f, buf.Bytes()), nil

	case FormatXLSX:
		data, err := WriteWorkbook(LedgerBook(txs, c))
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(fmt.Sprintf("Transacoes_%s_%s", monthLabel(c), yearLabel(c.Year, now)), f, data), nil

	case FormatPDF:
		data, err := TransactionsPDF(txs, c)
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(fmt.Sprintf("Transacoes_%s_%s", monthLabel(c), yearLabel(c.Year, now)), f, data), nil
	}
	return Artifact{}, fmt.Errorf("%w: %q for transactions", ErrUnsupportedFormat, f)
}

// Report renders the general report as XLSX or PDF.
func Report(report models.Report, c models.Criteria, f Format, now time.Time) (Artifact, error) {
	name := fmt.Sprintf("Relatorio_Geral_%s", now.Format("02-01-2006"))
	switch f {
	case FormatXLSX:
		data, err := WriteWorkbook([]Grid{ReportGrid(report, c)})
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(name, f, data), nil
	case FormatPDF:
		data, err := ReportPDF(report, c)
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(name, f, data), nil
	}
	return Artifact{}, fmt.Errorf("%w: %q for report", ErrUnsupportedFormat, f)
}

// Sheets renders the ledger sheets as XLSX or PDF. year 0 means all years.
func Sheets(sheets []models.Sheet, year int, f Format) (Artifact, error) {
	label := "Todos"
	if year != 0 {
		label = strconv.Itoa(year)
	}
	name := "Planilhas_" + label
	switch f {
	case FormatXLSX:
		data, err := WriteWorkbook([]Grid{SheetsGrid(sheets, year)})
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(name, f, data), nil
	case FormatPDF:
		data, err := SheetsPDF(sheets, year)
		if err != nil {
			return Artifact{}, err
		}
		return newArtifact(name, f, data), nil
	}
	return Artifact{}, fmt.Errorf("%w: %q for sheets", ErrUnsupportedFormat, f)
}

func monthLabel(c models.Criteria) string {
	if c.Month == 0 {
		return "Todos"
	}
	return strconv.Itoa(c.Month)
}

func yearLabel(year int, now time.Time) string {
	if year == 0 {
		year = now.Year()
	}
	return strconv.Itoa(year)
}
