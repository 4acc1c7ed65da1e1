package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/export"
	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/metrics"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
)

// ExportService procedures.
var (
	ExportTransactionsProcedure = procedure("ExportService", "ExportTransactions")
	ExportReportProcedure       = procedure("ExportService", "ExportReport")
	ExportSheetsProcedure       = procedure("ExportService", "ExportSheets")
	PublishLedgerProcedure      = procedure("ExportService", "PublishLedger")
)

// ExportTransactionsRequest selects the transactions to export. Layout applies to CSV only.
type ExportTransactionsRequest struct {
	Criteria models.Criteria `json:"criteria"`
	Format   export.Format   `json:"format"`
	Layout   export.Layout   `json:"layout,omitempty"`
}

// ExportReportRequest selects the transactions the report is computed from.
type ExportReportRequest struct {
	Criteria models.Criteria `json:"criteria"`
	Format   export.Format   `json:"format"`
}

// ExportSheetsRequest selects the sheets of one year, or all years when Year is 0.
type ExportSheetsRequest struct {
	Year   int           `json:"year,omitempty"`
	Format export.Format `json:"format"`
}

// PublishLedgerRequest selects the transactions pushed to the spreadsheet.
type PublishLedgerRequest struct {
	Criteria models.Criteria `json:"criteria"`
}

// PublishLedgerResponse reports the tabs written.
type PublishLedgerResponse struct {
	Tabs []string `json:"tabs"`
}

// ExportService renders the books as files and publishes them to Google Sheets.
type ExportService struct {
	transactions *repository.Transactions
	sheets       *repository.Sheets
	profiles     *repository.Profiles
	publisher    export.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewExportService creates a new export service. publisher may be nil, in which
// case PublishLedger fails with FailedPrecondition.
func NewExportService(
	transactions *repository.Transactions,
	sheets *repository.Sheets,
	profiles *repository.Profiles,
	publisher export.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ExportService {
	return &ExportService{
		transactions: transactions,
		sheets:       sheets,
		profiles:     profiles,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		now:          time.Now,
	}
}

// Mount registers the service on mux.
func (s *ExportService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, ExportTransactionsProcedure, s.ExportTransactions, opts...)
	handle(mux, ExportReportProcedure, s.ExportReport, opts...)
	handle(mux, ExportSheetsProcedure, s.ExportSheets, opts...)
	handle(mux, PublishLedgerProcedure, s.PublishLedger, opts...)
}

func (s *ExportService) pipeline(ctx context.Context, tenant string, c models.Criteria) (ledger.Result, error) {
	if err := c.Validate(); err != nil {
		return ledger.Result{}, err
	}
	txs, err := s.transactions.List(ctx, tenant)
	if err != nil {
		return ledger.Result{}, err
	}
	return ledger.Run(txs, c), nil
}

// done counts a generated artifact against the tenant and the metrics.
func (s *ExportService) done(ctx context.Context, tenant, kind string, a export.Artifact, f export.Format) *connect.Response[export.Artifact] {
	s.metrics.Exports.WithLabelValues(kind, string(f)).Inc()
	if err := s.profiles.RecordReport(ctx, tenant); err != nil {
		s.logger.Warn("Failed to record report stat", "tenant", tenant, "error", err)
	}
	s.logger.Info("Export generated",
		"tenant", tenant,
		"kind", kind,
		"file", a.FileName,
		"bytes", len(a.Data),
	)
	return connect.NewResponse(&a)
}

// ExportTransactions renders the filtered transactions as CSV, XLSX or PDF.
func (s *ExportService) ExportTransactions(ctx context.Context, req *connect.Request[ExportTransactionsRequest]) (*connect.Response[export.Artifact], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline(ctx, session.UserID, req.Msg.Criteria)
	if err != nil {
		return nil, toConnectError(err)
	}
	a, err := export.Transactions(result.Transactions, req.Msg.Criteria, req.Msg.Format, req.Msg.Layout, s.now())
	if err != nil {
		s.logger.Warn("ExportTransactions failed", "tenant", session.UserID, "format", req.Msg.Format, "error", err)
		return nil, toConnectError(err)
	}
	return s.done(ctx, session.UserID, "transactions", a, req.Msg.Format), nil
}

// ExportReport renders the general report as XLSX or PDF.
func (s *ExportService) ExportReport(ctx context.Context, req *connect.Request[ExportReportRequest]) (*connect.Response[export.Artifact], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline(ctx, session.UserID, req.Msg.Criteria)
	if err != nil {
		return nil, toConnectError(err)
	}
	a, err := export.Report(result.Report, req.Msg.Criteria, req.Msg.Format, s.now())
	if err != nil {
		s.logger.Warn("ExportReport failed", "tenant", session.UserID, "format", req.Msg.Format, "error", err)
		return nil, toConnectError(err)
	}
	return s.done(ctx, session.UserID, "report", a, req.Msg.Format), nil
}

// ExportSheets renders the sheets of the selected year, oldest first.
func (s *ExportService) ExportSheets(ctx context.Context, req *connect.Request[ExportSheetsRequest]) (*connect.Response[export.Artifact], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.sheets.List(ctx, session.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	selected := ledger.SortSheets(ledger.FilterSheets(all, models.SheetCriteria{Year: req.Msg.Year}), true)

	a, err := export.Sheets(selected, req.Msg.Year, req.Msg.Format)
	if err != nil {
		s.logger.Warn("ExportSheets failed", "tenant", session.UserID, "format", req.Msg.Format, "error", err)
		return nil, toConnectError(err)
	}
	return s.done(ctx, session.UserID, "sheets", a, req.Msg.Format), nil
}

// PublishLedger pushes the ledger book and the report to the configured spreadsheet.
func (s *ExportService) PublishLedger(ctx context.Context, req *connect.Request[PublishLedgerRequest]) (*connect.Response[PublishLedgerResponse], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	if s.publisher == nil {
		return nil, toConnectError(export.ErrPublisherNotConfigured)
	}

	result, err := s.pipeline(ctx, session.UserID, req.Msg.Criteria)
	if err != nil {
		return nil, toConnectError(err)
	}
	grids := append(export.LedgerBook(result.Transactions, req.Msg.Criteria), export.ReportGrid(result.Report, req.Msg.Criteria))

	if err := s.publisher.Publish(ctx, grids); err != nil {
		s.logger.Error("PublishLedger failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.Exports.WithLabelValues("ledger", "gsheets").Inc()
	if err := s.profiles.RecordReport(ctx, session.UserID); err != nil {
		s.logger.Warn("Failed to record report stat", "tenant", session.UserID, "error", err)
	}

	tabs := make([]string, len(grids))
	for i, g := range grids {
		tabs[i] = g.Name
	}
	s.logger.Info("Ledger published", "tenant", session.UserID, "tabs", len(tabs))
	return connect.NewResponse(&PublishLedgerResponse{Tabs: tabs}), nil
}
