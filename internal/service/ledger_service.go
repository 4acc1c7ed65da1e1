package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/livrocaixa/internal/events"
	"github.com/mmynk/livrocaixa/internal/ledger"
	"github.com/mmynk/livrocaixa/internal/models"
	"github.com/mmynk/livrocaixa/internal/repository"
)

// LedgerService procedures.
var (
	AddTransactionProcedure    = procedure("LedgerService", "AddTransaction")
	DeleteTransactionProcedure = procedure("LedgerService", "DeleteTransaction")
	ListTransactionsProcedure  = procedure("LedgerService", "ListTransactions")
	GetReportProcedure         = procedure("LedgerService", "GetReport")
	ListCategoriesProcedure    = procedure("LedgerService", "ListCategories")
)

// TransactionList is the filtered, ordered view of the books.
type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	Totals       models.Totals        `json:"totals"`
}

// CategoryList is the distinct categories in use.
type CategoryList struct {
	Categories []string `json:"categories"`
}

// LedgerService implements the transaction and report RPCs.
type LedgerService struct {
	transactions *repository.Transactions
	profiles     *repository.Profiles
	events       events.Publisher
	logger       *slog.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(transactions *repository.Transactions, profiles *repository.Profiles, publisher events.Publisher, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		profiles:     profiles,
		events:       publisher,
		logger:       logger,
	}
}

// Mount registers the service on mux.
func (s *LedgerService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, AddTransactionProcedure, s.AddTransaction, opts...)
	handle(mux, DeleteTransactionProcedure, s.DeleteTransaction, opts...)
	handle(mux, ListTransactionsProcedure, s.ListTransactions, opts...)
	handle(mux, GetReportProcedure, s.GetReport, opts...)
	handle(mux, ListCategoriesProcedure, s.ListCategories, opts...)
}

// AddTransaction validates and appends a transaction to the caller's books.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[models.TransactionInput]) (*connect.Response[models.Transaction], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddTransaction request",
		"tenant", session.UserID,
		"kind", req.Msg.Kind,
		"category", req.Msg.Category,
	)

	tx, err := s.transactions.Add(ctx, session.UserID, *req.Msg)
	if err != nil {
		s.logger.Warn("AddTransaction failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.profiles.RecordTransaction(ctx, session.UserID); err != nil {
		s.logger.Warn("Failed to record transaction stat", "tenant", session.UserID, "error", err)
	}
	events.Notify(ctx, s.events, events.New(events.TransactionAdded, session.UserID, tx.ID, tx))

	s.logger.Info("Transaction added", "tenant", session.UserID, "transaction_id", tx.ID)
	return connect.NewResponse(tx), nil
}

// DeleteTransaction removes one transaction by id.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.transactions.Delete(ctx, session.UserID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("DeleteTransaction failed", "tenant", session.UserID, "transaction_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	events.Notify(ctx, s.events, events.New(events.TransactionDeleted, session.UserID, tx.ID, nil))

	s.logger.Info("Transaction deleted", "tenant", session.UserID, "transaction_id", tx.ID)
	return connect.NewResponse(&Empty{}), nil
}

// run loads the caller's books and passes them through the pipeline.
func (s *LedgerService) run(ctx context.Context, tenant string, c models.Criteria) (ledger.Result, error) {
	if err := c.Validate(); err != nil {
		return ledger.Result{}, err
	}
	txs, err := s.transactions.List(ctx, tenant)
	if err != nil {
		return ledger.Result{}, err
	}
	return ledger.Run(txs, c), nil
}

// ListTransactions returns the filtered, sorted transactions and their totals.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[models.Criteria]) (*connect.Response[TransactionList], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, session.UserID, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Debug("ListTransactions", "tenant", session.UserID, "count", len(result.Transactions))
	return connect.NewResponse(&TransactionList{
		Transactions: result.Transactions,
		Totals:       result.Report.Totals,
	}), nil
}

// GetReport returns the full report for the selection.
func (s *LedgerService) GetReport(ctx context.Context, req *connect.Request[models.Criteria]) (*connect.Response[models.Report], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, session.UserID, *req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&result.Report), nil
}

// ListCategories returns the distinct categories of the caller's books.
func (s *LedgerService) ListCategories(ctx context.Context, _ *connect.Request[Empty]) (*connect.Response[CategoryList], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.transactions.List(ctx, session.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CategoryList{Categories: ledger.CategoryNames(txs)}), nil
}
