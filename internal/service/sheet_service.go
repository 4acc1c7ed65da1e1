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

// SheetService procedures.
var (
	AddSheetProcedure    = procedure("SheetService", "AddSheet")
	DeleteSheetProcedure = procedure("SheetService", "DeleteSheet")
	ListSheetsProcedure  = procedure("SheetService", "ListSheets")
)

// SheetList is the selected sheets, newest first, and their totals.
type SheetList struct {
	Sheets []models.Sheet     `json:"sheets"`
	Totals models.SheetTotals `json:"totals"`
}

// SheetService implements the monthly summary sheet RPCs.
type SheetService struct {
	sheets   *repository.Sheets
	profiles *repository.Profiles
	events   events.Publisher
	logger   *slog.Logger
}

// NewSheetService creates a new sheet service.
func NewSheetService(sheets *repository.Sheets, profiles *repository.Profiles, publisher events.Publisher, logger *slog.Logger) *SheetService {
	return &SheetService{
		sheets:   sheets,
		profiles: profiles,
		events:   publisher,
		logger:   logger,
	}
}

// Mount registers the service on mux.
func (s *SheetService) Mount(mux *http.ServeMux, opts ...connect.HandlerOption) {
	handle(mux, AddSheetProcedure, s.AddSheet, opts...)
	handle(mux, DeleteSheetProcedure, s.DeleteSheet, opts...)
	handle(mux, ListSheetsProcedure, s.ListSheets, opts...)
}

func (s *SheetService) AddSheet(ctx context.Context, req *connect.Request[models.SheetInput]) (*connect.Response[models.Sheet], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("AddSheet request", "tenant", session.UserID, "month", req.Msg.Month, "year", req.Msg.Year)

	sheet, err := s.sheets.Add(ctx, session.UserID, *req.Msg)
	if err != nil {
		s.logger.Warn("AddSheet failed", "tenant", session.UserID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.profiles.RecordSheet(ctx, session.UserID); err != nil {
		s.logger.Warn("Failed to record sheet stat", "tenant", session.UserID, "error", err)
	}
	events.Notify(ctx, s.events, events.New(events.SheetAdded, session.UserID, sheet.ID, sheet))

	return connect.NewResponse(sheet), nil
}

func (s *SheetService) DeleteSheet(ctx context.Context, req *connect.Request[IDRequest]) (*connect.Response[Empty], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := s.sheets.Delete(ctx, session.UserID, req.Msg.ID)
	if err != nil {
		s.logger.Warn("DeleteSheet failed", "tenant", session.UserID, "sheet_id", req.Msg.ID, "error", err)
		return nil, toConnectError(err)
	}
	events.Notify(ctx, s.events, events.New(events.SheetDeleted, session.UserID, sheet.ID, nil))

	return connect.NewResponse(&Empty{}), nil
}

// ListSheets filters by year and narrative, orders newest first and sums the result.
func (s *SheetService) ListSheets(ctx context.Context, req *connect.Request[models.SheetCriteria]) (*connect.Response[SheetList], error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.sheets.List(ctx, session.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	selected := ledger.SortSheets(ledger.FilterSheets(all, *req.Msg), false)

	return connect.NewResponse(&SheetList{
		Sheets: selected,
		Totals: ledger.SumSheets(selected),
	}), nil
}
