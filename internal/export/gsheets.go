package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// ErrPublisherNotConfigured is returned when no spreadsheet is set up for publishing.
var ErrPublisherNotConfigured = errors.New("google sheets publishing is not configured")

// Publisher pushes grids to an external spreadsheet.
type Publisher interface {
	Publish(ctx context.Context, grids []Grid) error
}

// SheetsPublisher writes grids into a Google spreadsheet, one tab per grid.
type SheetsPublisher struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// Ensure SheetsPublisher implements Publisher
var _ Publisher = (*SheetsPublisher)(nil)

// NewSheetsPublisher creates a publisher authenticated with service account credentials.
// Extra options are passed to the Sheets client.
func NewSheetsPublisher(ctx context.Context, spreadsheetID string, credentialsJSON []byte, opts ...goption.ClientOption) (*SheetsPublisher, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if len(credentialsJSON) > 0 {
		opts = append(opts,
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsPublisher{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Publish creates missing tabs, then clears and rewrites each grid's tab.
func (p *SheetsPublisher) Publish(ctx context.Context, grids []Grid) error {
	ss, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	existing := make(map[string]bool, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			existing[s.Properties.Title] = true
		}
	}

	var add []*gsheet.Request
	for _, g := range grids {
		if !existing[g.Name] {
			add = append(add, &gsheet.Request{
				AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: g.Name}},
			})
		}
	}
	if len(add) > 0 {
		_, err := p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID,
			&gsheet.BatchUpdateSpreadsheetRequest{Requests: add}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("add tabs: %w", err)
		}
		slog.InfoContext(ctx, "Added spreadsheet tabs", "count", len(add))
	}

	for _, g := range grids {
		tab := quoteTab(g.Name)
		if _, err := p.svc.Spreadsheets.Values.Clear(p.spreadsheetID, tab, &gsheet.ClearValuesRequest{}).
			Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear %s: %w", g.Name, err)
		}

		values := make([][]any, len(g.Rows))
		for i, row := range g.Rows {
			values[i] = make([]any, len(row))
			for j, v := range row {
				values[i][j] = v
			}
		}
		vr := &gsheet.ValueRange{Values: values}
		if _, err := p.svc.Spreadsheets.Values.Update(p.spreadsheetID, tab+"!A1", vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("write %s: %w", g.Name, err)
		}
	}

	slog.InfoContext(ctx, "Published ledger book", "spreadsheet_id", p.spreadsheetID, "tabs", len(grids))
	return nil
}

// quoteTab quotes a tab name for A1 notation.
func quoteTab(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
