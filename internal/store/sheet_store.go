package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// RowStore is the tabular system-of-record. Each sheet has a header in
// row 1; ReadRows returns everything from row 2 down. Repositories are
// the only callers; domain code never sees raw rows.
type RowStore interface {
	ReadRows(ctx context.Context, sheetName string) ([][]interface{}, error)
	AppendRow(ctx context.Context, sheetName string, row []interface{}) error
	UpdateCell(ctx context.Context, sheetName string, rowID, col int, value interface{}) error
}

// Sheet names inside the spreadsheet.
const (
	SheetAccounts      = "Accounts"
	SheetContent       = "Content"
	SheetAffiliate     = "Affiliate"
	SheetSchedule      = "Schedule"
	SheetLogs          = "Logs"
	SheetScheduledRuns = "ScheduledRuns"
)

type sheetStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetStore(ctx context.Context, credentialsFile, spreadsheetID string) (RowStore, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &sheetStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *sheetStore) ReadRows(ctx context.Context, sheetName string) ([][]interface{}, error) {
	readRange := fmt.Sprintf("%s!A2:Z", sheetName)
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	return resp.Values, nil
}

func (s *sheetStore) AppendRow(ctx context.Context, sheetName string, row []interface{}) error {
	appendRange := fmt.Sprintf("%s!A:Z", sheetName)
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to append to sheet %s: %w", sheetName, err)
	}
	return nil
}

// UpdateCell writes one cell. rowID is the 1-indexed sheet row (header
// is row 1), col is the 1-indexed column.
func (s *sheetStore) UpdateCell(ctx context.Context, sheetName string, rowID, col int, value interface{}) error {
	cell := fmt.Sprintf("%s!%s%d", sheetName, columnLetter(col), rowID)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to update %s: %w", cell, err)
	}
	return nil
}

func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
