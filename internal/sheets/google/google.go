// Package google implements the ledger mirror on Google Sheets using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"bookkeeper/internal/core"
	"bookkeeper/internal/log"
	ports "bookkeeper/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
}

var _ ports.LedgerMirror = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS. GOOGLE_SHEET_NAME defaults to "Ledger".
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// EnsureHeader writes the header row if the sheet is still empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.ledgerSheet+"!A1:G1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	header := make([]interface{}, len(ports.HeaderRow))
	for i, h := range ports.HeaderRow {
		header[i] = h
	}
	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, c.ledgerSheet+"!A1", &gsheet.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	slog.InfoContext(ctx, "Ledger sheet header written", "sheet", c.ledgerSheet)
	return nil
}

// AppendTransaction implements sheets.LedgerMirror.
func (c *Client) AppendTransaction(ctx context.Context, t core.Transaction) (string, error) {
	row := []interface{}{
		t.ID,
		t.Owner,
		t.Category,
		t.Amount.Float64(),
		t.Note,
		t.Date.String(),
		t.Tags,
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.ledgerSheet+"!A:G", &gsheet.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append ledger row: %w", err)
	}

	ref := ""
	if resp.Updates != nil {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Ledger row mirrored",
		log.FieldRecordID, t.ID,
		log.FieldOwner, t.Owner,
		log.FieldSheetsRef, ref,
		log.FieldComponent, log.ComponentSheets)
	return ref, nil
}

// RemoveTransaction implements sheets.LedgerMirror. The row is located by
// its identity in column A; an identity that is not present is a no-op.
func (c *Client) RemoveTransaction(ctx context.Context, id int64) error {
	rowIndex, sheetID, err := c.findRowByID(ctx, id)
	if err != nil {
		return err
	}
	if rowIndex < 0 {
		slog.WarnContext(ctx, "Ledger row not found in sheet, skipping removal", "id", id)
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowIndex),
					EndIndex:   int64(rowIndex + 1),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete ledger row %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Ledger row removed from sheet", "id", id)
	return nil
}

// findRowByID scans column A for the identity. Returns -1 when absent.
func (c *Client) findRowByID(ctx context.Context, id int64) (rowIndex int, sheetID int64, err error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets(properties(sheetId,title))").Context(ctx).Do()
	if err != nil {
		return -1, 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	sheetID = -1
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.ledgerSheet {
			sheetID = sh.Properties.SheetId
			break
		}
	}
	if sheetID == -1 {
		return -1, 0, fmt.Errorf("sheet %q not found", c.ledgerSheet)
	}

	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.ledgerSheet+"!A:A").
		Context(ctx).Do()
	if err != nil {
		return -1, 0, fmt.Errorf("read id column: %w", err)
	}

	want := strconv.FormatInt(id, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if cell, ok := row[0].(string); ok && cell == want {
			return i, sheetID, nil
		}
	}
	return -1, sheetID, nil
}
