package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"contas/internal/ledger"
	ports "contas/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.SummaryExporter = (*Client)(nil)

// Options configure the Google Sheets exporter. Exactly one of
// CredentialsJSON or CredentialsFile must be set.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(opts.SheetName)
	if sheetName == "" {
		sheetName = "Resumo"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using service account
// credentials, inline JSON taking precedence over a file path.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	var credentialsJSON []byte
	var err error

	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		credentialsJSON = []byte(opts.CredentialsJSON)
	case strings.TrimSpace(opts.CredentialsFile) != "":
		credentialsJSON, err = os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportSummary upserts the summary row for its month. The sheet keys
// rows by month label in column A; an existing row is overwritten,
// otherwise a new one is appended.
func (c *Client) ExportSummary(ctx context.Context, summary ledger.MonthlySummary) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	monthLabel := summary.Month.Format("2006-01")
	row := []interface{}{
		monthLabel,
		summary.IncomeProjected,
		summary.IncomeReal,
		summary.ExpenseProjected,
		summary.ExpenseReal,
		summary.BalanceProjected,
		summary.BalanceReal,
	}

	rowIndex, err := c.findMonthRow(ctx, monthLabel)
	if err != nil {
		return "", err
	}

	valueRange := &gsheet.ValueRange{Values: [][]interface{}{row}}
	var ref string
	if rowIndex > 0 {
		ref = fmt.Sprintf("%s!A%d:G%d", c.sheetName, rowIndex, rowIndex)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, ref, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
	} else {
		rng := fmt.Sprintf("%s!A:G", c.sheetName)
		var resp *gsheet.AppendValuesResponse
		resp, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, valueRange).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err == nil && resp.Updates != nil {
			ref = resp.Updates.UpdatedRange
		}
	}
	if err != nil {
		return "", fmt.Errorf("write summary row: %w", err)
	}

	slog.InfoContext(ctx, "Summary exported to Google Sheets",
		"month", monthLabel,
		"sheets_ref", ref)
	return ref, nil
}

// findMonthRow returns the 1-based row holding monthLabel in column A,
// or 0 when absent.
func (c *Client) findMonthRow(ctx context.Context, monthLabel string) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read month column: %w", err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == monthLabel {
			return i + 1, nil
		}
	}
	return 0, nil
}
