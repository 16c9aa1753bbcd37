package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
)

// Tab titles.
const (
	SummaryTab      = "Summary"
	TransactionsTab = "Transactions"
)

// Writer implements ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write replaces the contents of the Summary and Transactions tabs with report.
func (w *Writer) Write(ctx context.Context, report *Report) error {
	w.logger.Info("starting report generation",
		"transactions", len(report.Transactions),
		"goals", len(report.Goals))

	spreadsheetID, tabs, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	loc, _ := time.LoadLocation(w.config.TimeZone)
	contents := map[string][][]any{
		SummaryTab:      prepareSummary(report, loc),
		TransactionsTab: prepareTransactions(report, loc),
	}

	for _, tab := range []string{SummaryTab, TransactionsTab} {
		values := contents[tab]
		err := common.WithRetry(ctx, func() error {
			if clearErr := w.clearSheet(ctx, spreadsheetID, tab); clearErr != nil {
				return classifyAPIError(clearErr)
			}
			return classifyAPIError(w.writeData(ctx, spreadsheetID, tab, values))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s tab: %w", tab, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(w.applyFormatting(ctx, spreadsheetID, tabs, len(contents[SummaryTab]), len(contents[TransactionsTab])))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report generation completed",
		"spreadsheet_id", spreadsheetID,
		"summary_rows", len(contents[SummaryTab]),
		"transaction_rows", len(contents[TransactionsTab]))

	return nil
}

// classifyAPIError marks Sheets API failures for WithRetry: 429 is a rate
// limit, other 4xx responses are permanent, everything else is retried.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return err
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet returns the spreadsheet ID and the sheet ID of every
// report tab, creating the spreadsheet or missing tabs as needed.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{SheetId: 0, Title: SummaryTab}},
				{Properties: &sheets.SheetProperties{SheetId: 1, Title: TransactionsTab}},
			},
		}

		created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}

		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		return created.SpreadsheetId, sheetIDs(created), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	tabs := sheetIDs(existing)
	var requests []*sheets.Request
	for _, title := range []string{SummaryTab, TransactionsTab} {
		if _, ok := tabs[title]; !ok {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}},
			})
		}
	}
	if len(requests) == 0 {
		return existing.SpreadsheetId, tabs, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return "", nil, fmt.Errorf("unable to add report tabs: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			tabs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return existing.SpreadsheetId, tabs, nil
}

func sheetIDs(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

// clearSheet clears all data from one tab.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tab+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values to one tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		rangeStr := fmt.Sprintf("%s!A%d", tab, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// prepareSummary lays out the Summary tab: balance, category breakdown, goals.
func prepareSummary(report *Report, loc *time.Location) [][]any {
	if loc == nil {
		loc = time.UTC
	}
	values := make([][]any, 0, 12+len(report.Categories)+len(report.Goals))

	values = append(values,
		[]any{"Expense Tracker Report", report.GeneratedAt.In(loc).Format("Jan 2, 2006 15:04")},
		[]any{},
		[]any{"Balance"},
		[]any{"Total Income", report.Balance.TotalIncome},
		[]any{"Total Expenses", report.Balance.TotalExpenses},
		[]any{"Net Balance", report.Balance.NetBalance},
		[]any{},
		[]any{"Category Breakdown"},
		[]any{"Category", "Type", "Amount", "Count"},
	)

	for _, c := range report.Categories {
		values = append(values, []any{c.Category, c.Type, c.Total.InexactFloat64(), c.Count})
	}

	values = append(values,
		[]any{},
		[]any{"Goals"},
		[]any{"Goal", "Category", "Target", "Spent", "Remaining", "Progress %", "Period", "Window", "Status"},
	)
	for _, g := range report.Goals {
		status := "inactive"
		if g.Active {
			status = g.Level
		}
		values = append(values, []any{
			g.Name,
			g.Category,
			g.Target.InexactFloat64(),
			g.Spent.InexactFloat64(),
			g.Remaining.InexactFloat64(),
			g.Percentage.InexactFloat64(),
			g.Period,
			fmt.Sprintf("%s - %s", g.Start.In(loc).Format(model.DateLayout), g.End.In(loc).Format(model.DateLayout)),
			status,
		})
	}

	return values
}

// prepareTransactions lays out the Transactions tab, newest first.
func prepareTransactions(report *Report, loc *time.Location) [][]any {
	if loc == nil {
		loc = time.UTC
	}
	values := make([][]any, 0, len(report.Transactions)+1)
	values = append(values, []any{"Date", "Type", "Category", "Amount", "Note", "ID"})
	for _, t := range report.Transactions {
		amount := t.Amount
		if t.Type == string(model.TransactionTypeExpense) {
			amount = amount.Neg()
		}
		values = append(values, []any{
			t.Date.In(loc).Format(model.DateLayout),
			t.Type,
			t.Category,
			amount.InexactFloat64(),
			t.Note,
			t.ID,
		})
	}
	return values
}

// applyFormatting bolds headers, formats currency columns and freezes header rows.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, tabs map[string]int64, summaryRows, txnRows int) error {
	summaryID := tabs[SummaryTab]
	txnID := tabs[TransactionsTab]

	requests := []*sheets.Request{
		boldRange(summaryID, 0, 1, 0, 2, 16),
		boldRange(summaryID, 2, int64(summaryRows), 0, 1, 0),
		currencyRange(summaryID, 3, 6, 1, 2, w.config.CurrencyPattern),
		currencyRange(summaryID, 9, int64(summaryRows), 2, 5, w.config.CurrencyPattern),
		boldRange(txnID, 0, 1, 0, 6, 0),
		currencyRange(txnID, 1, int64(txnRows), 3, 4, w.config.CurrencyPattern),
		autoResize(summaryID, 9),
		autoResize(txnID, 6),
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        txnID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func boldRange(sheetID, startRow, endRow, startCol, endCol int64, fontSize int64) *sheets.Request {
	format := &sheets.TextFormat{Bold: true}
	if fontSize > 0 {
		format.FontSize = fontSize
	}
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{TextFormat: format}},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

func currencyRange(sheetID, startRow, endRow, startCol, endCol int64, pattern string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: pattern},
				},
			},
			Fields: "userEnteredFormat.numberFormat",
		},
	}
}

func autoResize(sheetID, columns int64) *sheets.Request {
	return &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   columns,
			},
		},
	}
}
