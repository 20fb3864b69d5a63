// Package google mirrors transactions into a Google Sheets ledger.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"financetrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultRowCacheTTL = 2 * time.Minute

// Options configures the Sheets client.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string

	// Row index cache: transaction id to 1-based sheet row.
	mu                 sync.Mutex
	rows               map[string]int
	cachedRowCount     int
	cacheExpiresAt     time.Time
	cacheValidDuration time.Duration
	sheetID            *int64
}

var _ sheets.Ledger = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		opts.SheetName = "Transactions"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:                svc,
		spreadsheetID:      opts.SpreadsheetID,
		sheetName:          opts.SheetName,
		cacheValidDuration: defaultRowCacheTTL,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over a file path; GOOGLE_APPLICATION_CREDENTIALS is the fallback.
func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	credentialsJSON, err := loadCredentials(opts)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func loadCredentials(opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// Upsert writes the ledger row of a transaction, updating it in place when
// the transaction is already present.
func (c *Client) Upsert(ctx context.Context, row sheets.LedgerRow) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if row.TransactionID == "" {
		return "", errors.New("ledger row without transaction id")
	}

	n, total, err := c.lookupRow(ctx, row.TransactionID)
	if err != nil {
		return "", err
	}

	if n > 0 {
		rng := fmt.Sprintf("%s!A%d:H%d", c.sheetName, n, n)
		vr := &gsheet.ValueRange{Values: [][]any{encodeRow(row)}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
			c.invalidateRowCache()
			return "", fmt.Errorf("update %s: %w", rng, err)
		}
		return rng, nil
	}

	values := [][]any{encodeRow(row)}
	if total == 0 {
		values = [][]any{ledgerHeader, encodeRow(row)}
	}
	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		c.invalidateRowCache()
		return "", fmt.Errorf("append to %s: %w", c.sheetName, err)
	}

	newRow := total + len(values)
	c.mu.Lock()
	if c.rows != nil {
		c.rows[row.TransactionID] = newRow
		c.cachedRowCount = newRow
	}
	c.mu.Unlock()

	return fmt.Sprintf("%s!A%d:H%d", c.sheetName, newRow, newRow), nil
}

// Delete removes the ledger row of a transaction, shifting later rows up.
func (c *Client) Delete(ctx context.Context, transactionID string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	n, _, err := c.lookupRow(ctx, transactionID)
	if err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{Range: &gsheet.DimensionRange{
			SheetId:    sheetID,
			Dimension:  "ROWS",
			StartIndex: int64(n - 1),
			EndIndex:   int64(n),
		}},
	}}}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	c.invalidateRowCache()
	if err != nil {
		return fmt.Errorf("delete row %d in %s: %w", n, c.sheetName, err)
	}
	return nil
}

// List reads every ledger row. Rows that cannot be parsed are skipped.
func (c *Client) List(ctx context.Context) ([]sheets.LedgerRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([]sheets.LedgerRow, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 && isHeader(row) {
			continue
		}
		r, err := decodeRow(row)
		if err != nil {
			slog.DebugContext(ctx, "Skipping ledger row", "row", i+1, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// lookupRow returns the row of id (or -1) and the number of rows in the sheet.
func (c *Client) lookupRow(ctx context.Context, id string) (int, int, error) {
	c.mu.Lock()
	if c.rows != nil && time.Now().Before(c.cacheExpiresAt) {
		n, ok := c.rows[id]
		total := c.cachedRowCount
		c.mu.Unlock()
		if !ok {
			n = -1
		}
		return n, total, nil
	}
	c.mu.Unlock()

	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", rng, err)
	}

	rows := indexRows(resp.Values)

	c.mu.Lock()
	c.rows = rows
	c.cachedRowCount = len(resp.Values)
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	c.mu.Unlock()

	if n, ok := rows[id]; ok {
		return n, len(resp.Values), nil
	}
	return -1, len(resp.Values), nil
}

func (c *Client) invalidateRowCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
	c.cachedRowCount = 0
	c.cacheExpiresAt = time.Time{}
}

func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if c.sheetID != nil {
		id := *c.sheetID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet properties: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			id := s.Properties.SheetId
			c.mu.Lock()
			c.sheetID = &id
			c.mu.Unlock()
			return id, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheetName)
}
