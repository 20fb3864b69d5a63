// Package backend selects the ledger that transactions are mirrored to.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financetrack/internal/config"
	"financetrack/internal/sheets"
	"financetrack/internal/sheets/google"
	"financetrack/internal/sheets/memory"
)

// LedgerType names a ledger implementation.
type LedgerType string

const (
	SheetsLedger LedgerType = "sheets"
	MemoryLedger LedgerType = "memory"
)

// String implements fmt.Stringer
func (t LedgerType) String() string {
	return string(t)
}

// IsValid returns true if the ledger type is known.
func (t LedgerType) IsValid() bool {
	switch t {
	case SheetsLedger, MemoryLedger:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a ledger.
type Config struct {
	Type LedgerType

	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
}

// FromAppConfig picks the Sheets ledger when a spreadsheet is configured and
// the in-memory ledger otherwise.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	ledgerType := MemoryLedger
	if appConfig.SheetsEnabled() {
		ledgerType = SheetsLedger
	}

	return Config{
		Type:                  ledgerType,
		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSheetName:       appConfig.GoogleSheetName,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
	}, nil
}

// Validate validates the ledger configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid ledger type: %s", c.Type)
	}

	if c.Type == SheetsLedger {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets ledger")
		}
		if c.GoogleSheetName == "" {
			return fmt.Errorf("Google Sheet name is required for sheets ledger")
		}
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			return fmt.Errorf("either GoogleCredentialsFile or GoogleCredentialsJSON must be provided for sheets ledger")
		}
	}
	return nil
}

// Factory builds ledgers.
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new ledger factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// OpenLedger builds the ledger described by cfg.
func (f *Factory) OpenLedger(ctx context.Context, cfg Config) (sheets.Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SheetsLedger:
		client, err := google.New(ctx, google.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets ledger",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return client, nil
	default:
		f.logger.Info("Initialized in-memory ledger")
		return memory.New(), nil
	}
}
