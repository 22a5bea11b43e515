package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrMissingSpreadsheet = errors.New("spreadsheet id is not configured (setting google_sheet_id or GOOGLE_SHEET_ID)")

type Target struct {
	SpreadsheetID string
	Tab           string
}

// Publisher overwrites a tab with a table built from rows. Publishing the
// same rows twice leaves the tab in the same state.
type Publisher struct {
	providers Chain
	dial      Dialer
	log       *zap.Logger
}

func NewPublisher(providers Chain, dial Dialer, log *zap.Logger) *Publisher {
	if dial == nil {
		dial = GoogleDialer
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{providers: providers, dial: dial, log: log}
}

// Publish writes rows to target and returns the number of data rows written.
// An override provider, when given, replaces the configured chain and must
// yield complete credentials.
// Empty input is a logged no-op. Missing credentials fail before any network
// call.
func (p *Publisher) Publish(ctx context.Context, target Target, rows []Row, override ...Provider) (int, error) {
	if target.SpreadsheetID == "" {
		return 0, ErrMissingSpreadsheet
	}
	if len(rows) == 0 {
		p.log.Warn("no rows to sync to google sheets", zap.String("spreadsheet_id", target.SpreadsheetID))
		return 0, nil
	}

	creds, err := p.credentials(ctx, override)
	if err != nil {
		return 0, err
	}

	w, err := p.dial(ctx, creds)
	if err != nil {
		return 0, err
	}
	if err := w.Replace(ctx, target.SpreadsheetID, target.Tab, Table(rows)); err != nil {
		return 0, fmt.Errorf("sync google sheet: %w", err)
	}

	p.log.Info("synced google sheet",
		zap.String("spreadsheet_id", target.SpreadsheetID),
		zap.String("tab", target.Tab),
		zap.Int("rows", len(rows)),
	)
	return len(rows), nil
}

func (p *Publisher) credentials(ctx context.Context, override []Provider) (Credentials, error) {
	if len(override) == 0 {
		return p.providers.Resolve(ctx)
	}
	c, err := Chain(override).Resolve(ctx)
	if err != nil {
		return Credentials{}, fmt.Errorf("credentials override: %w", err)
	}
	return c, nil
}
