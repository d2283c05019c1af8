package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"steamworth/internal/core/domain"
)

// MySQLSink appends one row per valuation run to valuation_snapshots,
// keeping the full report as a JSON document next to the headline numbers.
type MySQLSink struct {
	db *sql.DB
}

func NewMySQLSink(db *sql.DB) *MySQLSink {
	return &MySQLSink{db: db}
}

func (s *MySQLSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS valuation_snapshots (
			run_id       CHAR(36) PRIMARY KEY,
			steam_id     VARCHAR(32) NOT NULL,
			app_id       INT NOT NULL,
			currency     INT NOT NULL,
			total        DECIMAL(14,2) NOT NULL,
			priced_items INT NOT NULL,
			failed_items INT NOT NULL,
			generated_at DATETIME(6) NOT NULL,
			report       JSON NOT NULL,
			INDEX idx_steam_generated (steam_id, generated_at)
		)`)
	if err != nil {
		return fmt.Errorf("create valuation_snapshots: %w", err)
	}
	return nil
}

func (s *MySQLSink) Store(ctx context.Context, report *domain.ValuationReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO valuation_snapshots
			(run_id, steam_id, app_id, currency, total, priced_items, failed_items, generated_at, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.SteamID, report.AppID, report.Currency,
		report.Total, len(report.Lines), len(report.Failures),
		report.GeneratedAt, doc,
	)
	if err != nil {
		return fmt.Errorf("insert valuation snapshot: %w", err)
	}
	return nil
}
