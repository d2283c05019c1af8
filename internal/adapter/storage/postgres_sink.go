package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"steamworth/internal/core/domain"
)

// PostgresSink is the pgx twin of MySQLSink: one row per valuation run with
// the full report as a JSONB document.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS valuation_snapshots (
			run_id       UUID PRIMARY KEY,
			steam_id     TEXT NOT NULL,
			app_id       INT NOT NULL,
			currency     INT NOT NULL,
			total        NUMERIC(14,2) NOT NULL,
			priced_items INT NOT NULL,
			failed_items INT NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			report       JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create valuation_snapshots: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_valuation_snapshots_steam_generated
		ON valuation_snapshots (steam_id, generated_at)`)
	if err != nil {
		return fmt.Errorf("index valuation_snapshots: %w", err)
	}
	return nil
}

func (s *PostgresSink) Store(ctx context.Context, report *domain.ValuationReport) error {
	doc, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO valuation_snapshots
			(run_id, steam_id, app_id, currency, total, priced_items, failed_items, generated_at, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.RunID, report.SteamID, report.AppID, report.Currency,
		report.Total.String(), len(report.Lines), len(report.Failures),
		report.GeneratedAt, doc,
	)
	if err != nil {
		return fmt.Errorf("insert valuation snapshot: %w", err)
	}
	return nil
}
