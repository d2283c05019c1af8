package port

import (
	"context"

	"steamworth/internal/core/domain"
)

type SnapshotSink interface {
	// Store persists one finished valuation report to the snapshot backend.
	Store(ctx context.Context, report *domain.ValuationReport) error
}
