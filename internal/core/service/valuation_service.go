package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"steamworth/internal/core/domain"
	"steamworth/internal/port"
)

// ValuationService runs the whole pipeline sequentially: fetch the
// inventory, aggregate it into item types, resolve a unit price per type,
// total everything up and hand the report to the snapshot sink. Sequential
// execution is deliberate: concurrent price queries would defeat the pacing
// policy.
type ValuationService struct {
	fetcher  *InventoryFetcher
	resolver *PriceResolver
	cache    *PriceCache
	sink     port.SnapshotSink
	currency int
}

// NewValuationService wires the pipeline. sink may be nil when no snapshot
// backend is configured.
func NewValuationService(fetcher *InventoryFetcher, resolver *PriceResolver, cache *PriceCache, sink port.SnapshotSink, currency int) *ValuationService {
	return &ValuationService{
		fetcher:  fetcher,
		resolver: resolver,
		cache:    cache,
		sink:     sink,
		currency: currency,
	}
}

// Run computes a full valuation. An inventory fetch failure aborts with an
// error and no report; per-item price resolution failures are recorded in
// the report instead of aborting, so the total is a lower bound whenever the
// failure list is non-empty. A sink failure is logged and does not
// invalidate the computed report.
func (s *ValuationService) Run(ctx context.Context, steamID string, appID, contextID int) (*domain.ValuationReport, error) {
	s.cache.Load(ctx)
	log.Printf("loaded %d cached prices", s.cache.Len())

	items, err := s.fetcher.FetchAll(ctx, steamID, appID, contextID)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}

	groups := AggregateItems(items)
	log.Printf("found %d distinct marketable item types across %d records", len(groups), len(items))

	report := &domain.ValuationReport{
		RunID:       uuid.New().String(),
		SteamID:     steamID,
		AppID:       appID,
		Currency:    s.currency,
		GeneratedAt: time.Now(),
		Total:       decimal.Zero,
	}

	for i, group := range groups {
		price, fromCache, err := s.resolver.Resolve(ctx, group)
		if err != nil {
			reason, recoverable := classifyFailure(err)
			if !recoverable {
				return nil, fmt.Errorf("resolve %s: %w", group.MarketHashName, err)
			}
			report.Failures = append(report.Failures, domain.FailedItem{
				MarketHashName: group.MarketHashName,
				Name:           group.Name,
				Count:          group.Count,
				Reason:         reason,
			})
			log.Printf("[%d/%d] %s: unpriced (%s)", i+1, len(groups), group.Name, reason)
			continue
		}

		subtotal := price.Mul(decimal.NewFromInt(group.Count))
		report.Lines = append(report.Lines, domain.ValuationLine{
			MarketHashName: group.MarketHashName,
			Name:           group.Name,
			Count:          group.Count,
			UnitPrice:      price,
			Subtotal:       subtotal,
			FromCache:      fromCache,
		})
		report.Total = report.Total.Add(subtotal)

		source := ""
		if fromCache {
			source = " (cached)"
		}
		log.Printf("[%d/%d] %s: %d x %s = %s%s", i+1, len(groups), group.Name, group.Count, price, subtotal, source)
	}

	if s.sink != nil {
		if err := s.sink.Store(ctx, report); err != nil {
			log.Printf("failed to persist valuation snapshot: %v", err)
		}
	}

	return report, nil
}

// classifyFailure maps a resolution error onto a per-item failure reason.
// Anything outside the known taxonomy (context cancellation, pacing errors)
// is not recoverable and aborts the run.
func classifyFailure(err error) (domain.FailureReason, bool) {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return domain.FailureReasonRateLimited, true
	case errors.Is(err, domain.ErrNoPriceAvailable):
		return domain.FailureReasonNoPrice, true
	default:
		return "", false
	}
}
