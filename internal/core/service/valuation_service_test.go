package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"steamworth/internal/core/domain"
)

// Mock SnapshotSink
type mockSink struct {
	reports []*domain.ValuationReport
	err     error
}

func (m *mockSink) Store(ctx context.Context, report *domain.ValuationReport) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, report)
	return nil
}

type pipelineFixture struct {
	inventory *mockInventoryClient
	prices    *mockPriceClient
	store     *mockCacheStore
	sink      *mockSink
	service   *ValuationService
}

func newPipelineFixture(items []domain.InventoryItem) *pipelineFixture {
	f := &pipelineFixture{
		inventory: &mockInventoryClient{results: []pageResult{
			{page: &domain.InventoryPage{Items: items}},
		}},
		prices: newMockPriceClient(),
		store:  newMockCacheStore(),
		sink:   &mockSink{},
	}

	cache := NewPriceCache(f.store, 730, 1, time.Hour)
	fetcher := NewInventoryFetcher(f.inventory, &countingPacer{}, 1000, 50)
	resolver := NewPriceResolver(f.prices, cache, &countingPacer{}, 730, 1)
	f.service = NewValuationService(fetcher, resolver, cache, f.sink, 1)
	return f
}

func item(name string, qty int64) domain.InventoryItem {
	return domain.InventoryItem{AssetID: name, MarketHashName: name, Name: name, Quantity: qty}
}

func TestRun_TotalsAndSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{
		item("A", 2), item("B", 1), item("A", 3),
	})
	f.store.entries["A"] = domain.CachedPrice{
		Price:     decimal.RequireFromString("2.50"),
		FetchedAt: time.Now(),
		AppID:     730,
		Currency:  1,
	}
	f.prices.prices["B"] = decimal.RequireFromString("10.00")

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Lines) != 2 {
		t.Fatalf("expected 2 priced lines, got %d", len(report.Lines))
	}
	if len(report.Failures) != 0 {
		t.Fatalf("expected no failures, got %v", report.Failures)
	}

	// A: 5 x 2.50 from cache, B: 1 x 10.00 from the endpoint.
	want := decimal.RequireFromString("22.50")
	if !report.Total.Equal(want) {
		t.Errorf("expected total %s, got %s", want, report.Total)
	}
	lineA := report.Lines[0]
	if lineA.Count != 5 || !lineA.Subtotal.Equal(decimal.RequireFromString("12.50")) || !lineA.FromCache {
		t.Errorf("unexpected line for A: %+v", lineA)
	}
	lineB := report.Lines[1]
	if lineB.Count != 1 || !lineB.Subtotal.Equal(decimal.RequireFromString("10.00")) || lineB.FromCache {
		t.Errorf("unexpected line for B: %+v", lineB)
	}

	if len(f.prices.calls) != 1 || f.prices.calls[0] != "B" {
		t.Errorf("expected exactly one endpoint query for B, got %v", f.prices.calls)
	}

	// The cached entry for A is untouched, B newly persisted.
	if len(f.store.entries) != 2 {
		t.Errorf("expected 2 cache entries after run, got %d", len(f.store.entries))
	}
	if !f.store.entries["A"].Price.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("expected cached price for A untouched, got %s", f.store.entries["A"].Price)
	}

	if report.RunID == "" {
		t.Error("expected a run ID")
	}
	if report.SteamID != "7656" || report.AppID != 730 || report.Currency != 1 {
		t.Errorf("unexpected report identity: %+v", report)
	}

	if len(f.sink.reports) != 1 || f.sink.reports[0] != report {
		t.Error("expected the report handed to the snapshot sink")
	}
}

func TestRun_PartialFailuresKeepLowerBound(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{
		item("A", 1), item("B", 2), item("C", 1),
	})
	f.prices.prices["A"] = decimal.RequireFromString("1.00")
	f.prices.errs["B"] = fmt.Errorf("query price %q: %w", "B", domain.ErrNoPriceAvailable)
	f.prices.prices["C"] = decimal.RequireFromString("3.00")

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Lines) != 2 {
		t.Fatalf("expected 2 priced lines, got %d", len(report.Lines))
	}
	if len(report.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(report.Failures))
	}
	failure := report.Failures[0]
	if failure.MarketHashName != "B" || failure.Count != 2 || failure.Reason != domain.FailureReasonNoPrice {
		t.Errorf("unexpected failure record: %+v", failure)
	}

	want := decimal.RequireFromString("4.00")
	if !report.Total.Equal(want) {
		t.Errorf("expected lower-bound total %s, got %s", want, report.Total)
	}
}

func TestRun_RateLimitedGroupRecorded(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{item("A", 1), item("B", 1)})
	f.prices.errs["A"] = fmt.Errorf("query price %q: %w", "A", domain.ErrRateLimited)
	f.prices.prices["B"] = decimal.RequireFromString("0.03")

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(report.Failures))
	}
	if report.Failures[0].Reason != domain.FailureReasonRateLimited {
		t.Errorf("expected rate_limited reason, got %s", report.Failures[0].Reason)
	}
	if !report.Total.Equal(decimal.RequireFromString("0.03")) {
		t.Errorf("expected remaining items still priced, total = %s", report.Total)
	}
}

func TestRun_FetchFailureAborts(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(nil)
	f.inventory.results = []pageResult{
		{err: fmt.Errorf("inventory request: %w", domain.ErrRateLimited)},
	}

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if report != nil {
		t.Error("expected no report on fetch failure")
	}
	if len(f.sink.reports) != 0 {
		t.Error("expected the sink untouched on fetch failure")
	}
}

func TestRun_UnknownResolveErrorAborts(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{item("A", 1)})
	f.prices.errs["A"] = context.Canceled

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if report != nil {
		t.Error("expected no report when resolution aborts")
	}
	if len(f.sink.reports) != 0 {
		t.Error("expected the sink untouched when resolution aborts")
	}
}

func TestRun_SinkFailureStillReturnsReport(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{item("A", 1)})
	f.prices.prices["A"] = decimal.RequireFromString("5.00")
	f.sink.err = errors.New("connection refused")

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report == nil || !report.Total.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("expected a complete report despite sink failure, got %+v", report)
	}
}

func TestRun_NilSink(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture([]domain.InventoryItem{item("A", 1)})
	f.prices.prices["A"] = decimal.RequireFromString("5.00")

	cache := NewPriceCache(f.store, 730, 1, time.Hour)
	fetcher := NewInventoryFetcher(f.inventory, &countingPacer{}, 1000, 50)
	resolver := NewPriceResolver(f.prices, cache, &countingPacer{}, 730, 1)
	service := NewValuationService(fetcher, resolver, cache, nil, 1)

	report, err := service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !report.Total.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("expected total 5.00, got %s", report.Total)
	}
}

func TestRun_EmptyInventory(t *testing.T) {
	ctx := context.Background()
	f := newPipelineFixture(nil)

	report, err := f.service.Run(ctx, "7656", 730, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Lines) != 0 || len(report.Failures) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if !report.Total.Equal(decimal.Zero) {
		t.Errorf("expected zero total, got %s", report.Total)
	}
	if len(f.prices.calls) != 0 {
		t.Errorf("expected no price queries, got %v", f.prices.calls)
	}
	if len(f.sink.reports) != 1 {
		t.Error("expected the empty report still handed to the sink")
	}
}
