package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCachedPrice_Fresh(t *testing.T) {
	fetched := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	entry := CachedPrice{Price: decimal.RequireFromString("1.00"), FetchedAt: fetched}
	ttl := time.Hour

	if !entry.Fresh(fetched, ttl) {
		t.Error("expected entry fresh at fetch time")
	}
	if !entry.Fresh(fetched.Add(ttl-time.Nanosecond), ttl) {
		t.Error("expected entry fresh just inside the window")
	}
	if entry.Fresh(fetched.Add(ttl), ttl) {
		t.Error("expected entry stale exactly at the TTL boundary")
	}
	if entry.Fresh(fetched.Add(2*ttl), ttl) {
		t.Error("expected entry stale past the window")
	}
}

func TestCachedPrice_JSONStable(t *testing.T) {
	entry := CachedPrice{
		Price:     decimal.RequireFromString("12.34"),
		FetchedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		AppID:     730,
		Currency:  1,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got CachedPrice
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !got.Price.Equal(entry.Price) || !got.FetchedAt.Equal(entry.FetchedAt) {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if got.AppID != entry.AppID || got.Currency != entry.Currency {
		t.Errorf("scope fields lost: got %+v", got)
	}
}
