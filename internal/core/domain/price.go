package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CachedPrice is one entry of the persisted price-cache document. AppID and
// Currency scope the entry to the configuration that produced it, so a cache
// shared between differently configured runs never leaks prices across
// apps or currencies.
type CachedPrice struct {
	Price     decimal.Decimal `json:"price"`
	FetchedAt time.Time       `json:"fetched_at"`
	AppID     int             `json:"app_id"`
	Currency  int             `json:"currency"`
}

// Fresh reports whether the entry is still inside the expiry window.
func (p CachedPrice) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.FetchedAt) < ttl
}
