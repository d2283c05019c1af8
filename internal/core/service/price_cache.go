package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"steamworth/internal/core/domain"
	"steamworth/internal/port"
)

// PriceCache keeps resolved market prices for up to a TTL so repeat runs
// skip most external price queries. Expired entries are treated as misses
// and overwritten by the next successful write, never deleted eagerly.
type PriceCache struct {
	store    port.CacheStore
	appID    int
	currency int
	ttl      time.Duration
	now      func() time.Time
	entries  map[string]domain.CachedPrice
}

func NewPriceCache(store port.CacheStore, appID, currency int, ttl time.Duration) *PriceCache {
	return &PriceCache{
		store:    store,
		appID:    appID,
		currency: currency,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]domain.CachedPrice),
	}
}

// Load reads the persisted document. A missing or corrupt store is not
// fatal: the condition is logged and the run starts with an empty cache.
func (c *PriceCache) Load(ctx context.Context) {
	entries, err := c.store.Load(ctx)
	if err != nil {
		log.Printf("price cache unreadable, starting empty: %v", err)
		c.entries = make(map[string]domain.CachedPrice)
		return
	}
	if entries == nil {
		entries = make(map[string]domain.CachedPrice)
	}
	c.entries = entries
}

// Get returns the cached price for key when the entry is fresh and matches
// this cache's app/currency scope.
func (c *PriceCache) Get(key string) (decimal.Decimal, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return decimal.Zero, false
	}
	if entry.AppID != c.appID || entry.Currency != c.currency {
		return decimal.Zero, false
	}
	if !entry.Fresh(c.now(), c.ttl) {
		return decimal.Zero, false
	}
	return entry.Price, true
}

// Put records a freshly resolved price and persists the whole document, so
// durable state reflects every successful lookup even if the run is cut
// short later. A persistence failure keeps the in-memory value and is
// logged.
func (c *PriceCache) Put(ctx context.Context, key string, price decimal.Decimal) {
	c.entries[key] = domain.CachedPrice{
		Price:     price,
		FetchedAt: c.now(),
		AppID:     c.appID,
		Currency:  c.currency,
	}
	if err := c.store.Save(ctx, c.entries); err != nil {
		log.Printf("failed to persist price cache: %v", err)
	}
}

// Len reports the number of stored entries, fresh or stale.
func (c *PriceCache) Len() int {
	return len(c.entries)
}
