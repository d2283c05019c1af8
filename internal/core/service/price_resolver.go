package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"steamworth/internal/core/domain"
	"steamworth/internal/port"
)

// PriceResolver answers what one unit of an item type is worth, cache first.
// Only cache misses reach the pricing endpoint, and every miss waits on the
// pacer so sequential queries stay under the endpoint's rate limit.
type PriceResolver struct {
	client   port.PriceClient
	cache    *PriceCache
	pacer    Pacer
	appID    int
	currency int
}

func NewPriceResolver(client port.PriceClient, cache *PriceCache, pacer Pacer, appID, currency int) *PriceResolver {
	return &PriceResolver{
		client:   client,
		cache:    cache,
		pacer:    pacer,
		appID:    appID,
		currency: currency,
	}
}

// Resolve returns the unit price for a group and whether it came from the
// cache. Per-item failures wrap domain.ErrRateLimited or
// domain.ErrNoPriceAvailable.
func (r *PriceResolver) Resolve(ctx context.Context, group domain.ItemGroup) (decimal.Decimal, bool, error) {
	if price, ok := r.cache.Get(group.MarketHashName); ok {
		return price, true, nil
	}

	if err := r.pacer.Wait(ctx); err != nil {
		return decimal.Zero, false, fmt.Errorf("price pacing: %w", err)
	}

	price, err := r.client.QueryPrice(ctx, r.appID, r.currency, group.MarketHashName)
	if err != nil {
		return decimal.Zero, false, err
	}

	r.cache.Put(ctx, group.MarketHashName, price)
	return price, false, nil
}
