package port

import (
	"context"

	"github.com/shopspring/decimal"
)

type PriceClient interface {
	// QueryPrice looks up the current market price of one item type.
	// Transient failures are reported as domain.ErrRateLimited, a missing
	// or unusable listing as domain.ErrNoPriceAvailable.
	QueryPrice(ctx context.Context, appID, currency int, marketHashName string) (decimal.Decimal, error)
}
