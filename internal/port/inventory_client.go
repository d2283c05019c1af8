package port

import (
	"context"

	"steamworth/internal/core/domain"
)

type InventoryClient interface {
	// FetchPage retrieves one page of inventory records. The returned page
	// carries the continuation cursor for the next request, empty on the
	// last page. A throttled response is reported as domain.ErrRateLimited.
	FetchPage(ctx context.Context, query domain.InventoryQuery) (*domain.InventoryPage, error)
}
