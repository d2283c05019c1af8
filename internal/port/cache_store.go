package port

import (
	"context"

	"steamworth/internal/core/domain"
)

type CacheStore interface {
	// Load reads the entire price-cache document. A store that was never
	// written yields an empty map, not an error.
	Load(ctx context.Context) (map[string]domain.CachedPrice, error)

	// Save replaces the entire price-cache document.
	Save(ctx context.Context, entries map[string]domain.CachedPrice) error
}
