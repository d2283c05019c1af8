package service

import "steamworth/internal/core/domain"

// AggregateItems groups inventory records by market hash name: the display
// name is the first one seen per key, counts accumulate each record's
// quantity, and groups come out in first-seen order so reports are
// reproducible for a given inventory ordering.
func AggregateItems(items []domain.InventoryItem) []domain.ItemGroup {
	groups := make([]domain.ItemGroup, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		if i, ok := index[item.MarketHashName]; ok {
			groups[i].Count += qty
			continue
		}
		index[item.MarketHashName] = len(groups)
		groups = append(groups, domain.ItemGroup{
			MarketHashName: item.MarketHashName,
			Name:           item.Name,
			Count:          qty,
		})
	}

	return groups
}
