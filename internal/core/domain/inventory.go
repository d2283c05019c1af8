package domain

// InventoryItem is one raw inventory record: a single asset already joined
// to its description and filtered to marketable items only.
type InventoryItem struct {
	AssetID        string
	MarketHashName string // groups identical tradable items
	Name           string
	Quantity       int64 // stackable amount, at least 1
}

type InventoryQuery struct {
	SteamID      string
	AppID        int
	ContextID    int
	StartAssetID string // continuation cursor, empty for the first page
	PageSize     int
}

type InventoryPage struct {
	Items      []InventoryItem
	NextCursor string // empty on the last page
	TotalCount int
}

// ItemGroup aggregates inventory records sharing a market hash name.
type ItemGroup struct {
	MarketHashName string
	Name           string
	Count          int64
}
