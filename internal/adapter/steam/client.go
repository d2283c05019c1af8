package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"steamworth/internal/core/domain"
)

const (
	defaultBaseURL = "https://steamcommunity.com"

	// A browser User-Agent avoids the stricter bot blocking on the public
	// community endpoints.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var errInventoryFailure = errors.New("steam reported inventory fetch failure")

// Client talks to the two public Steam Community endpoints the pipeline
// needs: paginated inventory retrieval and per-item market price lookup.
// BaseURL is overridable so tests can point the client at a local server.
type Client struct {
	httpClient *http.Client
	BaseURL    string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		BaseURL:    defaultBaseURL,
	}
}

type asset struct {
	AssetID    string `json:"assetid"`
	ClassID    string `json:"classid"`
	InstanceID string `json:"instanceid"`
	Amount     string `json:"amount"`
}

type description struct {
	ClassID        string `json:"classid"`
	InstanceID     string `json:"instanceid"`
	MarketHashName string `json:"market_hash_name"`
	Name           string `json:"name"`
	Marketable     int    `json:"marketable"`
}

type inventoryResponse struct {
	Assets              []asset       `json:"assets"`
	Descriptions        []description `json:"descriptions"`
	MoreItems           int           `json:"more_items"`
	LastAssetID         string        `json:"last_assetid"`
	TotalInventoryCount int           `json:"total_inventory_count"`
	Success             int           `json:"success"`
}

// FetchPage retrieves one inventory page. The response splits assets
// (instances) from descriptions (item details); they are joined here by
// classid, keeping marketable items only.
func (c *Client) FetchPage(ctx context.Context, query domain.InventoryQuery) (*domain.InventoryPage, error) {
	endpoint := fmt.Sprintf("%s/inventory/%s/%d/%d",
		c.BaseURL, url.PathEscape(query.SteamID), query.AppID, query.ContextID)

	params := url.Values{}
	params.Set("l", "english")
	params.Set("count", strconv.Itoa(query.PageSize))
	if query.StartAssetID != "" {
		params.Set("start_assetid", query.StartAssetID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build inventory request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", fmt.Sprintf("%s/profiles/%s/inventory", c.BaseURL, query.SteamID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("inventory request: %w", domain.ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory request: unexpected status %d", resp.StatusCode)
	}

	var body inventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}
	if body.Success != 1 {
		return nil, errInventoryFailure
	}

	page := &domain.InventoryPage{
		Items:      joinAssets(body.Assets, body.Descriptions),
		TotalCount: body.TotalInventoryCount,
	}
	if body.MoreItems == 1 {
		page.NextCursor = body.LastAssetID
	}
	return page, nil
}

func joinAssets(assets []asset, descriptions []description) []domain.InventoryItem {
	descByClass := make(map[string]description, len(descriptions))
	for _, d := range descriptions {
		descByClass[d.ClassID] = d
	}

	items := make([]domain.InventoryItem, 0, len(assets))
	for _, a := range assets {
		d, ok := descByClass[a.ClassID]
		if !ok || d.Marketable != 1 {
			continue
		}
		name := d.Name
		if name == "" {
			name = d.MarketHashName
		}
		items = append(items, domain.InventoryItem{
			AssetID:        a.AssetID,
			MarketHashName: d.MarketHashName,
			Name:           name,
			Quantity:       parseAmount(a.Amount),
		})
	}
	return items
}

func parseAmount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

type priceOverviewResponse struct {
	Success     bool   `json:"success"`
	LowestPrice string `json:"lowest_price"`
	MedianPrice string `json:"median_price"`
	Volume      string `json:"volume"`
}

// QueryPrice asks the market price overview endpoint for one item type.
// lowest_price is preferred, median_price is the fallback. 429s, 5xx and
// transport failures classify as ErrRateLimited (transient); everything else
// that yields no usable number classifies as ErrNoPriceAvailable.
func (c *Client) QueryPrice(ctx context.Context, appID, currency int, marketHashName string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("appid", strconv.Itoa(appID))
	params.Set("currency", strconv.Itoa(currency))
	params.Set("market_hash_name", marketHashName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/market/priceoverview/?"+params.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build price request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return decimal.Zero, ctx.Err()
		}
		return decimal.Zero, fmt.Errorf("price request for %s: %v: %w", marketHashName, err, domain.ErrRateLimited)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return decimal.Zero, fmt.Errorf("price request for %s: status %d: %w", marketHashName, resp.StatusCode, domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, fmt.Errorf("price request for %s: status %d: %w", marketHashName, resp.StatusCode, domain.ErrNoPriceAvailable)
	}

	var body priceOverviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode price response for %s: %v: %w", marketHashName, err, domain.ErrNoPriceAvailable)
	}
	if !body.Success {
		return decimal.Zero, fmt.Errorf("no listing for %s: %w", marketHashName, domain.ErrNoPriceAvailable)
	}

	priceStr := body.LowestPrice
	if priceStr == "" {
		priceStr = body.MedianPrice
	}
	if priceStr == "" {
		return decimal.Zero, fmt.Errorf("no price fields for %s: %w", marketHashName, domain.ErrNoPriceAvailable)
	}

	price, err := ParsePrice(priceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q for %s: %v: %w", priceStr, marketHashName, err, domain.ErrNoPriceAvailable)
	}
	return price, nil
}
