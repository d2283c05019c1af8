package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FailureReason string

const (
	FailureReasonRateLimited FailureReason = "rate_limited"
	FailureReasonNoPrice     FailureReason = "no_price"
)

type ValuationLine struct {
	MarketHashName string          `json:"market_hash_name"`
	Name           string          `json:"name"`
	Count          int64           `json:"count"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	FromCache      bool            `json:"from_cache"`
}

type FailedItem struct {
	MarketHashName string        `json:"market_hash_name"`
	Name           string        `json:"name"`
	Count          int64         `json:"count"`
	Reason         FailureReason `json:"reason"`
}

// ValuationReport is the final output of one run. Total is a lower bound
// whenever Failures is non-empty: failed item types contribute zero.
type ValuationReport struct {
	RunID       string          `json:"run_id"`
	SteamID     string          `json:"steam_id"`
	AppID       int             `json:"app_id"`
	Currency    int             `json:"currency"`
	GeneratedAt time.Time       `json:"generated_at"`
	Lines       []ValuationLine `json:"lines"`
	Failures    []FailedItem    `json:"failures,omitempty"`
	Total       decimal.Decimal `json:"total"`
}
