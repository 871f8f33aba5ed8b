package models

import "time"

// Holding represents a current position derived from the transaction ledger.
// Holdings are ephemeral: recomputed on every replay, never persisted.
type Holding struct {
	Symbol    string  `json:"symbol"`
	Shares    int64   `json:"shares"`
	AvgCost   float64 `json:"average_cost"` // TotalCost / Shares while Shares > 0
	TotalCost float64 `json:"total_cost"`
}

// EnrichedHolding is a holding combined with a resolved market quote.
type EnrichedHolding struct {
	Symbol        string  `json:"symbol"`
	Shares        int64   `json:"shares"`
	AvgCost       float64 `json:"average_cost"`
	TotalCost     float64 `json:"total_cost"`
	CurrentPrice  float64 `json:"current_price"`
	MarketValue   float64 `json:"market_value"`
	ProfitLoss    float64 `json:"profit_loss"`
	ReturnPercent float64 `json:"return_percent"`
	NoQuote       bool    `json:"no_quote,omitempty"`
}

// PortfolioSnapshot is the full valuation of a user's portfolio at a point in
// time. Derivable purely from the ledger, the latest quotes, and the cash
// balance; there is no hidden mutable state behind it.
type PortfolioSnapshot struct {
	UserID           string            `json:"user_id"`
	Holdings         []EnrichedHolding `json:"holdings"`
	TotalMarketValue float64           `json:"total_market_value"`
	TotalCost        float64           `json:"total_cost"`
	TotalProfitLoss  float64           `json:"total_profit_loss"`
	TotalReturnPct   float64           `json:"total_return_pct"`
	Cash             float64           `json:"cash"`
	NetWorth         float64           `json:"net_worth"` // TotalMarketValue + Cash
	Degraded         bool              `json:"degraded"`  // quote provider unavailable for this computation
	SkippedRecords   int               `json:"skipped_records,omitempty"`
	ComputedAt       time.Time         `json:"computed_at"`
}
