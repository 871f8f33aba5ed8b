package models

import "time"

// Quote is a raw market quote as returned by the provider. Price is in
// provider units; LSE equities arrive in pence (GBX) and must pass through
// the normalizer before any valuation. AsOf is advisory only: a stale quote
// is still used.
type Quote struct {
	Symbol   string    `json:"symbol"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency"`
	AsOf     time.Time `json:"as_of"`
}

// Instrument is one entry in the searchable universe of listed equities.
type Instrument struct {
	Symbol   string `json:"symbol" badgerhold:"key"` // canonical, with exchange suffix
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}
