// Package interfaces defines service contracts for the trading simulator
package interfaces

import (
	"context"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// QuoteProvider provides access to a market data API.
type QuoteProvider interface {
	// GetQuotes retrieves current quotes for a symbol set in a single batched
	// call. Partial results are valid: symbols the provider cannot resolve are
	// simply absent from the returned map. Prices are in provider units
	// (pence for LSE listings) and must be normalized before valuation.
	GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)

	// GetExchangeSymbols retrieves the instrument universe for an exchange
	// (e.g. "LSE"), used to seed the searchable index.
	GetExchangeSymbols(ctx context.Context, exchange string) ([]models.Instrument, error)
}
