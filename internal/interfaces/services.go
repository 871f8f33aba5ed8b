package interfaces

import (
	"context"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// PortfolioService computes portfolio valuations from the ledger and quotes.
type PortfolioService interface {
	// ComputeSnapshot replays the user's ledger, fetches quotes for the
	// resulting symbol set, and returns the valued portfolio. A failed quote
	// fetch degrades the snapshot rather than failing the call; a failed
	// ledger fetch returns ErrLedgerUnavailable.
	ComputeSnapshot(ctx context.Context, userID string) (*models.PortfolioSnapshot, error)
}

// TradingService validates and records buy/sell orders.
type TradingService interface {
	// PlaceOrder validates an order (funds, position, known instrument) and
	// appends it to the ledger. Orders fill instantly and fully at the
	// submitted price.
	PlaceOrder(ctx context.Context, userID, symbol string, kind models.TradeKind, quantity int64, price float64) (*models.Transaction, error)

	// ListTransactions returns the user's ledger in time order.
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

// MarketService exposes the searchable instrument universe and single quotes.
type MarketService interface {
	// SearchInstruments finds listed equities matching the query by symbol
	// or name prefix.
	SearchInstruments(ctx context.Context, query string, limit int) ([]models.Instrument, error)

	// GetQuote fetches and normalizes a single quote.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// SyncInstruments refreshes the instrument index from the provider.
	SyncInstruments(ctx context.Context, exchange string) (int, error)

	// InstrumentCount reports the size of the instrument index.
	InstrumentCount(ctx context.Context) (int, error)
}

// UserService manages accounts and cash balances.
type UserService interface {
	Register(ctx context.Context, email, displayName, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}
