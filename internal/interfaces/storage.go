package interfaces

import (
	"context"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	LedgerStore() LedgerStore
	AccountStore() AccountStore
	InstrumentStore() InstrumentStore

	// Lifecycle
	Close() error
}

// LedgerStore is the append-only transaction ledger, keyed by user.
type LedgerStore interface {
	// GetTransactions returns all transactions for a user ordered by
	// (timestamp, sequence), oldest first. An empty slice is valid (new user).
	GetTransactions(ctx context.Context, userID string) ([]models.Transaction, error)

	// AppendTransaction records one transaction, assigning its per-user
	// sequence number. Existing records are never mutated.
	AppendTransaction(ctx context.Context, tx *models.Transaction) error

	Close() error
}

// AccountStore manages user accounts and cash balances.
type AccountStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error

	// GetCashBalance returns the user's current virtual cash in GBP.
	GetCashBalance(ctx context.Context, userID string) (float64, error)

	// AdjustCashBalance applies a signed delta to the user's cash. The store
	// rejects adjustments that would take the balance below zero.
	AdjustCashBalance(ctx context.Context, userID string, delta float64) (float64, error)

	Close() error
}

// InstrumentStore is the searchable index of listed equities.
type InstrumentStore interface {
	Upsert(ctx context.Context, inst *models.Instrument) error
	Get(ctx context.Context, symbol string) (*models.Instrument, error)
	Search(ctx context.Context, query string, limit int) ([]models.Instrument, error)
	Count(ctx context.Context) (int, error)

	Close() error
}
