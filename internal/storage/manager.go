// Package storage wires the storage areas behind the StorageManager contract.
package storage

import (
	"fmt"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/storage/badger"
)

// Manager holds the three storage areas: accounts, the transaction ledger,
// and the instrument index. Each area is an independent embedded database so
// a compaction or failure in one does not stall the others.
type Manager struct {
	accounts    *badger.AccountStore
	ledger      *badger.LedgerStore
	instruments *badger.InstrumentStore
	logger      *common.Logger
}

// NewManager opens all storage areas from the configuration. On any failure
// the areas already opened are closed before returning.
func NewManager(cfg common.StorageConfig, logger *common.Logger) (*Manager, error) {
	accounts, err := badger.NewAccountStore(logger, cfg.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open account store: %w", err)
	}

	ledger, err := badger.NewLedgerStore(logger, cfg.Ledger.Path)
	if err != nil {
		accounts.Close()
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	instruments, err := badger.NewInstrumentStore(logger, cfg.Market.Path)
	if err != nil {
		accounts.Close()
		ledger.Close()
		return nil, fmt.Errorf("failed to open instrument store: %w", err)
	}

	return &Manager{
		accounts:    accounts,
		ledger:      ledger,
		instruments: instruments,
		logger:      logger,
	}, nil
}

// LedgerStore returns the transaction ledger.
func (m *Manager) LedgerStore() interfaces.LedgerStore { return m.ledger }

// AccountStore returns the account store.
func (m *Manager) AccountStore() interfaces.AccountStore { return m.accounts }

// InstrumentStore returns the instrument index.
func (m *Manager) InstrumentStore() interfaces.InstrumentStore { return m.instruments }

// Close closes all storage areas, returning the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	for _, c := range []interface{ Close() error }{m.ledger, m.accounts, m.instruments} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("failed to close storage: %w", firstErr)
	}
	m.logger.Info().Msg("Storage closed")
	return nil
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
