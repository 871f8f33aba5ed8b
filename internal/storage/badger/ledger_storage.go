package badger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/timshannon/badgerhold/v4"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// LedgerStore implements interfaces.LedgerStore using BadgerHold. The ledger
// is append-only: records are inserted, never updated or deleted.
type LedgerStore struct {
	db     *badgerhold.Store
	logger *common.Logger

	// seqMu serialises sequence assignment so two concurrent appends for the
	// same user cannot draw the same number.
	seqMu sync.Mutex
}

// ledgerSequence tracks the last sequence number issued per user.
type ledgerSequence struct {
	UserID string `badgerhold:"key"`
	Last   int64
}

// NewLedgerStore opens the transaction ledger at the given path.
func NewLedgerStore(logger *common.Logger, path string) (*LedgerStore, error) {
	db, err := open(logger, path, "ledger")
	if err != nil {
		return nil, err
	}
	return &LedgerStore{db: db, logger: logger}, nil
}

// GetTransactions returns all transactions for a user ordered by
// (timestamp, sequence), oldest first.
func (s *LedgerStore) GetTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.db.Find(&txs, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to read ledger for user '%s': %w", userID, err)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		}
		return txs[i].Sequence < txs[j].Sequence
	})

	return txs, nil
}

// AppendTransaction records one transaction, assigning the next per-user
// sequence number.
func (s *LedgerStore) AppendTransaction(_ context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if tx.UserID == "" {
		return fmt.Errorf("transaction user ID is required")
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	var seq ledgerSequence
	if err := s.db.Get(tx.UserID, &seq); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to read sequence for user '%s': %w", tx.UserID, err)
	}
	seq.UserID = tx.UserID
	seq.Last++
	tx.Sequence = seq.Last

	if err := s.db.Insert(tx.ID, tx); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("transaction '%s' already recorded", tx.ID)
		}
		return fmt.Errorf("failed to append transaction '%s': %w", tx.ID, err)
	}

	if err := s.db.Upsert(tx.UserID, &seq); err != nil {
		return fmt.Errorf("failed to advance sequence for user '%s': %w", tx.UserID, err)
	}

	s.logger.Debug().
		Str("user_id", tx.UserID).
		Str("symbol", tx.Symbol).
		Int64("sequence", tx.Sequence).
		Msg("Transaction appended")

	return nil
}

// Close closes the underlying database.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}

// Ensure LedgerStore implements the interface
var _ interfaces.LedgerStore = (*LedgerStore)(nil)
