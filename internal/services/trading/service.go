// Package trading validates and records buy/sell orders against the ledger.
package trading

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
	"github.com/dobbo22/StockTradingApp/internal/services/portfolio"
)

// Service implements TradingService. Orders fill instantly and fully at the
// submitted price; there is no order book or partial fill.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new trading service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// PlaceOrder validates an order and appends it to the ledger. Buys are checked
// against the cash balance, sells against the position replayed from the
// ledger, and both against the instrument index. The ledger write happens
// before the cash adjustment so a crash between the two leaves the trade
// recorded rather than the money moved with no trade. If the cash adjustment
// itself fails the recorded transaction is returned alongside
// models.ErrTradeUnsettled so callers can tell the trade stands.
func (s *Service) PlaceOrder(ctx context.Context, userID, symbol string, kind models.TradeKind, quantity int64, price float64) (*models.Transaction, error) {
	canonical := models.CanonicalSymbol(symbol)
	if canonical == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid trade kind %q", kind)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("price must be a positive amount, got %v", price)
	}

	if _, err := s.storage.InstrumentStore().Get(ctx, canonical); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, canonical)
	}

	total := float64(quantity) * price

	switch kind {
	case models.TradeBuy:
		cash, err := s.storage.AccountStore().GetCashBalance(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cash balance for %s: %w", userID, err)
		}
		if total > cash {
			return nil, fmt.Errorf("%w: order costs %.2f, available %.2f", models.ErrInsufficientFunds, total, cash)
		}
	case models.TradeSell:
		held, err := s.sharesHeld(ctx, userID, canonical)
		if err != nil {
			return nil, err
		}
		if quantity > held {
			return nil, fmt.Errorf("%w: selling %d, holding %d of %s", models.ErrInsufficientShares, quantity, held, canonical)
		}
	}

	tx := &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Symbol:    canonical,
		Kind:      kind,
		Quantity:  quantity,
		Price:     price,
		Timestamp: time.Now().UTC(),
	}

	if err := s.storage.LedgerStore().AppendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record trade: %w", err)
	}

	delta := -total
	if kind == models.TradeSell {
		delta = total
	}
	if _, err := s.storage.AccountStore().AdjustCashBalance(ctx, userID, delta); err != nil {
		s.logger.Error().Err(err).
			Str("user", userID).
			Str("tx", tx.ID).
			Msg("Cash adjustment failed after ledger write")
		return tx, fmt.Errorf("%w: trade %s: %v", models.ErrTradeUnsettled, tx.ID, err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("symbol", canonical).
		Str("kind", string(kind)).
		Int64("quantity", quantity).
		Float64("price", price).
		Msg("Order filled")

	return tx, nil
}

// ListTransactions returns the user's ledger in time order.
func (s *Service) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.storage.LedgerStore().GetTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}
	return txs, nil
}

// sharesHeld replays the ledger to get the current position in one symbol.
func (s *Service) sharesHeld(ctx context.Context, userID, symbol string) (int64, error) {
	txs, err := s.storage.LedgerStore().GetTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}

	result := portfolio.Aggregate(txs, s.logger)
	return result.Holdings[symbol].Shares, nil
}

// Ensure Service implements TradingService
var _ interfaces.TradingService = (*Service)(nil)
