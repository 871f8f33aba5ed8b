// Package market exposes the searchable instrument universe and spot quotes.
package market

import (
	"context"
	"fmt"
	"strings"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
	"github.com/dobbo22/StockTradingApp/internal/services/portfolio"
)

const defaultSearchLimit = 25

// Service implements MarketService on top of the instrument index and the
// quote provider.
type Service struct {
	storage    interfaces.StorageManager
	quotes     interfaces.QuoteProvider
	normalizer *portfolio.Normalizer
	logger     *common.Logger
}

// NewService creates a new market data service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteProvider, cfg common.QuotesConfig, logger *common.Logger) *Service {
	return &Service{
		storage:    storage,
		quotes:     quotes,
		normalizer: portfolio.NewNormalizer(cfg.BaseCurrency, cfg.MinorUnitCodes),
		logger:     logger,
	}
}

// SearchInstruments finds listed equities matching the query by symbol or
// name prefix.
func (s *Service) SearchInstruments(ctx context.Context, query string, limit int) ([]models.Instrument, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.storage.InstrumentStore().Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("instrument search failed: %w", err)
	}
	return results, nil
}

// GetQuote fetches a single quote and normalizes it to the base currency.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	canonical := models.CanonicalSymbol(symbol)
	if canonical == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	quotes, err := s.quotes.GetQuotes(ctx, []string{canonical})
	if err != nil {
		return nil, fmt.Errorf("quote fetch for %s failed: %w", canonical, err)
	}

	quote, ok := quotes[canonical]
	if !ok {
		// Providers occasionally key the response by the bare ticker.
		quote, ok = quotes[models.BareSymbol(canonical)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, canonical)
	}

	price, currency := s.normalizer.NormalizePrice(quote.Price, quote.Currency)
	quote.Symbol = canonical
	quote.Price = price
	quote.Currency = currency
	return &quote, nil
}

// SyncInstruments refreshes the instrument index from the provider's exchange
// listing and returns the number of instruments stored.
func (s *Service) SyncInstruments(ctx context.Context, exchange string) (int, error) {
	instruments, err := s.quotes.GetExchangeSymbols(ctx, exchange)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s symbols: %w", exchange, err)
	}

	stored := 0
	for i := range instruments {
		inst := instruments[i]
		inst.Symbol = models.CanonicalSymbol(inst.Symbol)
		if inst.Symbol == "" {
			continue
		}
		if err := s.storage.InstrumentStore().Upsert(ctx, &inst); err != nil {
			s.logger.Warn().Err(err).Str("symbol", inst.Symbol).Msg("Instrument upsert failed")
			continue
		}
		stored++
	}

	s.logger.Info().
		Str("exchange", exchange).
		Int("stored", stored).
		Int("received", len(instruments)).
		Msg("Instrument index synced")

	return stored, nil
}

// InstrumentCount reports how many instruments the index currently holds.
func (s *Service) InstrumentCount(ctx context.Context) (int, error) {
	count, err := s.storage.InstrumentStore().Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("instrument count failed: %w", err)
	}
	return count, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
