package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/interfaces"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// Service implements PortfolioService. Each snapshot computation is a single
// read-then-compute pass over the ledger, quotes, and cash balance fetched
// for that computation; nothing is cached between requests.
type Service struct {
	storage      interfaces.StorageManager
	quotes       interfaces.QuoteProvider
	normalizer   *Normalizer
	policy       FallbackPolicy
	fetchTimeout time.Duration
	logger       *common.Logger
}

// NewService creates a new portfolio valuation service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteProvider, cfg common.QuotesConfig, logger *common.Logger) *Service {
	return &Service{
		storage:      storage,
		quotes:       quotes,
		normalizer:   NewNormalizer(cfg.BaseCurrency, cfg.MinorUnitCodes),
		policy:       FallbackPolicy(cfg.FallbackPolicy),
		fetchTimeout: cfg.GetFetchTimeout(),
		logger:       logger,
	}
}

// ComputeSnapshot replays the user's ledger into holdings, prices them with a
// single batched quote fetch, and assembles the portfolio snapshot.
//
// Failure semantics: a ledger read failure is fatal (ErrLedgerUnavailable,
// no partial portfolio); a quote fetch failure degrades the snapshot instead
// of failing it, with every holding valued under the fallback policy.
func (s *Service) ComputeSnapshot(ctx context.Context, userID string) (*models.PortfolioSnapshot, error) {
	// Ledger and cash reads are independent; fetch them concurrently.
	type cashResult struct {
		cash float64
		err  error
	}
	cashCh := make(chan cashResult, 1)
	go func() {
		cash, err := s.storage.AccountStore().GetCashBalance(ctx, userID)
		cashCh <- cashResult{cash: cash, err: err}
	}()

	txs, err := s.storage.LedgerStore().GetTransactions(ctx, userID)
	if err != nil {
		<-cashCh
		s.logger.Error().Err(err).Str("user", userID).Msg("Ledger fetch failed")
		return nil, fmt.Errorf("%w: %v", models.ErrLedgerUnavailable, err)
	}

	cr := <-cashCh
	if cr.err != nil {
		return nil, fmt.Errorf("failed to get cash balance for %s: %w", userID, cr.err)
	}

	result := Aggregate(txs, s.logger)

	quotes, degraded := s.fetchQuotes(ctx, result.Symbols())

	enriched, totals := Valuate(result.Holdings, quotes, s.normalizer, s.policy)

	snapshot := &models.PortfolioSnapshot{
		UserID:           userID,
		Holdings:         enriched,
		TotalMarketValue: totals.MarketValue,
		TotalCost:        totals.Cost,
		TotalProfitLoss:  totals.ProfitLoss,
		TotalReturnPct:   totals.ReturnPct,
		Cash:             cr.cash,
		NetWorth:         totals.MarketValue + cr.cash,
		Degraded:         degraded,
		SkippedRecords:   result.Skipped,
		ComputedAt:       time.Now(),
	}

	s.logger.Debug().
		Str("user", userID).
		Int("holdings", len(enriched)).
		Bool("degraded", degraded).
		Float64("net_worth", snapshot.NetWorth).
		Msg("Snapshot computed")

	return snapshot, nil
}

// fetchQuotes performs the single batched quote call, bounded by the
// configured timeout. A total provider failure returns no quotes and marks
// the computation degraded; partial results are used as-is.
func (s *Service) fetchQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, bool) {
	if len(symbols) == 0 {
		return nil, false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	quotes, err := s.quotes.GetQuotes(fetchCtx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Int("symbols", len(symbols)).Msg("Quote fetch failed, degrading snapshot")
		return nil, true
	}
	return quotes, false
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
