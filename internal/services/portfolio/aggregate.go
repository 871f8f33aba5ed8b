package portfolio

import (
	"math"
	"sort"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

// AggregateResult is the outcome of replaying a transaction ledger.
type AggregateResult struct {
	Holdings map[string]models.Holding
	Skipped  int // malformed records dropped during the fold
}

// Symbols returns the held symbols in sorted order.
func (r AggregateResult) Symbols() []string {
	symbols := make([]string, 0, len(r.Holdings))
	for s := range r.Holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Aggregate folds a transaction ledger into current holdings using
// weighted-average cost accounting. A sell reduces the cost basis in
// proportion to the fraction of the position liquidated, so the average cost
// of the remaining shares is unchanged by the sale price. Positions that net
// to zero or below are dropped from the result.
//
// The fold is a pure function of its input: transactions are ordered by
// (timestamp, sequence) before replay, so re-running it always yields the
// same holdings. Malformed records are skipped and counted, never fatal.
func Aggregate(txs []models.Transaction, logger *common.Logger) AggregateResult {
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].Sequence < ordered[j].Sequence
	})

	type position struct {
		shares    int64
		totalCost float64
	}
	positions := make(map[string]*position)
	skipped := 0

	for _, tx := range ordered {
		if tx.Symbol == "" || tx.Quantity <= 0 || tx.Price <= 0 ||
			math.IsNaN(tx.Price) || math.IsInf(tx.Price, 0) || !tx.Kind.Valid() {
			skipped++
			logger.Warn().
				Str("id", tx.ID).
				Str("symbol", tx.Symbol).
				Str("kind", string(tx.Kind)).
				Int64("quantity", tx.Quantity).
				Float64("price", tx.Price).
				Msg("Skipping malformed ledger record")
			continue
		}

		pos := positions[tx.Symbol]
		if pos == nil {
			pos = &position{}
			positions[tx.Symbol] = pos
		}

		switch tx.Kind {
		case models.TradeBuy:
			pos.shares += tx.Quantity
			pos.totalCost += float64(tx.Quantity) * tx.Price
		case models.TradeSell:
			qty := tx.Quantity
			if qty > pos.shares {
				// Oversells are rejected at the trading boundary; one reaching
				// the ledger is a data-integrity fault. Clamp to the full
				// position rather than going short.
				logger.Error().
					Str("symbol", tx.Symbol).
					Int64("quantity", qty).
					Int64("held", pos.shares).
					Msg("Sell exceeds position in ledger, clamping")
				qty = pos.shares
			}
			if pos.shares > 0 {
				fraction := float64(qty) / float64(pos.shares)
				pos.totalCost -= pos.totalCost * fraction
			}
			pos.shares -= qty
		}
	}

	holdings := make(map[string]models.Holding, len(positions))
	for symbol, pos := range positions {
		if pos.shares <= 0 {
			continue
		}
		holdings[symbol] = models.Holding{
			Symbol:    symbol,
			Shares:    pos.shares,
			AvgCost:   pos.totalCost / float64(pos.shares),
			TotalCost: pos.totalCost,
		}
	}

	return AggregateResult{Holdings: holdings, Skipped: skipped}
}
