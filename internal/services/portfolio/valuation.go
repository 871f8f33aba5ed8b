package portfolio

import (
	"sort"

	"github.com/dobbo22/StockTradingApp/internal/models"
)

// FallbackPolicy selects how a holding with no resolvable quote is valued.
type FallbackPolicy string

const (
	// PolicyPessimistic values an unquoted holding as a total loss:
	// market value 0, profit/loss -cost, return -100%.
	PolicyPessimistic FallbackPolicy = "pessimistic"

	// PolicyOptimistic excludes an unquoted holding's market value from the
	// aggregate totals instead of treating it as lost.
	PolicyOptimistic FallbackPolicy = "optimistic"
)

// Totals are the aggregate sums across all enriched holdings.
type Totals struct {
	MarketValue float64
	Cost        float64
	ProfitLoss  float64
	ReturnPct   float64
}

// Valuate combines aggregated holdings with normalized quotes into enriched
// holdings plus aggregate totals. Output is ordered by symbol so repeated
// valuations of the same inputs are identical.
func Valuate(holdings map[string]models.Holding, quotes map[string]models.Quote, norm *Normalizer, policy FallbackPolicy) ([]models.EnrichedHolding, Totals) {
	enriched := make([]models.EnrichedHolding, 0, len(holdings))
	var totals Totals

	for _, symbol := range sortedKeys(holdings) {
		h := holdings[symbol]

		quote, found := resolveQuote(symbol, quotes)
		price := 0.0
		if found {
			price, _ = norm.NormalizePrice(quote.Price, quote.Currency)
		}

		e := models.EnrichedHolding{
			Symbol:    h.Symbol,
			Shares:    h.Shares,
			AvgCost:   h.AvgCost,
			TotalCost: h.TotalCost,
		}

		if price > 0 {
			e.CurrentPrice = price
			e.MarketValue = float64(h.Shares) * price
			e.ProfitLoss = e.MarketValue - h.TotalCost
			e.ReturnPercent = safeReturnPct(e.ProfitLoss, h.TotalCost)

			totals.MarketValue += e.MarketValue
			totals.Cost += h.TotalCost
			totals.ProfitLoss += e.ProfitLoss
		} else {
			e.NoQuote = true
			switch policy {
			case PolicyOptimistic:
				// Holding contributes its cost but no market value or loss.
				totals.Cost += h.TotalCost
			default: // pessimistic
				e.ProfitLoss = -h.TotalCost
				e.ReturnPercent = safeReturnPct(e.ProfitLoss, h.TotalCost)
				totals.Cost += h.TotalCost
				totals.ProfitLoss += e.ProfitLoss
			}
		}

		enriched = append(enriched, e)
	}

	totals.ReturnPct = safeReturnPct(totals.ProfitLoss, totals.Cost)

	return enriched, totals
}

// resolveQuote looks up a quote by exact symbol, then tries the
// with-suffix and without-suffix ticker variants. Transactions are
// canonicalized at ingestion but provider responses may carry either form.
func resolveQuote(symbol string, quotes map[string]models.Quote) (models.Quote, bool) {
	if q, ok := quotes[symbol]; ok {
		return q, true
	}
	if q, ok := quotes[models.CanonicalSymbol(symbol)]; ok {
		return q, true
	}
	if q, ok := quotes[models.BareSymbol(symbol)]; ok {
		return q, true
	}
	return models.Quote{}, false
}

// safeReturnPct guards the divide-by-zero: a zero cost basis always yields 0,
// never NaN or Inf.
func safeReturnPct(profitLoss, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (profitLoss / cost) * 100
}

func sortedKeys(holdings map[string]models.Holding) []string {
	keys := make([]string, 0, len(holdings))
	for k := range holdings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
