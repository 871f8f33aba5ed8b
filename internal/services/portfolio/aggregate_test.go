package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/dobbo22/StockTradingApp/internal/common"
	"github.com/dobbo22/StockTradingApp/internal/models"
)

func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func tx(symbol string, kind models.TradeKind, qty int64, price float64, minute int) models.Transaction {
	return models.Transaction{
		Symbol:    symbol,
		Kind:      kind,
		Quantity:  qty,
		Price:     price,
		Timestamp: time.Date(2024, 3, 1, 10, minute, 0, 0, time.UTC),
		Sequence:  int64(minute),
	}
}

func TestAggregate_MultipleBuys(t *testing.T) {
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("BARC.L", models.TradeBuy, 10, 200.00, 2),
	}

	result := Aggregate(txs, common.NewSilentLogger())

	h, ok := result.Holdings["BARC.L"]
	if !ok {
		t.Fatal("expected BARC.L holding")
	}
	if h.Shares != 20 {
		t.Errorf("shares = %d, want 20", h.Shares)
	}
	if !approxEqual(h.TotalCost, 3000.00, 0.01) {
		t.Errorf("totalCost = %.2f, want 3000.00", h.TotalCost)
	}
	if !approxEqual(h.AvgCost, 150.00, 0.01) {
		t.Errorf("avgCost = %.2f, want 150.00", h.AvgCost)
	}
}

func TestAggregate_PartialSellKeepsAverageCost(t *testing.T) {
	// The sale price is irrelevant to the cost basis: a partial sell reduces
	// cost proportionally, leaving the remaining average unchanged.
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("BARC.L", models.TradeBuy, 10, 200.00, 2),
		tx("BARC.L", models.TradeSell, 5, 999.00, 3),
	}

	result := Aggregate(txs, common.NewSilentLogger())

	h := result.Holdings["BARC.L"]
	if h.Shares != 15 {
		t.Errorf("shares = %d, want 15", h.Shares)
	}
	if !approxEqual(h.TotalCost, 2250.00, 0.01) {
		t.Errorf("totalCost = %.2f, want 2250.00", h.TotalCost)
	}
	if !approxEqual(h.AvgCost, 150.00, 0.01) {
		t.Errorf("avgCost = %.2f, want 150.00 (unchanged by sell)", h.AvgCost)
	}
}

func TestAggregate_FullLiquidationRemovesSymbol(t *testing.T) {
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("BARC.L", models.TradeBuy, 10, 200.00, 2),
		tx("BARC.L", models.TradeSell, 5, 999.00, 3),
		tx("BARC.L", models.TradeSell, 15, 50.00, 4),
	}

	result := Aggregate(txs, common.NewSilentLogger())

	if _, ok := result.Holdings["BARC.L"]; ok {
		t.Error("fully sold position should be removed from holdings")
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("VOD.L", models.TradeBuy, 200, 0.72, 2),
		tx("BARC.L", models.TradeSell, 4, 130.00, 3),
	}

	first := Aggregate(txs, common.NewSilentLogger())
	second := Aggregate(txs, common.NewSilentLogger())

	if len(first.Holdings) != len(second.Holdings) {
		t.Fatalf("holding counts differ: %d vs %d", len(first.Holdings), len(second.Holdings))
	}
	for symbol, h1 := range first.Holdings {
		h2 := second.Holdings[symbol]
		if h1 != h2 {
			t.Errorf("%s: %+v != %+v", symbol, h1, h2)
		}
	}
}

func TestAggregate_OrderedByTimestampThenSequence(t *testing.T) {
	// Ledger slice arrives shuffled; the fold must replay oldest-first with
	// sequence breaking the tie. A sell replayed before its buy would clamp.
	sameTime := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{Symbol: "VOD.L", Kind: models.TradeSell, Quantity: 5, Price: 1.00, Timestamp: sameTime, Sequence: 2},
		{Symbol: "VOD.L", Kind: models.TradeBuy, Quantity: 10, Price: 1.00, Timestamp: sameTime, Sequence: 1},
	}

	result := Aggregate(txs, common.NewSilentLogger())

	h := result.Holdings["VOD.L"]
	if h.Shares != 5 {
		t.Errorf("shares = %d, want 5", h.Shares)
	}
	if !approxEqual(h.TotalCost, 5.00, 0.01) {
		t.Errorf("totalCost = %.2f, want 5.00", h.TotalCost)
	}
}

func TestAggregate_SkipsMalformedRecords(t *testing.T) {
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("", models.TradeBuy, 10, 100.00, 2),        // missing symbol
		tx("VOD.L", models.TradeBuy, 0, 100.00, 3),    // zero quantity
		tx("VOD.L", models.TradeBuy, 10, -5.00, 4),    // negative price
		tx("VOD.L", "TRANSFER", 10, 100.00, 5),        // unknown kind
		tx("VOD.L", models.TradeBuy, 5, math.NaN(), 6), // non-numeric price
	}

	result := Aggregate(txs, common.NewSilentLogger())

	if result.Skipped != 5 {
		t.Errorf("skipped = %d, want 5", result.Skipped)
	}
	if len(result.Holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(result.Holdings))
	}
	if result.Holdings["BARC.L"].Shares != 10 {
		t.Errorf("valid record should still aggregate")
	}
}

func TestAggregate_OversellClampedNotNegative(t *testing.T) {
	txs := []models.Transaction{
		tx("BARC.L", models.TradeBuy, 10, 100.00, 1),
		tx("BARC.L", models.TradeSell, 25, 100.00, 2),
	}

	result := Aggregate(txs, common.NewSilentLogger())

	if _, ok := result.Holdings["BARC.L"]; ok {
		t.Error("oversold position must be dropped, never negative")
	}
}

func TestAggregate_EmptyLedger(t *testing.T) {
	result := Aggregate(nil, common.NewSilentLogger())

	if len(result.Holdings) != 0 {
		t.Errorf("holdings = %d, want 0", len(result.Holdings))
	}
	if result.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", result.Skipped)
	}
}
