// Package models defines data structures for the trading simulator
package models

import (
	"strings"
	"time"
)

// TradeKind identifies the direction of a transaction.
type TradeKind string

const (
	TradeBuy  TradeKind = "BUY"
	TradeSell TradeKind = "SELL"
)

// Valid reports whether the kind is one of the recognised trade directions.
func (k TradeKind) Valid() bool {
	return k == TradeBuy || k == TradeSell
}

// Transaction is a single buy or sell recorded in a user's ledger.
// Transactions are append-only: once written they are never mutated or deleted.
type Transaction struct {
	ID        string    `json:"id" badgerhold:"key"`
	UserID    string    `json:"user_id" badgerhold:"index"`
	Symbol    string    `json:"symbol"`
	Kind      TradeKind `json:"kind"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"` // per share, GBP, normalized before recording
	Timestamp time.Time `json:"timestamp"`
	Sequence  int64     `json:"sequence"` // per-user insertion order, breaks timestamp ties
}

// LSESuffix is the exchange suffix applied to London-listed tickers
// (e.g. "BARC.L").
const LSESuffix = ".L"

// CanonicalSymbol converts a user-supplied ticker into its canonical stored
// form: trimmed, uppercase, with the LSE exchange suffix appended when no
// exchange suffix is present. Returns "" for blank input.
func CanonicalSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, ".") {
		s += LSESuffix
	}
	return s
}

// BareSymbol strips the exchange suffix from a canonical ticker
// ("BARC.L" -> "BARC"). Tickers without a suffix pass through unchanged.
func BareSymbol(symbol string) string {
	if idx := strings.LastIndex(symbol, "."); idx > 0 {
		return symbol[:idx]
	}
	return symbol
}
