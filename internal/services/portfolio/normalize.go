// Package portfolio implements portfolio reconciliation and valuation:
// replaying the transaction ledger into holdings, normalizing provider
// quotes, and pricing the result into a snapshot.
package portfolio

import (
	"math"
	"strings"
)

// minorUnitFactor converts a minor-unit price (pence) into the base
// currency unit (pounds).
const minorUnitFactor = 100

// Normalizer converts raw provider quotes into the base currency.
// LSE equities are quoted in pence (GBX); valuation always works in pounds.
type Normalizer struct {
	baseCurrency string
	minorUnits   map[string]bool
}

// NewNormalizer builds a normalizer for the given base currency and the set
// of currency codes that denote its minor unit. Codes are matched
// case-sensitively: "GBp" is pence but "GBP" is pounds.
func NewNormalizer(baseCurrency string, minorUnitCodes []string) *Normalizer {
	minor := make(map[string]bool, len(minorUnitCodes))
	for _, code := range minorUnitCodes {
		minor[strings.TrimSpace(code)] = true
	}
	return &Normalizer{
		baseCurrency: strings.ToUpper(baseCurrency),
		minorUnits:   minor,
	}
}

// NormalizePrice returns the price expressed in the base currency unit along
// with the relabelled currency code. Minor-unit quotes are divided by 100;
// anything else passes through unchanged. Non-finite or negative prices
// collapse to 0, the no-data sentinel understood by the valuation engine.
// Pure function: never errors, never panics.
func (n *Normalizer) NormalizePrice(price float64, currency string) (float64, string) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, n.baseCurrency
	}

	if n.minorUnits[strings.TrimSpace(currency)] {
		return price / minorUnitFactor, n.baseCurrency
	}

	return price, currency
}
