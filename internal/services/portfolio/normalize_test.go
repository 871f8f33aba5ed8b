package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer("GBP", []string{"GBX", "GBp"})
}

func TestNormalizePrice_PenceToPounds(t *testing.T) {
	norm := newTestNormalizer()

	price, currency := norm.NormalizePrice(215.75, "GBX")

	assert.InDelta(t, 2.1575, price, 1e-9)
	assert.Equal(t, "GBP", currency)
}

func TestNormalizePrice_MinorUnitCodesMatchedExactly(t *testing.T) {
	norm := newTestNormalizer()

	for _, code := range []string{"GBX", "GBp"} {
		price, currency := norm.NormalizePrice(100, code)
		assert.InDelta(t, 1.0, price, 1e-9, "code %s", code)
		assert.Equal(t, "GBP", currency, "code %s", code)
	}

	// "GBP" is pounds, not pence; case matters.
	price, currency := norm.NormalizePrice(100, "GBP")
	assert.Equal(t, 100.0, price)
	assert.Equal(t, "GBP", currency)
}

func TestNormalizePrice_BaseCurrencyPassThrough(t *testing.T) {
	norm := NewNormalizer("GBP", []string{"GBX"})

	price, currency := norm.NormalizePrice(42.50, "GBP")

	assert.Equal(t, 42.50, price)
	assert.Equal(t, "GBP", currency)
}

func TestNormalizePrice_ForeignCurrencyPassThrough(t *testing.T) {
	norm := newTestNormalizer()

	price, currency := norm.NormalizePrice(180.25, "USD")

	assert.Equal(t, 180.25, price)
	assert.Equal(t, "USD", currency)
}

func TestNormalizePrice_BadInputReturnsZero(t *testing.T) {
	norm := newTestNormalizer()

	for name, bad := range map[string]float64{
		"nan":      math.NaN(),
		"inf":      math.Inf(1),
		"neg_inf":  math.Inf(-1),
		"negative": -10,
	} {
		price, currency := norm.NormalizePrice(bad, "GBX")
		assert.Equal(t, 0.0, price, name)
		assert.Equal(t, "GBP", currency, name)
	}
}

func TestNormalizePrice_ZeroIsZero(t *testing.T) {
	norm := newTestNormalizer()

	price, _ := norm.NormalizePrice(0, "GBX")

	assert.Equal(t, 0.0, price)
}
