package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kardex-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotals_VentaCincoPorDiez(t *testing.T) {
	base := pricing.LineSubtotal(dec("10.00"), 5, decimal.Zero)
	subtotal, tax, total := pricing.Totals(base)
	assert.True(t, subtotal.Equal(dec("50.00")))
	assert.True(t, tax.Equal(dec("9.00")))
	assert.True(t, total.Equal(dec("59.00")))
}

func TestTax_RedondeoHalfUp(t *testing.T) {
	// 0.25 * 0.18 = 0.045 → 0.05
	assert.True(t, pricing.Tax(dec("0.25")).Equal(dec("0.05")))
	// 10.01 * 0.18 = 1.8018 → 1.80
	assert.True(t, pricing.Tax(dec("10.01")).Equal(dec("1.80")))
}

func TestLineSubtotal_ConDescuento(t *testing.T) {
	assert.True(t, pricing.LineSubtotal(dec("12.50"), 3, dec("2.50")).Equal(dec("35.00")))
}
