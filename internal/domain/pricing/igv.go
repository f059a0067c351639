package pricing

import "github.com/shopspring/decimal"

// TaxRate IGV fijo (18%).
var TaxRate = decimal.RequireFromString("0.18")

// Round redondea a 2 decimales (half-up para montos positivos).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineSubtotal precio × cantidad − descuento, a 2 decimales.
func LineSubtotal(unitPrice decimal.Decimal, qty int, discount decimal.Decimal) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(qty))).Sub(discount))
}

// Tax IGV sobre una base imponible.
func Tax(base decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(TaxRate))
}

// Totals base, IGV y total (base + IGV).
func Totals(base decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = Round(base)
	tax = Tax(subtotal)
	return subtotal, tax, subtotal.Add(tax)
}
