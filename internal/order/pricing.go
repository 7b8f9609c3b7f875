package order

import "github.com/shopspring/decimal"

var (
	igvRate     = decimal.RequireFromString("0.18")
	igvIncluded = decimal.RequireFromString("1.18")
)

// IGV is the 18% value-added tax on price, rounded to cents.
func IGV(price decimal.Decimal) decimal.Decimal {
	return price.Mul(igvRate).Round(2)
}

// PriceWithIGV is price plus IGV, rounded to cents. Only the fiscal document
// uses it; order totals do not.
func PriceWithIGV(price decimal.Decimal) decimal.Decimal {
	return price.Mul(igvIncluded).Round(2)
}

// Totals computes subtotal and tax for items. Tax adds IGV(price) once per
// item entry, independent of quantity.
func Totals(items []Item) (subtotal, tax decimal.Decimal) {
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
		tax = tax.Add(IGV(it.Price))
	}
	return subtotal, tax
}
