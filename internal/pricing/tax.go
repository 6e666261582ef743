package pricing

import "github.com/shopspring/decimal"

// TaxBps is the tax rate applied to taxable goods.
const TaxBps int64 = 1200

// TaxableSubtotal sums the lines that are not tax exempt.
func TaxableSubtotal(items []Item) Money {
	taxable := decimal.Zero
	for _, it := range items {
		if it.TaxExempt() {
			continue
		}
		taxable = taxable.Add(it.LineTotal())
	}
	return taxable
}

// ComputeTax applies TaxBps to the taxable subtotal after the effective discount
// percentage has been taken off it. Carts that are empty or all BOOK pay no tax.
func ComputeTax(items []Item, discountBps int64) Money {
	taxable := TaxableSubtotal(items)
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	net := taxable.Sub(ApplyBps(taxable, discountBps))
	return Round(ApplyBps(net, TaxBps))
}
