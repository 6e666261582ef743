package pricing

import "github.com/shopspring/decimal"

// Money represents a monetary value with exact decimal arithmetic.
type Money = decimal.Decimal

const bpsScale = 10000

var bpsDivisor = decimal.NewFromInt(bpsScale)

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal Money
	Discount Money
	Tax      Money
	Shipping Money
	Total    Money
}

// Round rounds m to cents.
func Round(m Money) Money {
	return m.Round(2)
}

// ApplyBps returns amount scaled by bps basis points, unrounded.
func ApplyBps(amount Money, bps int64) Money {
	if bps == 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(bps)).Div(bpsDivisor)
}

// Subtotal sums unitPrice * quantity over items.
func Subtotal(items []Item) Money {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	return subtotal
}

// Assemble rounds every component to cents and derives the total from the rounded parts,
// so Total == Subtotal - Discount + Tax + Shipping holds exactly.
func Assemble(subtotal, discount, tax, shipping Money) Summary {
	s := Summary{
		Subtotal: Round(subtotal),
		Discount: Round(discount),
		Tax:      Round(tax),
		Shipping: Round(shipping),
	}
	if s.Discount.GreaterThan(s.Subtotal) {
		s.Discount = s.Subtotal
	}
	s.Total = s.Subtotal.Sub(s.Discount).Add(s.Tax).Add(s.Shipping)
	return s
}
