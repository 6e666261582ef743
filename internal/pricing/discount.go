package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/coupon"
)

// Source identifies where a discount percentage came from.
type Source string

const (
	SourceTier          Source = "tier"
	SourceFirstPurchase Source = "first_purchase"
	SourceCoupon        Source = "coupon"
)

const (
	// FirstPurchaseBps is granted to first purchases at or above FirstPurchaseMinSubtotal.
	FirstPurchaseBps int64 = 500
	// MaxDiscountBps caps the combined discount as a share of the original subtotal.
	MaxDiscountBps int64 = 3000
)

// FirstPurchaseMinSubtotal is the smallest subtotal eligible for the first-purchase discount.
var FirstPurchaseMinSubtotal = decimal.NewFromInt(50)

// Contribution is one discount percentage tagged by its source.
type Contribution struct {
	Source Source
	Bps    int64
}

// DiscountInput gathers what the resolver needs. Coupon must already be evaluated.
type DiscountInput struct {
	Subtotal      Money
	Tier          CustomerTier
	FirstPurchase bool
	Coupon        coupon.Outcome
}

// Breakdown describes how the discount value was reached.
type Breakdown struct {
	Contributions []Contribution
	RequestedBps  int64
	EffectiveBps  int64
	Capped        bool
	Value         Money
	FreeShipping  bool
}

// ResolveDiscount stacks tier, first-purchase and coupon percentages on the original
// subtotal and clamps the sum at MaxDiscountBps.
func ResolveDiscount(in DiscountInput) Breakdown {
	tierBps, _ := in.Tier.DiscountBps()
	contributions := []Contribution{{Source: SourceTier, Bps: tierBps}}
	if in.FirstPurchase && in.Subtotal.GreaterThanOrEqual(FirstPurchaseMinSubtotal) {
		contributions = append(contributions, Contribution{Source: SourceFirstPurchase, Bps: FirstPurchaseBps})
	}
	if bps := in.Coupon.DiscountBps(); bps > 0 {
		contributions = append(contributions, Contribution{Source: SourceCoupon, Bps: bps})
	}

	var requested int64
	for _, c := range contributions {
		requested += c.Bps
	}
	effective := min(requested, MaxDiscountBps)

	return Breakdown{
		Contributions: contributions,
		RequestedBps:  requested,
		EffectiveBps:  effective,
		Capped:        requested > effective,
		Value:         Round(ApplyBps(in.Subtotal, effective)),
		FreeShipping:  in.Coupon.FreeShipping(),
	}
}
