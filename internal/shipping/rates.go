package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/common"
)

// Rule names the branch of the decision table that priced a shipment.
type Rule string

const (
	RuleCoupon     Rule = "coupon"
	RuleLargeOrder Rule = "large_order"
	RuleEmptyCart  Rule = "empty_cart"
	RuleRegion     Rule = "region"
)

var (
	// FreeShippingThreshold waives shipping when the discounted subtotal reaches it.
	FreeShippingThreshold = decimal.NewFromInt(300)
	// EmptyCartRate is charged for a cart with no lines, whatever the region.
	EmptyCartRate = decimal.NewFromInt(20)
	// DefaultRate applies to unknown or absent regions.
	DefaultRate = decimal.NewFromInt(40)
)

// Band prices shipments up to MaxWeight (inclusive). The last band of a region is open ended.
type Band struct {
	MaxWeight decimal.Decimal
	Rate      decimal.Decimal
}

var southBands = []Band{
	{MaxWeight: decimal.NewFromInt(2), Rate: decimal.NewFromInt(20)},
	{MaxWeight: decimal.NewFromInt(5), Rate: decimal.NewFromInt(35)},
	{Rate: decimal.NewFromInt(50)},
}

var regionBands = map[string][]Band{
	"SUL":     southBands,
	"SUDESTE": southBands,
	"NORTE": {
		{MaxWeight: decimal.NewFromInt(2), Rate: decimal.NewFromInt(30)},
		{MaxWeight: decimal.NewFromInt(5), Rate: decimal.NewFromInt(55)},
		{Rate: decimal.NewFromInt(80)},
	},
}

// RegionRate looks up the table rate for region and weight.
func RegionRate(region string, weight decimal.Decimal) decimal.Decimal {
	bands, ok := regionBands[region]
	if !ok {
		return DefaultRate
	}
	last := len(bands) - 1
	for i, band := range bands {
		if i == last || weight.LessThanOrEqual(band.MaxWeight) {
			return band.Rate
		}
	}
	return DefaultRate
}

// Request carries everything needed to quote shipping.
type Request struct {
	Region                string
	Weight                decimal.Decimal
	SubtotalAfterDiscount decimal.Decimal
	FreeShippingEligible  bool
	EmptyCart             bool
}

// Quote is a priced shipment and the rule that priced it.
type Quote struct {
	Amount decimal.Decimal
	Rule   Rule
}

// ValidateWeight rejects negative shipment weights.
func ValidateWeight(weight decimal.Decimal) error {
	if weight.IsNegative() {
		return common.InvalidArgument("weight < 0")
	}
	return nil
}

// Estimate applies, in order: free-shipping coupon, large-order waiver, empty-cart rate, region table.
func Estimate(req Request) (Quote, error) {
	if err := ValidateWeight(req.Weight); err != nil {
		return Quote{}, err
	}
	switch {
	case req.FreeShippingEligible:
		return Quote{Amount: decimal.Zero, Rule: RuleCoupon}, nil
	case req.SubtotalAfterDiscount.GreaterThanOrEqual(FreeShippingThreshold):
		return Quote{Amount: decimal.Zero, Rule: RuleLargeOrder}, nil
	case req.EmptyCart:
		return Quote{Amount: EmptyCartRate, Rule: RuleEmptyCart}, nil
	default:
		return Quote{Amount: RegionRate(req.Region, req.Weight), Rule: RuleRegion}, nil
	}
}

// Calculate prices shipping for a non-empty cart.
func Calculate(region string, weight, subtotalAfterDiscount decimal.Decimal, freeShippingEligible bool) (decimal.Decimal, error) {
	q, err := Estimate(Request{
		Region:                region,
		Weight:                weight,
		SubtotalAfterDiscount: subtotalAfterDiscount,
		FreeShippingEligible:  freeShippingEligible,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return q.Amount, nil
}
