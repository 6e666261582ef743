package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/checkout-pricing/internal/common"
)

// CustomerTier is the loyalty level of the buyer.
type CustomerTier string

const (
	TierBasic  CustomerTier = "BASIC"
	TierSilver CustomerTier = "SILVER"
	TierGold   CustomerTier = "GOLD"
)

var tierDiscountBps = map[CustomerTier]int64{
	TierBasic:  0,
	TierSilver: 500,
	TierGold:   1000,
}

// DiscountBps returns the tier discount in basis points and whether the tier is known.
func (t CustomerTier) DiscountBps() (int64, bool) {
	bps, ok := tierDiscountBps[t]
	return bps, ok
}

// ParseTier maps a case-insensitive name to a tier.
func ParseTier(value string) (CustomerTier, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return "", common.MissingValue("tier")
	}
	tier := CustomerTier(trimmed)
	if _, ok := tier.DiscountBps(); !ok {
		return "", common.InvalidArgument("tier desconhecido")
	}
	return tier, nil
}

func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
