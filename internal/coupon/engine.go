package coupon

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownCoupon is returned when the code is not present in the registry.
	ErrUnknownCoupon = errors.New("coupon unknown")
	// ErrCouponExpired is returned when the reference date falls after the expiration date.
	ErrCouponExpired = errors.New("coupon expired")
	// ErrMinimumSpendUnmet indicates the cart subtotal did not meet the coupon requirement.
	ErrMinimumSpendUnmet = errors.New("coupon minimum subtotal not met")
	// ErrWeightLimitExceeded indicates the shipment is too heavy for a free-shipping coupon.
	ErrWeightLimitExceeded = errors.New("coupon weight limit exceeded")
)

// Kind tags the effect a coupon has on the checkout.
type Kind string

const (
	KindPercent      Kind = "percent"
	KindFreeShipping Kind = "free_shipping"
)

// Rule captures the effect and eligibility constraints of a coupon.
type Rule struct {
	Code       string
	Kind       Kind
	PercentBps int64
	// MinSubtotal is ignored when zero.
	MinSubtotal decimal.Decimal
	// ExpiresOn is inclusive: the coupon is valid through the end of that calendar date.
	ExpiresOn *time.Time
	// MaxWeight bounds free-shipping coupons, inclusive.
	MaxWeight decimal.Decimal
}

// Context is the checkout state a rule is evaluated against.
type Context struct {
	Subtotal      decimal.Decimal
	Weight        decimal.Decimal
	ReferenceDate time.Time
	// ExpiresOverride replaces the rule's ExpiresOn for this evaluation only.
	// Rules without an expiration ignore it.
	ExpiresOverride *time.Time
}

// Validate ensures the rule can be applied in the provided context.
func (r Rule) Validate(c Context) error {
	if r.MinSubtotal.IsPositive() && c.Subtotal.LessThan(r.MinSubtotal) {
		return ErrMinimumSpendUnmet
	}
	expires := r.ExpiresOn
	if expires != nil && c.ExpiresOverride != nil {
		expires = c.ExpiresOverride
	}
	if expires != nil && DateOf(c.ReferenceDate).After(DateOf(*expires)) {
		return ErrCouponExpired
	}
	if r.Kind == KindFreeShipping && c.Weight.GreaterThan(r.MaxWeight) {
		return ErrWeightLimitExceeded
	}
	return nil
}

// DateOf truncates t to its calendar date, discarding clock time and location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Outcome is the result of resolving a code against the registry.
type Outcome struct {
	Code  string
	Rule  Rule
	Found bool
	Err   error
}

// Requested reports whether a non-blank code was supplied.
func (o Outcome) Requested() bool {
	return o.Code != ""
}

// Applied reports whether the coupon is known and eligible.
func (o Outcome) Applied() bool {
	return o.Found && o.Err == nil
}

// DiscountBps returns the price discount granted by the coupon.
func (o Outcome) DiscountBps() int64 {
	if !o.Applied() || o.Rule.Kind != KindPercent {
		return 0
	}
	return o.Rule.PercentBps
}

// FreeShipping reports whether the coupon waives shipping.
func (o Outcome) FreeShipping() bool {
	return o.Applied() && o.Rule.Kind == KindFreeShipping
}

// Result is a short label for logs and metrics.
func (o Outcome) Result() string {
	switch {
	case !o.Requested():
		return "none"
	case !o.Found:
		return "unknown"
	case o.Err == nil:
		return "applied"
	case errors.Is(o.Err, ErrCouponExpired):
		return "expired"
	case errors.Is(o.Err, ErrMinimumSpendUnmet):
		return "minimum_unmet"
	case errors.Is(o.Err, ErrWeightLimitExceeded):
		return "weight_limit"
	default:
		return "rejected"
	}
}
