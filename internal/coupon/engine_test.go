package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

func TestRuleValidatePercent(t *testing.T) {
	rule, ok := Default().Lookup("DESC20")
	require.True(t, ok)

	base := Context{Subtotal: decimal.NewFromInt(200), ReferenceDate: date("2025-11-04")}
	require.NoError(t, rule.Validate(base))

	under := base
	under.Subtotal = decimal.RequireFromString("99.99")
	require.ErrorIs(t, rule.Validate(under), ErrMinimumSpendUnmet)

	boundary := base
	boundary.Subtotal = decimal.NewFromInt(100)
	require.NoError(t, rule.Validate(boundary))

	lastDay := base
	lastDay.ReferenceDate = time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	require.NoError(t, rule.Validate(lastDay))

	late := base
	late.ReferenceDate = date("2026-01-01")
	require.ErrorIs(t, rule.Validate(late), ErrCouponExpired)
}

func TestRuleValidateOverrideWins(t *testing.T) {
	rule, _ := Default().Lookup("DESC20")
	c := Context{
		Subtotal:        decimal.NewFromInt(200),
		ReferenceDate:   date("2025-11-05"),
		ExpiresOverride: ptr(date("2025-11-04")),
	}
	require.ErrorIs(t, rule.Validate(c), ErrCouponExpired)

	c.ReferenceDate = date("2026-03-01")
	c.ExpiresOverride = ptr(date("2026-06-30"))
	require.NoError(t, rule.Validate(c))

	desc10, _ := Default().Lookup("DESC10")
	c.ExpiresOverride = ptr(date("2026-02-28"))
	require.NoError(t, desc10.Validate(c))

	free, _ := Default().Lookup("FRETEGRATIS")
	c.Weight = decimal.NewFromInt(1)
	require.NoError(t, free.Validate(c))
}

func TestRuleValidateFreeShippingWeight(t *testing.T) {
	rule, _ := Default().Lookup("FRETEGRATIS")
	c := Context{ReferenceDate: date("2025-11-04"), Weight: decimal.NewFromInt(5)}
	require.NoError(t, rule.Validate(c))

	c.Weight = decimal.RequireFromString("5.1")
	require.ErrorIs(t, rule.Validate(c), ErrWeightLimitExceeded)
}

func TestDateOfDropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	got := DateOf(time.Date(2025, time.November, 4, 22, 30, 0, 0, loc))
	require.Equal(t, time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC), got)
}

func TestOutcomeResult(t *testing.T) {
	reg := Default()
	c := Context{Subtotal: decimal.NewFromInt(50), ReferenceDate: date("2025-11-04"), Weight: decimal.NewFromInt(9)}

	cases := map[string]string{
		"":            "none",
		"   ":         "none",
		"NOPE":        "unknown",
		"desc10":      "unknown",
		"DESC10":      "applied",
		" DESC10 ":    "applied",
		"DESC20":      "minimum_unmet",
		"FRETEGRATIS": "weight_limit",
	}
	for code, want := range cases {
		require.Equal(t, want, reg.Evaluate(code, c).Result(), "code %q", code)
	}

	pastOverride := Context{Subtotal: decimal.NewFromInt(200), ReferenceDate: date("2025-11-05"), ExpiresOverride: ptr(date("2025-11-04"))}
	require.Equal(t, "applied", reg.Evaluate("DESC10", pastOverride).Result())

	expired := reg.Evaluate("DESC20", pastOverride)
	require.Equal(t, "expired", expired.Result())
	require.False(t, expired.Applied())
	require.Zero(t, expired.DiscountBps())

	odd := Outcome{Code: "X", Found: true, Err: ErrUnknownCoupon}
	require.Equal(t, "rejected", odd.Result())
}

func TestOutcomeEffects(t *testing.T) {
	reg := Default()
	c := Context{Subtotal: decimal.NewFromInt(200), ReferenceDate: date("2025-11-04"), Weight: decimal.NewFromInt(3)}

	desc10 := reg.Evaluate("DESC10", c)
	require.True(t, desc10.Applied())
	require.EqualValues(t, 1000, desc10.DiscountBps())
	require.False(t, desc10.FreeShipping())

	free := reg.Evaluate("FRETEGRATIS", c)
	require.True(t, free.Applied())
	require.Zero(t, free.DiscountBps())
	require.True(t, free.FreeShipping())

	unknown := reg.Evaluate("XYZ", c)
	require.True(t, unknown.Requested())
	require.False(t, unknown.Found)
	require.ErrorIs(t, unknown.Err, ErrUnknownCoupon)
	require.False(t, unknown.FreeShipping())

	blank := reg.Evaluate("", c)
	require.False(t, blank.Requested())
	require.NoError(t, blank.Err)
}
