package coupon

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Registry is an immutable code -> rule lookup table. Codes are case-sensitive.
type Registry struct {
	rules map[string]Rule
}

var builtin = mustRegistry(
	Rule{Code: "DESC10", Kind: KindPercent, PercentBps: 1000},
	Rule{Code: "DESC20", Kind: KindPercent, PercentBps: 2000, MinSubtotal: decimal.NewFromInt(100), ExpiresOn: datePtr(2025, time.December, 31)},
	Rule{Code: "FRETEGRATIS", Kind: KindFreeShipping, MaxWeight: decimal.NewFromInt(5)},
)

// Default returns the built-in coupon table.
func Default() *Registry {
	return builtin
}

// NewRegistry validates rules and builds a registry. Later rules replace earlier ones with the same code.
func NewRegistry(rules ...Rule) (*Registry, error) {
	table := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		if err := checkRule(rule); err != nil {
			return nil, err
		}
		table[rule.Code] = rule
	}
	return &Registry{rules: table}, nil
}

// Merge returns a new registry holding r's rules overridden by extra.
func (r *Registry) Merge(extra ...Rule) (*Registry, error) {
	all := make([]Rule, 0, r.Len()+len(extra))
	for _, code := range r.Codes() {
		all = append(all, r.rules[code])
	}
	all = append(all, extra...)
	return NewRegistry(all...)
}

// Lookup finds the rule for an exact code.
func (r *Registry) Lookup(code string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	rule, ok := r.rules[code]
	return rule, ok
}

// Len returns the number of registered codes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// Codes lists the registered codes in sorted order.
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Evaluate resolves code against the registry and validates the rule in c.
// Blank or unknown codes produce an Outcome that applies nothing.
func (r *Registry) Evaluate(code string, c Context) Outcome {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return Outcome{}
	}
	rule, ok := r.Lookup(trimmed)
	if !ok {
		return Outcome{Code: trimmed, Err: ErrUnknownCoupon}
	}
	return Outcome{Code: trimmed, Rule: rule, Found: true, Err: rule.Validate(c)}
}

func checkRule(rule Rule) error {
	if strings.TrimSpace(rule.Code) == "" || rule.Code != strings.TrimSpace(rule.Code) {
		return fmt.Errorf("coupon: invalid code %q", rule.Code)
	}
	switch rule.Kind {
	case KindPercent:
		if rule.PercentBps < 0 || rule.PercentBps > 10000 {
			return fmt.Errorf("coupon %s: percent_bps out of range: %d", rule.Code, rule.PercentBps)
		}
	case KindFreeShipping:
		if rule.MaxWeight.IsNegative() {
			return fmt.Errorf("coupon %s: negative max_weight", rule.Code)
		}
	default:
		return fmt.Errorf("coupon %s: unsupported kind %q", rule.Code, rule.Kind)
	}
	if rule.MinSubtotal.IsNegative() {
		return fmt.Errorf("coupon %s: negative min_subtotal", rule.Code)
	}
	return nil
}

func mustRegistry(rules ...Rule) *Registry {
	reg, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}
	return reg
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
