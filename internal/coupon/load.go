package coupon

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type fileRule struct {
	Code        string `yaml:"code"`
	Kind        string `yaml:"kind"`
	PercentBps  int64  `yaml:"percent_bps"`
	MinSubtotal string `yaml:"min_subtotal"`
	ExpiresOn   string `yaml:"expires_on"`
	MaxWeight   string `yaml:"max_weight"`
}

type fileDoc struct {
	Coupons []fileRule `yaml:"coupons"`
}

// LoadFile reads coupon rules from a YAML file and merges them over base.
func LoadFile(path string, base *Registry) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coupons %s: %w", path, err)
	}
	defer f.Close()
	reg, err := Load(f, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Load decodes coupon rules from r and merges them over base.
func Load(r io.Reader, base *Registry) (*Registry, error) {
	var doc fileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse coupons: %w", err)
	}
	rules := make([]Rule, 0, len(doc.Coupons))
	for _, fr := range doc.Coupons {
		rule, err := fr.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if base == nil {
		return NewRegistry(rules...)
	}
	return base.Merge(rules...)
}

func (fr fileRule) toRule() (Rule, error) {
	rule := Rule{
		Code:       fr.Code,
		Kind:       Kind(strings.ToLower(strings.TrimSpace(fr.Kind))),
		PercentBps: fr.PercentBps,
	}
	var err error
	if rule.MinSubtotal, err = parseDecimal(fr.MinSubtotal); err != nil {
		return Rule{}, fmt.Errorf("coupon %s: min_subtotal: %w", fr.Code, err)
	}
	if rule.MaxWeight, err = parseDecimal(fr.MaxWeight); err != nil {
		return Rule{}, fmt.Errorf("coupon %s: max_weight: %w", fr.Code, err)
	}
	if value := strings.TrimSpace(fr.ExpiresOn); value != "" {
		expires, err := time.Parse(dateLayout, value)
		if err != nil {
			return Rule{}, fmt.Errorf("coupon %s: expires_on: %w", fr.Code, err)
		}
		rule.ExpiresOn = &expires
	}
	return rule, nil
}

func parseDecimal(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(trimmed)
}
