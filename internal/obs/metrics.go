package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics groups Prometheus collectors for checkout pricing.
type CheckoutMetrics struct {
	Requests       *prometheus.CounterVec
	Coupons        *prometheus.CounterVec
	ShippingRules  *prometheus.CounterVec
	DiscountCapped prometheus.Counter
}

// NewCheckoutMetrics registers and returns checkout collectors. Collectors already
// present on reg are reused.
func NewCheckoutMetrics(namespace string, reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CheckoutMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Count of checkout pricing calls by outcome.",
		}, []string{"result"}),
		Coupons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_evaluations_total",
			Help:      "Count of coupon evaluations by code and result.",
		}, []string{"code", "result"}),
		ShippingRules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_rule_total",
			Help:      "Count of shipping quotes by the rule that priced them.",
		}, []string{"rule"}),
		DiscountCapped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_capped_total",
			Help:      "Number of checkouts whose combined discount hit the cap.",
		}),
	}
	mustRegisterVec(reg, &m.Requests)
	mustRegisterVec(reg, &m.Coupons)
	mustRegisterVec(reg, &m.ShippingRules)
	mustRegisterCounter(reg, &m.DiscountCapped)
	return m
}

// ObserveRequest counts a checkout call.
func (m *CheckoutMetrics) ObserveRequest(result string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(result).Inc()
}

// ObserveCoupon counts a coupon evaluation. Unknown codes share one label to bound cardinality.
func (m *CheckoutMetrics) ObserveCoupon(code, result string) {
	if m == nil || result == "none" {
		return
	}
	if result == "unknown" {
		code = "unknown"
	}
	m.Coupons.WithLabelValues(code, result).Inc()
}

// ObserveShipping counts the shipping rule used.
func (m *CheckoutMetrics) ObserveShipping(rule string) {
	if m == nil {
		return
	}
	m.ShippingRules.WithLabelValues(rule).Inc()
}

// ObserveCap counts a clamped discount.
func (m *CheckoutMetrics) ObserveCap() {
	if m == nil {
		return
	}
	m.DiscountCapped.Inc()
}

// WriteTextfile dumps the gatherer in the Prometheus text format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func mustRegisterVec(reg prometheus.Registerer, counter **prometheus.CounterVec) {
	if err := reg.Register(*counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*counter = existing
			}
			return
		}
		panic(fmt.Errorf("register counter vec: %w", err))
	}
}

func mustRegisterCounter(reg prometheus.Registerer, counter *prometheus.Counter) {
	if err := reg.Register(*counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				*counter = existing
			}
			return
		}
		panic(fmt.Errorf("register counter: %w", err))
	}
}
