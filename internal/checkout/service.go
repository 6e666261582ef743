package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/checkout-pricing/internal/common"
	"github.com/noah-isme/checkout-pricing/internal/coupon"
	"github.com/noah-isme/checkout-pricing/internal/obs"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
	"github.com/noah-isme/checkout-pricing/internal/shipping"
)

// Request is a single checkout to price. Items, Tier and ReferenceDate are required;
// a nil Items slice is missing while an empty one is an empty cart.
type Request struct {
	Items            []pricing.Item
	Tier             pricing.CustomerTier
	FirstPurchase    bool
	Region           *string
	Weight           decimal.Decimal
	CouponCode       *string
	ReferenceDate    time.Time
	CouponExpiration *time.Time
}

// Quote is a priced checkout together with how it was reached.
type Quote struct {
	Summary      pricing.Summary
	Discount     pricing.Breakdown
	Coupon       coupon.Outcome
	ShippingRule shipping.Rule
}

// ServiceConfig wires optional collaborators; zero values get defaults.
type ServiceConfig struct {
	Coupons *coupon.Registry
	Logger  *zerolog.Logger
	Metrics *obs.CheckoutMetrics
	Tracer  trace.Tracer
}

// Service prices checkouts. It holds only read-only tables and is safe for concurrent use.
type Service struct {
	coupons *coupon.Registry
	logger  zerolog.Logger
	metrics *obs.CheckoutMetrics
	tracer  trace.Tracer
}

// NewService constructs a checkout service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		coupons: cfg.Coupons,
		logger:  zerolog.Nop(),
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
	}
	if s.coupons == nil {
		s.coupons = coupon.Default()
	}
	if cfg.Logger != nil {
		s.logger = *cfg.Logger
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/noah-isme/checkout-pricing/internal/checkout")
	}
	return s
}

// Checkout prices req and returns the totals.
func (s *Service) Checkout(ctx context.Context, req Request) (pricing.Summary, error) {
	q, err := s.Quote(ctx, req)
	if err != nil {
		return pricing.Summary{}, err
	}
	return q.Summary, nil
}

// Quote prices req and reports the discount breakdown, coupon outcome and shipping rule.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	_, span := s.tracer.Start(ctx, "checkout.Checkout", trace.WithAttributes(
		attribute.String("checkout.tier", string(req.Tier)),
		attribute.String("checkout.region", deref(req.Region)),
		attribute.Int("checkout.items", len(req.Items)),
	))
	defer span.End()

	q, err := s.quote(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveRequest(resultLabel(err))
		return Quote{}, err
	}
	span.SetAttributes(
		attribute.String("checkout.coupon_result", q.Coupon.Result()),
		attribute.String("checkout.shipping_rule", string(q.ShippingRule)),
		attribute.String("checkout.total", q.Summary.Total.StringFixed(2)),
	)
	s.metrics.ObserveRequest("ok")
	s.metrics.ObserveCoupon(q.Coupon.Code, q.Coupon.Result())
	s.metrics.ObserveShipping(string(q.ShippingRule))
	if q.Discount.Capped {
		s.metrics.ObserveCap()
	}
	return q, nil
}

func (s *Service) quote(req Request) (Quote, error) {
	if req.Items == nil {
		return Quote{}, common.MissingValue("items")
	}
	if req.Tier == "" {
		return Quote{}, common.MissingValue("tier")
	}
	if req.ReferenceDate.IsZero() {
		return Quote{}, common.MissingValue("referenceDate")
	}
	if _, ok := req.Tier.DiscountBps(); !ok {
		return Quote{}, common.InvalidArgument("tier desconhecido")
	}
	if err := shipping.ValidateWeight(req.Weight); err != nil {
		return Quote{}, err
	}

	subtotal := pricing.Round(pricing.Subtotal(req.Items))
	outcome := s.coupons.Evaluate(deref(req.CouponCode), coupon.Context{
		Subtotal:        subtotal,
		Weight:          req.Weight,
		ReferenceDate:   req.ReferenceDate,
		ExpiresOverride: req.CouponExpiration,
	})
	if outcome.Requested() && !outcome.Applied() {
		s.logger.Debug().Str("coupon", outcome.Code).Str("reason", outcome.Result()).Msg("coupon_rejected")
	}

	discount := pricing.ResolveDiscount(pricing.DiscountInput{
		Subtotal:      subtotal,
		Tier:          req.Tier,
		FirstPurchase: req.FirstPurchase,
		Coupon:        outcome,
	})
	if discount.Capped {
		s.logger.Debug().
			Int64("requested_bps", discount.RequestedBps).
			Int64("effective_bps", discount.EffectiveBps).
			Str("subtotal", subtotal.StringFixed(2)).
			Msg("pricing_discount_clamped")
	}

	tax := pricing.ComputeTax(req.Items, discount.EffectiveBps)
	ship, err := shipping.Estimate(shipping.Request{
		Region:                deref(req.Region),
		Weight:                req.Weight,
		SubtotalAfterDiscount: subtotal.Sub(discount.Value),
		FreeShippingEligible:  discount.FreeShipping,
		EmptyCart:             len(req.Items) == 0,
	})
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Summary:      pricing.Assemble(subtotal, discount.Value, tax, ship.Amount),
		Discount:     discount,
		Coupon:       outcome,
		ShippingRule: ship.Rule,
	}, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingRequiredValue):
		return "missing_value"
	case errors.Is(err, common.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
