package checkout

import (
	"context"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/checkout-pricing/internal/common"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

// SummaryOutput renders a summary with two decimal places.
type SummaryOutput struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discountValue"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
}

// ErrorOutput describes a request that could not be priced.
type ErrorOutput struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult is the outcome of one request in a batch.
type BatchResult struct {
	QuoteID string         `json:"quoteId"`
	Index   int            `json:"index"`
	Summary *SummaryOutput `json:"summary,omitempty"`
	Error   *ErrorOutput   `json:"error,omitempty"`
}

// NewSummaryOutput formats s for output.
func NewSummaryOutput(s pricing.Summary) *SummaryOutput {
	return &SummaryOutput{
		Subtotal: s.Subtotal.StringFixed(2),
		Discount: s.Discount.StringFixed(2),
		Tax:      s.Tax.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Total:    s.Total.StringFixed(2),
	}
}

// PriceBatch prices inputs with at most workers concurrent checkouts. Results keep input order and
// per-request failures are reported in place; only context cancellation aborts the batch.
func (s *Service) PriceBatch(ctx context.Context, inputs []RequestInput, today time.Time, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}
	v := NewValidator()
	results := make([]BatchResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.priceOne(gctx, v, i, inputs[i], today)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) priceOne(ctx context.Context, v *validator.Validate, index int, in RequestInput, today time.Time) BatchResult {
	res := BatchResult{QuoteID: uuid.NewString(), Index: index}
	req, err := in.ToRequest(v, today)
	if err == nil {
		var summary pricing.Summary
		summary, err = s.Checkout(ctx, req)
		if err == nil {
			res.Summary = NewSummaryOutput(summary)
			return res
		}
	}
	code := common.CodeOf(err)
	if code == "" {
		code = "INTERNAL"
	}
	res.Error = &ErrorOutput{Code: code, Message: err.Error()}
	return res
}
