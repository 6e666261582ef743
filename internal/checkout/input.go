package checkout

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/checkout-pricing/internal/common"
	"github.com/noah-isme/checkout-pricing/internal/pricing"
)

const dateLayout = "2006-01-02"

// LineInput is a cart line as read from a batch file.
type LineInput struct {
	Category  string `yaml:"category" json:"category" validate:"required"`
	UnitPrice string `yaml:"unitPrice" json:"unitPrice" validate:"required,numeric"`
	Quantity  int    `yaml:"quantity" json:"quantity"`
}

// RequestInput is a checkout request as read from a batch file. Dates use YYYY-MM-DD.
type RequestInput struct {
	Items            []LineInput `yaml:"items" json:"items" validate:"dive"`
	Tier             string      `yaml:"tier" json:"tier" validate:"required"`
	FirstPurchase    bool        `yaml:"firstPurchase" json:"firstPurchase"`
	Region           *string     `yaml:"region" json:"region"`
	Weight           string      `yaml:"weight" json:"weight" validate:"omitempty,numeric"`
	CouponCode       *string     `yaml:"couponCode" json:"couponCode"`
	ReferenceDate    string      `yaml:"referenceDate" json:"referenceDate" validate:"omitempty,datetime=2006-01-02"`
	CouponExpiration string      `yaml:"couponExpiration" json:"couponExpiration" validate:"omitempty,datetime=2006-01-02"`
}

// BatchInput is the document accepted by the batch CLI.
type BatchInput struct {
	Requests []RequestInput `yaml:"requests" json:"requests"`
}

// NewValidator returns a validator reporting yaml field names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeBatch reads a YAML (or JSON) batch document.
func DecodeBatch(r io.Reader) (BatchInput, error) {
	var in BatchInput
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return BatchInput{}, nil
		}
		return BatchInput{}, fmt.Errorf("decode batch: %w", err)
	}
	return in, nil
}

// ToRequest validates the input and converts it into a Request. today fills a missing reference date.
func (in RequestInput) ToRequest(v *validator.Validate, today time.Time) (Request, error) {
	if err := v.Struct(in); err != nil {
		return Request{}, translateValidation(err)
	}

	tier, err := pricing.ParseTier(in.Tier)
	if err != nil {
		return Request{}, err
	}
	req := Request{
		Tier:          tier,
		FirstPurchase: in.FirstPurchase,
		Region:        in.Region,
		CouponCode:    in.CouponCode,
		ReferenceDate: today,
	}
	if in.Items != nil {
		req.Items = make([]pricing.Item, 0, len(in.Items))
	}
	for _, line := range in.Items {
		price, err := decimal.NewFromString(strings.TrimSpace(line.UnitPrice))
		if err != nil {
			return Request{}, common.InvalidArgument("unitPrice: numeric")
		}
		item, err := pricing.NewItem(line.Category, price, line.Quantity)
		if err != nil {
			return Request{}, err
		}
		req.Items = append(req.Items, item)
	}
	if w := strings.TrimSpace(in.Weight); w != "" {
		weight, err := decimal.NewFromString(w)
		if err != nil {
			return Request{}, common.InvalidArgument("weight: numeric")
		}
		req.Weight = weight
	}
	if in.ReferenceDate != "" {
		ref, err := time.Parse(dateLayout, in.ReferenceDate)
		if err != nil {
			return Request{}, common.InvalidArgument("referenceDate: datetime")
		}
		req.ReferenceDate = ref
	}
	if in.CouponExpiration != "" {
		exp, err := time.Parse(dateLayout, in.CouponExpiration)
		if err != nil {
			return Request{}, common.InvalidArgument("couponExpiration: datetime")
		}
		req.CouponExpiration = &exp
	}
	return req, nil
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.InvalidArgument(err.Error())
	}
	fe := verrs[0]
	field := strings.TrimPrefix(fe.Namespace(), "RequestInput.")
	if fe.Tag() == "required" {
		return common.MissingValue(field)
	}
	return common.InvalidArgument(fmt.Sprintf("%s: %s", field, fe.Tag()))
}
