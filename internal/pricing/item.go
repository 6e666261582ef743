package pricing

import (
	"github.com/noah-isme/checkout-pricing/internal/common"
)

// Category classifies a cart line. Unrecognised values are treated as generic goods.
type Category string

const (
	CategoryBook        Category = "BOOK"
	CategoryElectronics Category = "ELETRONICO"
)

// Item describes a validated, immutable cart line.
type Item struct {
	category  Category
	unitPrice Money
	quantity  int
}

// NewItem validates price and quantity and returns the line.
func NewItem(category string, unitPrice Money, quantity int) (Item, error) {
	if unitPrice.IsNegative() {
		return Item{}, common.InvalidArgument("precoUnitario < 0")
	}
	if quantity <= 0 {
		return Item{}, common.InvalidArgument("quantidade <= 0")
	}
	return Item{category: Category(category), unitPrice: unitPrice, quantity: quantity}, nil
}

// MustItem behaves like NewItem but panics on error. Useful for tests and fixtures.
func MustItem(category string, unitPrice Money, quantity int) Item {
	it, err := NewItem(category, unitPrice, quantity)
	if err != nil {
		panic(err)
	}
	return it
}

func (i Item) Category() Category { return i.category }

func (i Item) UnitPrice() Money { return i.unitPrice }

func (i Item) Quantity() int { return i.quantity }

// LineTotal returns unitPrice * quantity.
func (i Item) LineTotal() Money {
	return i.unitPrice.Mul(decimalFromInt(i.quantity))
}

// TaxExempt reports whether the line is excluded from tax.
func (i Item) TaxExempt() bool {
	return i.category == CategoryBook
}
