package billing

import (
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineItem is the quantity/price pair the totals calculator consumes. It is
// deliberately minimal: document-level concerns (product linkage, remarks)
// live on the owning quote or invoice item.
type LineItem struct {
	Quantity  decimal.Decimal
	UnitPrice valueobject.Money
}

// NewLineItem creates a LineItem, rejecting negative quantity or price before
// any totals computation can see them
func NewLineItem(quantity decimal.Decimal, unitPrice valueobject.Money) (LineItem, error) {
	item := LineItem{Quantity: quantity, UnitPrice: unitPrice}
	if err := item.Validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// Validate checks the non-negativity constraints
func (i LineItem) Validate() error {
	if i.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_LINE_ITEM", "Line item quantity cannot be negative")
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_LINE_ITEM", "Line item unit price cannot be negative")
	}
	return nil
}

// Amount returns quantity × unit price in exact decimal arithmetic
func (i LineItem) Amount() valueobject.Money {
	return i.UnitPrice.Mul(i.Quantity)
}
