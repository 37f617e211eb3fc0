package billing

import (
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TotalsBreakdown is the full monetary decomposition of a quote or invoice.
// It is recomputed on demand, never stored as a mutable entity. All fields
// carry exact decimal values; two-decimal rounding happens only when a value
// is displayed or persisted.
type TotalsBreakdown struct {
	Subtotal        valueobject.Money `json:"subtotal"`
	DiscountAmount  valueobject.Money `json:"discount_amount"`
	TaxableAmount   valueobject.Money `json:"taxable_amount"`
	CGSTAmount      valueobject.Money `json:"cgst_amount"`
	SGSTAmount      valueobject.Money `json:"sgst_amount"`
	IGSTAmount      valueobject.Money `json:"igst_amount"`
	ShippingCharges valueobject.Money `json:"shipping_charges"`
	Total           valueobject.Money `json:"total"`
}

// TaxTotal returns the sum of the three tax components
func (b TotalsBreakdown) TaxTotal() valueobject.Money {
	return b.CGSTAmount.Add(b.SGSTAmount).Add(b.IGSTAmount)
}

// Verify checks the two arithmetic identities the breakdown must satisfy:
// taxable = subtotal - discount and total = taxable + taxes + shipping.
// Both must hold exactly, not within a tolerance.
func (b TotalsBreakdown) Verify() bool {
	if !b.TaxableAmount.Equal(b.Subtotal.Sub(b.DiscountAmount)) {
		return false
	}
	return b.Total.Equal(b.TaxableAmount.Add(b.TaxTotal()).Add(b.ShippingCharges))
}

// ZeroTotals returns an all-zero breakdown
func ZeroTotals() TotalsBreakdown {
	zero := valueobject.Zero()
	return TotalsBreakdown{
		Subtotal:        zero,
		DiscountAmount:  zero,
		TaxableAmount:   zero,
		CGSTAmount:      zero,
		SGSTAmount:      zero,
		IGSTAmount:      zero,
		ShippingCharges: zero,
		Total:           zero,
	}
}

// CalculateTotals computes the totals breakdown for a document. Pure and
// deterministic: identical inputs always produce identical outputs.
//
// The computation order is fixed and part of the contract:
//  1. subtotal = Σ(quantity × unitPrice)
//  2. discountAmount = subtotal × discountPercent / 100
//  3. taxableAmount = subtotal − discountAmount
//  4. each tax = taxableAmount × rate / 100, independently (no compounding)
//  5. total = taxableAmount + Σtaxes + shipping
//
// All validation happens before step 1; no partial breakdown is ever
// returned. No intermediate rounding occurs anywhere in the chain.
func CalculateTotals(items []LineItem, discountPercent decimal.Decimal, shipping valueobject.Money, rates TaxRates) (*TotalsBreakdown, error) {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	if err := validatePercent(discountPercent); err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	subtotal := valueobject.Zero()
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}

	discountAmount := subtotal.Percent(discountPercent)
	taxableAmount := subtotal.Sub(discountAmount)

	cgst := taxableAmount.Percent(rates.CGST)
	sgst := taxableAmount.Percent(rates.SGST)
	igst := taxableAmount.Percent(rates.IGST)

	total := taxableAmount.Add(cgst).Add(sgst).Add(igst).Add(shipping)

	return &TotalsBreakdown{
		Subtotal:        subtotal,
		DiscountAmount:  discountAmount,
		TaxableAmount:   taxableAmount,
		CGSTAmount:      cgst,
		SGSTAmount:      sgst,
		IGSTAmount:      igst,
		ShippingCharges: shipping,
		Total:           total,
	}, nil
}
