package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusDeclined QuoteStatus = "DECLINED"
	QuoteStatusInvoiced QuoteStatus = "INVOICED"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusInvoiced:
		return true
	}
	return false
}

// String returns the string representation of QuoteStatus
func (s QuoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusDeclined
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusDeclined
	case QuoteStatusAccepted:
		return target == QuoteStatusInvoiced
	case QuoteStatusDeclined, QuoteStatusInvoiced:
		return false // Terminal states
	}
	return false
}

// QuoteItem represents a line item on a quote
type QuoteItem struct {
	ID          uuid.UUID
	QuoteID     uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewQuoteItem creates a new quote line item
func NewQuoteItem(quoteID uuid.UUID, description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuoteItem, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if _, err := NewLineItem(quantity, unitPrice); err != nil {
		return nil, err
	}

	now := time.Now()
	return &QuoteItem{
		ID:          uuid.New(),
		QuoteID:     quoteID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Amount:      quantity.Mul(unitPrice.Amount()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AsLineItem converts the quote item into the calculator's input shape
func (i *QuoteItem) AsLineItem() LineItem {
	return LineItem{Quantity: i.Quantity, UnitPrice: valueobject.NewMoney(i.UnitPrice)}
}

// Update replaces quantity and unit price, revalidating and recomputing the amount
func (i *QuoteItem) Update(quantity decimal.Decimal, unitPrice valueobject.Money) error {
	if _, err := NewLineItem(quantity, unitPrice); err != nil {
		return err
	}
	i.Quantity = quantity
	i.UnitPrice = unitPrice.Amount()
	i.Amount = quantity.Mul(unitPrice.Amount())
	i.UpdatedAt = time.Now()
	return nil
}

// Quote is the aggregate for a priced offer to a customer. Line items,
// discount, shipping and tax rates are mutable in DRAFT; every mutation
// recomputes the totals breakdown through CalculateTotals so the stored
// amounts can never disagree with the line items.
type Quote struct {
	shared.BaseAggregateRoot
	QuoteNumber     string
	CustomerID      uuid.UUID
	CustomerName    string
	Items           []QuoteItem
	DiscountPercent decimal.Decimal
	ShippingCharges decimal.Decimal
	TaxRates        TaxRates
	Totals          TotalsBreakdown
	Status          QuoteStatus
	ValidUntil      *time.Time
	Remark          string
	SentAt          *time.Time
	AcceptedAt      *time.Time
	DeclinedAt      *time.Time
	InvoicedAt      *time.Time
	InvoiceID       *uuid.UUID
}

// NewQuote creates a new draft quote
func NewQuote(quoteNumber string, customerID uuid.UUID, customerName string) (*Quote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if len(quoteNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuoteNumber:       quoteNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Items:             make([]QuoteItem, 0),
		DiscountPercent:   decimal.Zero,
		ShippingCharges:   decimal.Zero,
		TaxRates:          ZeroTaxRates(),
		Totals:            ZeroTotals(),
		Status:            QuoteStatusDraft,
	}

	q.AddDomainEvent(NewQuoteCreatedEvent(q))

	return q, nil
}

// AddItem adds a line item to the quote. Only allowed in DRAFT status.
func (q *Quote) AddItem(description string, quantity decimal.Decimal, unitPrice valueobject.Money) (*QuoteItem, error) {
	if q.Status != QuoteStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft quote")
	}

	item, err := NewQuoteItem(q.ID, description, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	q.Items = append(q.Items, *item)
	if err := q.recalculateTotals(); err != nil {
		q.Items = q.Items[:len(q.Items)-1]
		return nil, err
	}
	q.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItem updates an existing line item. Only allowed in DRAFT status.
func (q *Quote) UpdateItem(itemID uuid.UUID, quantity decimal.Decimal, unitPrice valueobject.Money) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items on a non-draft quote")
	}

	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			if err := q.Items[idx].Update(quantity, unitPrice); err != nil {
				return err
			}
			if err := q.recalculateTotals(); err != nil {
				return err
			}
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
}

// RemoveItem removes a line item from the quote. Only allowed in DRAFT status.
func (q *Quote) RemoveItem(itemID uuid.UUID) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft quote")
	}

	for idx, item := range q.Items {
		if item.ID == itemID {
			q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
			if err := q.recalculateTotals(); err != nil {
				return err
			}
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Quote item not found")
}

// SetDiscountPercent sets the percentage discount. Only allowed in DRAFT status.
func (q *Quote) SetDiscountPercent(percent decimal.Decimal) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change discount on a non-draft quote")
	}
	if err := validatePercent(percent); err != nil {
		return err
	}

	q.DiscountPercent = percent
	if err := q.recalculateTotals(); err != nil {
		return err
	}
	q.UpdatedAt = time.Now()
	return nil
}

// SetShippingCharges sets the shipping charges. Only allowed in DRAFT status.
func (q *Quote) SetShippingCharges(shipping valueobject.Money) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change shipping on a non-draft quote")
	}
	if shipping.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Shipping charges cannot be negative")
	}

	q.ShippingCharges = shipping.Amount()
	if err := q.recalculateTotals(); err != nil {
		return err
	}
	q.UpdatedAt = time.Now()
	return nil
}

// SetTaxRates sets the GST component rates. Only allowed in DRAFT status.
func (q *Quote) SetTaxRates(rates TaxRates) error {
	if q.Status != QuoteStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change tax rates on a non-draft quote")
	}
	if err := rates.Validate(); err != nil {
		return err
	}

	q.TaxRates = rates
	if err := q.recalculateTotals(); err != nil {
		return err
	}
	q.UpdatedAt = time.Now()
	return nil
}

// SetValidUntil sets the expiry date of the offer
func (q *Quote) SetValidUntil(validUntil *time.Time) {
	q.ValidUntil = validUntil
	q.UpdatedAt = time.Now()
}

// SetRemark sets the quote remark
func (q *Quote) SetRemark(remark string) {
	q.Remark = remark
	q.UpdatedAt = time.Now()
}

// Send marks the quote as sent to the customer
func (q *Quote) Send() error {
	if !q.Status.CanTransitionTo(QuoteStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot send quote without items")
	}

	now := time.Now()
	q.Status = QuoteStatusSent
	q.SentAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteSentEvent(q))

	return nil
}

// Accept marks the quote as accepted by the customer
func (q *Quote) Accept() error {
	if !q.Status.CanTransitionTo(QuoteStatusAccepted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteAcceptedEvent(q))

	return nil
}

// Decline marks the quote as declined
func (q *Quote) Decline() error {
	if !q.Status.CanTransitionTo(QuoteStatusDeclined) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline quote in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuoteStatusDeclined
	q.DeclinedAt = &now
	q.UpdatedAt = now

	return nil
}

// Finalize converts an accepted quote into an invoice. The invoice total is
// frozen at the quote's computed total; afterwards the quote becomes
// read-only and the reconciler owns the invoice's derived fields.
func (q *Quote) Finalize(invoiceNumber string) (*Invoice, error) {
	if !q.Status.CanTransitionTo(QuoteStatusInvoiced) {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot invoice quote in %s status", q.Status))
	}
	if len(q.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Cannot invoice quote without items")
	}

	inv, err := NewInvoice(invoiceNumber, q.CustomerID, q.CustomerName, q.Totals.Total)
	if err != nil {
		return nil, err
	}
	inv.SetQuote(q.ID)

	now := time.Now()
	q.Status = QuoteStatusInvoiced
	q.InvoicedAt = &now
	q.InvoiceID = &inv.ID
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuoteInvoicedEvent(q, inv))

	return inv, nil
}

// recalculateTotals recomputes the breakdown from the current line items
// and rates
func (q *Quote) recalculateTotals() error {
	items := make([]LineItem, len(q.Items))
	for i := range q.Items {
		items[i] = q.Items[i].AsLineItem()
	}

	totals, err := CalculateTotals(items, q.DiscountPercent, valueobject.NewMoney(q.ShippingCharges), q.TaxRates)
	if err != nil {
		return err
	}
	q.Totals = *totals
	return nil
}

// ItemCount returns the number of line items
func (q *Quote) ItemCount() int {
	return len(q.Items)
}

// GetItem returns an item by its ID
func (q *Quote) GetItem(itemID uuid.UUID) *QuoteItem {
	for idx := range q.Items {
		if q.Items[idx].ID == itemID {
			return &q.Items[idx]
		}
	}
	return nil
}

// IsDraft returns true if the quote is in draft status
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteStatusDraft
}

// IsTerminal returns true if the quote is declined or invoiced
func (q *Quote) IsTerminal() bool {
	return q.Status == QuoteStatusDeclined || q.Status == QuoteStatusInvoiced
}
