package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment status of an invoice. It is always
// derived from (paidAmount, total); there are no terminal states and any
// status can return to any other as payments are added or removed.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// StatusFor derives the invoice status from paid amount and total.
// Pure function of its inputs; history does not participate.
func StatusFor(paid, total valueobject.Money) InvoiceStatus {
	switch {
	case !paid.IsPositive():
		return InvoiceStatusPending
	case paid.LessThan(total):
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPaid
	}
}

// Invoice is the aggregate root owning the derived payment fields. TotalAmount
// is fixed by finalization and read-only here; PaidAmount, Status and
// LastPaymentDate are owned by Reconcile and must never be written directly.
//
// The invariant this aggregate exists to protect: after every ledger mutation,
// PaidAmount equals the sum of the surviving payment records.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string
	QuoteID         *uuid.UUID
	CustomerID      uuid.UUID
	CustomerName    string
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	Status          InvoiceStatus
	LastPaymentDate *time.Time
	IssuedAt        time.Time
	DueDate         *time.Time
	Remark          string
}

// NewInvoice creates a new invoice with the given finalized total
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerName string, total valueobject.Money) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total cannot be negative")
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		TotalAmount:       total.Amount(),
		PaidAmount:        decimal.Zero,
		Status:            InvoiceStatusPending,
		IssuedAt:          time.Now(),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// Reconcile recomputes the derived payment fields from the full, current set
// of payment records. Always from scratch, never incrementally: full
// resummation is idempotent, order-independent, and self-correcting, which is
// why a missed add/delete race cannot cause drift.
//
// A payment belonging to another invoice, or a negative resulting sum, can
// only happen through a bug; both abort with an invariant violation rather
// than clamping.
func (inv *Invoice) Reconcile(payments []Payment) error {
	paid := decimal.Zero
	var lastDate *time.Time

	for i := range payments {
		p := &payments[i]
		if p.InvoiceID != inv.ID {
			return shared.NewInvariantViolation(
				"payment %s belongs to invoice %s, reconciled against %s", p.ID, p.InvoiceID, inv.ID)
		}
		if !p.Amount.IsPositive() {
			return shared.NewInvariantViolation(
				"payment %s has non-positive amount %s", p.ID, p.Amount)
		}
		paid = paid.Add(p.Amount)
		if lastDate == nil || p.Date.After(*lastDate) {
			d := p.Date
			lastDate = &d
		}
	}

	if paid.IsNegative() {
		return shared.NewInvariantViolation("computed paid amount %s is negative", paid)
	}

	previousStatus := inv.Status
	inv.PaidAmount = paid
	inv.LastPaymentDate = lastDate
	inv.Status = StatusFor(valueobject.NewMoney(paid), valueobject.NewMoney(inv.TotalAmount))
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceReconciledEvent(inv, len(payments)))
	if inv.Status == InvoiceStatusPaid && previousStatus != InvoiceStatusPaid {
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	}

	return nil
}

// SetQuote links the invoice to the quote it was finalized from
func (inv *Invoice) SetQuote(quoteID uuid.UUID) {
	inv.QuoteID = &quoteID
	inv.UpdatedAt = time.Now()
}

// SetDueDate updates the due date
func (inv *Invoice) SetDueDate(dueDate *time.Time) {
	inv.DueDate = dueDate
	inv.UpdatedAt = time.Now()
}

// SetRemark sets the remark
func (inv *Invoice) SetRemark(remark string) {
	inv.Remark = remark
	inv.UpdatedAt = time.Now()
}

// GetTotalAmountMoney returns the total as Money
func (inv *Invoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoney(inv.TotalAmount)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *Invoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.NewMoney(inv.PaidAmount)
}

// OutstandingMoney returns total minus paid, clamped at zero for display
// (an overpaid invoice has nothing outstanding)
func (inv *Invoice) OutstandingMoney() valueobject.Money {
	return inv.GetTotalAmountMoney().Sub(inv.GetPaidAmountMoney()).ClampZero()
}

// IsPending returns true if no payment has been applied
func (inv *Invoice) IsPending() bool {
	return inv.Status == InvoiceStatusPending
}

// IsPartial returns true if the invoice is partially paid
func (inv *Invoice) IsPartial() bool {
	return inv.Status == InvoiceStatusPartial
}

// IsPaid returns true if the invoice is fully paid
func (inv *Invoice) IsPaid() bool {
	return inv.Status == InvoiceStatusPaid
}
