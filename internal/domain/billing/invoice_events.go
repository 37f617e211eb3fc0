package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		TotalAmount:     inv.TotalAmount,
	}
}

// InvoiceReconciledEvent is raised every time the derived payment fields are
// recomputed from the ledger
type InvoiceReconciledEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	Status          InvoiceStatus   `json:"status"`
	LastPaymentDate *time.Time      `json:"last_payment_date,omitempty"`
	PaymentCount    int             `json:"payment_count"`
}

// EventType returns the event type name
func (e *InvoiceReconciledEvent) EventType() string {
	return "InvoiceReconciled"
}

// NewInvoiceReconciledEvent creates a new InvoiceReconciledEvent
func NewInvoiceReconciledEvent(inv *Invoice, paymentCount int) *InvoiceReconciledEvent {
	return &InvoiceReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceReconciled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		Status:          inv.Status,
		LastPaymentDate: inv.LastPaymentDate,
		PaymentCount:    paymentCount,
	}
}

// InvoicePaymentRecordedEvent is raised when a payment is added to an
// invoice's ledger
type InvoicePaymentRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *InvoicePaymentRecordedEvent) EventType() string {
	return "InvoicePaymentRecorded"
}

// NewInvoicePaymentRecordedEvent creates a new InvoicePaymentRecordedEvent
func NewInvoicePaymentRecordedEvent(inv *Invoice, p *Payment) *InvoicePaymentRecordedEvent {
	return &InvoicePaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaymentRecorded", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		Method:          p.Method,
		PaymentDate:     p.Date,
	}
}

// InvoicePaymentRemovedEvent is raised when a payment is deleted from an
// invoice's ledger
type InvoicePaymentRemovedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// EventType returns the event type name
func (e *InvoicePaymentRemovedEvent) EventType() string {
	return "InvoicePaymentRemoved"
}

// NewInvoicePaymentRemovedEvent creates a new InvoicePaymentRemovedEvent
func NewInvoicePaymentRemovedEvent(inv *Invoice, p *Payment) *InvoicePaymentRemovedEvent {
	return &InvoicePaymentRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaymentRemoved", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		PaymentID:       p.ID,
		Amount:          p.Amount,
	}
}

// InvoicePaidEvent is raised when an invoice transitions into PAID
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
	}
}
