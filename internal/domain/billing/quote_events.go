package billing

import (
	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteCreatedEvent is raised when a new quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID      uuid.UUID `json:"quote_id"`
	QuoteNumber  string    `json:"quote_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return "QuoteCreated"
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuoteCreated", "Quote", q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		CustomerName:    q.CustomerName,
	}
}

// QuoteSentEvent is raised when a quote is sent to the customer
type QuoteSentEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID       `json:"quote_id"`
	QuoteNumber string          `json:"quote_number"`
	Total       decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *QuoteSentEvent) EventType() string {
	return "QuoteSent"
}

// NewQuoteSentEvent creates a new QuoteSentEvent
func NewQuoteSentEvent(q *Quote) *QuoteSentEvent {
	return &QuoteSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuoteSent", "Quote", q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		Total:           q.Totals.Total.Amount(),
	}
}

// QuoteAcceptedEvent is raised when the customer accepts a quote
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID       `json:"quote_id"`
	QuoteNumber string          `json:"quote_number"`
	Total       decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *QuoteAcceptedEvent) EventType() string {
	return "QuoteAccepted"
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuoteAccepted", "Quote", q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		Total:           q.Totals.Total.Amount(),
	}
}

// QuoteInvoicedEvent is raised when a quote is finalized into an invoice
type QuoteInvoicedEvent struct {
	shared.BaseDomainEvent
	QuoteID       uuid.UUID       `json:"quote_id"`
	QuoteNumber   string          `json:"quote_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Total         decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *QuoteInvoicedEvent) EventType() string {
	return "QuoteInvoiced"
}

// NewQuoteInvoicedEvent creates a new QuoteInvoicedEvent
func NewQuoteInvoicedEvent(q *Quote, inv *Invoice) *QuoteInvoicedEvent {
	return &QuoteInvoicedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuoteInvoiced", "Quote", q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Total:           inv.TotalAmount,
	}
}
