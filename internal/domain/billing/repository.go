package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice list queries
type InvoiceFilter struct {
	Search     string
	CustomerID *uuid.UUID
	Status     *InvoiceStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// QuoteFilter defines filtering options for quote list queries
type QuoteFilter struct {
	Search     string
	CustomerID *uuid.UUID
	Status     *QuoteStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// InvoiceRepository persists invoices and their derived payment fields
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice only if its stored version matches
	// the version the aggregate was loaded at. A mismatch returns
	// shared.ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}

// PaymentRepository persists the payment ledger. ListByInvoice returns the
// full, current set of payments for one invoice ordered by payment date;
// the reconciler depends on it being complete.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)
	Insert(ctx context.Context, payment *Payment) error
	// Delete removes a payment by id, returning ErrPaymentNotFound when no
	// such record exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuoteRepository persists quotes with their line items
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByNumber(ctx context.Context, quoteNumber string) (*Quote, error)
	FindAll(ctx context.Context, filter QuoteFilter) ([]Quote, error)
	Count(ctx context.Context, filter QuoteFilter) (int64, error)
	Save(ctx context.Context, quote *Quote) error
	GenerateQuoteNumber(ctx context.Context) (string, error)
}

// UnitOfWork runs fn with invoice and payment repositories bound to a single
// storage transaction. A ledger mutation and the reconciliation that follows
// must commit or fail as one logical operation; this is the boundary that
// guarantees it.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(invoices InvoiceRepository, payments PaymentRepository) error) error
}
