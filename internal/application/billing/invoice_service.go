package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceService serves invoice reads. The derived payment fields it returns
// are whatever the reconciler last committed; this service never writes them.
type InvoiceService struct {
	invoices billing.InvoiceRepository
	payments billing.PaymentRepository
	logger   *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		payments: payments,
		logger:   logger,
	}
}

// InvoiceDetail bundles an invoice with its payment ledger
type InvoiceDetail struct {
	Invoice  *billing.Invoice
	Payments []billing.Payment
}

// GetInvoice returns an invoice by id
func (s *InvoiceService) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetInvoiceByNumber returns an invoice by its human-facing number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	inv, err := s.invoices.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// GetInvoiceDetail returns an invoice together with its full payment ledger
func (s *InvoiceService) GetInvoiceDetail(ctx context.Context, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.payments.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Payments: ledger}, nil
}

// ListInvoices returns a paginated invoice listing
func (s *InvoiceService) ListInvoices(ctx context.Context, filter billing.InvoiceFilter) (*shared.Paginated[billing.Invoice], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	invoices, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoices.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateDueDate sets the invoice's due date. Administrative metadata only,
// but the save still runs under the version check: a plain row rewrite here
// could clobber payment fields reconciled between the load and the save.
func (s *InvoiceService) UpdateDueDate(ctx context.Context, invoiceID uuid.UUID, dueDate *time.Time) (*billing.Invoice, error) {
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	inv.SetDueDate(dueDate)
	inv.IncrementVersion()
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateRemark sets the invoice remark under the same version check as
// UpdateDueDate.
func (s *InvoiceService) UpdateRemark(ctx context.Context, invoiceID uuid.UUID, remark string) (*billing.Invoice, error) {
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	inv.SetRemark(remark)
	inv.IncrementVersion()
	if err := s.invoices.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}
