package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxSaveAttempts bounds the optimistic-lock retry loop. Three attempts is
// enough to absorb a burst of concurrent payments on one invoice; past that
// the caller gets CONCURRENCY_CONFLICT and retries at their level.
const maxSaveAttempts = 3

// PaymentService owns the payment ledger and the reconciliation that follows
// every ledger mutation. The mutation and the full resummation of the
// invoice's derived fields run in one transaction; the invoice row is saved
// with an optimistic version check so concurrent mutations on the same
// invoice serialize, while different invoices proceed in parallel.
type PaymentService struct {
	uow      billing.UnitOfWork
	invoices billing.InvoiceRepository
	payments billing.PaymentRepository
	activity audit.Recorder
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	uow billing.UnitOfWork,
	invoices billing.InvoiceRepository,
	payments billing.PaymentRepository,
	activity audit.Recorder,
	events shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		uow:      uow,
		invoices: invoices,
		payments: payments,
		activity: activity,
		events:   events,
		logger:   logger,
	}
}

// AddPaymentRequest represents a request to record a payment against an invoice
type AddPaymentRequest struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    billing.PaymentMethod
	Date      time.Time
	Reference string
	ActorID   uuid.UUID
}

// DeletePaymentRequest represents a request to remove a payment record
type DeletePaymentRequest struct {
	PaymentID uuid.UUID
	ActorID   uuid.UUID
}

// PaymentResult carries the mutated ledger entry and the invoice state after
// reconciliation
type PaymentResult struct {
	Payment *billing.Payment
	Invoice *billing.Invoice
}

// AddPayment records a payment and reconciles the invoice in one transaction.
// The derived fields the caller sees on the returned invoice are the
// committed ones.
func (s *PaymentService) AddPayment(ctx context.Context, req AddPaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	var pending []shared.DomainEvent

	err := s.withConflictRetry(ctx, "add_payment", func() error {
		pending = nil
		return s.uow.Execute(ctx, func(invoices billing.InvoiceRepository, payments billing.PaymentRepository) error {
			inv, err := invoices.FindByID(ctx, req.InvoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return billing.ErrInvoiceNotFound
				}
				return fmt.Errorf("failed to load invoice: %w", err)
			}

			payment, err := billing.NewPayment(inv.ID, valueobject.NewMoney(req.Amount), req.Method, req.Date)
			if err != nil {
				return err
			}
			if req.Reference != "" {
				payment.SetReference(req.Reference)
			}

			if err := payments.Insert(ctx, payment); err != nil {
				return fmt.Errorf("failed to insert payment: %w", err)
			}

			ledger, err := payments.ListByInvoice(ctx, inv.ID)
			if err != nil {
				return fmt.Errorf("failed to load payment ledger: %w", err)
			}

			if err := inv.Reconcile(ledger); err != nil {
				return err
			}
			inv.AddDomainEvent(billing.NewInvoicePaymentRecordedEvent(inv, payment))

			if err := invoices.SaveWithLock(ctx, inv); err != nil {
				return err
			}

			pending = inv.GetDomainEvents()
			inv.ClearDomainEvents()
			result = &PaymentResult{Payment: payment, Invoice: inv}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	s.recordActivity(ctx, req.ActorID, audit.ActionCreated, audit.EntityPayment, &result.Payment.ID,
		fmt.Sprintf("payment of %s recorded against invoice %s", result.Payment.Amount, result.Invoice.InvoiceNumber))

	return result, nil
}

// DeletePayment removes a payment record and reconciles the invoice from the
// surviving set. The invoice status can move backwards here; PAID is not
// terminal.
func (s *PaymentService) DeletePayment(ctx context.Context, req DeletePaymentRequest) (*PaymentResult, error) {
	var result *PaymentResult
	var pending []shared.DomainEvent

	err := s.withConflictRetry(ctx, "delete_payment", func() error {
		pending = nil
		return s.uow.Execute(ctx, func(invoices billing.InvoiceRepository, payments billing.PaymentRepository) error {
			payment, err := payments.FindByID(ctx, req.PaymentID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return billing.ErrPaymentNotFound
				}
				return err
			}

			inv, err := invoices.FindByID(ctx, payment.InvoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return billing.ErrInvoiceNotFound
				}
				return fmt.Errorf("failed to load invoice: %w", err)
			}

			if err := payments.Delete(ctx, payment.ID); err != nil {
				return err
			}

			ledger, err := payments.ListByInvoice(ctx, inv.ID)
			if err != nil {
				return fmt.Errorf("failed to load payment ledger: %w", err)
			}

			if err := inv.Reconcile(ledger); err != nil {
				return err
			}
			inv.AddDomainEvent(billing.NewInvoicePaymentRemovedEvent(inv, payment))

			if err := invoices.SaveWithLock(ctx, inv); err != nil {
				return err
			}

			pending = inv.GetDomainEvents()
			inv.ClearDomainEvents()
			result = &PaymentResult{Payment: payment, Invoice: inv}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	s.recordActivity(ctx, req.ActorID, audit.ActionDeleted, audit.EntityPayment, nil,
		fmt.Sprintf("payment of %s removed from invoice %s", result.Payment.Amount, result.Invoice.InvoiceNumber))

	return result, nil
}

// Reconcile recomputes an invoice's derived fields from its current ledger.
// Normally redundant, since every mutation reconciles inline; exposed as a
// repair operation.
func (s *PaymentService) Reconcile(ctx context.Context, invoiceID uuid.UUID, actorID uuid.UUID) (*billing.Invoice, error) {
	var result *billing.Invoice
	var pending []shared.DomainEvent

	err := s.withConflictRetry(ctx, "reconcile", func() error {
		pending = nil
		return s.uow.Execute(ctx, func(invoices billing.InvoiceRepository, payments billing.PaymentRepository) error {
			inv, err := invoices.FindByID(ctx, invoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return billing.ErrInvoiceNotFound
				}
				return fmt.Errorf("failed to load invoice: %w", err)
			}

			ledger, err := payments.ListByInvoice(ctx, inv.ID)
			if err != nil {
				return fmt.Errorf("failed to load payment ledger: %w", err)
			}

			if err := inv.Reconcile(ledger); err != nil {
				return err
			}

			if err := invoices.SaveWithLock(ctx, inv); err != nil {
				return err
			}

			pending = inv.GetDomainEvents()
			inv.ClearDomainEvents()
			result = inv
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending)
	s.recordActivity(ctx, actorID, audit.ActionReconciled, audit.EntityInvoice, &result.ID,
		fmt.Sprintf("invoice %s reconciled to %s status", result.InvoiceNumber, result.Status))

	return result, nil
}

// GetPayment returns a single payment record
func (s *PaymentService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*billing.Payment, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ListPayments returns the full ledger for one invoice ordered by payment date
func (s *PaymentService) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, invoiceID)
}

// withConflictRetry reruns op while it fails with an optimistic lock
// conflict. The transaction inside op rolls back on conflict, so each rerun
// starts from freshly loaded state.
func (s *PaymentService) withConflictRetry(ctx context.Context, operation string, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("optimistic lock conflict, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt))
	}
	return shared.ErrConcurrencyConflict
}

// publish delivers the events captured at commit time. Delivery failure is
// logged, not propagated; the financial state is already committed.
func (s *PaymentService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}

// recordActivity appends an audit trail entry after the financial state has
// committed. Best effort: a failing audit store must never fail the payment
// operation it describes.
func (s *PaymentService) recordActivity(ctx context.Context, actorID uuid.UUID, action audit.Action, entityType audit.EntityType, entityID *uuid.UUID, detail string) {
	if s.activity == nil || actorID == uuid.Nil {
		return
	}
	entry, err := audit.NewActivityEntry(actorID, action, entityType, entityID, detail)
	if err != nil {
		s.logger.Warn("failed to build activity entry", zap.Error(err))
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity entry",
			zap.String("action", string(action)),
			zap.Error(err))
	}
}
