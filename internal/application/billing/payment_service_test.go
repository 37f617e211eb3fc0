package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Insert(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// passthroughUnitOfWork hands the mocked repositories straight to fn
type passthroughUnitOfWork struct {
	invoices billing.InvoiceRepository
	payments billing.PaymentRepository
}

func (u *passthroughUnitOfWork) Execute(ctx context.Context, fn func(billing.InvoiceRepository, billing.PaymentRepository) error) error {
	return fn(u.invoices, u.payments)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry *audit.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

type paymentServiceFixture struct {
	service  *PaymentService
	invoices *MockInvoiceRepository
	payments *MockPaymentRepository
	recorder *MockRecorder
	events   *MockPublisher
}

func newPaymentServiceFixture() *paymentServiceFixture {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	recorder := new(MockRecorder)
	events := new(MockPublisher)
	uow := &passthroughUnitOfWork{invoices: invoices, payments: payments}

	return &paymentServiceFixture{
		service:  NewPaymentService(uow, invoices, payments, recorder, events, zap.NewNop()),
		invoices: invoices,
		payments: payments,
		recorder: recorder,
		events:   events,
	}
}

func testInvoice(t *testing.T, total string) *billing.Invoice {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString(total)
	require.NoError(t, err)
	inv, err := billing.NewInvoice("INV-2024-0001", uuid.New(), "Acme Traders", amount)
	require.NoError(t, err)
	inv.ClearDomainEvents()
	return inv
}

func testPayment(t *testing.T, invoiceID uuid.UUID, amount string) *billing.Payment {
	t.Helper()
	m, err := valueobject.NewMoneyFromString(amount)
	require.NoError(t, err)
	p, err := billing.NewPayment(invoiceID, m, billing.PaymentMethodBankTransfer, time.Now())
	require.NoError(t, err)
	return p
}

// =============================================================================
// AddPayment
// =============================================================================

func TestPaymentService_AddPayment(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("records payment and reconciles invoice", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Insert", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*testPayment(t, inv.ID, "5000")}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.AnythingOfType("*audit.ActivityEntry")).Return(nil)

		result, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(5000),
			Method:    billing.PaymentMethodBankTransfer,
			ActorID:   actorID,
		})
		require.NoError(t, err)

		assert.Equal(t, billing.InvoiceStatusPartial, result.Invoice.Status)
		assert.True(t, result.Invoice.PaidAmount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, inv.ID, result.Payment.InvoiceID)
		f.invoices.AssertCalled(t, "SaveWithLock", ctx, inv)
		f.recorder.AssertCalled(t, "Record", ctx, mock.AnythingOfType("*audit.ActivityEntry"))
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newPaymentServiceFixture()
		invoiceID := uuid.New()
		f.invoices.On("FindByID", ctx, invoiceID).Return(nil, shared.ErrNotFound)

		_, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: invoiceID,
			Amount:    decimal.NewFromInt(100),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
		f.payments.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("invalid amount rejected before any write", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")
		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)

		_, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(-5),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
		f.payments.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("retries on version conflict then succeeds", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Insert", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*testPayment(t, inv.ID, "5000")}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(shared.ErrConcurrencyConflict).Twice()
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil).Once()
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		_, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(5000),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		require.NoError(t, err)
		f.invoices.AssertNumberOfCalls(t, "SaveWithLock", 3)
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Insert", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*testPayment(t, inv.ID, "5000")}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(5000),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.invoices.AssertNumberOfCalls(t, "SaveWithLock", 3)
		f.recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("audit failure never fails the operation", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Insert", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*testPayment(t, inv.ID, "10000")}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(errors.New("audit store down"))

		result, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(10000),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPaid, result.Invoice.Status)
	})

	t.Run("event publish failure never fails the operation", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Insert", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*testPayment(t, inv.ID, "2000")}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(errors.New("bus stopped"))
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		_, err := f.service.AddPayment(ctx, AddPaymentRequest{
			InvoiceID: inv.ID,
			Amount:    decimal.NewFromInt(2000),
			Method:    billing.PaymentMethodCash,
			ActorID:   actorID,
		})

		require.NoError(t, err)
	})
}

// =============================================================================
// DeletePayment
// =============================================================================

func TestPaymentService_DeletePayment(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("removes payment and reconciles from the surviving set", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")
		victim := testPayment(t, inv.ID, "3000")
		survivor := testPayment(t, inv.ID, "5000")

		f.payments.On("FindByID", ctx, victim.ID).Return(victim, nil)
		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Delete", ctx, victim.ID).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*survivor}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		result, err := f.service.DeletePayment(ctx, DeletePaymentRequest{PaymentID: victim.ID, ActorID: actorID})
		require.NoError(t, err)

		assert.Equal(t, billing.InvoiceStatusPartial, result.Invoice.Status)
		assert.True(t, result.Invoice.PaidAmount.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("deleting the sole payment returns the invoice to pending", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")
		victim := testPayment(t, inv.ID, "10000")

		f.payments.On("FindByID", ctx, victim.ID).Return(victim, nil)
		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("Delete", ctx, victim.ID).Return(nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{}, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		result, err := f.service.DeletePayment(ctx, DeletePaymentRequest{PaymentID: victim.ID, ActorID: actorID})
		require.NoError(t, err)

		assert.Equal(t, billing.InvoiceStatusPending, result.Invoice.Status)
		assert.True(t, result.Invoice.PaidAmount.IsZero())
		assert.Nil(t, result.Invoice.LastPaymentDate)
	})

	t.Run("unknown payment id", func(t *testing.T) {
		f := newPaymentServiceFixture()
		paymentID := uuid.New()
		f.payments.On("FindByID", ctx, paymentID).Return(nil, billing.ErrPaymentNotFound)

		_, err := f.service.DeletePayment(ctx, DeletePaymentRequest{PaymentID: paymentID, ActorID: actorID})

		assert.ErrorIs(t, err, billing.ErrPaymentNotFound)
		f.payments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not-found sentinel from the store maps to payment not found", func(t *testing.T) {
		f := newPaymentServiceFixture()
		paymentID := uuid.New()
		f.payments.On("FindByID", ctx, paymentID).Return(nil, shared.ErrNotFound)

		_, err := f.service.DeletePayment(ctx, DeletePaymentRequest{PaymentID: paymentID, ActorID: actorID})

		assert.ErrorIs(t, err, billing.ErrPaymentNotFound)
	})
}

// =============================================================================
// Reconcile
// =============================================================================

func TestPaymentService_Reconcile(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("repairs drifted derived fields", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")
		// simulate drift: stored paid amount disagrees with the ledger
		inv.PaidAmount = decimal.NewFromInt(1)

		ledger := []billing.Payment{
			*testPayment(t, inv.ID, "5000"),
			*testPayment(t, inv.ID, "5000"),
		}

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return(ledger, nil)
		f.invoices.On("SaveWithLock", ctx, inv).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)
		f.recorder.On("Record", ctx, mock.Anything).Return(nil)

		result, err := f.service.Reconcile(ctx, inv.ID, actorID)
		require.NoError(t, err)

		assert.True(t, result.PaidAmount.Equal(decimal.NewFromInt(10000)))
		assert.Equal(t, billing.InvoiceStatusPaid, result.Status)
	})

	t.Run("foreign payment in ledger surfaces as invariant violation", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "10000")
		foreign := testPayment(t, uuid.New(), "5000")

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return([]billing.Payment{*foreign}, nil)

		_, err := f.service.Reconcile(ctx, inv.ID, actorID)
		require.Error(t, err)

		var violation *shared.InvariantViolationError
		assert.ErrorAs(t, err, &violation)
		f.invoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// Reads
// =============================================================================

func TestPaymentService_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get payment maps not found", func(t *testing.T) {
		f := newPaymentServiceFixture()
		paymentID := uuid.New()
		f.payments.On("FindByID", ctx, paymentID).Return(nil, shared.ErrNotFound)

		_, err := f.service.GetPayment(ctx, paymentID)
		assert.ErrorIs(t, err, billing.ErrPaymentNotFound)
	})

	t.Run("list payments requires the invoice to exist", func(t *testing.T) {
		f := newPaymentServiceFixture()
		invoiceID := uuid.New()
		f.invoices.On("FindByID", ctx, invoiceID).Return(nil, shared.ErrNotFound)

		_, err := f.service.ListPayments(ctx, invoiceID)
		assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
	})

	t.Run("list payments returns the ledger", func(t *testing.T) {
		f := newPaymentServiceFixture()
		inv := testInvoice(t, "500")
		ledger := []billing.Payment{*testPayment(t, inv.ID, "200")}

		f.invoices.On("FindByID", ctx, inv.ID).Return(inv, nil)
		f.payments.On("ListByInvoice", ctx, inv.ID).Return(ledger, nil)

		got, err := f.service.ListPayments(ctx, inv.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
