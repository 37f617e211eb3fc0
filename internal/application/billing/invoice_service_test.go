package billing

import (
	"context"
	"testing"
	"time"

	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInvoiceServiceFixture() (*InvoiceService, *MockInvoiceRepository, *MockPaymentRepository) {
	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	return NewInvoiceService(invoices, payments, zap.NewNop()), invoices, payments
}

func TestInvoiceServiceUpdateDueDate(t *testing.T) {
	t.Run("saves under the version check", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture()
		inv := testInvoice(t, "500")
		loadedVersion := inv.Version
		invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

		due := time.Now().Add(30 * 24 * time.Hour)
		updated, err := service.UpdateDueDate(context.Background(), inv.ID, &due)

		require.NoError(t, err)
		require.NotNil(t, updated.DueDate)
		assert.Equal(t, loadedVersion+1, updated.Version)
		invoices.AssertExpectations(t)
		invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("surfaces a concurrent reconcile as a conflict", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture()
		inv := testInvoice(t, "500")
		invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		invoices.On("SaveWithLock", mock.Anything, inv).Return(shared.ErrConcurrencyConflict)

		due := time.Now().Add(24 * time.Hour)
		_, err := service.UpdateDueDate(context.Background(), inv.ID, &due)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInvoiceServiceUpdateRemark(t *testing.T) {
	t.Run("saves under the version check", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture()
		inv := testInvoice(t, "500")
		loadedVersion := inv.Version
		invoices.On("FindByID", mock.Anything, inv.ID).Return(inv, nil)
		invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

		updated, err := service.UpdateRemark(context.Background(), inv.ID, "net 30 agreed")

		require.NoError(t, err)
		assert.Equal(t, "net 30 agreed", updated.Remark)
		assert.Equal(t, loadedVersion+1, updated.Version)
		invoices.AssertExpectations(t)
		invoices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("maps missing invoice", func(t *testing.T) {
		service, invoices, _ := newInvoiceServiceFixture()
		inv := testInvoice(t, "500")
		invoices.On("FindByID", mock.Anything, inv.ID).Return(nil, shared.ErrNotFound)

		_, err := service.UpdateRemark(context.Background(), inv.ID, "late")

		assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
	})
}
