package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/quoteflow/backend/internal/application/billing"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type invoiceHandlerFixture struct {
	invoices *MockInvoiceRepository
	payments *MockPaymentRepository
	engine   *gin.Engine
}

func newInvoiceHandlerFixture(t *testing.T) *invoiceHandlerFixture {
	t.Helper()

	invoices := new(MockInvoiceRepository)
	payments := new(MockPaymentRepository)
	svc := billingapp.NewInvoiceService(invoices, payments, zap.NewNop())
	h := NewInvoiceHandler(svc)

	engine := gin.New()
	engine.GET("/invoices", h.List)
	engine.GET("/invoices/:id", h.GetByID)
	engine.GET("/invoices/:id/detail", h.GetDetail)
	engine.GET("/invoices/number/:number", h.GetByNumber)
	engine.PUT("/invoices/:id/due-date", h.UpdateDueDate)
	engine.PUT("/invoices/:id/remark", h.UpdateRemark)

	return &invoiceHandlerFixture{invoices: invoices, payments: payments, engine: engine}
}

func (f *invoiceHandlerFixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestInvoiceHandlerGetByID(t *testing.T) {
	t.Run("returns invoice with outstanding", func(t *testing.T) {
		f := newInvoiceHandlerFixture(t)
		inv := pendingInvoice(t)
		f.invoices.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)

		w := f.do("GET", "/invoices/"+inv.GetID().String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "INV-2026-0001")
		assert.Contains(t, w.Body.String(), `"outstanding":"500.00"`)
	})

	t.Run("404 when missing", func(t *testing.T) {
		f := newInvoiceHandlerFixture(t)
		invoiceID := uuid.New()
		f.invoices.On("FindByID", mock.Anything, invoiceID).Return(nil, shared.ErrNotFound)

		w := f.do("GET", "/invoices/"+invoiceID.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "INVOICE_NOT_FOUND")
	})
}

func TestInvoiceHandlerGetByNumber(t *testing.T) {
	f := newInvoiceHandlerFixture(t)
	inv := pendingInvoice(t)
	f.invoices.On("FindByNumber", mock.Anything, "INV-2026-0001").Return(inv, nil)

	w := f.do("GET", "/invoices/number/INV-2026-0001", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), inv.GetID().String())
}

func TestInvoiceHandlerGetDetail(t *testing.T) {
	f := newInvoiceHandlerFixture(t)
	inv := pendingInvoice(t)
	f.invoices.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)
	f.payments.On("ListByInvoice", mock.Anything, inv.GetID()).Return([]billing.Payment{
		ledgerPayment(t, inv.GetID(), "125.50"),
	}, nil)

	w := f.do("GET", "/invoices/"+inv.GetID().String()+"/detail", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payments"`)
	assert.Contains(t, w.Body.String(), "125.50")
}

func TestInvoiceHandlerList(t *testing.T) {
	f := newInvoiceHandlerFixture(t)
	inv := pendingInvoice(t)
	f.invoices.On("FindAll", mock.Anything, mock.AnythingOfType("billing.InvoiceFilter")).
		Return([]billing.Invoice{*inv}, nil)
	f.invoices.On("Count", mock.Anything, mock.AnythingOfType("billing.InvoiceFilter")).
		Return(int64(1), nil)

	w := f.do("GET", "/invoices?status=PENDING&page=1&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestInvoiceHandlerUpdateDueDate(t *testing.T) {
	f := newInvoiceHandlerFixture(t)
	inv := pendingInvoice(t)
	f.invoices.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)
	f.invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

	due := time.Now().Add(30 * 24 * time.Hour).UTC()
	w := f.do("PUT", "/invoices/"+inv.GetID().String()+"/due-date", gin.H{
		"due_date": due.Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"due_date"`)
}

func TestInvoiceHandlerUpdateRemark(t *testing.T) {
	f := newInvoiceHandlerFixture(t)
	inv := pendingInvoice(t)
	f.invoices.On("FindByID", mock.Anything, inv.GetID()).Return(inv, nil)
	f.invoices.On("SaveWithLock", mock.Anything, inv).Return(nil)

	w := f.do("PUT", "/invoices/"+inv.GetID().String()+"/remark", gin.H{
		"remark": "net 30 agreed",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "net 30 agreed")
}
