package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/quoteflow/backend/internal/application/billing"
	"github.com/quoteflow/backend/internal/domain/billing"
)

// PaymentHandler handles payment ledger API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// AddPaymentRequest records a payment against an invoice. Amount is a
// decimal string; a zero date defaults to the time of recording.
type AddPaymentRequest struct {
	Amount    string     `json:"amount" binding:"required,decimalstr" example:"100.00"`
	Method    string     `json:"method" binding:"required" example:"BANK_TRANSFER"`
	Date      *time.Time `json:"date"`
	Reference string     `json:"reference" binding:"max=100" example:"TXN-8841"`
}

// Add records a payment and returns the reconciled invoice alongside it
func (h *PaymentHandler) Add(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	amount, ok := parseDecimal(req.Amount)
	if !ok {
		h.BadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	method := billing.PaymentMethod(req.Method)
	if !method.IsValid() {
		h.BadRequest(c, "Invalid payment method: "+req.Method)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	result, err := h.paymentService.AddPayment(c.Request.Context(), billingapp.AddPaymentRequest{
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    method,
		Date:      date,
		Reference: req.Reference,
		ActorID:   actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	payment := NewPaymentResponse(result.Payment)
	h.Created(c, PaymentResultResponse{
		Payment: &payment,
		Invoice: NewInvoiceResponse(result.Invoice),
	})
}

// Delete removes a payment record and re-reconciles its invoice
func (h *PaymentHandler) Delete(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	paymentID, err := parseIDParam(c, "paymentId")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	result, err := h.paymentService.DeletePayment(c.Request.Context(), billingapp.DeletePaymentRequest{
		PaymentID: paymentID,
		ActorID:   actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, PaymentResultResponse{
		Invoice: NewInvoiceResponse(result.Invoice),
	})
}

// GetByID returns a single payment record
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := parseIDParam(c, "paymentId")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewPaymentResponse(payment))
}

// ListByInvoice returns the full payment ledger of an invoice in
// chronological order
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewPaymentListResponse(payments))
}

// Reconcile recomputes the derived payment fields of an invoice from its
// ledger
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.paymentService.Reconcile(c.Request.Context(), invoiceID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewInvoiceResponse(invoice))
}
