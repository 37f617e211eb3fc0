package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/quoteflow/backend/internal/application/billing"
	"github.com/quoteflow/backend/internal/domain/billing"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// UpdateDueDateRequest sets or clears an invoice due date
type UpdateDueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// UpdateRemarkRequest replaces the free-text remark on an invoice
type UpdateRemarkRequest struct {
	Remark string `json:"remark" binding:"max=1000"`
}

// GetByID returns a single invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewInvoiceResponse(invoice))
}

// GetByNumber returns a single invoice looked up by its business number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Invoice number is required")
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewInvoiceResponse(invoice))
}

// GetDetail returns an invoice together with its full payment ledger
func (h *InvoiceHandler) GetDetail(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	detail, err := h.invoiceService.GetInvoiceDetail(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, InvoiceDetailResponse{
		Invoice:  NewInvoiceResponse(detail.Invoice),
		Payments: NewPaymentListResponse(detail.Payments),
	})
}

// List returns a filtered, paginated page of invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	page, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, NewInvoiceListResponse(page.Items), page.Total, page.Page, page.PageSize)
}

func (h *InvoiceHandler) parseFilter(c *gin.Context) (billing.InvoiceFilter, bool) {
	filter := billing.InvoiceFilter{
		Search:   c.Query("search"),
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
		Page:     1,
		PageSize: 20,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		if _, err := parseIntQuery(pageStr, &filter.Page); err != nil {
			h.BadRequest(c, "Invalid page")
			return filter, false
		}
	}
	if sizeStr := c.Query("page_size"); sizeStr != "" {
		if _, err := parseIntQuery(sizeStr, &filter.PageSize); err != nil {
			h.BadRequest(c, "Invalid page size")
			return filter, false
		}
	}
	if customerStr := c.Query("customer_id"); customerStr != "" {
		customerID, err := uuid.Parse(customerStr)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID")
			return filter, false
		}
		filter.CustomerID = &customerID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := billing.InvoiceStatus(statusStr)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid status: "+statusStr)
			return filter, false
		}
		filter.Status = &status
	}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.BadRequest(c, "Invalid from date")
			return filter, false
		}
		filter.FromDate = &from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.BadRequest(c, "Invalid to date")
			return filter, false
		}
		filter.ToDate = &to
	}

	return filter, true
}

// UpdateDueDate sets or clears the due date of an invoice
func (h *InvoiceHandler) UpdateDueDate(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req UpdateDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateDueDate(c.Request.Context(), invoiceID, req.DueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewInvoiceResponse(invoice))
}

// UpdateRemark replaces the remark text of an invoice
func (h *InvoiceHandler) UpdateRemark(c *gin.Context) {
	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req UpdateRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateRemark(c.Request.Context(), invoiceID, req.Remark)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewInvoiceResponse(invoice))
}
