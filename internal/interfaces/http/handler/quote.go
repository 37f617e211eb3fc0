package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	billingapp "github.com/quoteflow/backend/internal/application/billing"
	"github.com/quoteflow/backend/internal/domain/billing"
)

// QuoteHandler handles quote-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService *billingapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *billingapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// QuoteItemRequest is one line item in a quote request. Quantity and unit
// price are decimal strings so amounts survive the trip without float
// rounding.
type QuoteItemRequest struct {
	Description string `json:"description" binding:"required,min=1,max=500" example:"Widget model A"`
	Quantity    string `json:"quantity" binding:"required,decimalstr" example:"2"`
	UnitPrice   string `json:"unit_price" binding:"required,decimalstr" example:"100.00"`
}

// CreateQuoteRequest represents a request to create a draft quote
type CreateQuoteRequest struct {
	CustomerID   string             `json:"customer_id" binding:"required,uuid"`
	CustomerName string             `json:"customer_name" binding:"required,min=1,max=200" example:"Acme Corp"`
	ValidUntil   *time.Time         `json:"valid_until"`
	Remark       string             `json:"remark" binding:"max=1000"`
	Items        []QuoteItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdatePricingRequest adjusts the document-level pricing of a draft quote.
// Omitted fields are left unchanged.
type UpdatePricingRequest struct {
	DiscountPercent *string          `json:"discount_percent" binding:"omitempty,decimalstr" example:"10"`
	ShippingCharges *string          `json:"shipping_charges" binding:"omitempty,decimalstr" example:"50.00"`
	TaxRates        *TaxRatesRequest `json:"tax_rates"`
}

// TaxRatesRequest carries the three tax rate percentages
type TaxRatesRequest struct {
	CGST string `json:"cgst" binding:"required,decimalstr" example:"9"`
	SGST string `json:"sgst" binding:"required,decimalstr" example:"9"`
	IGST string `json:"igst" binding:"required,decimalstr" example:"0"`
}

func parseDecimal(value string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (h *QuoteHandler) itemInput(c *gin.Context, req QuoteItemRequest) (billingapp.QuoteItemInput, bool) {
	quantity, ok := parseDecimal(req.Quantity)
	if !ok {
		h.BadRequest(c, "Invalid quantity: "+req.Quantity)
		return billingapp.QuoteItemInput{}, false
	}
	unitPrice, ok := parseDecimal(req.UnitPrice)
	if !ok {
		h.BadRequest(c, "Invalid unit price: "+req.UnitPrice)
		return billingapp.QuoteItemInput{}, false
	}
	return billingapp.QuoteItemInput{
		Description: req.Description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}, true
}

// Create creates a new draft quote with optional initial line items
func (h *QuoteHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	items := make([]billingapp.QuoteItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		input, ok := h.itemInput(c, item)
		if !ok {
			return
		}
		items = append(items, input)
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), billingapp.CreateQuoteRequest{
		CustomerID:   customerID,
		CustomerName: req.CustomerName,
		ValidUntil:   req.ValidUntil,
		Remark:       req.Remark,
		Items:        items,
		ActorID:      actorID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, NewQuoteResponse(quote))
}

// GetByID returns a single quote with its line items and totals
func (h *QuoteHandler) GetByID(c *gin.Context) {
	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := h.quoteService.GetQuote(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// List returns a filtered, paginated page of quotes
func (h *QuoteHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	page, err := h.quoteService.ListQuotes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, NewQuoteListResponse(page.Items), page.Total, page.Page, page.PageSize)
}

func (h *QuoteHandler) parseFilter(c *gin.Context) (billing.QuoteFilter, bool) {
	filter := billing.QuoteFilter{
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
		status := billing.QuoteStatus(statusStr)
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

// AddItem appends a line item to a draft quote
func (h *QuoteHandler) AddItem(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	var req QuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, ok := h.itemInput(c, req)
	if !ok {
		return
	}

	quote, err := h.quoteService.AddItem(c.Request.Context(), quoteID, input, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// UpdateItem replaces the quantity and unit price of a line item
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req QuoteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input, ok := h.itemInput(c, req)
	if !ok {
		return
	}

	quote, err := h.quoteService.UpdateItem(c.Request.Context(), quoteID, itemID, input, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// RemoveItem deletes a line item from a draft quote
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}
	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	quote, err := h.quoteService.RemoveItem(c.Request.Context(), quoteID, itemID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// UpdatePricing adjusts discount, shipping and tax rates on a draft quote
func (h *QuoteHandler) UpdatePricing(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	var req UpdatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.UpdatePricingRequest{
		QuoteID: quoteID,
		ActorID: actorID,
	}

	if req.DiscountPercent != nil {
		discount, ok := parseDecimal(*req.DiscountPercent)
		if !ok {
			h.BadRequest(c, "Invalid discount percent: "+*req.DiscountPercent)
			return
		}
		appReq.DiscountPercent = &discount
	}
	if req.ShippingCharges != nil {
		shipping, ok := parseDecimal(*req.ShippingCharges)
		if !ok {
			h.BadRequest(c, "Invalid shipping charges: "+*req.ShippingCharges)
			return
		}
		appReq.ShippingCharges = &shipping
	}
	if req.TaxRates != nil {
		cgst, ok := parseDecimal(req.TaxRates.CGST)
		if !ok {
			h.BadRequest(c, "Invalid CGST rate: "+req.TaxRates.CGST)
			return
		}
		sgst, ok := parseDecimal(req.TaxRates.SGST)
		if !ok {
			h.BadRequest(c, "Invalid SGST rate: "+req.TaxRates.SGST)
			return
		}
		igst, ok := parseDecimal(req.TaxRates.IGST)
		if !ok {
			h.BadRequest(c, "Invalid IGST rate: "+req.TaxRates.IGST)
			return
		}
		rates, err := billing.NewTaxRates(cgst, sgst, igst)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		appReq.TaxRates = &rates
	}

	quote, err := h.quoteService.UpdatePricing(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// Send transitions a draft quote to SENT
func (h *QuoteHandler) Send(c *gin.Context) {
	h.transition(c, h.quoteService.SendQuote)
}

// Accept transitions a sent quote to ACCEPTED
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.transition(c, h.quoteService.AcceptQuote)
}

// Decline transitions a sent quote to DECLINED
func (h *QuoteHandler) Decline(c *gin.Context) {
	h.transition(c, h.quoteService.DeclineQuote)
}

func (h *QuoteHandler) transition(c *gin.Context, fn func(ctx context.Context, quoteID, actorID uuid.UUID) (*billing.Quote, error)) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	quote, err := fn(c.Request.Context(), quoteID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewQuoteResponse(quote))
}

// Finalize converts an accepted quote into an invoice
func (h *QuoteHandler) Finalize(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	quoteID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quote ID")
		return
	}

	invoice, err := h.quoteService.FinalizeQuote(c.Request.Context(), quoteID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, NewInvoiceResponse(invoice))
}
