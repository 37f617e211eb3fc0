package handler

import (
	"time"

	"github.com/quoteflow/backend/internal/domain/audit"
	"github.com/quoteflow/backend/internal/domain/billing"
)

// QuoteItemResponse represents a quote line item in API responses
type QuoteItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity" example:"2"`
	UnitPrice   string `json:"unit_price" example:"100.00"`
	Amount      string `json:"amount" example:"200.00"`
}

// TotalsResponse represents the computed totals breakdown of a quote
type TotalsResponse struct {
	Subtotal        string `json:"subtotal" example:"200.00"`
	DiscountAmount  string `json:"discount_amount" example:"20.00"`
	TaxableAmount   string `json:"taxable_amount" example:"180.00"`
	CGSTAmount      string `json:"cgst_amount" example:"16.20"`
	SGSTAmount      string `json:"sgst_amount" example:"16.20"`
	IGSTAmount      string `json:"igst_amount" example:"0.00"`
	ShippingCharges string `json:"shipping_charges" example:"50.00"`
	Total           string `json:"total" example:"262.40"`
}

// TaxRatesResponse represents the tax rate percentages applied to a quote
type TaxRatesResponse struct {
	CGST string `json:"cgst" example:"9"`
	SGST string `json:"sgst" example:"9"`
	IGST string `json:"igst" example:"0"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID              string              `json:"id"`
	QuoteNumber     string              `json:"quote_number" example:"QT-2026-0001"`
	CustomerID      string              `json:"customer_id"`
	CustomerName    string              `json:"customer_name" example:"Acme Corp"`
	Status          string              `json:"status" example:"DRAFT" enums:"DRAFT,SENT,ACCEPTED,DECLINED,INVOICED"`
	Items           []QuoteItemResponse `json:"items"`
	DiscountPercent string              `json:"discount_percent" example:"10"`
	ShippingCharges string              `json:"shipping_charges" example:"50.00"`
	TaxRates        TaxRatesResponse    `json:"tax_rates"`
	Totals          TotalsResponse      `json:"totals"`
	ValidUntil      *string             `json:"valid_until,omitempty"`
	Remark          string              `json:"remark,omitempty"`
	SentAt          *string             `json:"sent_at,omitempty"`
	AcceptedAt      *string             `json:"accepted_at,omitempty"`
	DeclinedAt      *string             `json:"declined_at,omitempty"`
	InvoicedAt      *string             `json:"invoiced_at,omitempty"`
	InvoiceID       *string             `json:"invoice_id,omitempty"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
	Version         int                 `json:"version" example:"1"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              string  `json:"id"`
	InvoiceNumber   string  `json:"invoice_number" example:"INV-2026-0001"`
	QuoteID         *string `json:"quote_id,omitempty"`
	CustomerID      string  `json:"customer_id"`
	CustomerName    string  `json:"customer_name" example:"Acme Corp"`
	TotalAmount     string  `json:"total_amount" example:"262.40"`
	PaidAmount      string  `json:"paid_amount" example:"100.00"`
	Outstanding     string  `json:"outstanding" example:"162.40"`
	Status          string  `json:"status" example:"PARTIAL" enums:"PENDING,PARTIAL,PAID"`
	LastPaymentDate *string `json:"last_payment_date,omitempty"`
	IssuedAt        string  `json:"issued_at"`
	DueDate         *string `json:"due_date,omitempty"`
	Remark          string  `json:"remark,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	Version         int     `json:"version" example:"1"`
}

// PaymentResponse represents a payment ledger entry in API responses
type PaymentResponse struct {
	ID        string `json:"id"`
	InvoiceID string `json:"invoice_id"`
	Amount    string `json:"amount" example:"100.00"`
	Method    string `json:"method" example:"BANK_TRANSFER" enums:"CASH,BANK_TRANSFER,UPI,CHEQUE,CARD,OTHER"`
	Date      string `json:"date"`
	Reference string `json:"reference,omitempty"`
	CreatedAt string `json:"created_at"`
}

// PaymentResultResponse bundles a mutated payment with the invoice state
// after reconciliation
type PaymentResultResponse struct {
	Payment *PaymentResponse `json:"payment,omitempty"`
	Invoice InvoiceResponse  `json:"invoice"`
}

// InvoiceDetailResponse bundles an invoice with its full payment ledger
type InvoiceDetailResponse struct {
	Invoice  InvoiceResponse   `json:"invoice"`
	Payments []PaymentResponse `json:"payments"`
}

// ActivityResponse represents an audit trail entry in API responses
type ActivityResponse struct {
	ID         string  `json:"id"`
	ActorID    string  `json:"actor_id"`
	Action     string  `json:"action" example:"PAYMENT_ADDED"`
	EntityType string  `json:"entity_type" example:"INVOICE"`
	EntityID   *string `json:"entity_id,omitempty"`
	Detail     string  `json:"detail,omitempty"`
	Timestamp  string  `json:"timestamp"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// NewQuoteResponse converts a quote aggregate into its API representation
func NewQuoteResponse(q *billing.Quote) QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(q.Items))
	for i := range q.Items {
		item := &q.Items[i]
		items = append(items, QuoteItemResponse{
			ID:          item.ID.String(),
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}

	resp := QuoteResponse{
		ID:              q.GetID().String(),
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID.String(),
		CustomerName:    q.CustomerName,
		Status:          q.Status.String(),
		Items:           items,
		DiscountPercent: q.DiscountPercent.String(),
		ShippingCharges: q.ShippingCharges.StringFixed(2),
		TaxRates: TaxRatesResponse{
			CGST: q.TaxRates.CGST.String(),
			SGST: q.TaxRates.SGST.String(),
			IGST: q.TaxRates.IGST.String(),
		},
		Totals: TotalsResponse{
			Subtotal:        q.Totals.Subtotal.StringFixed2(),
			DiscountAmount:  q.Totals.DiscountAmount.StringFixed2(),
			TaxableAmount:   q.Totals.TaxableAmount.StringFixed2(),
			CGSTAmount:      q.Totals.CGSTAmount.StringFixed2(),
			SGSTAmount:      q.Totals.SGSTAmount.StringFixed2(),
			IGSTAmount:      q.Totals.IGSTAmount.StringFixed2(),
			ShippingCharges: q.Totals.ShippingCharges.StringFixed2(),
			Total:           q.Totals.Total.StringFixed2(),
		},
		ValidUntil: formatTimePtr(q.ValidUntil),
		Remark:     q.Remark,
		SentAt:     formatTimePtr(q.SentAt),
		AcceptedAt: formatTimePtr(q.AcceptedAt),
		DeclinedAt: formatTimePtr(q.DeclinedAt),
		InvoicedAt: formatTimePtr(q.InvoicedAt),
		CreatedAt:  formatTime(q.GetCreatedAt()),
		UpdatedAt:  formatTime(q.GetUpdatedAt()),
		Version:    q.GetVersion(),
	}
	if q.InvoiceID != nil {
		id := q.InvoiceID.String()
		resp.InvoiceID = &id
	}
	return resp
}

// NewQuoteListResponse converts a page of quotes
func NewQuoteListResponse(quotes []billing.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}
	return out
}

// NewInvoiceResponse converts an invoice aggregate into its API representation
func NewInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:              inv.GetID().String(),
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID.String(),
		CustomerName:    inv.CustomerName,
		TotalAmount:     inv.TotalAmount.StringFixed(2),
		PaidAmount:      inv.PaidAmount.StringFixed(2),
		Outstanding:     inv.OutstandingMoney().StringFixed2(),
		Status:          inv.Status.String(),
		LastPaymentDate: formatTimePtr(inv.LastPaymentDate),
		IssuedAt:        formatTime(inv.IssuedAt),
		DueDate:         formatTimePtr(inv.DueDate),
		Remark:          inv.Remark,
		CreatedAt:       formatTime(inv.GetCreatedAt()),
		UpdatedAt:       formatTime(inv.GetUpdatedAt()),
		Version:         inv.GetVersion(),
	}
	if inv.QuoteID != nil {
		id := inv.QuoteID.String()
		resp.QuoteID = &id
	}
	return resp
}

// NewInvoiceListResponse converts a page of invoices
func NewInvoiceListResponse(invoices []billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, NewInvoiceResponse(&invoices[i]))
	}
	return out
}

// NewPaymentResponse converts a payment record into its API representation
func NewPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID.String(),
		InvoiceID: p.InvoiceID.String(),
		Amount:    p.Amount.StringFixed(2),
		Method:    p.Method.String(),
		Date:      formatTime(p.Date),
		Reference: p.Reference,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

// NewPaymentListResponse converts a payment ledger
func NewPaymentListResponse(payments []billing.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, NewPaymentResponse(&payments[i]))
	}
	return out
}

// NewActivityResponse converts an audit entry into its API representation
func NewActivityResponse(e *audit.ActivityEntry) ActivityResponse {
	resp := ActivityResponse{
		ID:         e.ID.String(),
		ActorID:    e.ActorID.String(),
		Action:     string(e.Action),
		EntityType: string(e.EntityType),
		Detail:     e.Detail,
		Timestamp:  formatTime(e.Timestamp),
	}
	if e.EntityID != nil {
		id := e.EntityID.String()
		resp.EntityID = &id
	}
	return resp
}

// NewActivityListResponse converts a page of audit entries
func NewActivityListResponse(entries []audit.ActivityEntry) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewActivityResponse(&entries[i]))
	}
	return out
}
