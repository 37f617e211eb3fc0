package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/billing"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_number"`
	QuoteID         *uuid.UUID            `gorm:"type:uuid;index"`
	CustomerID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName    string                `gorm:"type:varchar(200);not null"`
	TotalAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaidAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status          billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	LastPaymentDate *time.Time
	IssuedAt        time.Time  `gorm:"not null"`
	DueDate         *time.Time `gorm:"index"`
	Remark          string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		InvoiceNumber:   m.InvoiceNumber,
		QuoteID:         m.QuoteID,
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		TotalAmount:     m.TotalAmount,
		PaidAmount:      m.PaidAmount,
		Status:          m.Status,
		LastPaymentDate: m.LastPaymentDate,
		IssuedAt:        m.IssuedAt,
		DueDate:         m.DueDate,
		Remark:          m.Remark,
	}
	m.PopulateAggregateRoot(&inv.BaseAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.QuoteID = inv.QuoteID
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.Status = inv.Status
	m.LastPaymentDate = inv.LastPaymentDate
	m.IssuedAt = inv.IssuedAt
	m.DueDate = inv.DueDate
	m.Remark = inv.Remark
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for immutable payment records.
type PaymentModel struct {
	ID        uuid.UUID             `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Method    billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	Date      time.Time             `gorm:"not null;index"`
	Reference string                `gorm:"type:varchar(100)"`
	CreatedAt time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment record.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		Amount:    m.Amount,
		Method:    m.Method,
		Date:      m.Date,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment record.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.ID = p.ID
	m.InvoiceID = p.InvoiceID
	m.Amount = p.Amount
	m.Method = p.Method
	m.Date = p.Date
	m.Reference = p.Reference
	m.CreatedAt = p.CreatedAt
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// QuoteModel is the persistence model for the Quote aggregate root.
// Totals columns are denormalized from the breakdown so listings never
// recompute them.
type QuoteModel struct {
	AggregateModel
	QuoteNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_quotes_number"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName    string              `gorm:"type:varchar(200);not null"`
	Items           []QuoteItemModel    `gorm:"foreignKey:QuoteID;references:ID"`
	DiscountPercent decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	ShippingCharges decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CGSTRate        decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	SGSTRate        decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	IGSTRate        decimal.Decimal     `gorm:"type:decimal(7,4);not null"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TaxableAmount   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CGSTAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	SGSTAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	IGSTAmount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status          billing.QuoteStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ValidUntil      *time.Time          `gorm:"index"`
	Remark          string              `gorm:"type:text"`
	SentAt          *time.Time
	AcceptedAt      *time.Time
	DeclinedAt      *time.Time
	InvoicedAt      *time.Time
	InvoiceID       *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote entity.
func (m *QuoteModel) ToDomain() *billing.Quote {
	items := make([]billing.QuoteItem, 0, len(m.Items))
	for i := range m.Items {
		items = append(items, *m.Items[i].ToDomain())
	}

	q := &billing.Quote{
		QuoteNumber:     m.QuoteNumber,
		CustomerID:      m.CustomerID,
		CustomerName:    m.CustomerName,
		Items:           items,
		DiscountPercent: m.DiscountPercent,
		ShippingCharges: m.ShippingCharges,
		TaxRates: billing.TaxRates{
			CGST: m.CGSTRate,
			SGST: m.SGSTRate,
			IGST: m.IGSTRate,
		},
		Totals: billing.TotalsBreakdown{
			Subtotal:        valueobject.NewMoney(m.Subtotal),
			DiscountAmount:  valueobject.NewMoney(m.DiscountAmount),
			TaxableAmount:   valueobject.NewMoney(m.TaxableAmount),
			CGSTAmount:      valueobject.NewMoney(m.CGSTAmount),
			SGSTAmount:      valueobject.NewMoney(m.SGSTAmount),
			IGSTAmount:      valueobject.NewMoney(m.IGSTAmount),
			ShippingCharges: valueobject.NewMoney(m.ShippingCharges),
			Total:           valueobject.NewMoney(m.TotalAmount),
		},
		Status:     m.Status,
		ValidUntil: m.ValidUntil,
		Remark:     m.Remark,
		SentAt:     m.SentAt,
		AcceptedAt: m.AcceptedAt,
		DeclinedAt: m.DeclinedAt,
		InvoicedAt: m.InvoicedAt,
		InvoiceID:  m.InvoiceID,
	}
	m.PopulateAggregateRoot(&q.BaseAggregateRoot)
	return q
}

// FromDomain populates the persistence model from a domain Quote entity.
func (m *QuoteModel) FromDomain(q *billing.Quote) {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.QuoteNumber = q.QuoteNumber
	m.CustomerID = q.CustomerID
	m.CustomerName = q.CustomerName
	m.Items = make([]QuoteItemModel, 0, len(q.Items))
	for i := range q.Items {
		m.Items = append(m.Items, *QuoteItemModelFromDomain(&q.Items[i]))
	}
	m.DiscountPercent = q.DiscountPercent
	m.ShippingCharges = q.ShippingCharges
	m.CGSTRate = q.TaxRates.CGST
	m.SGSTRate = q.TaxRates.SGST
	m.IGSTRate = q.TaxRates.IGST
	m.Subtotal = q.Totals.Subtotal.Amount()
	m.DiscountAmount = q.Totals.DiscountAmount.Amount()
	m.TaxableAmount = q.Totals.TaxableAmount.Amount()
	m.CGSTAmount = q.Totals.CGSTAmount.Amount()
	m.SGSTAmount = q.Totals.SGSTAmount.Amount()
	m.IGSTAmount = q.Totals.IGSTAmount.Amount()
	m.TotalAmount = q.Totals.Total.Amount()
	m.Status = q.Status
	m.ValidUntil = q.ValidUntil
	m.Remark = q.Remark
	m.SentAt = q.SentAt
	m.AcceptedAt = q.AcceptedAt
	m.DeclinedAt = q.DeclinedAt
	m.InvoicedAt = q.InvoicedAt
	m.InvoiceID = q.InvoiceID
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
func QuoteModelFromDomain(q *billing.Quote) *QuoteModel {
	m := &QuoteModel{}
	m.FromDomain(q)
	return m
}

// QuoteItemModel is the persistence model for quote line items.
type QuoteItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// ToDomain converts the persistence model to a domain QuoteItem.
func (m *QuoteItemModel) ToDomain() *billing.QuoteItem {
	return &billing.QuoteItem{
		ID:          m.ID,
		QuoteID:     m.QuoteID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// QuoteItemModelFromDomain creates a new persistence model from a domain QuoteItem.
func QuoteItemModelFromDomain(item *billing.QuoteItem) *QuoteItemModel {
	return &QuoteItemModel{
		ID:          item.ID,
		QuoteID:     item.QuoteID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
