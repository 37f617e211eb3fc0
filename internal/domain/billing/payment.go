package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quoteflow/backend/internal/domain/shared"
	"github.com/quoteflow/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodUPI, PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment is one record in an invoice's payment ledger. Payments are created
// and deleted by user actions, never mutated in place; the invoice's derived
// fields are always recomputed from the surviving set.
type Payment struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	Date      time.Time
	Reference string
	CreatedAt time.Time
}

// NewPayment creates a new payment record.
// Amount must be strictly positive; a zero date defaults to now.
func NewPayment(invoiceID uuid.UUID, amount valueobject.Money, method PaymentMethod, date time.Time) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if date.IsZero() {
		date = time.Now()
	}

	return &Payment{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Amount:    amount.Amount(),
		Method:    method,
		Date:      date,
		CreatedAt: time.Now(),
	}, nil
}

// GetAmountMoney returns the amount as Money value object
func (p *Payment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoney(p.Amount)
}

// SetReference attaches an external reference (cheque number, UTR, etc.)
func (p *Payment) SetReference(ref string) {
	p.Reference = ref
}
