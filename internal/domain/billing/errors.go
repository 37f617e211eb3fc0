package billing

import "github.com/quoteflow/backend/internal/domain/shared"

// Domain errors for the billing core. PAYMENT_NOT_FOUND is part of the API
// boundary contract: the transport layer maps it to a not-found response
// with the message "Payment record not found".
var (
	ErrPaymentNotFound = shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment record not found")
	ErrInvoiceNotFound = shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
	ErrQuoteNotFound   = shared.NewDomainError("QUOTE_NOT_FOUND", "Quote not found")
)
