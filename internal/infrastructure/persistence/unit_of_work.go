package persistence

import (
	"context"

	"github.com/quoteflow/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormUnitOfWork implements billing.UnitOfWork on top of a GORM transaction.
// The invoice and payment repositories handed to fn share one transaction,
// so a ledger write and the reconciled invoice commit or roll back together.
type GormUnitOfWork struct {
	db *Database
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn within a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(invoices billing.InvoiceRepository, payments billing.PaymentRepository) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormInvoiceRepository(tx), NewGormPaymentRepository(tx))
	})
}
