// Package billing holds the quoting and invoicing domain model.
//
// The package centers on exact decimal arithmetic: line items, document
// discounts, GST components and shipping flow through CalculateTotals with
// no intermediate rounding, and invoices derive their paid amount, last
// payment date and status by fully resumming the payment ledger.
//
// Aggregates:
//   - Quote: draft pricing document; every mutation recomputes its totals,
//     and Finalize freezes them into an invoice.
//   - Invoice: carries the frozen total; Reconcile recomputes all derived
//     payment state from the ledger, idempotently.
//
// Payment records are immutable once created; corrections are modeled as
// delete plus re-add, each followed by reconciliation.
package billing
