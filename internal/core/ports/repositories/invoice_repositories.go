package repositories

import (
	"context"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its items.
	FindInvoiceByID(ctx context.Context, invoiceID string, filter domain.DeletedFilter) (*domain.Invoice, error)

	// FindInvoiceForUpdate retrieves a non-deleted invoice and locks it for the rest of the transaction.
	FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// CountInvoicesByCustomer counts the invoices billed to a customer.
	CountInvoicesByCustomer(ctx context.Context, customerID string, filter domain.DeletedFilter) (int, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and its items.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceState persists the lifecycle fields of an invoice: status, paid amount,
	// paid date, payment count and update audit fields.
	UpdateInvoiceState(ctx context.Context, invoice domain.Invoice) error

	// MarkInvoiceDeleted soft-deletes an invoice.
	MarkInvoiceDeleted(ctx context.Context, invoiceID string, userID string, now time.Time) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
