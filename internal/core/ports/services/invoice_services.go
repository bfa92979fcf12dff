package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateInvoice allocates an invoice number and stores a DRAFT invoice.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, error)

	// DeleteInvoice soft-deletes a DRAFT or CANCELLED invoice.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceLifecycleSvc applies lifecycle actions together with their postings.
type InvoiceLifecycleSvc interface {
	Transition(ctx context.Context, invoiceID string, action domain.InvoiceAction) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceLifecycleSvc
}
