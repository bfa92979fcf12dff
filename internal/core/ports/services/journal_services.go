package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AccountLookup resolves an account code, including soft-deleted accounts.
type AccountLookup func(code string) (domain.Account, bool)

// JournalValidatorSvc checks candidate lines. It has no side effects.
type JournalValidatorSvc interface {
	// Validate returns nil or a *apperrors.ValidationError listing every violation found.
	Validate(lines []domain.JournalEntryLine, lookup AccountLookup) error
}

// PostingWriterSvc turns business events into posted journal entries inside the caller's unit of work.
type PostingWriterSvc interface {
	// PostInvoiceCreated debits receivables for the total and credits revenue and sales tax.
	PostInvoiceCreated(ctx context.Context, store repositories.Store, invoice domain.Invoice) (*domain.JournalEntry, error)

	// PostPayment debits cash and credits receivables for amount.
	PostPayment(ctx context.Context, store repositories.Store, invoice domain.Invoice, amount decimal.Decimal, reference string) (*domain.JournalEntry, error)

	// PostCancellation reverses the creation posting of the invoice. It returns
	// nil and no error when the invoice was never posted.
	PostCancellation(ctx context.Context, store repositories.Store, invoice domain.Invoice) (*domain.JournalEntry, error)
}

// PostingReaderSvc reads posted entries back.
type PostingReaderSvc interface {
	ListEntriesForInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error)
}

// PostingSvcFacade combines all posting-related service interfaces
type PostingSvcFacade interface {
	PostingWriterSvc
	PostingReaderSvc
}
