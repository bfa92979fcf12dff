package repositories

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByKey retrieves the posted entry for an idempotency key, with its lines.
	// Returns apperrors.ErrNotFound when no entry exists for the key.
	FindEntryByKey(ctx context.Context, key domain.PostingKey) (*domain.JournalEntry, error)

	// ListEntriesByInvoice retrieves every entry sourced from an invoice, oldest first, with lines.
	ListEntriesByInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error)
}

// LedgerLineReader defines account-centric reads over posted lines
type LedgerLineReader interface {
	// SumNetByAccountIDs returns debit minus credit over all posted lines per account.
	// Accounts with no lines are absent from the result.
	SumNetByAccountIDs(ctx context.Context, accountIDs []string) (map[string]decimal.Decimal, error)

	// ListLinesByAccountID retrieves a page of posted lines for an account, newest first.
	// It returns the lines, a token for the next page, and an error.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error)
}

// JournalWriter defines write operations for journal entry data
type JournalWriter interface {
	// SaveEntry persists an entry and its lines. A second entry for the same
	// idempotency key fails with *apperrors.DuplicatePostingError.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	LedgerLineReader
	JournalWriter
}
