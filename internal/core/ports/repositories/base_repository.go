package repositories

import "context"

// Store exposes the repositories bound to one unit of work.
type Store interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Invoices() InvoiceRepositoryFacade
	Customers() CustomerRepositoryFacade
	Sequences() SequenceCounter
}

// TransactionManager runs fn inside one all-or-nothing transaction.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when ctx is cancelled.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}
