package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, opts ...TxOption) portsrepo.RepositoryProvider {
	txManager := NewTxManager(dbPool, opts...)
	s := newStore(dbPool, txManager.counter)

	return portsrepo.RepositoryProvider{
		AccountRepo:     s.Accounts(),
		JournalRepo:     s.Journals(),
		InvoiceRepo:     s.Invoices(),
		CustomerRepo:    s.Customers(),
		SequenceCounter: s.Sequences(),
		TxManager:       txManager,
	}
}
