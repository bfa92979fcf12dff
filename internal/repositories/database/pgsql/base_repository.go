package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

func isUniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr, true
	}
	return nil, false
}

func includeDeleted(filter domain.DeletedFilter) bool {
	return filter == domain.IncludeDeleted
}

// TxManager runs units of work inside pgx transactions.
type TxManager struct {
	pool    *pgxpool.Pool
	counter portsrepo.SequenceCounter
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithSequenceCounter makes units of work allocate numbers from counter
// instead of the number_sequences table.
func WithSequenceCounter(counter portsrepo.SequenceCounter) TxOption {
	return func(m *TxManager) {
		m.counter = counter
	}
}

func NewTxManager(pool *pgxpool.Pool, opts ...TxOption) *TxManager {
	m := &TxManager{pool: pool}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// WithinTransaction implements portsrepo.TransactionManager
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store portsrepo.Store) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Will be ignored if transaction is committed successfully
	defer func() {
		_ = rollback(ctx, tx)
	}()

	if err := fn(ctx, newStore(tx, m.counter)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// store binds every repository to one querier.
type store struct {
	base    BaseRepository
	counter portsrepo.SequenceCounter
}

func newStore(db querier, counter portsrepo.SequenceCounter) *store {
	return &store{base: BaseRepository{db: db}, counter: counter}
}

func (s *store) Accounts() portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: s.base}
}

func (s *store) Journals() portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: s.base}
}

func (s *store) Invoices() portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: s.base}
}

func (s *store) Customers() portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: s.base}
}

func (s *store) Sequences() portsrepo.SequenceCounter {
	if s.counter != nil {
		return s.counter
	}
	return &PgxSequenceCounter{BaseRepository: s.base}
}
