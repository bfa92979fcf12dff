package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

// state is one consistent version of the data set.
type state struct {
	accounts  map[string]domain.Account
	entries   []domain.JournalEntry
	invoices  map[string]domain.Invoice
	customers map[string]domain.Customer
	sequences map[domain.SequenceKind]int64
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		invoices:  make(map[string]domain.Invoice),
		customers: make(map[string]domain.Customer),
		sequences: make(map[domain.SequenceKind]int64),
	}
}

// clone copies the containers. Stored values are never mutated in place, so
// sharing them between versions is safe.
func (st *state) clone() *state {
	return &state{
		accounts:  maps.Clone(st.accounts),
		entries:   append([]domain.JournalEntry(nil), st.entries...),
		invoices:  maps.Clone(st.invoices),
		customers: maps.Clone(st.customers),
		sequences: maps.Clone(st.sequences),
	}
}

// Store is an in-process implementation of every repository port.
// Units of work run one at a time against a private copy that replaces the
// committed version only when the work succeeds.
type Store struct {
	txMu    sync.Mutex
	mu      sync.RWMutex
	data    *state
	counter portsrepo.SequenceCounter
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSequenceCounter replaces the built-in counter, for example with a Redis counter.
func WithSequenceCounter(counter portsrepo.SequenceCounter) StoreOption {
	return func(s *Store) {
		s.counter = counter
	}
}

// New creates an empty Store.
func New(opts ...StoreOption) *Store {
	s := &Store{data: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTransaction implements portsrepo.TransactionManager
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store portsrepo.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	working := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &txStore{s: s, h: handle{s: s, st: working}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = working
	s.mu.Unlock()
	return nil
}

// Provider returns the repositories for reads outside a unit of work.
// Their write methods must not be called from inside WithinTransaction.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	h := handle{s: s}
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepo{h},
		JournalRepo:     &journalRepo{h},
		InvoiceRepo:     &invoiceRepo{h},
		CustomerRepo:    &customerRepo{h},
		SequenceCounter: h.sequences(),
		TxManager:       s,
	}
}

// txStore is the portsrepo.Store handed to a unit of work.
type txStore struct {
	s *Store
	h handle
}

func (t *txStore) Accounts() portsrepo.AccountRepositoryFacade   { return &accountRepo{t.h} }
func (t *txStore) Journals() portsrepo.JournalRepositoryFacade   { return &journalRepo{t.h} }
func (t *txStore) Invoices() portsrepo.InvoiceRepositoryFacade   { return &invoiceRepo{t.h} }
func (t *txStore) Customers() portsrepo.CustomerRepositoryFacade { return &customerRepo{t.h} }
func (t *txStore) Sequences() portsrepo.SequenceCounter          { return t.h.sequences() }

// handle gives a repository access to either a working copy (inside a unit of
// work) or the committed version (outside).
type handle struct {
	s  *Store
	st *state
}

func (h handle) read() (*state, func()) {
	if h.st != nil {
		return h.st, func() {}
	}
	h.s.mu.RLock()
	return h.s.data, h.s.mu.RUnlock
}

func (h handle) write() (*state, func()) {
	if h.st != nil {
		return h.st, func() {}
	}
	h.s.txMu.Lock()
	h.s.mu.Lock()
	return h.s.data, func() {
		h.s.mu.Unlock()
		h.s.txMu.Unlock()
	}
}

func (h handle) sequences() portsrepo.SequenceCounter {
	if h.s.counter != nil {
		return h.s.counter
	}
	return &sequenceCounter{h}
}
