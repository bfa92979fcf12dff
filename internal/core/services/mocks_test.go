package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/services"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const testActor = "auditor@example.com"

type staticIdentity string

func (s staticIdentity) Resolve(context.Context) string { return string(s) }

func testOptions() []services.Option {
	return []services.Option{
		services.WithAuditIdentity(staticIdentity(testActor)),
		services.WithClock(func() time.Time { return fixedNow }),
	}
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string, filter domain.DeletedFilter) (*domain.Account, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string, filter domain.DeletedFilter) (*domain.Account, error) {
	args := m.Called(ctx, code, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter domain.DeletedFilter, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListChildAccounts(ctx context.Context, parentAccountID string, filter domain.DeletedFilter) ([]domain.Account, error) {
	args := m.Called(ctx, parentAccountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) UpdateAccountParent(ctx context.Context, accountID string, parentAccountID string, userID string, now time.Time) error {
	return m.Called(ctx, accountID, parentAccountID, userID, now).Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return m.Called(ctx, accountID, userID, now).Error(0)
}

func (m *MockAccountRepository) MarkAccountDeleted(ctx context.Context, accountID string, userID string, now time.Time) error {
	return m.Called(ctx, accountID, userID, now).Error(0)
}

func (m *MockAccountRepository) LockHierarchy(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByKey(ctx context.Context, key domain.PostingKey) (*domain.JournalEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SumNetByAccountIDs(ctx context.Context, accountIDs []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var lines []domain.LedgerLine
	if args.Get(0) != nil {
		lines = args.Get(0).([]domain.LedgerLine)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return lines, next, args.Error(2)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string, filter domain.DeletedFilter) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so the service can mutate it freely.
	inv := *args.Get(0).(*domain.Invoice)
	return &inv, args.Error(1)
}

func (m *MockInvoiceRepository) CountInvoicesByCustomer(ctx context.Context, customerID string, filter domain.DeletedFilter) (int, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceState(ctx context.Context, invoice domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) MarkInvoiceDeleted(ctx context.Context, invoiceID string, userID string, now time.Time) error {
	return m.Called(ctx, invoiceID, userID, now).Error(0)
}

// --- Mock CustomerRepository ---
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string, filter domain.DeletedFilter) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) MarkCustomerDeleted(ctx context.Context, customerID string, userID string, now time.Time) error {
	return m.Called(ctx, customerID, userID, now).Error(0)
}

// --- Mock SequenceCounter ---
type MockSequenceCounter struct {
	mock.Mock
}

func (m *MockSequenceCounter) Next(ctx context.Context, kind domain.SequenceKind) (int64, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock Store and TransactionManager ---

// mockStore hands out the same repository mocks for every unit of work.
type mockStore struct {
	accounts  *MockAccountRepository
	journals  *MockJournalRepository
	invoices  *MockInvoiceRepository
	customers *MockCustomerRepository
	sequences *MockSequenceCounter
}

func newMockStore() *mockStore {
	return &mockStore{
		accounts:  new(MockAccountRepository),
		journals:  new(MockJournalRepository),
		invoices:  new(MockInvoiceRepository),
		customers: new(MockCustomerRepository),
		sequences: new(MockSequenceCounter),
	}
}

func (s *mockStore) Accounts() portsrepo.AccountRepositoryFacade   { return s.accounts }
func (s *mockStore) Journals() portsrepo.JournalRepositoryFacade   { return s.journals }
func (s *mockStore) Invoices() portsrepo.InvoiceRepositoryFacade   { return s.invoices }
func (s *mockStore) Customers() portsrepo.CustomerRepositoryFacade { return s.customers }
func (s *mockStore) Sequences() portsrepo.SequenceCounter          { return s.sequences }

// passthroughTx runs fn against store and counts units of work.
type passthroughTx struct {
	store portsrepo.Store
	calls int
}

func (tx *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store portsrepo.Store) error) error {
	tx.calls++
	return fn(ctx, tx.store)
}

var (
	_ portsrepo.Store              = (*mockStore)(nil)
	_ portsrepo.TransactionManager = (*passthroughTx)(nil)
)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

func (m *MockPostingService) PostInvoiceCreated(ctx context.Context, store portsrepo.Store, invoice domain.Invoice) (*domain.JournalEntry, error) {
	args := m.Called(ctx, store, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) PostPayment(ctx context.Context, store portsrepo.Store, invoice domain.Invoice, amount decimal.Decimal, reference string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, store, invoice, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) PostCancellation(ctx context.Context, store portsrepo.Store, invoice domain.Invoice) (*domain.JournalEntry, error) {
	args := m.Called(ctx, store, invoice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.PostingWriterSvc = (*MockPostingService)(nil)

// --- Mock SequenceService ---
type MockSequenceService struct {
	mock.Mock
}

func (m *MockSequenceService) AllocateNext(ctx context.Context, kind domain.SequenceKind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

func (m *MockSequenceService) AllocateNextInTx(ctx context.Context, store portsrepo.Store, kind domain.SequenceKind) (string, error) {
	args := m.Called(ctx, store, kind)
	return args.String(0), args.Error(1)
}

var _ portssvc.SequenceSvcFacade = (*MockSequenceService)(nil)
