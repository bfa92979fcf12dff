package handlers_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) BalanceOf(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockBalanceService) ListAccountEntries(ctx context.Context, accountCode string, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error) {
	args := m.Called(ctx, accountCode, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerResponse), args.Error(1)
}
func (m *MockBalanceService) SetParent(ctx context.Context, accountCode string, parentCode *string) error {
	return m.Called(ctx, accountCode, parentCode).Error(0)
}

var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return m.Called(ctx, invoiceID).Error(0)
}
func (m *MockInvoiceService) Transition(ctx context.Context, invoiceID string, action domain.InvoiceAction) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock PostingReader ---
type MockPostingReader struct {
	mock.Mock
}

func (m *MockPostingReader) ListEntriesForInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

var _ portssvc.PostingReaderSvc = (*MockPostingReader)(nil)

// --- Mock CustomerService ---
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	return m.Called(ctx, customerID).Error(0)
}

var _ portssvc.CustomerSvcFacade = (*MockCustomerService)(nil)
