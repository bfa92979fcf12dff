package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/platform/config"
)

var testRoles = config.AccountRoles{Cash: "1000", Receivable: "1100", Revenue: "4000", SalesTax: "2100"}

func roleAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"1000": {AccountID: "acc-cash", Code: "1000", AccountType: domain.Asset, IsActive: true},
		"1100": {AccountID: "acc-ar", Code: "1100", AccountType: domain.Asset, IsActive: true},
		"4000": {AccountID: "acc-rev", Code: "4000", AccountType: domain.Revenue, IsActive: true},
		"2100": {AccountID: "acc-tax", Code: "2100", AccountType: domain.Liability, IsActive: true},
	}
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sentInvoice() domain.Invoice {
	return domain.Invoice{
		InvoiceID:      "inv-1",
		InvoiceNumber:  "INV-000001",
		CustomerID:     "cust-1",
		InvoiceDate:    time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		DueDate:        time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Subtotal:       money("100.00"),
		TaxRate:        decimal.NewFromInt(8),
		TaxAmount:      money("8.00"),
		DiscountAmount: decimal.Zero,
		TotalAmount:    money("108.00"),
		PaidAmount:     decimal.Zero,
		Status:         domain.InvoiceSent,
	}
}

type PostingServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *mockStore
	sequences *MockSequenceService
	service   portssvc.PostingSvcFacade
	saved     *domain.JournalEntry
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newMockStore()
	suite.sequences = new(MockSequenceService)
	suite.saved = nil
	suite.service = suite.newService(testRoles)
}

func (suite *PostingServiceTestSuite) newService(roles config.AccountRoles) portssvc.PostingSvcFacade {
	return services.NewPostingService(suite.store.journals, roles, services.NewJournalValidator(), suite.sequences, testOptions()...)
}

// expectPostable wires the happy path: role accounts exist, the key is unused,
// a number is allocated and the entry is saved.
func (suite *PostingServiceTestSuite) expectPostable(accounts map[string]domain.Account) {
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(accounts, nil)
	suite.store.journals.On("FindEntryByKey", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("no entry")).Maybe()
	suite.sequences.On("AllocateNextInTx", mock.Anything, suite.store, domain.SequenceJournal).Return("JE-000001", nil).Maybe()
	suite.store.journals.On("SaveEntry", mock.Anything, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			e := args.Get(1).(domain.JournalEntry)
			suite.saved = &e
		}).Return(nil).Maybe()
}

func (suite *PostingServiceTestSuite) assertLine(l domain.JournalEntryLine, code, debitAmt, creditAmt string) {
	suite.Equal(code, l.AccountCode)
	suite.True(money(debitAmt).Equal(l.Debit), "debit on %s: got %s", code, l.Debit)
	suite.True(money(creditAmt).Equal(l.Credit), "credit on %s: got %s", code, l.Credit)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_WithTax() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()

	entry, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, inv)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal("JE-000001", entry.EntryNumber)
	suite.Equal(domain.EventInvoiceCreated, entry.EventKind)
	suite.Equal("inv-1", entry.SourceInvoiceID)
	suite.Equal(inv.InvoiceDate, entry.TransactionDate)
	suite.True(entry.IsPosted)
	suite.Empty(entry.ReversalOf)
	suite.Equal(testActor, entry.CreatedBy)
	suite.Equal(fixedNow, entry.CreatedAt)

	suite.Require().Len(entry.Lines, 3)
	suite.assertLine(entry.Lines[0], "1100", "108.00", "0")
	suite.assertLine(entry.Lines[1], "4000", "0", "100.00")
	suite.assertLine(entry.Lines[2], "2100", "0", "8.00")
	suite.Equal("acc-ar", entry.Lines[0].AccountID)
	for i, l := range entry.Lines {
		suite.Equal(i, l.LineOrder)
		suite.Equal(entry.EntryID, l.EntryID)
		suite.NotEmpty(l.LineID)
	}

	debits, credits := entry.Totals()
	suite.True(debits.Equal(credits))
	suite.Require().NotNil(suite.saved)
	suite.Equal(entry.EntryID, suite.saved.EntryID)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_ZeroTaxOmitsTaxLine() {
	roles := testRoles
	roles.SalesTax = ""
	suite.service = suite.newService(roles)
	suite.expectPostable(roleAccounts())

	inv := sentInvoice()
	inv.TaxRate = decimal.Zero
	inv.TaxAmount = decimal.Zero
	inv.TotalAmount = money("100.00")

	entry, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, inv)

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 2)
	suite.assertLine(entry.Lines[0], "1100", "100.00", "0")
	suite.assertLine(entry.Lines[1], "4000", "0", "100.00")
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_DiscountReducesRevenue() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()
	inv.DiscountAmount = money("10.00")
	inv.TaxAmount = money("7.20")
	inv.TotalAmount = money("97.20")

	entry, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, inv)

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 3)
	suite.assertLine(entry.Lines[0], "1100", "97.20", "0")
	suite.assertLine(entry.Lines[1], "4000", "0", "90.00")
	suite.assertLine(entry.Lines[2], "2100", "0", "7.20")
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_TaxRoleNotConfigured() {
	roles := testRoles
	roles.SalesTax = ""
	suite.service = suite.newService(roles)

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	var nc *apperrors.AccountNotConfiguredError
	suite.Require().ErrorAs(err, &nc)
	suite.Equal(services.RoleSalesTaxPayable, nc.Role)
	suite.store.journals.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_InactiveRoleAccount() {
	accounts := roleAccounts()
	ar := accounts["1100"]
	ar.IsActive = false
	accounts["1100"] = ar
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(accounts, nil)

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	var nc *apperrors.AccountNotConfiguredError
	suite.Require().ErrorAs(err, &nc)
	suite.Equal(services.RoleAccountsReceivable, nc.Role)
	suite.Equal("inactive", nc.Reason)
	suite.sequences.AssertNotCalled(suite.T(), "AllocateNextInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_MissingRoleAccount() {
	accounts := roleAccounts()
	delete(accounts, "4000")
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(accounts, nil)

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	suite.ErrorIs(err, apperrors.ErrAccountNotConfigured)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_InconsistentTotals() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()
	inv.TotalAmount = money("107.00")

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, inv)

	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.True(vErr.Has(apperrors.ViolationInvalidTotals))
	suite.sequences.AssertNotCalled(suite.T(), "AllocateNextInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_ValidationRunsBeforeAllocation() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()
	inv.Subtotal = decimal.Zero
	inv.TaxAmount = decimal.Zero
	inv.TotalAmount = decimal.Zero

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, inv)

	var vErr *apperrors.ValidationError
	suite.Require().ErrorAs(err, &vErr)
	suite.True(vErr.Has(apperrors.ViolationMalformedLine))
	suite.sequences.AssertNotCalled(suite.T(), "AllocateNextInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.store.journals.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_DuplicateKey() {
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(roleAccounts(), nil)
	suite.store.journals.On("FindEntryByKey", mock.Anything, domain.PostingKey{SourceInvoiceID: "inv-1", EventKind: domain.EventInvoiceCreated}).
		Return(&domain.JournalEntry{EntryNumber: "JE-000009"}, nil).Once()

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	var dup *apperrors.DuplicatePostingError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal(string(domain.EventInvoiceCreated), dup.EventKind)
	suite.sequences.AssertNotCalled(suite.T(), "AllocateNextInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_LosesRaceOnUniqueKey() {
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(roleAccounts(), nil)
	suite.store.journals.On("FindEntryByKey", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("no entry"))
	suite.sequences.On("AllocateNextInTx", mock.Anything, suite.store, domain.SequenceJournal).Return("JE-000002", nil)
	suite.store.journals.On("SaveEntry", mock.Anything, mock.Anything).
		Return(&apperrors.DuplicatePostingError{SourceInvoiceID: "inv-1", EventKind: string(domain.EventInvoiceCreated)})

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	suite.ErrorIs(err, apperrors.ErrDuplicatePosting)
}

func (suite *PostingServiceTestSuite) TestPostInvoiceCreated_AllocationFailure() {
	suite.store.accounts.On("FindAccountsByCodes", mock.Anything, mock.Anything).Return(roleAccounts(), nil)
	suite.store.journals.On("FindEntryByKey", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("no entry"))
	suite.sequences.On("AllocateNextInTx", mock.Anything, suite.store, domain.SequenceJournal).
		Return("", &apperrors.AllocationError{Sequence: "journal", Err: errors.New("counter down")})

	_, err := suite.service.PostInvoiceCreated(suite.ctx, suite.store, sentInvoice())

	suite.ErrorIs(err, apperrors.ErrAllocation)
	suite.store.journals.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostPayment_KeyedByReference() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()

	entry, err := suite.service.PostPayment(suite.ctx, suite.store, inv, money("40.00"), "CHQ-881")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentEventKind("CHQ-881"), entry.EventKind)
	suite.Equal("CHQ-881", entry.Reference)
	suite.Equal(fixedNow, entry.TransactionDate)
	suite.Require().Len(entry.Lines, 2)
	suite.assertLine(entry.Lines[0], "1000", "40.00", "0")
	suite.assertLine(entry.Lines[1], "1100", "0", "40.00")
}

func (suite *PostingServiceTestSuite) TestPostPayment_OrdinalWithoutReference() {
	suite.expectPostable(roleAccounts())
	inv := sentInvoice()
	inv.PaymentCount = 2

	entry, err := suite.service.PostPayment(suite.ctx, suite.store, inv, money("10.00"), "")

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentEventKind("#3"), entry.EventKind)
	suite.True(entry.EventKind.IsPayment())
}

func (suite *PostingServiceTestSuite) TestPostPayment_CashRoleNotConfigured() {
	roles := testRoles
	roles.Cash = ""
	suite.service = suite.newService(roles)

	_, err := suite.service.PostPayment(suite.ctx, suite.store, sentInvoice(), money("10.00"), "R1")

	var nc *apperrors.AccountNotConfiguredError
	suite.Require().ErrorAs(err, &nc)
	suite.Equal(services.RoleCash, nc.Role)
}

func (suite *PostingServiceTestSuite) TestPostCancellation_ReversesOriginal() {
	original := &domain.JournalEntry{
		EntryID:         "entry-1",
		EntryNumber:     "JE-000001",
		SourceInvoiceID: "inv-1",
		EventKind:       domain.EventInvoiceCreated,
		IsPosted:        true,
		Lines: []domain.JournalEntryLine{
			{LineID: "l1", AccountID: "acc-ar", AccountCode: "1100", Debit: money("108.00"), Credit: decimal.Zero},
			{LineID: "l2", AccountID: "acc-rev", AccountCode: "4000", Debit: decimal.Zero, Credit: money("100.00")},
			{LineID: "l3", AccountID: "acc-tax", AccountCode: "2100", Debit: decimal.Zero, Credit: money("8.00")},
		},
	}
	suite.store.journals.On("FindEntryByKey", mock.Anything, original.Key()).Return(original, nil)
	suite.expectPostable(roleAccounts())

	entry, err := suite.service.PostCancellation(suite.ctx, suite.store, sentInvoice())

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.EventInvoiceCancelled, entry.EventKind)
	suite.Equal("JE-000001", entry.ReversalOf)
	suite.Equal(fixedNow, entry.TransactionDate)
	suite.Require().Len(entry.Lines, 3)
	suite.assertLine(entry.Lines[0], "1100", "0", "108.00")
	suite.assertLine(entry.Lines[1], "4000", "100.00", "0")
	suite.assertLine(entry.Lines[2], "2100", "8.00", "0")
	suite.NotEqual("l1", entry.Lines[0].LineID)

	// The original is never rewritten.
	suite.True(original.Lines[0].Debit.Equal(money("108.00")))
}

func (suite *PostingServiceTestSuite) TestPostCancellation_NothingToReverse() {
	suite.store.journals.On("FindEntryByKey", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("no entry"))

	entry, err := suite.service.PostCancellation(suite.ctx, suite.store, sentInvoice())

	suite.NoError(err)
	suite.Nil(entry)
	suite.store.journals.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestListEntriesForInvoice() {
	entries := []domain.JournalEntry{{EntryNumber: "JE-000001"}, {EntryNumber: "JE-000002"}}
	suite.store.journals.On("ListEntriesByInvoice", mock.Anything, "inv-1").Return(entries, nil).Once()

	got, err := suite.service.ListEntriesForInvoice(suite.ctx, "inv-1")

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.store.journals.AssertExpectations(suite.T())
}

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
