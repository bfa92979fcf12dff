package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/platform/config"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/repositories/memory"
)

// ledger is a fully wired service container over the in-memory store.
type ledger struct {
	*portssvc.ServiceContainer
	repos    portsrepo.RepositoryProvider
	customer *domain.Customer
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	cfg := &config.Config{
		Sequences: []config.SequenceConfig{
			{Kind: domain.SequenceInvoice, Prefix: "INV-", Width: 6},
			{Kind: domain.SequenceCustomer, Prefix: "CUST-", Width: 5},
			{Kind: domain.SequenceJournal, Prefix: "JE-", Width: 6},
		},
		AccountRoles: testRoles,
	}
	repos := memory.New().Provider()
	l := &ledger{ServiceContainer: services.NewServiceContainer(cfg, repos, testOptions()...), repos: repos}

	ctx := context.Background()
	for _, req := range []dto.CreateAccountRequest{
		{Code: "1000", Name: "Cash", AccountType: domain.Asset},
		{Code: "1100", Name: "Accounts receivable", AccountType: domain.Asset},
		{Code: "2100", Name: "Sales tax payable", AccountType: domain.Liability},
		{Code: "4000", Name: "Revenue", AccountType: domain.Revenue},
	} {
		_, err := l.Account.CreateAccount(ctx, req)
		require.NoError(t, err)
	}

	customer, err := l.Customer.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Acme Ltd"})
	require.NoError(t, err)
	l.customer = customer
	return l
}

func (l *ledger) draft(t *testing.T, unitPrice string, taxRate int64) *domain.Invoice {
	t.Helper()
	inv, err := l.Invoice.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
		CustomerID:  l.customer.CustomerID,
		InvoiceDate: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Items:       []dto.InvoiceItemRequest{{Description: "Services", Quantity: decimal.NewFromInt(1), UnitPrice: money(unitPrice)}},
		TaxRate:     decimal.NewFromInt(taxRate),
	})
	require.NoError(t, err)
	return inv
}

func (l *ledger) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	b, err := l.Balance.BalanceOf(context.Background(), code)
	require.NoError(t, err)
	return b
}

func (l *ledger) assertBalance(t *testing.T, code, want string) {
	t.Helper()
	got := l.balance(t, code)
	assert.True(t, money(want).Equal(got), "balance of %s: want %s, got %s", code, want, got)
}

func TestLedger_ConcurrentAllocationIsUnique(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	const workers, perWorker = 16, 25
	codes := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				code, err := l.Sequence.AllocateNext(ctx, domain.SequenceJournal)
				if assert.NoError(t, err) {
					codes <- code
				}
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
	assert.Len(t, seen, workers*perWorker)
	assert.True(t, seen["JE-000001"])
	assert.True(t, seen["JE-000400"])
}

func TestLedger_ConcurrentInvoicesGetDistinctNumbers(t *testing.T) {
	l := newLedger(t)

	const n = 20
	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inv, err := l.Invoice.CreateInvoice(context.Background(), dto.CreateInvoiceRequest{
				CustomerID:  l.customer.CustomerID,
				InvoiceDate: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
				DueDate:     time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
				Items:       []dto.InvoiceItemRequest{{Description: "x", Quantity: decimal.NewFromInt(1), UnitPrice: money("1.00")}},
			})
			if assert.NoError(t, err) {
				numbers[i] = inv.InvoiceNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, num := range numbers {
		assert.False(t, seen[num], "duplicate invoice number %s", num)
		seen[num] = true
	}
}

func TestLedger_SendPostsBalancedEntry(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "100.00", 8)

	sent, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.SendAction())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceSent, sent.Status)

	l.assertBalance(t, "1100", "108.00")
	l.assertBalance(t, "4000", "100.00")
	l.assertBalance(t, "2100", "8.00")

	entries, err := l.Posting.ListEntriesForInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	debits, credits := entries[0].Totals()
	assert.True(t, debits.Equal(credits))
	assert.Equal(t, "JE-000001", entries[0].EntryNumber)
}

func TestLedger_CancelRestoresBalances(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "100.00", 8)

	_, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.SendAction())
	require.NoError(t, err)
	cancelled, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.CancelAction())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceCancelled, cancelled.Status)

	for _, code := range []string{"1000", "1100", "2100", "4000"} {
		l.assertBalance(t, code, "0")
	}

	entries, err := l.Posting.ListEntriesForInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	original, reversal := entries[0], entries[1]
	assert.Equal(t, original.EntryNumber, reversal.ReversalOf)
	require.Len(t, reversal.Lines, len(original.Lines))
	for i := range original.Lines {
		assert.Equal(t, original.Lines[i].AccountCode, reversal.Lines[i].AccountCode)
		assert.True(t, original.Lines[i].Debit.Equal(reversal.Lines[i].Credit))
		assert.True(t, original.Lines[i].Credit.Equal(reversal.Lines[i].Debit))
	}

	_, err = l.Invoice.Transition(ctx, inv.InvoiceID, domain.CancelAction())
	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
}

func TestLedger_PartialPaymentsThenOverpayment(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "100.00", 0)

	_, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.SendAction())
	require.NoError(t, err)

	partial, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.PayAction(money("40.00"), ""))
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePartiallyPaid, partial.Status)

	_, err = l.Invoice.Transition(ctx, inv.InvoiceID, domain.PayAction(money("60.01"), ""))
	var over *apperrors.OverpaymentError
	require.ErrorAs(t, err, &over)
	assert.True(t, money("60.00").Equal(over.Outstanding))

	paid, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.PayAction(money("60.00"), ""))
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, paid.Status)
	assert.Equal(t, 2, paid.PaymentCount)

	_, err = l.Invoice.Transition(ctx, inv.InvoiceID, domain.PayAction(money("0.01"), ""))
	assert.ErrorIs(t, err, apperrors.ErrOverpayment)

	l.assertBalance(t, "1000", "100.00")
	l.assertBalance(t, "1100", "0")
	l.assertBalance(t, "4000", "100.00")

	entries, err := l.Posting.ListEntriesForInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.PaymentEventKind("#1"), entries[1].EventKind)
	assert.Equal(t, domain.PaymentEventKind("#2"), entries[2].EventKind)
}

func TestLedger_FailedTransitionLeavesNoTrace(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "100.00", 8)

	require.NoError(t, l.Account.DeactivateAccount(ctx, "4000"))

	_, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.SendAction())
	assert.ErrorIs(t, err, apperrors.ErrAccountNotConfigured)

	got, err := l.Invoice.GetInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceDraft, got.Status)

	entries, err := l.Posting.ListEntriesForInvoice(ctx, inv.InvoiceID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLedger_DuplicatePostingIsRejected(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "100.00", 8)

	tx := l.repos.TxManager
	err := tx.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		_, err := l.Posting.PostInvoiceCreated(ctx, store, *inv)
		return err
	})
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		_, err := l.Posting.PostInvoiceCreated(ctx, store, *inv)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicatePosting)
	l.assertBalance(t, "1100", "108.00")
}

func TestLedger_CustomerDeleteConflictsWithLiveInvoice(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "10.00", 0)

	err := l.Customer.DeleteCustomer(ctx, l.customer.CustomerID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, l.Invoice.DeleteInvoice(ctx, inv.InvoiceID))
	require.NoError(t, l.Customer.DeleteCustomer(ctx, l.customer.CustomerID))
	require.NoError(t, l.Customer.DeleteCustomer(ctx, l.customer.CustomerID))

	_, err = l.Customer.GetCustomer(ctx, l.customer.CustomerID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedger_OverdueIsDerivedOnRead(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	inv := l.draft(t, "10.00", 0)

	sent, err := l.Invoice.Transition(ctx, inv.InvoiceID, domain.SendAction())
	require.NoError(t, err)

	assert.Equal(t, domain.InvoiceOverdue, sent.EffectiveStatus(sent.DueDate.Add(time.Hour)))
	assert.Equal(t, domain.InvoiceSent, sent.EffectiveStatus(sent.DueDate))
	assert.Equal(t, domain.InvoiceSent, sent.Status)
}
