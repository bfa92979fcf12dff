package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
)

// Ledger roles resolved through AccountRoleConfiguration.
const (
	RoleCash               = "CASH"
	RoleAccountsReceivable = "ACCOUNTS_RECEIVABLE"
	RoleRevenue            = "REVENUE"
	RoleSalesTaxPayable    = "SALES_TAX_PAYABLE"
)

// postingService builds journal entries for invoice events and commits them
// through the caller's store.
type postingService struct {
	BaseService
	journalRepo portsrepo.JournalReader
	roles       portssvc.AccountRoleConfiguration
	validator   portssvc.JournalValidatorSvc
	sequences   portssvc.SequenceAllocatorWithTxSvc
}

// NewPostingService creates a new PostingSvcFacade.
func NewPostingService(
	journalRepo portsrepo.JournalReader,
	roles portssvc.AccountRoleConfiguration,
	validator portssvc.JournalValidatorSvc,
	sequences portssvc.SequenceAllocatorWithTxSvc,
	opts ...Option,
) portssvc.PostingSvcFacade {
	return &postingService{
		BaseService: newBaseService(opts),
		journalRepo: journalRepo,
		roles:       roles,
		validator:   validator,
		sequences:   sequences,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// entryDraft is a candidate entry before validation and numbering.
type entryDraft struct {
	invoiceID   string
	kind        domain.EventKind
	date        time.Time
	description string
	reference   string
	reversalOf  string
	lines       []domain.JournalEntryLine
}

func debit(code string, amount decimal.Decimal, description string) domain.JournalEntryLine {
	return domain.JournalEntryLine{AccountCode: code, Debit: amount, Credit: decimal.Zero, Description: description}
}

func credit(code string, amount decimal.Decimal, description string) domain.JournalEntryLine {
	return domain.JournalEntryLine{AccountCode: code, Debit: decimal.Zero, Credit: amount, Description: description}
}

func (s *postingService) roleCode(role string) (string, bool) {
	switch role {
	case RoleCash:
		return s.roles.CashAccountCode()
	case RoleAccountsReceivable:
		return s.roles.AccountsReceivableCode()
	case RoleRevenue:
		return s.roles.RevenueAccountCode()
	case RoleSalesTaxPayable:
		return s.roles.SalesTaxPayableCode()
	}
	return "", false
}

// resolveRoles maps each role to a postable account code or fails with AccountNotConfiguredError.
func (s *postingService) resolveRoles(ctx context.Context, store portsrepo.Store, roles ...string) (map[string]string, error) {
	codes := make(map[string]string, len(roles))
	wanted := make([]string, 0, len(roles))
	for _, role := range roles {
		code, ok := s.roleCode(role)
		if !ok || code == "" {
			return nil, &apperrors.AccountNotConfiguredError{Role: role}
		}
		codes[role] = code
		wanted = append(wanted, code)
	}

	accounts, err := store.Accounts().FindAccountsByCodes(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ledger roles: %w", err)
	}

	for _, role := range roles {
		code := codes[role]
		acc, ok := accounts[code]
		switch {
		case !ok:
			return nil, &apperrors.AccountNotConfiguredError{Role: role, AccountCode: code, Reason: "missing"}
		case acc.IsDeleted:
			return nil, &apperrors.AccountNotConfiguredError{Role: role, AccountCode: code, Reason: "deleted"}
		case !acc.IsActive:
			return nil, &apperrors.AccountNotConfiguredError{Role: role, AccountCode: code, Reason: "inactive"}
		}
	}
	return codes, nil
}

// PostInvoiceCreated implements portssvc.PostingWriterSvc
func (s *postingService) PostInvoiceCreated(ctx context.Context, store portsrepo.Store, invoice domain.Invoice) (*domain.JournalEntry, error) {
	roles := []string{RoleAccountsReceivable, RoleRevenue}
	if !invoice.TaxAmount.IsZero() {
		roles = append(roles, RoleSalesTaxPayable)
	}
	codes, err := s.resolveRoles(ctx, store, roles...)
	if err != nil {
		return nil, err
	}

	expected := invoice.Subtotal.Add(invoice.TaxAmount).Sub(invoice.DiscountAmount)
	if !expected.Equal(invoice.TotalAmount) {
		return nil, &apperrors.ValidationError{Violations: []apperrors.Violation{{
			Code:      apperrors.ViolationInvalidTotals,
			LineIndex: -1,
			Message: fmt.Sprintf("total %s does not equal subtotal %s + tax %s - discount %s",
				invoice.TotalAmount, invoice.Subtotal, invoice.TaxAmount, invoice.DiscountAmount),
			Delta: invoice.TotalAmount.Sub(expected),
		}}}
	}

	desc := "Invoice " + invoice.InvoiceNumber
	lines := []domain.JournalEntryLine{
		debit(codes[RoleAccountsReceivable], invoice.TotalAmount, desc),
	}
	if revenue := invoice.Subtotal.Sub(invoice.DiscountAmount); !revenue.IsZero() {
		lines = append(lines, credit(codes[RoleRevenue], revenue, desc))
	}
	if !invoice.TaxAmount.IsZero() {
		lines = append(lines, credit(codes[RoleSalesTaxPayable], invoice.TaxAmount, desc+" sales tax"))
	}

	return s.post(ctx, store, entryDraft{
		invoiceID:   invoice.InvoiceID,
		kind:        domain.EventInvoiceCreated,
		date:        invoice.InvoiceDate,
		description: desc,
		reference:   invoice.InvoiceNumber,
		lines:       lines,
	})
}

// PostPayment implements portssvc.PostingWriterSvc. Without a caller reference the
// payment is keyed by its ordinal on the invoice.
func (s *postingService) PostPayment(ctx context.Context, store portsrepo.Store, invoice domain.Invoice, amount decimal.Decimal, reference string) (*domain.JournalEntry, error) {
	codes, err := s.resolveRoles(ctx, store, RoleCash, RoleAccountsReceivable)
	if err != nil {
		return nil, err
	}

	if reference == "" {
		reference = fmt.Sprintf("#%d", invoice.PaymentCount+1)
	}
	desc := fmt.Sprintf("Payment %s for invoice %s", reference, invoice.InvoiceNumber)

	return s.post(ctx, store, entryDraft{
		invoiceID:   invoice.InvoiceID,
		kind:        domain.PaymentEventKind(reference),
		date:        s.Now(),
		description: desc,
		reference:   reference,
		lines: []domain.JournalEntryLine{
			debit(codes[RoleCash], amount, desc),
			credit(codes[RoleAccountsReceivable], amount, desc),
		},
	})
}

// PostCancellation implements portssvc.PostingWriterSvc
func (s *postingService) PostCancellation(ctx context.Context, store portsrepo.Store, invoice domain.Invoice) (*domain.JournalEntry, error) {
	original, err := store.Journals().FindEntryByKey(ctx, domain.PostingKey{
		SourceInvoiceID: invoice.InvoiceID,
		EventKind:       domain.EventInvoiceCreated,
	})
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogDebug(ctx, "No creation posting to reverse", slog.String("invoice_id", invoice.InvoiceID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load original posting: %w", err)
	}

	lines := make([]domain.JournalEntryLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = l.Reversed()
	}

	return s.post(ctx, store, entryDraft{
		invoiceID:   invoice.InvoiceID,
		kind:        domain.EventInvoiceCancelled,
		date:        s.Now(),
		description: "Reversal of " + original.EntryNumber,
		reference:   invoice.InvoiceNumber,
		reversalOf:  original.EntryNumber,
		lines:       lines,
	})
}

// post validates, checks the idempotency key, numbers and saves an entry, in that order.
func (s *postingService) post(ctx context.Context, store portsrepo.Store, draft entryDraft) (*domain.JournalEntry, error) {
	codes := make([]string, 0, len(draft.lines))
	for _, l := range draft.lines {
		codes = append(codes, l.AccountCode)
	}
	accounts, err := store.Accounts().FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting accounts: %w", err)
	}

	lookup := func(code string) (domain.Account, bool) {
		acc, ok := accounts[code]
		return acc, ok
	}
	if err := s.validator.Validate(draft.lines, lookup); err != nil {
		return nil, err
	}

	key := domain.PostingKey{SourceInvoiceID: draft.invoiceID, EventKind: draft.kind}
	_, err = store.Journals().FindEntryByKey(ctx, key)
	switch {
	case err == nil:
		return nil, &apperrors.DuplicatePostingError{SourceInvoiceID: key.SourceInvoiceID, EventKind: string(key.EventKind)}
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("failed to check posting key: %w", err)
	}

	number, err := s.sequences.AllocateNextInTx(ctx, store, domain.SequenceJournal)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	actor := s.Actor(ctx)
	entry := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryNumber:     number,
		TransactionDate: draft.date,
		Description:     draft.description,
		Reference:       draft.reference,
		IsPosted:        true,
		SourceInvoiceID: draft.invoiceID,
		EventKind:       draft.kind,
		ReversalOf:      draft.reversalOf,
		Lines:           make([]domain.JournalEntryLine, len(draft.lines)),
	}
	entry.Stamp(actor, now)
	for i, l := range draft.lines {
		l.LineID = uuid.NewString()
		l.EntryID = entry.EntryID
		l.AccountID = accounts[l.AccountCode].AccountID
		l.LineOrder = i
		entry.Lines[i] = l
	}

	if err := store.Journals().SaveEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Journal entry posted",
		slog.String("entry_number", entry.EntryNumber),
		slog.String("invoice_id", entry.SourceInvoiceID),
		slog.String("event_kind", string(entry.EventKind)))
	return &entry, nil
}

// ListEntriesForInvoice implements portssvc.PostingReaderSvc
func (s *postingService) ListEntriesForInvoice(ctx context.Context, invoiceID string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListEntriesByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for invoice %s: %w", invoiceID, err)
	}
	return entries, nil
}
