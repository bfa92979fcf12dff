package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/pagination"
)

type journalRepo struct{ handle }

var _ portsrepo.JournalRepositoryFacade = (*journalRepo)(nil)

func copyEntry(e domain.JournalEntry) domain.JournalEntry {
	e.Lines = append([]domain.JournalEntryLine(nil), e.Lines...)
	return e
}

func (r *journalRepo) FindEntryByKey(_ context.Context, key domain.PostingKey) (*domain.JournalEntry, error) {
	st, done := r.read()
	defer done()

	for _, e := range st.entries {
		if e.IsPosted && e.Key() == key {
			found := copyEntry(e)
			return &found, nil
		}
	}
	return nil, apperrors.NewNotFoundError("journal entry for " + key.SourceInvoiceID + "/" + string(key.EventKind))
}

func (r *journalRepo) ListEntriesByInvoice(_ context.Context, invoiceID string) ([]domain.JournalEntry, error) {
	st, done := r.read()
	defer done()

	entries := []domain.JournalEntry{}
	for _, e := range st.entries {
		if e.SourceInvoiceID == invoiceID {
			entries = append(entries, copyEntry(e))
		}
	}
	return entries, nil
}

func (r *journalRepo) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	st, done := r.write()
	defer done()

	for _, e := range st.entries {
		if e.Key() == entry.Key() {
			return &apperrors.DuplicatePostingError{SourceInvoiceID: entry.SourceInvoiceID, EventKind: string(entry.EventKind)}
		}
		if e.EntryNumber == entry.EntryNumber {
			return apperrors.ErrDuplicate
		}
	}
	st.entries = append(st.entries, copyEntry(entry))
	return nil
}

func (r *journalRepo) SumNetByAccountIDs(_ context.Context, accountIDs []string) (map[string]decimal.Decimal, error) {
	st, done := r.read()
	defer done()

	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	sums := make(map[string]decimal.Decimal)
	for _, e := range st.entries {
		if !e.IsPosted {
			continue
		}
		for _, l := range e.Lines {
			if wanted[l.AccountID] {
				sums[l.AccountID] = sums[l.AccountID].Add(l.Net())
			}
		}
	}
	return sums, nil
}

func (r *journalRepo) ListLinesByAccountID(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	st, done := r.read()
	defer done()

	var lines []domain.LedgerLine
	for _, e := range st.entries {
		if !e.IsPosted {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				lines = append(lines, domain.LedgerLine{
					JournalEntryLine: l,
					EntryNumber:      e.EntryNumber,
					TransactionDate:  e.TransactionDate,
					ReversalOf:       e.ReversalOf,
					CreatedAt:        e.CreatedAt,
				})
			}
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return pagination.After(lines[j].TransactionDate, lines[j].CreatedAt, lines[i].TransactionDate, lines[i].CreatedAt)
	})

	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		start := len(lines)
		for i, l := range lines {
			if pagination.After(l.TransactionDate, l.CreatedAt, cursorDate, cursorCreated) {
				start = i
				break
			}
		}
		lines = lines[start:]
	}

	var next *string
	if len(lines) > limit {
		last := lines[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		next = &token
		lines = lines[:limit]
	}
	if lines == nil {
		lines = []domain.LedgerLine{}
	}
	return lines, next, nil
}
