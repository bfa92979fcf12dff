package mapping

import (
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		EntryNumber:     d.EntryNumber,
		TransactionDate: d.TransactionDate,
		Description:     d.Description,
		Reference:       d.Reference,
		IsPosted:        d.IsPosted,
		SourceInvoiceID: ToNullString(d.SourceInvoiceID),
		EventKind:       string(d.EventKind),
		ReversalOf:      ToNullString(d.ReversalOf),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:         m.EntryID,
		EntryNumber:     m.EntryNumber,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Reference:       m.Reference,
		IsPosted:        m.IsPosted,
		SourceInvoiceID: m.SourceInvoiceID.String,
		EventKind:       domain.EventKind(m.EventKind),
		ReversalOf:      m.ReversalOf.String,
		Lines:           ToDomainJournalEntryLines(lines),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain JournalEntryLine to a model JournalEntryLine
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		LineOrder:   d.LineOrder,
	}
}

// ToDomainJournalEntryLine converts a model JournalEntryLine to a domain JournalEntryLine
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		LineOrder:   m.LineOrder,
	}
}

// ToDomainJournalEntryLines converts a slice of model lines to a slice of domain lines
func ToDomainJournalEntryLines(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
