package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID         string         `db:"entry_id"`
	EntryNumber     string         `db:"entry_number"`
	TransactionDate time.Time      `db:"transaction_date"`
	Description     string         `db:"description"`
	Reference       string         `db:"reference"`
	IsPosted        bool           `db:"is_posted"`
	SourceInvoiceID sql.NullString `db:"source_invoice_id"`
	EventKind       string         `db:"event_kind"`
	ReversalOf      sql.NullString `db:"reversal_of"`
	AuditFields
}

// JournalEntryLine is a row of the journal_entry_lines table.
type JournalEntryLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	LineOrder   int             `db:"line_order"`
}
