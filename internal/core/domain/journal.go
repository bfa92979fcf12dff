package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventKind names the business event a journal entry was posted for.
type EventKind string

const (
	EventInvoiceCreated   EventKind = "INVOICE_CREATED"
	EventInvoiceCancelled EventKind = "INVOICE_CANCELLED"

	paymentEventPrefix = "PAYMENT:"
)

// PaymentEventKind builds the event kind for a payment identified by reference.
func PaymentEventKind(reference string) EventKind {
	return EventKind(paymentEventPrefix + reference)
}

// IsPayment reports whether k was produced by PaymentEventKind.
func (k EventKind) IsPayment() bool {
	return strings.HasPrefix(string(k), paymentEventPrefix)
}

// PostingKey is the idempotency key of a posting.
type PostingKey struct {
	SourceInvoiceID string
	EventKind       EventKind
}

// JournalEntry represents a single balanced posting composed of lines.
// Posted entries are never updated; corrections are new reversing entries.
type JournalEntry struct {
	EntryID         string             `json:"entryID"`
	EntryNumber     string             `json:"entryNumber"`
	TransactionDate time.Time          `json:"transactionDate"`
	Description     string             `json:"description"`
	Reference       string             `json:"reference"`
	IsPosted        bool               `json:"isPosted"`
	SourceInvoiceID string             `json:"sourceInvoiceID"`
	EventKind       EventKind          `json:"eventKind"`
	ReversalOf      string             `json:"reversalOf,omitempty"` // Entry number of the reversed entry
	Lines           []JournalEntryLine `json:"lines"`
	AuditFields
}

// Key returns the idempotency key of the entry.
func (e JournalEntry) Key() PostingKey {
	return PostingKey{SourceInvoiceID: e.SourceInvoiceID, EventKind: e.EventKind}
}

// Totals sums the debit and credit sides of the entry.
func (e JournalEntry) Totals() (debits, credits decimal.Decimal) {
	return SumLines(e.Lines)
}
