package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntryLine affects exactly one account with either a debit or a credit.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	LineOrder   int             `json:"lineOrder"`
}

// Reversed returns a copy of the line with debit and credit swapped.
func (l JournalEntryLine) Reversed() JournalEntryLine {
	r := l
	r.LineID = ""
	r.EntryID = ""
	r.Debit, r.Credit = l.Credit, l.Debit
	return r
}

// Net returns debit minus credit for the line.
func (l JournalEntryLine) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// SumLines totals the debit and credit sides of lines.
func SumLines(lines []JournalEntryLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// LedgerLine is a posted line joined with its entry header, as shown on an account ledger.
type LedgerLine struct {
	JournalEntryLine
	EntryNumber     string    `json:"entryNumber"`
	TransactionDate time.Time `json:"transactionDate"`
	ReversalOf      string    `json:"reversalOf,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
