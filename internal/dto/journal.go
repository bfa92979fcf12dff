package dto

import (
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineResponse defines the data returned for a journal entry line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	EntryNumber     string                `json:"entryNumber"`
	TransactionDate time.Time             `json:"transactionDate"`
	Description     string                `json:"description"`
	Reference       string                `json:"reference"`
	EventKind       string                `json:"eventKind"`
	ReversalOf      string                `json:"reversalOf,omitempty"`
	Lines           []JournalLineResponse `json:"lines"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:      l.LineID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		TransactionDate: e.TransactionDate,
		Description:     e.Description,
		Reference:       e.Reference,
		EventKind:       string(e.EventKind),
		ReversalOf:      e.ReversalOf,
		Lines:           lines,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

// ListLedgerParams defines query parameters for listing an account's ledger lines.
type ListLedgerParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerResponse wraps a page of ledger lines.
type ListLedgerResponse struct {
	Lines     []domain.LedgerLine `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}
