package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the natural balance of the type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a ledger account within the core domain.
// Balances are never stored; they are projected from posted journal lines.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Unique chart-of-accounts code
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID string      `json:"parentAccountID"` // Empty for root accounts
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	IsDeleted       bool        `json:"isDeleted"`
	AuditFields
}

// Postable reports whether new lines may reference the account.
func (a Account) Postable() bool {
	return a.IsActive && !a.IsDeleted
}
