package services

import "context"

// AccountRoleConfiguration maps ledger roles to account codes.
// Each method reports false when the role is not configured.
type AccountRoleConfiguration interface {
	CashAccountCode() (string, bool)
	AccountsReceivableCode() (string, bool)
	RevenueAccountCode() (string, bool)
	SalesTaxPayableCode() (string, bool)
}

// AuditIdentity resolves who performed an action, for audit stamps only.
type AuditIdentity interface {
	Resolve(ctx context.Context) string
}
