package config

// AccountRoles maps ledger roles to configured account codes.
// An empty code means the role is not configured.
type AccountRoles struct {
	Cash       string
	Receivable string
	Revenue    string
	SalesTax   string
}

func (r AccountRoles) CashAccountCode() (string, bool)        { return r.Cash, r.Cash != "" }
func (r AccountRoles) AccountsReceivableCode() (string, bool) { return r.Receivable, r.Receivable != "" }
func (r AccountRoles) RevenueAccountCode() (string, bool)     { return r.Revenue, r.Revenue != "" }
func (r AccountRoles) SalesTaxPayableCode() (string, bool)    { return r.SalesTax, r.SalesTax != "" }

// Missing lists the environment keys of unconfigured roles in a fixed order.
func (r AccountRoles) Missing() []string {
	var missing []string
	for _, role := range []struct{ key, code string }{
		{"LEDGER_ACCOUNT_CASH", r.Cash},
		{"LEDGER_ACCOUNT_RECEIVABLE", r.Receivable},
		{"LEDGER_ACCOUNT_REVENUE", r.Revenue},
		{"LEDGER_ACCOUNT_SALES_TAX", r.SalesTax},
	} {
		if role.code == "" {
			missing = append(missing, role.key)
		}
	}
	return missing
}
