package accounting

import (
	"fmt"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NaturalBalance applies the natural-balance sign convention of accountType to a raw
// debit-minus-credit amount. This is used in both services and repositories to ensure
// consistent accounting logic.
func NaturalBalance(net decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Delta returns sum(debits) - sum(credits) over lines. A balanced entry has a zero delta.
func Delta(lines []domain.JournalEntryLine) decimal.Decimal {
	debits, credits := domain.SumLines(lines)
	return debits.Sub(credits)
}

// MalformedReason describes why a line breaks the one-sided, non-negative, minor-unit
// line rules, or returns "" when the line is well formed.
func MalformedReason(line domain.JournalEntryLine) string {
	switch {
	case line.Debit.IsNegative() || line.Credit.IsNegative():
		return "debit and credit must not be negative"
	case !line.Debit.IsZero() && !line.Credit.IsZero():
		return "only one of debit or credit may be nonzero"
	case line.Debit.IsZero() && line.Credit.IsZero():
		return "one of debit or credit must be nonzero"
	case !domain.IsMinorUnit(line.Debit) || !domain.IsMinorUnit(line.Credit):
		return "amount is finer than the minor currency unit"
	}
	return ""
}
