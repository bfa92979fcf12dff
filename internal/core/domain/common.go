package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
// CreatedBy and LastUpdatedBy carry whatever the audit identity resolver returned.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Stamp sets both the creation and update audit fields.
func (a *AuditFields) Stamp(by string, at time.Time) {
	a.CreatedAt = at
	a.CreatedBy = by
	a.LastUpdatedAt = at
	a.LastUpdatedBy = by
}

// Touch sets the update audit fields.
func (a *AuditFields) Touch(by string, at time.Time) {
	a.LastUpdatedAt = at
	a.LastUpdatedBy = by
}

// DeletedFilter is passed explicitly to every read path that may see soft-deleted rows.
type DeletedFilter int

const (
	ExcludeDeleted DeletedFilter = iota
	IncludeDeleted
)

// Allows reports whether a row with the given deleted flag passes the filter.
func (f DeletedFilter) Allows(isDeleted bool) bool {
	return f == IncludeDeleted || !isDeleted
}

// MoneyScale is the number of fractional digits in the minor currency unit.
const MoneyScale int32 = 2

// IsMinorUnit reports whether amount has no precision finer than the minor currency unit.
func IsMinorUnit(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyScale))
}

// RoundMoney rounds half away from zero to the minor currency unit.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyScale)
}
