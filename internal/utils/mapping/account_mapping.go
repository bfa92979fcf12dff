package mapping

import (
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		ParentAccountID: ToNullString(d.ParentAccountID),
		Description:     d.Description,
		IsActive:        d.IsActive,
		IsDeleted:       d.IsDeleted,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		ParentAccountID: m.ParentAccountID.String,
		Description:     m.Description,
		IsActive:        m.IsActive,
		IsDeleted:       m.IsDeleted,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
