package dto

import (
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required,max=20"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentCode  *string            `json:"parentCode"` // Optional, use pointer for nullability
	Description string             `json:"description"`
}

// SetParentRequest moves an account under a new parent. A null parentCode makes it a root.
type SetParentRequest struct {
	ParentCode *string `json:"parentCode"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID"` // Empty string for root accounts
	Description     string             `json:"description"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
// The balance includes every non-deleted descendant account.
type AccountBalanceResponse struct {
	Code    string          `json:"code"`
	Balance decimal.Decimal `json:"balance"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit          int  `form:"limit,default=20" binding:"min=1,max=100"`
	Offset         int  `form:"offset,default=0" binding:"min=0"`
	IncludeDeleted bool `form:"includeDeleted"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
