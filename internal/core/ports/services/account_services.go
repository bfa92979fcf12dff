package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByCode retrieves a non-deleted account by its code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account, optionally under an existing parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive so it can no longer be posted to.
	DeactivateAccount(ctx context.Context, code string) error

	// DeleteAccount soft-deletes an account. Historical lines stay valid.
	DeleteAccount(ctx context.Context, code string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
