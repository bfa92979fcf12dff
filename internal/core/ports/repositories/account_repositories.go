package repositories

import (
	"context"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string, filter domain.DeletedFilter) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart-of-accounts code.
	FindAccountByCode(ctx context.Context, code string, filter domain.DeletedFilter) (*domain.Account, error)

	// FindAccountsByCodes retrieves accounts keyed by code, including soft-deleted ones.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by code.
	ListAccounts(ctx context.Context, filter domain.DeletedFilter, limit int, offset int) ([]domain.Account, error)

	// ListChildAccounts retrieves the direct children of an account.
	ListChildAccounts(ctx context.Context, parentAccountID string, filter domain.DeletedFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountParent re-points an account to a new parent. Empty parentAccountID makes it a root.
	UpdateAccountParent(ctx context.Context, accountID string, parentAccountID string, userID string, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// MarkAccountDeleted soft-deletes an account.
	MarkAccountDeleted(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountHierarchyLocker serializes hierarchy mutations for the rest of the transaction.
type AccountHierarchyLocker interface {
	LockHierarchy(ctx context.Context) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountHierarchyLocker
}
