package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceReaderSvc projects account balances from posted lines.
type BalanceReaderSvc interface {
	// BalanceOf returns the natural-sign balance of the account plus all of its
	// non-deleted descendants, computed at read time.
	BalanceOf(ctx context.Context, accountCode string) (decimal.Decimal, error)

	// ListAccountEntries retrieves a page of posted lines touching the account.
	ListAccountEntries(ctx context.Context, accountCode string, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error)
}

// HierarchyWriterSvc mutates the account hierarchy.
type HierarchyWriterSvc interface {
	// SetParent moves an account under parentCode, or to the root when parentCode is nil.
	// A move that would create a cycle fails with *apperrors.CycleError and changes nothing.
	SetParent(ctx context.Context, accountCode string, parentCode *string) error
}

// BalanceSvcFacade combines balance projection and hierarchy mutation
type BalanceSvcFacade interface {
	BalanceReaderSvc
	HierarchyWriterSvc
}
