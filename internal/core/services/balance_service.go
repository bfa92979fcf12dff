package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/accounting"
)

// balanceService projects balances from posted lines and guards the account hierarchy.
type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.LedgerLineReader
	txManager   portsrepo.TransactionManager
	hierarchy   hierarchyGuard
}

// NewBalanceService creates a new BalanceSvcFacade.
func NewBalanceService(
	accountRepo portsrepo.AccountReader,
	journalRepo portsrepo.LedgerLineReader,
	txManager portsrepo.TransactionManager,
	opts ...Option,
) portssvc.BalanceSvcFacade {
	return &balanceService{
		BaseService: newBaseService(opts),
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
		hierarchy:   hierarchyGuard{maxDepth: DefaultMaxHierarchyDepth},
	}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// BalanceOf implements portssvc.BalanceReaderSvc. The subtree's raw debit-minus-credit
// total is signed by the natural balance of the queried account.
func (s *balanceService) BalanceOf(ctx context.Context, accountCode string) (decimal.Decimal, error) {
	acc, err := s.accountRepo.FindAccountByCode(ctx, accountCode, domain.ExcludeDeleted)
	if err != nil {
		return decimal.Zero, err
	}

	ids, err := s.subtree(ctx, acc)
	if err != nil {
		return decimal.Zero, err
	}

	sums, err := s.journalRepo.SumNetByAccountIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountCode, err)
	}

	net := decimal.Zero
	for _, id := range ids {
		net = net.Add(sums[id])
	}

	balance, err := accounting.NaturalBalance(net, acc.AccountType)
	if err != nil {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountCode, err)
	}

	s.LogDebug(ctx, "Projected account balance",
		slog.String("account_code", accountCode),
		slog.Int("subtree_size", len(ids)),
		slog.String("balance", balance.String()))
	return balance, nil
}

// subtree collects the ids of root and its non-deleted descendants breadth first.
// Mutations keep trees within the depth limit, so hitting it here means the stored hierarchy is corrupt.
func (s *balanceService) subtree(ctx context.Context, root *domain.Account) ([]string, error) {
	ids := []string{root.AccountID}
	visited := map[string]bool{root.AccountID: true}
	frontier := []string{root.AccountID}

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= s.hierarchy.maxDepth {
			return nil, apperrors.NewAppError(500, fmt.Sprintf("account hierarchy below %s exceeds %d levels", root.Code, s.hierarchy.maxDepth), nil)
		}
		var next []string
		for _, parentID := range frontier {
			children, err := s.accountRepo.ListChildAccounts(ctx, parentID, domain.ExcludeDeleted)
			if err != nil {
				return nil, fmt.Errorf("failed to list children of %s: %w", parentID, err)
			}
			for _, child := range children {
				if visited[child.AccountID] {
					continue
				}
				visited[child.AccountID] = true
				ids = append(ids, child.AccountID)
				next = append(next, child.AccountID)
			}
		}
		frontier = next
	}
	return ids, nil
}

// SetParent implements portssvc.HierarchyWriterSvc
func (s *balanceService) SetParent(ctx context.Context, accountCode string, parentCode *string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		accounts := store.Accounts()
		if err := accounts.LockHierarchy(ctx); err != nil {
			return fmt.Errorf("failed to lock account hierarchy: %w", err)
		}

		acc, err := accounts.FindAccountByCode(ctx, accountCode, domain.ExcludeDeleted)
		if err != nil {
			return err
		}

		parentID := ""
		if parentCode != nil {
			if *parentCode == accountCode {
				return &apperrors.CycleError{AccountCode: accountCode, ParentCode: *parentCode}
			}
			parent, err := accounts.FindAccountByCode(ctx, *parentCode, domain.ExcludeDeleted)
			if err != nil {
				return err
			}
			if err := s.hierarchy.checkMove(ctx, accounts, acc, parent); err != nil {
				return err
			}
			parentID = parent.AccountID
		}

		if acc.ParentAccountID == parentID {
			return nil
		}
		if err := accounts.UpdateAccountParent(ctx, acc.AccountID, parentID, s.Actor(ctx), s.Now()); err != nil {
			return err
		}

		s.LogDebug(ctx, "Account parent changed", slog.String("account_code", accountCode), slog.String("parent_account_id", parentID))
		return nil
	})
}

// ListAccountEntries implements portssvc.BalanceReaderSvc
func (s *balanceService) ListAccountEntries(ctx context.Context, accountCode string, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error) {
	acc, err := s.accountRepo.FindAccountByCode(ctx, accountCode, domain.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, next, err := s.journalRepo.ListLinesByAccountID(ctx, acc.AccountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []domain.LedgerLine{}
	}
	return &dto.ListLedgerResponse{Lines: lines, NextToken: next}, nil
}
