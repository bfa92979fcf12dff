package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
	hierarchy   hierarchyGuard
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountReader, txManager portsrepo.TransactionManager, opts ...Option) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts),
		accountRepo: repo,
		txManager:   txManager,
		hierarchy:   hierarchyGuard{maxDepth: DefaultMaxHierarchyDepth},
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount implements portssvc.AccountWriterSvc
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	if req.Code == "" {
		return nil, apperrors.NewInputError("account code is required")
	}
	if !req.AccountType.Valid() {
		return nil, apperrors.NewInputError("invalid account type %q", req.AccountType)
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
	}
	account.Stamp(s.Actor(ctx), s.Now())

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if req.ParentCode != nil {
			// Held until commit so DeleteAccount cannot remove the parent underneath us.
			if err := store.Accounts().LockHierarchy(ctx); err != nil {
				return fmt.Errorf("failed to lock account hierarchy: %w", err)
			}
			parent, err := store.Accounts().FindAccountByCode(ctx, *req.ParentCode, domain.ExcludeDeleted)
			if err != nil {
				return fmt.Errorf("parent account %s: %w", *req.ParentCode, err)
			}
			if err := s.hierarchy.checkNewChild(ctx, store.Accounts(), account.Code, parent); err != nil {
				return err
			}
			account.ParentAccountID = parent.AccountID
		}
		return store.Accounts().SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByCode implements portssvc.AccountReaderSvc
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code, domain.ExcludeDeleted)
}

// ListAccounts implements portssvc.AccountReaderSvc
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := domain.ExcludeDeleted
	if params.IncludeDeleted {
		filter = domain.IncludeDeleted
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, filter, limit, offset)
}

// DeactivateAccount implements portssvc.AccountWriterSvc
func (s *accountService) DeactivateAccount(ctx context.Context, code string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		acc, err := store.Accounts().FindAccountByCode(ctx, code, domain.ExcludeDeleted)
		if err != nil {
			return err
		}
		if !acc.IsActive {
			return nil
		}
		return store.Accounts().DeactivateAccount(ctx, acc.AccountID, s.Actor(ctx), s.Now())
	})
}

// DeleteAccount implements portssvc.AccountWriterSvc. Accounts with live children must be
// emptied or re-parented first.
func (s *accountService) DeleteAccount(ctx context.Context, code string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		accounts := store.Accounts()
		if err := accounts.LockHierarchy(ctx); err != nil {
			return fmt.Errorf("failed to lock account hierarchy: %w", err)
		}
		acc, err := accounts.FindAccountByCode(ctx, code, domain.IncludeDeleted)
		if err != nil {
			return err
		}
		if acc.IsDeleted {
			return nil
		}
		children, err := accounts.ListChildAccounts(ctx, acc.AccountID, domain.ExcludeDeleted)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return &apperrors.ConflictError{
				Resource: "account " + code,
				Reason:   fmt.Sprintf("account has %d child account(s)", len(children)),
			}
		}
		return accounts.MarkAccountDeleted(ctx, acc.AccountID, s.Actor(ctx), s.Now())
	})
}
