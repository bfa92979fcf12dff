package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

type accountRepo struct{ handle }

var _ portsrepo.AccountRepositoryFacade = (*accountRepo)(nil)

func (r *accountRepo) FindAccountByID(_ context.Context, accountID string, filter domain.DeletedFilter) (*domain.Account, error) {
	st, done := r.read()
	defer done()

	acc, ok := st.accounts[accountID]
	if !ok || !filter.Allows(acc.IsDeleted) {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &acc, nil
}

func (r *accountRepo) FindAccountByCode(_ context.Context, code string, filter domain.DeletedFilter) (*domain.Account, error) {
	st, done := r.read()
	defer done()

	for _, acc := range st.accounts {
		if acc.Code == code && filter.Allows(acc.IsDeleted) {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account " + code)
}

func (r *accountRepo) FindAccountsByCodes(_ context.Context, codes []string) (map[string]domain.Account, error) {
	st, done := r.read()
	defer done()

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}
	result := make(map[string]domain.Account, len(codes))
	for _, acc := range st.accounts {
		if wanted[acc.Code] {
			result[acc.Code] = acc
		}
	}
	return result, nil
}

func (r *accountRepo) ListAccounts(_ context.Context, filter domain.DeletedFilter, limit int, offset int) ([]domain.Account, error) {
	st, done := r.read()
	defer done()

	var all []domain.Account
	for _, acc := range st.accounts {
		if filter.Allows(acc.IsDeleted) {
			all = append(all, acc)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })

	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *accountRepo) ListChildAccounts(_ context.Context, parentAccountID string, filter domain.DeletedFilter) ([]domain.Account, error) {
	st, done := r.read()
	defer done()

	var children []domain.Account
	for _, acc := range st.accounts {
		if acc.ParentAccountID == parentAccountID && filter.Allows(acc.IsDeleted) {
			children = append(children, acc)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Code < children[j].Code })
	return children, nil
}

func (r *accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	st, done := r.write()
	defer done()

	if _, exists := st.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, acc := range st.accounts {
		if acc.Code == account.Code {
			return apperrors.ErrDuplicate
		}
	}
	st.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepo) update(accountID string, fn func(*domain.Account)) error {
	st, done := r.write()
	defer done()

	acc, ok := st.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	fn(&acc)
	st.accounts[accountID] = acc
	return nil
}

func (r *accountRepo) UpdateAccountParent(_ context.Context, accountID string, parentAccountID string, userID string, now time.Time) error {
	return r.update(accountID, func(acc *domain.Account) {
		acc.ParentAccountID = parentAccountID
		acc.Touch(userID, now)
	})
}

func (r *accountRepo) DeactivateAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	return r.update(accountID, func(acc *domain.Account) {
		acc.IsActive = false
		acc.Touch(userID, now)
	})
}

func (r *accountRepo) MarkAccountDeleted(_ context.Context, accountID string, userID string, now time.Time) error {
	return r.update(accountID, func(acc *domain.Account) {
		acc.IsDeleted = true
		acc.Touch(userID, now)
	})
}

// LockHierarchy is a no-op: units of work are already serialized.
func (r *accountRepo) LockHierarchy(context.Context) error { return nil }
