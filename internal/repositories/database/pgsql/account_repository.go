package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/models"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/utils/mapping"
)

// hierarchyLockKey identifies the advisory lock guarding parent changes.
const hierarchyLockKey int64 = 0x6c656467 // "ledg"

const accountColumns = `account_id, code, name, account_type, parent_account_id, description,
	is_active, is_deleted, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, what string, query string, args ...any) (*domain.Account, error) {
	m, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account " + what)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+what, err)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string, filter domain.DeletedFilter) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND ($2 OR NOT is_deleted);`
	return r.findOne(ctx, accountID, query, accountID, includeDeleted(filter))
}

// FindAccountByCode retrieves an account by its chart-of-accounts code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string, filter domain.DeletedFilter) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1 AND ($2 OR NOT is_deleted);`
	return r.findOne(ctx, code, query, code, includeDeleted(filter))
}

// FindAccountsByCodes retrieves accounts keyed by code, soft-deleted ones included.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	accounts, err := r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code = ANY($1);`, codes)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		result[acc.Code] = acc
	}
	return result, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.DeletedFilter, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ($1 OR NOT is_deleted) ORDER BY code LIMIT $2 OFFSET $3;`
	return r.queryAccounts(ctx, query, includeDeleted(filter), limit, offset)
}

func (r *PgxAccountRepository) ListChildAccounts(ctx context.Context, parentAccountID string, filter domain.DeletedFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE parent_account_id = $1 AND ($2 OR NOT is_deleted) ORDER BY code;`
	return r.queryAccounts(ctx, query, parentAccountID, includeDeleted(filter))
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return apperrors.NewAppError(500, "failed to save account "+m.Code, err)
	}
	return nil
}

func (r *PgxAccountRepository) execUpdate(ctx context.Context, accountID string, query string, args ...any) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for update")
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccountParent(ctx context.Context, accountID string, parentAccountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET parent_account_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	return r.execUpdate(ctx, accountID, query, accountID, mapping.ToNullString(parentAccountID), now, userID)
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	return r.execUpdate(ctx, accountID, query, accountID, now, userID)
}

func (r *PgxAccountRepository) MarkAccountDeleted(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	return r.execUpdate(ctx, accountID, query, accountID, now, userID)
}

// LockHierarchy takes a transaction-scoped advisory lock. Outside a transaction
// the lock is released as soon as the statement completes.
func (r *PgxAccountRepository) LockHierarchy(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, hierarchyLockKey); err != nil {
		return apperrors.NewAppError(500, "failed to lock account hierarchy", err)
	}
	return nil
}
