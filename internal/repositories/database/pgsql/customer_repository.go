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

type PgxCustomerRepository struct {
	BaseRepository
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string, filter domain.DeletedFilter) (*domain.Customer, error) {
	query := `
		SELECT customer_id, customer_code, name, email, is_deleted, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE customer_id = $1 AND ($2 OR NOT is_deleted);
	`
	var m models.Customer
	err := r.db.QueryRow(ctx, query, customerID, includeDeleted(filter)).Scan(
		&m.CustomerID,
		&m.CustomerCode,
		&m.Name,
		&m.Email,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("customer " + customerID)
		}
		return nil, apperrors.NewAppError(500, "failed to find customer "+customerID, err)
	}
	c := mapping.ToDomainCustomer(m)
	return &c, nil
}

func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)
	query := `
		INSERT INTO customers (customer_id, customer_code, name, email, is_deleted, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query, m.CustomerID, m.CustomerCode, m.Name, m.Email, m.IsDeleted, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, m.CustomerCode)
		}
		return apperrors.NewAppError(500, "failed to insert customer "+m.CustomerCode, err)
	}
	return nil
}

func (r *PgxCustomerRepository) MarkCustomerDeleted(ctx context.Context, customerID string, userID string, now time.Time) error {
	query := `UPDATE customers SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3 WHERE customer_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, customerID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete customer "+customerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("customer " + customerID + " not found for delete")
	}
	return nil
}
