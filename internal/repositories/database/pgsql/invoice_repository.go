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

const invoiceColumns = `invoice_id, invoice_number, customer_id, invoice_date, due_date, subtotal, tax_rate,
	tax_amount, discount_amount, total_amount, status, paid_amount, paid_date, payment_count, notes,
	is_deleted, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.CustomerID,
		&m.InvoiceDate,
		&m.DueDate,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.DiscountAmount,
		&m.TotalAmount,
		&m.Status,
		&m.PaidAmount,
		&m.PaidDate,
		&m.PaymentCount,
		&m.Notes,
		&m.IsDeleted,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, invoiceID string, query string, args ...any) (*domain.Invoice, error) {
	m, err := scanInvoice(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}

	items, err := r.findItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv := mapping.ToDomainInvoice(m, items)
	return &inv, nil
}

func (r *PgxInvoiceRepository) findItems(ctx context.Context, invoiceID string) ([]models.InvoiceItem, error) {
	query := `
		SELECT item_id, invoice_id, description, quantity, unit_price, amount, sort_order
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY sort_order;
	`
	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	items := []models.InvoiceItem{}
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ItemID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Amount, &it.SortOrder); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice items", err)
	}
	return items, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string, filter domain.DeletedFilter) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND ($2 OR NOT is_deleted);`
	return r.findInvoice(ctx, invoiceID, query, invoiceID, includeDeleted(filter))
}

// FindInvoiceForUpdate locks the invoice row until the transaction ends.
func (r *PgxInvoiceRepository) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 AND NOT is_deleted FOR UPDATE;`
	return r.findInvoice(ctx, invoiceID, query, invoiceID)
}

func (r *PgxInvoiceRepository) CountInvoicesByCustomer(ctx context.Context, customerID string, filter domain.DeletedFilter) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM invoices WHERE customer_id = $1 AND ($2 OR NOT is_deleted);`
	if err := r.db.QueryRow(ctx, query, customerID, includeDeleted(filter)).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count invoices for customer "+customerID, err)
	}
	return n, nil
}

// SaveInvoice inserts the invoice header and its items.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := r.db.Exec(ctx, query,
		m.InvoiceID,
		m.InvoiceNumber,
		m.CustomerID,
		m.InvoiceDate,
		m.DueDate,
		m.Subtotal,
		m.TaxRate,
		m.TaxAmount,
		m.DiscountAmount,
		m.TotalAmount,
		m.Status,
		m.PaidAmount,
		m.PaidDate,
		m.PaymentCount,
		m.Notes,
		m.IsDeleted,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: invoice %s already exists", apperrors.ErrDuplicate, m.InvoiceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceNumber, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO invoice_items (item_id, invoice_id, description, quantity, unit_price, amount, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range invoice.Items {
		it := mapping.ToModelInvoiceItem(item)
		batch.Queue(itemQuery, it.ItemID, it.InvoiceID, it.Description, it.Quantity, it.UnitPrice, it.Amount, it.SortOrder)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert items for invoice "+m.InvoiceNumber, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) UpdateInvoiceState(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		UPDATE invoices
		SET status = $2, paid_amount = $3, paid_date = $4, payment_count = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE invoice_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, m.InvoiceID, m.Status, m.PaidAmount, m.PaidDate, m.PaymentCount, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + m.InvoiceID + " not found for update")
	}
	return nil
}

func (r *PgxInvoiceRepository) MarkInvoiceDeleted(ctx context.Context, invoiceID string, userID string, now time.Time) error {
	query := `UPDATE invoices SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3 WHERE invoice_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, invoiceID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice "+invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found for delete")
	}
	return nil
}
