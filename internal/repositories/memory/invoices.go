package memory

import (
	"context"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

type invoiceRepo struct{ handle }

var _ portsrepo.InvoiceRepositoryFacade = (*invoiceRepo)(nil)

func copyInvoice(inv domain.Invoice) domain.Invoice {
	inv.Items = append([]domain.InvoiceItem(nil), inv.Items...)
	if inv.PaidDate != nil {
		paid := *inv.PaidDate
		inv.PaidDate = &paid
	}
	return inv
}

func (r *invoiceRepo) FindInvoiceByID(_ context.Context, invoiceID string, filter domain.DeletedFilter) (*domain.Invoice, error) {
	st, done := r.read()
	defer done()

	inv, ok := st.invoices[invoiceID]
	if !ok || !filter.Allows(inv.IsDeleted) {
		return nil, apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	found := copyInvoice(inv)
	return &found, nil
}

func (r *invoiceRepo) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.FindInvoiceByID(ctx, invoiceID, domain.ExcludeDeleted)
}

func (r *invoiceRepo) CountInvoicesByCustomer(_ context.Context, customerID string, filter domain.DeletedFilter) (int, error) {
	st, done := r.read()
	defer done()

	n := 0
	for _, inv := range st.invoices {
		if inv.CustomerID == customerID && filter.Allows(inv.IsDeleted) {
			n++
		}
	}
	return n, nil
}

func (r *invoiceRepo) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	st, done := r.write()
	defer done()

	if _, exists := st.invoices[invoice.InvoiceID]; exists {
		return apperrors.ErrDuplicate
	}
	st.invoices[invoice.InvoiceID] = copyInvoice(invoice)
	return nil
}

func (r *invoiceRepo) UpdateInvoiceState(_ context.Context, invoice domain.Invoice) error {
	st, done := r.write()
	defer done()

	stored, ok := st.invoices[invoice.InvoiceID]
	if !ok {
		return apperrors.NewNotFoundError("invoice " + invoice.InvoiceID)
	}
	stored.Status = invoice.Status
	stored.PaidAmount = invoice.PaidAmount
	stored.PaymentCount = invoice.PaymentCount
	stored.PaidDate = invoice.PaidDate
	stored.LastUpdatedAt = invoice.LastUpdatedAt
	stored.LastUpdatedBy = invoice.LastUpdatedBy
	st.invoices[invoice.InvoiceID] = copyInvoice(stored)
	return nil
}

func (r *invoiceRepo) MarkInvoiceDeleted(_ context.Context, invoiceID string, userID string, now time.Time) error {
	st, done := r.write()
	defer done()

	inv, ok := st.invoices[invoiceID]
	if !ok {
		return apperrors.NewNotFoundError("invoice " + invoiceID)
	}
	inv.IsDeleted = true
	inv.Touch(userID, now)
	st.invoices[invoiceID] = inv
	return nil
}
