package memory

import (
	"context"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

type customerRepo struct{ handle }

var _ portsrepo.CustomerRepositoryFacade = (*customerRepo)(nil)

func (r *customerRepo) FindCustomerByID(_ context.Context, customerID string, filter domain.DeletedFilter) (*domain.Customer, error) {
	st, done := r.read()
	defer done()

	c, ok := st.customers[customerID]
	if !ok || !filter.Allows(c.IsDeleted) {
		return nil, apperrors.NewNotFoundError("customer " + customerID)
	}
	return &c, nil
}

func (r *customerRepo) SaveCustomer(_ context.Context, customer domain.Customer) error {
	st, done := r.write()
	defer done()

	if _, exists := st.customers[customer.CustomerID]; exists {
		return apperrors.ErrDuplicate
	}
	st.customers[customer.CustomerID] = customer
	return nil
}

func (r *customerRepo) MarkCustomerDeleted(_ context.Context, customerID string, userID string, now time.Time) error {
	st, done := r.write()
	defer done()

	c, ok := st.customers[customerID]
	if !ok {
		return apperrors.NewNotFoundError("customer " + customerID)
	}
	c.IsDeleted = true
	c.Touch(userID, now)
	st.customers[customerID] = c
	return nil
}

type sequenceCounter struct{ handle }

var _ portsrepo.SequenceCounter = (*sequenceCounter)(nil)

func (c *sequenceCounter) Next(ctx context.Context, kind domain.SequenceKind) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	st, done := c.write()
	defer done()

	st.sequences[kind]++
	return st.sequences[kind], nil
}
