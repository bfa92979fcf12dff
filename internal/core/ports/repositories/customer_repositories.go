package repositories

import (
	"context"
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	FindCustomerByID(ctx context.Context, customerID string, filter domain.DeletedFilter) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// MarkCustomerDeleted soft-deletes a customer.
	MarkCustomerDeleted(ctx context.Context, customerID string, userID string, now time.Time) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
