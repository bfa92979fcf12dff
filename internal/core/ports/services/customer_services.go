package services

import (
	"context"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// CustomerSvcFacade defines customer operations
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)

	// DeleteCustomer soft-deletes a customer with no live invoices. Deleting an
	// already deleted customer succeeds.
	DeleteCustomer(ctx context.Context, customerID string) error
}
