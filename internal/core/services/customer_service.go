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

type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerReader
	txManager    portsrepo.TransactionManager
	sequences    portssvc.SequenceAllocatorWithTxSvc
}

// NewCustomerService creates a new CustomerSvcFacade.
func NewCustomerService(
	customerRepo portsrepo.CustomerReader,
	txManager portsrepo.TransactionManager,
	sequences portssvc.SequenceAllocatorWithTxSvc,
	opts ...Option,
) portssvc.CustomerSvcFacade {
	return &customerService{
		BaseService:  newBaseService(opts),
		customerRepo: customerRepo,
		txManager:    txManager,
		sequences:    sequences,
	}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Email:      req.Email,
	}
	customer.Stamp(s.Actor(ctx), s.Now())

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		code, err := s.sequences.AllocateNextInTx(ctx, store, domain.SequenceCustomer)
		if err != nil {
			return err
		}
		customer.CustomerCode = code
		return store.Customers().SaveCustomer(ctx, customer)
	})
	if err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Customer created", slog.String("customer_id", customer.CustomerID), slog.String("customer_code", customer.CustomerCode))
	return &customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID, domain.ExcludeDeleted)
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		customer, err := store.Customers().FindCustomerByID(ctx, customerID, domain.IncludeDeleted)
		if err != nil {
			return err
		}
		if customer.IsDeleted {
			return nil
		}

		live, err := store.Invoices().CountInvoicesByCustomer(ctx, customerID, domain.ExcludeDeleted)
		if err != nil {
			return fmt.Errorf("failed to count invoices of customer %s: %w", customerID, err)
		}
		if live > 0 {
			return &apperrors.ConflictError{
				Resource: "customer " + customer.CustomerCode,
				Reason:   fmt.Sprintf("customer has %d invoice(s) that are not deleted", live),
			}
		}

		return store.Customers().MarkCustomerDeleted(ctx, customerID, s.Actor(ctx), s.Now())
	})
}
