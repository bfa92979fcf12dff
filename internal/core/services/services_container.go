package services

import (
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Sequences first since every writer depends on them
	container.Sequence = NewSequenceService(repos.SequenceCounter, cfg.SequenceDefinitions(), opts...)

	container.Posting = NewPostingService(
		repos.JournalRepo,
		cfg.AccountRoles,
		NewJournalValidator(),
		container.Sequence,
		opts...,
	)

	container.Account = NewAccountService(repos.AccountRepo, repos.TxManager, opts...)
	container.Balance = NewBalanceService(repos.AccountRepo, repos.JournalRepo, repos.TxManager, opts...)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.TxManager, container.Posting, container.Sequence, opts...)
	container.Customer = NewCustomerService(repos.CustomerRepo, repos.TxManager, container.Sequence, opts...)

	return container
}
