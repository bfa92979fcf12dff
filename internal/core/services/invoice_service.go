package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
	portssvc "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/services"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/dto"
)

// transitionFunc applies one action to a locked invoice inside the open unit of work.
type transitionFunc func(ctx context.Context, store portsrepo.Store, inv *domain.Invoice, action domain.InvoiceAction) error

// invoiceService owns the invoice state machine. Every transition and its posting
// commit together or not at all.
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceReader
	txManager   portsrepo.TransactionManager
	posting     portssvc.PostingWriterSvc
	sequences   portssvc.SequenceAllocatorWithTxSvc
	transitions map[domain.InvoiceActionType]transitionFunc
}

// NewInvoiceService creates a new InvoiceSvcFacade.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceReader,
	txManager portsrepo.TransactionManager,
	posting portssvc.PostingWriterSvc,
	sequences portssvc.SequenceAllocatorWithTxSvc,
	opts ...Option,
) portssvc.InvoiceSvcFacade {
	s := &invoiceService{
		BaseService: newBaseService(opts),
		invoiceRepo: invoiceRepo,
		txManager:   txManager,
		posting:     posting,
		sequences:   sequences,
	}
	s.transitions = map[domain.InvoiceActionType]transitionFunc{
		domain.ActionSend:   s.send,
		domain.ActionPay:    s.pay,
		domain.ActionCancel: s.cancel,
	}
	return s
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func illegal(inv *domain.Invoice, action domain.InvoiceAction) error {
	return &apperrors.IllegalTransitionError{From: string(inv.Status), Action: string(action.Type)}
}

// Transition implements portssvc.InvoiceLifecycleSvc
func (s *invoiceService) Transition(ctx context.Context, invoiceID string, action domain.InvoiceAction) (*domain.Invoice, error) {
	apply, ok := s.transitions[action.Type]
	if !ok {
		return nil, apperrors.NewInputError("unknown invoice action %q", action.Type)
	}

	var result *domain.Invoice
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		inv, err := store.Invoices().FindInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		from := inv.Status

		if err := apply(ctx, store, inv, action); err != nil {
			return err
		}

		inv.Touch(s.Actor(ctx), s.Now())
		if err := store.Invoices().UpdateInvoiceState(ctx, *inv); err != nil {
			return err
		}

		s.LogDebug(ctx, "Invoice transitioned",
			slog.String("invoice_id", inv.InvoiceID),
			slog.String("action", string(action.Type)),
			slog.String("from", string(from)),
			slog.String("to", string(inv.Status)))
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *invoiceService) send(ctx context.Context, store portsrepo.Store, inv *domain.Invoice, action domain.InvoiceAction) error {
	if inv.Status != domain.InvoiceDraft {
		return illegal(inv, action)
	}
	if _, err := s.posting.PostInvoiceCreated(ctx, store, *inv); err != nil {
		return err
	}
	inv.Status = domain.InvoiceSent
	return nil
}

// pay records a full or partial payment. A payment against a fully paid invoice
// is reported as an overpayment of a zero balance.
func (s *invoiceService) pay(ctx context.Context, store portsrepo.Store, inv *domain.Invoice, action domain.InvoiceAction) error {
	switch inv.Status {
	case domain.InvoiceSent, domain.InvoicePartiallyPaid:
	case domain.InvoicePaid:
		return &apperrors.OverpaymentError{Outstanding: inv.Outstanding(), Attempted: action.Amount}
	default:
		return illegal(inv, action)
	}

	if !action.Amount.IsPositive() || !domain.IsMinorUnit(action.Amount) {
		return apperrors.NewInputError("payment amount %s must be positive with at most two decimal places", action.Amount)
	}
	outstanding := inv.Outstanding()
	if action.Amount.GreaterThan(outstanding) {
		return &apperrors.OverpaymentError{Outstanding: outstanding, Attempted: action.Amount}
	}

	if _, err := s.posting.PostPayment(ctx, store, *inv, action.Amount, action.Reference); err != nil {
		return err
	}

	inv.PaidAmount = inv.PaidAmount.Add(action.Amount)
	inv.PaymentCount++
	if inv.PaidAmount.Equal(inv.TotalAmount) {
		now := s.Now()
		inv.Status = domain.InvoicePaid
		inv.PaidDate = &now
	} else {
		inv.Status = domain.InvoicePartiallyPaid
	}
	return nil
}

// cancel reverses the creation posting when one exists. Recorded payments are not reversed.
func (s *invoiceService) cancel(ctx context.Context, store portsrepo.Store, inv *domain.Invoice, action domain.InvoiceAction) error {
	switch inv.Status {
	case domain.InvoiceDraft:
	case domain.InvoiceSent, domain.InvoicePartiallyPaid:
		if _, err := s.posting.PostCancellation(ctx, store, *inv); err != nil {
			return err
		}
	default:
		return illegal(inv, action)
	}
	inv.Status = domain.InvoiceCancelled
	return nil
}

// CreateInvoice implements portssvc.InvoiceWriterSvc
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	if err := validateInvoiceRequest(req); err != nil {
		return nil, err
	}

	inv := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		CustomerID:     req.CustomerID,
		InvoiceDate:    req.InvoiceDate,
		DueDate:        req.DueDate,
		TaxRate:        req.TaxRate,
		DiscountAmount: req.DiscountAmount,
		Status:         domain.InvoiceDraft,
		PaidAmount:     decimal.Zero,
		Notes:          req.Notes,
		Items:          make([]domain.InvoiceItem, len(req.Items)),
	}
	for i, item := range req.Items {
		inv.Items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   inv.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			SortOrder:   i,
		}
	}
	inv.RecalculateTotals()
	if inv.DiscountAmount.GreaterThan(inv.Subtotal) {
		return nil, apperrors.NewInputError("discount %s exceeds subtotal %s", inv.DiscountAmount, inv.Subtotal)
	}
	inv.Stamp(s.Actor(ctx), s.Now())

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		if _, err := store.Customers().FindCustomerByID(ctx, req.CustomerID, domain.ExcludeDeleted); err != nil {
			return err
		}
		number, err := s.sequences.AllocateNextInTx(ctx, store, domain.SequenceInvoice)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		return store.Invoices().SaveInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Invoice created", slog.String("invoice_id", inv.InvoiceID), slog.String("invoice_number", inv.InvoiceNumber))
	return &inv, nil
}

func validateInvoiceRequest(req dto.CreateInvoiceRequest) error {
	if len(req.Items) == 0 {
		return apperrors.NewInputError("invoice must have at least one item")
	}
	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return apperrors.NewInputError("item %d: quantity must be positive", i)
		}
		if item.UnitPrice.IsNegative() || !domain.IsMinorUnit(item.UnitPrice) {
			return apperrors.NewInputError("item %d: unit price must be non-negative with at most two decimal places", i)
		}
	}
	if req.TaxRate.IsNegative() {
		return apperrors.NewInputError("tax rate must not be negative")
	}
	if req.DiscountAmount.IsNegative() || !domain.IsMinorUnit(req.DiscountAmount) {
		return apperrors.NewInputError("discount must be non-negative with at most two decimal places")
	}
	if req.DueDate.Before(req.InvoiceDate) {
		return apperrors.NewInputError("due date is before invoice date")
	}
	return nil
}

// GetInvoice implements portssvc.InvoiceReaderSvc
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID, domain.ExcludeDeleted)
}

// DeleteInvoice implements portssvc.InvoiceWriterSvc. Only invoices with no live
// ledger effect (DRAFT or CANCELLED) may be deleted.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context, store portsrepo.Store) error {
		inv, err := store.Invoices().FindInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != domain.InvoiceDraft && inv.Status != domain.InvoiceCancelled {
			return &apperrors.ConflictError{
				Resource: "invoice " + inv.InvoiceNumber,
				Reason:   fmt.Sprintf("cannot delete an invoice in status %s", inv.Status),
			}
		}
		return store.Invoices().MarkInvoiceDeleted(ctx, invoiceID, s.Actor(ctx), s.Now())
	})
}
