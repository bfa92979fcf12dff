package dto

import (
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest defines one billed line of a new invoice.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest defines the data needed to create a draft invoice.
// TaxRate is a percentage (8 means 8%).
type CreateInvoiceRequest struct {
	CustomerID     string               `json:"customerID" binding:"required"`
	InvoiceDate    time.Time            `json:"invoiceDate" binding:"required"`
	DueDate        time.Time            `json:"dueDate" binding:"required,gtefield=InvoiceDate"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxRate        decimal.Decimal      `json:"taxRate"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	Notes          string               `json:"notes"`
}

// InvoiceActionRequest asks for a lifecycle transition.
type InvoiceActionRequest struct {
	Action    domain.InvoiceActionType `json:"action" binding:"required,oneof=SEND PAY CANCEL"`
	Amount    decimal.Decimal          `json:"amount"`
	Reference string                   `json:"reference" binding:"max=64"`
}

// ToAction converts the request to a domain action.
func (r InvoiceActionRequest) ToAction() domain.InvoiceAction {
	return domain.InvoiceAction{Type: r.Action, Amount: r.Amount, Reference: r.Reference}
}

// InvoiceResponse defines the data returned for an invoice. Status is the effective status.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	CustomerID     string               `json:"customerID"`
	InvoiceDate    time.Time            `json:"invoiceDate"`
	DueDate        time.Time            `json:"dueDate"`
	Items          []domain.InvoiceItem `json:"items"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	TaxRate        decimal.Decimal      `json:"taxRate"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	PaidAmount     decimal.Decimal      `json:"paidAmount"`
	Outstanding    decimal.Decimal      `json:"outstanding"`
	PaidDate       *time.Time           `json:"paidDate,omitempty"`
	Status         domain.InvoiceStatus `json:"status"`
	Notes          string               `json:"notes"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice, computing its status at now.
func ToInvoiceResponse(inv *domain.Invoice, now time.Time) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		Items:          inv.Items,
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		Outstanding:    inv.Outstanding(),
		PaidDate:       inv.PaidDate,
		Status:         inv.EffectiveStatus(now),
		Notes:          inv.Notes,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
	}
}
