package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the stored lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceSent          InvoiceStatus = "SENT"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceCancelled     InvoiceStatus = "CANCELLED"

	// InvoiceOverdue is derived at read time and never persisted.
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// IsTerminal reports whether no further transitions are legal from s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoicePaid || s == InvoiceCancelled
}

// InvoiceActionType names a request to move an invoice through its lifecycle.
type InvoiceActionType string

const (
	ActionSend   InvoiceActionType = "SEND"
	ActionPay    InvoiceActionType = "PAY"
	ActionCancel InvoiceActionType = "CANCEL"
)

// InvoiceAction is a lifecycle request. Amount and Reference apply to ActionPay only.
type InvoiceAction struct {
	Type      InvoiceActionType
	Amount    decimal.Decimal
	Reference string
}

func SendAction() InvoiceAction { return InvoiceAction{Type: ActionSend} }

func PayAction(amount decimal.Decimal, reference string) InvoiceAction {
	return InvoiceAction{Type: ActionPay, Amount: amount, Reference: reference}
}

func CancelAction() InvoiceAction { return InvoiceAction{Type: ActionCancel} }

// InvoiceItem is one billed line of an invoice.
type InvoiceItem struct {
	ItemID      string          `json:"itemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
	SortOrder   int             `json:"sortOrder"`
}

// Invoice is a bill to a customer. TaxRate is a percentage (8 means 8%).
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerID     string          `json:"customerID"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	DueDate        time.Time       `json:"dueDate"`
	Items          []InvoiceItem   `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Status         InvoiceStatus   `json:"status"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PaidDate       *time.Time      `json:"paidDate,omitempty"`
	PaymentCount   int             `json:"paymentCount"`
	Notes          string          `json:"notes"`
	IsDeleted      bool            `json:"isDeleted"`
	AuditFields
}

var hundred = decimal.NewFromInt(100)

// RecalculateTotals derives item amounts, subtotal, tax and total from the items,
// the tax rate and the discount. Tax is charged on the discounted subtotal.
func (inv *Invoice) RecalculateTotals() {
	subtotal := decimal.Zero
	for i := range inv.Items {
		inv.Items[i].Amount = RoundMoney(inv.Items[i].Quantity.Mul(inv.Items[i].UnitPrice))
		subtotal = subtotal.Add(inv.Items[i].Amount)
	}
	inv.Subtotal = subtotal
	taxable := subtotal.Sub(inv.DiscountAmount)
	inv.TaxAmount = RoundMoney(taxable.Mul(inv.TaxRate).Div(hundred))
	inv.TotalAmount = taxable.Add(inv.TaxAmount)
}

// Outstanding returns the amount still to be paid.
func (inv Invoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount)
}

// EffectiveStatus returns the display status at now, deriving OVERDUE for
// unpaid sent invoices past their due date.
func (inv Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if (inv.Status == InvoiceSent || inv.Status == InvoicePartiallyPaid) && now.After(inv.DueDate) {
		return InvoiceOverdue
	}
	return inv.Status
}
