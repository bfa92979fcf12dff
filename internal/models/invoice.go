package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	InvoiceNumber  string          `db:"invoice_number"`
	CustomerID     string          `db:"customer_id"`
	InvoiceDate    time.Time       `db:"invoice_date"`
	DueDate        time.Time       `db:"due_date"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	TaxRate        decimal.Decimal `db:"tax_rate"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	Status         string          `db:"status"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	PaidDate       sql.NullTime    `db:"paid_date"`
	PaymentCount   int             `db:"payment_count"`
	Notes          string          `db:"notes"`
	IsDeleted      bool            `db:"is_deleted"`
	AuditFields
}

// InvoiceItem is a row of the invoice_items table.
type InvoiceItem struct {
	ItemID      string          `db:"item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Amount      decimal.Decimal `db:"amount"`
	SortOrder   int             `db:"sort_order"`
}
