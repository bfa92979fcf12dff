package mapping

import (
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		InvoiceNumber:  d.InvoiceNumber,
		CustomerID:     d.CustomerID,
		InvoiceDate:    d.InvoiceDate,
		DueDate:        d.DueDate,
		Subtotal:       d.Subtotal,
		TaxRate:        d.TaxRate,
		TaxAmount:      d.TaxAmount,
		DiscountAmount: d.DiscountAmount,
		TotalAmount:    d.TotalAmount,
		Status:         string(d.Status),
		PaidAmount:     d.PaidAmount,
		PaidDate:       toNullTime(d.PaidDate),
		PaymentCount:   d.PaymentCount,
		Notes:          d.Notes,
		IsDeleted:      d.IsDeleted,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice and its items to a domain Invoice
func ToDomainInvoice(m models.Invoice, items []models.InvoiceItem) domain.Invoice {
	d := domain.Invoice{
		InvoiceID:      m.InvoiceID,
		InvoiceNumber:  m.InvoiceNumber,
		CustomerID:     m.CustomerID,
		InvoiceDate:    m.InvoiceDate,
		DueDate:        m.DueDate,
		Items:          make([]domain.InvoiceItem, len(items)),
		Subtotal:       m.Subtotal,
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		DiscountAmount: m.DiscountAmount,
		TotalAmount:    m.TotalAmount,
		Status:         domain.InvoiceStatus(m.Status),
		PaidAmount:     m.PaidAmount,
		PaidDate:       fromNullTime(m.PaidDate),
		PaymentCount:   m.PaymentCount,
		Notes:          m.Notes,
		IsDeleted:      m.IsDeleted,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	for i, it := range items {
		d.Items[i] = domain.InvoiceItem{
			ItemID:      it.ItemID,
			InvoiceID:   it.InvoiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			SortOrder:   it.SortOrder,
		}
	}
	return d
}

// ToModelInvoiceItem converts a domain InvoiceItem to a model InvoiceItem
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Amount:      d.Amount,
		SortOrder:   d.SortOrder,
	}
}

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:   d.CustomerID,
		CustomerCode: d.CustomerCode,
		Name:         d.Name,
		Email:        d.Email,
		IsDeleted:    d.IsDeleted,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:   m.CustomerID,
		CustomerCode: m.CustomerCode,
		Name:         m.Name,
		Email:        m.Email,
		IsDeleted:    m.IsDeleted,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
