package dto

import (
	"time"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
)

// CreateCustomerRequest defines the data needed to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,max=254"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID   string    `json:"customerID"`
	CustomerCode string    `json:"customerCode"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToCustomerResponse converts a domain.Customer to CustomerResponse DTO
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		CustomerCode: c.CustomerCode,
		Name:         c.Name,
		Email:        c.Email,
		CreatedAt:    c.CreatedAt,
		CreatedBy:    c.CreatedBy,
	}
}
