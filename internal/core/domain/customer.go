package domain

// Customer is the party an invoice is billed to.
type Customer struct {
	CustomerID   string `json:"customerID"`
	CustomerCode string `json:"customerCode"` // Allocated from the customer sequence
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsDeleted    bool   `json:"isDeleted"`
	AuditFields
}
