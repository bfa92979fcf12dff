package models

// Customer is a row of the customers table.
type Customer struct {
	CustomerID   string `db:"customer_id"`
	CustomerCode string `db:"customer_code"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	IsDeleted    bool   `db:"is_deleted"`
	AuditFields
}
