package models

import "time"

// Client mirrors the clients table.
type Client struct {
	ClientID        string
	Name            string
	MedadCustomerID *string
	AuditFields
}

// Salesman mirrors the salesmen table.
type Salesman struct {
	SalesmanID      string
	Name            string
	MedadSalesmanID *string
}

// Warehouse mirrors the warehouses table.
type Warehouse struct {
	WarehouseID      string
	Name             string
	MedadWarehouseID *string
}

// User mirrors the users table.
type User struct {
	UserID       string
	Username     string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	CreatedBy    string
}
