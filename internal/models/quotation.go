package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quotation mirrors the quotations table.
type Quotation struct {
	ID          int64
	QuotationNo string
	Status      string
	ClientID    string
	Note        string

	SupervisorState string
	SupervisorBy    *string
	SupervisorAt    *time.Time
	ManagerState    string
	ManagerBy       *string
	ManagerAt       *time.Time

	AcceptedAt *time.Time

	SalesmanID  *string
	WarehouseID *string

	TotalAmount   decimal.Decimal
	TotalVAT      decimal.Decimal
	TotalSubtotal decimal.Decimal

	SyncFields
	AuditFields
}
