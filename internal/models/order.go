package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order mirrors the orders table. Acceptance slots are flattened into
// per-role state/actor/timestamp columns.
type Order struct {
	ID       int64
	OrderNo  string
	Status   string
	ClientID string
	Note     string

	StorekeeperState string
	StorekeeperBy    *string
	StorekeeperAt    *time.Time
	SupervisorState  string
	SupervisorBy     *string
	SupervisorAt     *time.Time
	ManagerState     string
	ManagerBy        *string
	ManagerAt        *time.Time

	DeliveredBy *string
	DeliveredAt *time.Time

	SalesmanID  *string
	WarehouseID *string

	TotalAmount   decimal.Decimal
	TotalVAT      decimal.Decimal
	TotalSubtotal decimal.Decimal

	SyncFields
	AuditFields
}

// LineItem mirrors the order_line_items and quotation_line_items tables.
type LineItem struct {
	LineID           string
	RecordID         int64
	Position         int
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	LineTotal        decimal.Decimal
	VAT              decimal.Decimal
	Subtotal         decimal.Decimal
	MedadProductCode *string
}
