package domain

import "time"

// OrderStatus is the stored status of an order. "Fully accepted" is computed
// from the acceptance slots by readers, never stored redundantly.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderRejected  OrderStatus = "rejected"
)

// Order carries three independent role acceptances. Any edit after an
// acceptance resets every slot to pending and bumps the revision suffix on
// the order number; a delivered order refuses further edits and deletion.
type Order struct {
	ID       int64       `json:"id"`
	OrderNo  string      `json:"orderNo"` // e.g. ORD-2025-00012 or ORD-2025-00012-R1
	Status   OrderStatus `json:"status"`
	ClientID string      `json:"clientID"`
	Note     string      `json:"note"`

	Storekeeper Acceptance `json:"storekeeper"`
	Supervisor  Acceptance `json:"supervisor"`
	Manager     Acceptance `json:"manager"`

	DeliveredBy *string    `json:"deliveredBy,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`

	// Resolved for Medad sync.
	SalesmanID  *string `json:"salesmanID,omitempty"`
	WarehouseID *string `json:"warehouseID,omitempty"`

	LineItems []LineItem `json:"lineItems"`
	Totals    Totals     `json:"totals"`

	SyncFields
	AuditFields
}

// FullyAccepted reports whether every required role has accepted.
func (o Order) FullyAccepted() bool {
	return o.Storekeeper.Accepted() && o.Supervisor.Accepted() && o.Manager.Accepted()
}

// Terminal reports whether the order refuses further workflow mutation.
func (o Order) Terminal() bool {
	return o.Status == OrderDelivered || o.Status == OrderRejected
}

// OrderAcceptanceRoles are the roles holding acceptance slots on an order.
var OrderAcceptanceRoles = []Role{RoleStorekeeper, RoleSupervisor, RoleManager}
