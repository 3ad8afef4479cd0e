package domain

import "time"

// QuotationStatus is the stored status of a quotation.
type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "pending"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
)

// Quotation carries two independent role acceptances (supervisor, manager).
// Full acceptance is terminal and triggers the Medad invoice sync.
type Quotation struct {
	ID          int64           `json:"id"`
	QuotationNo string          `json:"quotationNo"` // e.g. QT-2025-00003
	Status      QuotationStatus `json:"status"`
	ClientID    string          `json:"clientID"`
	Note        string          `json:"note"`

	Supervisor Acceptance `json:"supervisor"`
	Manager    Acceptance `json:"manager"`

	AcceptedAt *time.Time `json:"acceptedAt,omitempty"`

	// Resolved for Medad sync.
	SalesmanID  *string `json:"salesmanID,omitempty"`
	WarehouseID *string `json:"warehouseID,omitempty"`

	LineItems []LineItem `json:"lineItems"`
	Totals    Totals     `json:"totals"`

	SyncFields
	AuditFields
}

// FullyAccepted reports whether both required roles have accepted.
func (q Quotation) FullyAccepted() bool {
	return q.Supervisor.Accepted() && q.Manager.Accepted()
}

// Terminal reports whether the quotation refuses further workflow mutation.
func (q Quotation) Terminal() bool {
	return q.Status == QuotationAccepted || q.Status == QuotationRejected
}

// QuotationAcceptanceRoles are the roles holding acceptance slots on a quotation.
var QuotationAcceptanceRoles = []Role{RoleSupervisor, RoleManager}
