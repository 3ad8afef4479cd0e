package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// Role identifies the workflow role an authenticated user acts under.
type Role string

const (
	RoleOriginator  Role = "originator"
	RoleAccountant  Role = "accountant"
	RoleManager     Role = "manager"
	RoleStorekeeper Role = "storekeeper"
	RoleSupervisor  Role = "supervisor"
)

// ValidRole reports whether r is one of the recognized workflow roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleOriginator, RoleAccountant, RoleManager, RoleStorekeeper, RoleSupervisor:
		return true
	}
	return false
}

// AcceptanceState is the state of a single role's acceptance slot.
type AcceptanceState string

const (
	AcceptancePending  AcceptanceState = "pending"
	AcceptanceAccepted AcceptanceState = "accepted"
)

// Acceptance records one role's decision on an order or quotation.
type Acceptance struct {
	State   AcceptanceState `json:"state"`
	ActorID *string         `json:"actorID,omitempty"`
	ActedAt *time.Time      `json:"actedAt,omitempty"`
}

// Accepted reports whether this slot has been accepted.
func (a Acceptance) Accepted() bool {
	return a.State == AcceptanceAccepted
}
