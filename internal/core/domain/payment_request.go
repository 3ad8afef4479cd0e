package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequestStage is the coarse workflow position of a payment request.
type PaymentRequestStage string

const (
	StageAccountant  PaymentRequestStage = "accountant"
	StageManager     PaymentRequestStage = "manager"
	StageManagerDone PaymentRequestStage = "manager_done"
)

// PaymentRequestStatus is the finer label correlated with the stage.
type PaymentRequestStatus string

const (
	StatusPendingAccountant      PaymentRequestStatus = "pending_accountant"
	StatusPendingManager         PaymentRequestStatus = "pending_manager"
	StatusApprovedManager        PaymentRequestStatus = "approved_manager"
	StatusApprovedManagerPartial PaymentRequestStatus = "approved_manager_partial"
	StatusRejected               PaymentRequestStatus = "rejected"
)

// PaymentState classifies a terminal approval as covering the full due
// amount or only part of it.
type PaymentState string

const (
	PaymentFull    PaymentState = "full"
	PaymentPartial PaymentState = "partial"
)

// Payment priorities accepted from the manager.
const (
	PriorityHigh   = 1
	PriorityNormal = 2
)

// ValidPriority reports whether p is an accepted payment priority.
func ValidPriority(p int) bool {
	return p == PriorityHigh || p == PriorityNormal
}

// PaymentRequest advances accountant -> manager -> manager_done. Each stage
// is mutated exactly once, by its designated role; the terminal approval
// triggers a best-effort Medad payment sync.
type PaymentRequest struct {
	ID        int64                `json:"id"`
	RequestNo string               `json:"requestNo"` // e.g. PR-2025-00007, immutable once assigned
	Stage     PaymentRequestStage  `json:"stage"`
	Status    PaymentRequestStatus `json:"status"`

	OriginatorID   string          `json:"originatorID"`
	OriginatorName string          `json:"originatorName"`
	OriginatorType string          `json:"originatorType"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"dueDate"`
	Note           string          `json:"note"`

	// Accountant stage.
	DueAmount    *decimal.Decimal `json:"dueAmount,omitempty"`
	AccountantID *string          `json:"accountantID,omitempty"`
	AccountantAt *time.Time       `json:"accountantAt,omitempty"`

	// Manager stage.
	AmountToPay     *decimal.Decimal `json:"amountToPay,omitempty"`
	Priority        *int             `json:"priority,omitempty"`
	ManagerID       *string          `json:"managerID,omitempty"`
	ManagerAt       *time.Time       `json:"managerAt,omitempty"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount,omitempty"`
	PaymentState    *PaymentState    `json:"paymentState,omitempty"`

	RejectedBy     *string    `json:"rejectedBy,omitempty"`
	RejectedAt     *time.Time `json:"rejectedAt,omitempty"`
	RejectedReason *string    `json:"rejectedReason,omitempty"`

	SyncFields
	AuditFields
}

// Terminal reports whether the request has left the approval pipeline.
func (s PaymentRequestStatus) Terminal() bool {
	switch s {
	case StatusApprovedManager, StatusApprovedManagerPartial, StatusRejected:
		return true
	}
	return false
}

// ApprovedStatusFor picks the terminal status matching the payment state.
func ApprovedStatusFor(state PaymentState) PaymentRequestStatus {
	if state == PaymentPartial {
		return StatusApprovedManagerPartial
	}
	return StatusApprovedManager
}

// PaymentStateFor classifies paid against due and returns the remainder.
// Callers must have validated paid <= due beforehand.
func PaymentStateFor(due, paid decimal.Decimal) (PaymentState, decimal.Decimal) {
	remaining := due.Sub(paid)
	if remaining.IsPositive() {
		return PaymentPartial, remaining
	}
	return PaymentFull, remaining
}
