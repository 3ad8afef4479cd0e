package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest mirrors the payment_requests table.
type PaymentRequest struct {
	ID        int64
	RequestNo string
	Stage     string
	Status    string

	OriginatorID   string
	OriginatorName string
	OriginatorType string
	Amount         decimal.Decimal
	DueDate        time.Time
	Note           string

	DueAmount    *decimal.Decimal
	AccountantID *string
	AccountantAt *time.Time

	AmountToPay     *decimal.Decimal
	Priority        *int
	ManagerID       *string
	ManagerAt       *time.Time
	RemainingAmount *decimal.Decimal
	PaymentState    *string

	RejectedBy     *string
	RejectedAt     *time.Time
	RejectedReason *string

	SyncFields
	AuditFields
}

// SyncFields mirror the sync_* columns shared by all workflow tables.
type SyncFields struct {
	SyncStatus   string
	LastPayload  *string
	LastResponse *string
	LastError    *string
	SyncedAt     *time.Time
	MedadRef     *string
}

// AuditFields mirror the audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
