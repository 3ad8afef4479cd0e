package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// CreatePaymentRequestRequest is the originator's creation payload.
type CreatePaymentRequestRequest struct {
	OriginatorID   string          `json:"originatorID" binding:"required"`
	OriginatorName string          `json:"originatorName" binding:"required"`
	OriginatorType string          `json:"originatorType" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DueDate        time.Time       `json:"dueDate" binding:"required"`
	Note           string          `json:"note"`
}

// AccountantReviewRequest carries the accountant's certified due amount.
type AccountantReviewRequest struct {
	DueAmount decimal.Decimal `json:"dueAmount" binding:"required"`
}

// ManagerApprovalRequest carries the terminal approval.
type ManagerApprovalRequest struct {
	AmountToPay decimal.Decimal `json:"amountToPay" binding:"required"`
	Priority    int             `json:"priority" binding:"required,oneof=1 2"`
}

// RejectRequest carries an explicit rejection.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// MedadOutcome is the sync sub-object returned alongside a terminal approval.
type MedadOutcome struct {
	Status   domain.SyncStatus `json:"status"`
	Ref      *string           `json:"ref,omitempty"`
	Error    *string           `json:"error,omitempty"`
	SyncedAt *time.Time        `json:"syncedAt,omitempty"`
}

// MedadOutcomeFrom shapes a persisted outcome for API responses.
func MedadOutcomeFrom(o domain.SyncOutcome) MedadOutcome {
	out := MedadOutcome{Status: o.Status}
	at := o.At
	if !at.IsZero() {
		out.SyncedAt = &at
	}
	if o.MedadRef != "" {
		ref := o.MedadRef
		out.Ref = &ref
	}
	if o.Err != "" {
		errText := o.Err
		out.Error = &errText
	}
	return out
}

// ApprovePaymentResponse is the manager-approval response body.
type ApprovePaymentResponse struct {
	Request domain.PaymentRequest `json:"request"`
	Medad   MedadOutcome          `json:"medad"`
}

// ListQuery is the common list-endpoint query shape.
type ListQuery struct {
	Status    string  `form:"status,default=pending"` // pending | sent | all
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentRequestsResponse is a token-paginated page of requests.
type ListPaymentRequestsResponse struct {
	Items     []domain.PaymentRequest `json:"items"`
	NextToken *string                 `json:"nextToken,omitempty"`
}
