package services

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// PaymentRequestSvcFacade drives the accountant -> manager -> manager_done
// workflow.
type PaymentRequestSvcFacade interface {
	CreatePaymentRequest(ctx context.Context, req dto.CreatePaymentRequestRequest, creatorUserID string) (*domain.PaymentRequest, error)

	GetPaymentRequest(ctx context.Context, id int64) (*domain.PaymentRequest, error)

	ListPaymentRequests(ctx context.Context, role domain.Role, q dto.ListQuery) ([]domain.PaymentRequest, *string, error)

	// AccountantReview sets the certified due amount and advances the
	// request to the manager stage.
	AccountantReview(ctx context.Context, id int64, req dto.AccountantReviewRequest, actorID string) (*domain.PaymentRequest, error)

	// ManagerApprove commits the terminal approval and then attempts the
	// Medad payment sync outside the approval transaction. The returned
	// outcome reflects the sync attempt; the approval stands regardless.
	ManagerApprove(ctx context.Context, id int64, req dto.ManagerApprovalRequest, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error)

	RejectPaymentRequest(ctx context.Context, id int64, req dto.RejectRequest, actorID string) (*domain.PaymentRequest, error)

	// ResyncPaymentRequest retries the Medad sync of a terminally approved
	// request whose last attempt failed.
	ResyncPaymentRequest(ctx context.Context, id int64, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error)
}
