package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
	"github.com/qistas/opsflow_backend/internal/utils/sequence"
)

// sequenceRetries bounds the re-derive-and-retry loop closing the benign race
// between the sequence scan and the insert.
const sequenceRetries = 3

type paymentRequestService struct {
	repo     portsrepo.PaymentRequestRepositoryFacade
	syncSvc  portssvc.MedadSyncSvcFacade
	notifier portssvc.Notifier
}

// NewPaymentRequestService creates the payment request workflow service.
func NewPaymentRequestService(repo portsrepo.PaymentRequestRepositoryFacade, syncSvc portssvc.MedadSyncSvcFacade, notifier portssvc.Notifier) portssvc.PaymentRequestSvcFacade {
	return &paymentRequestService{repo: repo, syncSvc: syncSvc, notifier: notifier}
}

// Ensure paymentRequestService implements the facade
var _ portssvc.PaymentRequestSvcFacade = (*paymentRequestService)(nil)

func (s *paymentRequestService) CreatePaymentRequest(ctx context.Context, req dto.CreatePaymentRequestRequest, creatorUserID string) (*domain.PaymentRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	year := now.Year()

	var created *domain.PaymentRequest
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		existing, err := s.repo.ListRequestNos(ctx, sequence.Prefix("PR", year))
		if err != nil {
			return nil, fmt.Errorf("failed to derive request number: %w", err)
		}
		requestNo := sequence.Next("PR", year, existing)

		pr := domain.PaymentRequest{
			RequestNo:      requestNo,
			Stage:          domain.StageAccountant,
			Status:         domain.StatusPendingAccountant,
			OriginatorID:   req.OriginatorID,
			OriginatorName: req.OriginatorName,
			OriginatorType: req.OriginatorType,
			Amount:         req.Amount,
			DueDate:        req.DueDate,
			Note:           req.Note,
			SyncFields:     domain.SyncFields{SyncStatus: domain.SyncNotSent},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}

		created, err = s.repo.CreatePaymentRequest(ctx, pr)
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Request number collision, retrying", slog.String("request_no", requestNo))
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if created == nil {
		return nil, fmt.Errorf("exhausted request number retries: %w", apperrors.ErrDuplicate)
	}

	logger.Info("Payment request created", slog.Int64("id", created.ID), slog.String("request_no", created.RequestNo))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "payment_request",
		RecordNo:   created.RequestNo,
		To:         string(created.Status),
		ActorID:    creatorUserID,
		At:         now,
	})
	return created, nil
}

func (s *paymentRequestService) GetPaymentRequest(ctx context.Context, id int64) (*domain.PaymentRequest, error) {
	return s.repo.FindPaymentRequestByID(ctx, id)
}

func (s *paymentRequestService) ListPaymentRequests(ctx context.Context, role domain.Role, q dto.ListQuery) ([]domain.PaymentRequest, *string, error) {
	return s.repo.ListPaymentRequests(ctx, role, portsrepo.ListFilter{
		View:      q.Status,
		Limit:     q.Limit,
		NextToken: q.NextToken,
	})
}

func (s *paymentRequestService) AccountantReview(ctx context.Context, id int64, req dto.AccountantReviewRequest, actorID string) (*domain.PaymentRequest, error) {
	if !req.DueAmount.IsPositive() {
		return nil, fmt.Errorf("%w: due amount must be greater than zero", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	pr, err := s.repo.SetAccountantReview(ctx, id, req.DueAmount, actorID, now)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Payment request reviewed by accountant",
		slog.Int64("id", id), slog.String("due_amount", req.DueAmount.String()))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "payment_request",
		RecordNo:   pr.RequestNo,
		From:       string(domain.StatusPendingAccountant),
		To:         string(pr.Status),
		ActorID:    actorID,
		At:         now,
	})
	return pr, nil
}

func (s *paymentRequestService) ManagerApprove(ctx context.Context, id int64, req dto.ManagerApprovalRequest, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error) {
	if !req.AmountToPay.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount to pay must be greater than zero", apperrors.ErrValidation)
	}
	if !domain.ValidPriority(req.Priority) {
		return nil, nil, fmt.Errorf("%w: priority must be 1 (high) or 2 (normal)", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	pr, err := s.repo.ApproveByManager(ctx, id, req.AmountToPay, req.Priority, actorID, now)
	if err != nil {
		return nil, nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Payment request approved by manager",
		slog.Int64("id", id), slog.String("status", string(pr.Status)))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "payment_request",
		RecordNo:   pr.RequestNo,
		From:       string(domain.StatusPendingManager),
		To:         string(pr.Status),
		ActorID:    actorID,
		At:         now,
	})

	// The approval above is committed; the sync attempt runs after it and its
	// failure never unwinds the approval.
	outcome := s.syncSvc.SyncPaymentRequest(ctx, *pr)
	if refreshed, err := s.repo.FindPaymentRequestByID(ctx, id); err == nil {
		pr = refreshed
	}
	return pr, &outcome, nil
}

func (s *paymentRequestService) RejectPaymentRequest(ctx context.Context, id int64, req dto.RejectRequest, actorID string) (*domain.PaymentRequest, error) {
	now := time.Now().UTC()
	pr, err := s.repo.RejectPaymentRequest(ctx, id, actorID, req.Reason, now)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Payment request rejected", slog.Int64("id", id))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "payment_request",
		RecordNo:   pr.RequestNo,
		To:         string(domain.StatusRejected),
		ActorID:    actorID,
		At:         now,
	})
	return pr, nil
}

func (s *paymentRequestService) ResyncPaymentRequest(ctx context.Context, id int64, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error) {
	pr, err := s.repo.FindPaymentRequestByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if pr.Status != domain.StatusApprovedManager && pr.Status != domain.StatusApprovedManagerPartial {
		return nil, nil, fmt.Errorf("%w: only terminally approved requests can be resynced", apperrors.ErrStateConflict)
	}
	if pr.Synced() {
		return nil, nil, fmt.Errorf("%w: request is already synced to Medad", apperrors.ErrValidation)
	}

	outcome := s.syncSvc.SyncPaymentRequest(ctx, *pr)
	if refreshed, err := s.repo.FindPaymentRequestByID(ctx, id); err == nil {
		pr = refreshed
	}
	return pr, &outcome, nil
}
