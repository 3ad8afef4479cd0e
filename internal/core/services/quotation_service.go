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

type quotationService struct {
	repo     portsrepo.QuotationRepositoryFacade
	syncSvc  portssvc.MedadSyncSvcFacade
	notifier portssvc.Notifier
}

// NewQuotationService creates the quotation workflow service.
func NewQuotationService(repo portsrepo.QuotationRepositoryFacade, syncSvc portssvc.MedadSyncSvcFacade, notifier portssvc.Notifier) portssvc.QuotationSvcFacade {
	return &quotationService{repo: repo, syncSvc: syncSvc, notifier: notifier}
}

// Ensure quotationService implements the facade
var _ portssvc.QuotationSvcFacade = (*quotationService)(nil)

func (s *quotationService) CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest, creatorUserID string) (*domain.Quotation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	items, totals, err := pricedItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	year := now.Year()

	var created *domain.Quotation
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		existing, err := s.repo.ListQuotationNos(ctx, sequence.Prefix("QT", year))
		if err != nil {
			return nil, fmt.Errorf("failed to derive quotation number: %w", err)
		}
		quotationNo := sequence.Next("QT", year, existing)

		q := domain.Quotation{
			QuotationNo: quotationNo,
			Status:      domain.QuotationPending,
			ClientID:    req.ClientID,
			Note:        req.Note,
			Supervisor:  domain.Acceptance{State: domain.AcceptancePending},
			Manager:     domain.Acceptance{State: domain.AcceptancePending},
			SalesmanID:  req.SalesmanID,
			WarehouseID: req.WarehouseID,
			LineItems:   items,
			Totals:      totals,
			SyncFields:  domain.SyncFields{SyncStatus: domain.SyncNotSent},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}

		created, err = s.repo.CreateQuotation(ctx, q)
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Quotation number collision, retrying", slog.String("quotation_no", quotationNo))
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if created == nil {
		return nil, fmt.Errorf("exhausted quotation number retries: %w", apperrors.ErrDuplicate)
	}

	logger.Info("Quotation created", slog.Int64("id", created.ID), slog.String("quotation_no", created.QuotationNo))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "quotation",
		RecordNo:   created.QuotationNo,
		To:         string(domain.QuotationPending),
		ActorID:    creatorUserID,
		At:         now,
	})
	return created, nil
}

func (s *quotationService) GetQuotation(ctx context.Context, id int64) (*domain.Quotation, error) {
	return s.repo.FindQuotationByID(ctx, id)
}

func (s *quotationService) ListQuotations(ctx context.Context, q dto.ListQuery) ([]domain.Quotation, *string, error) {
	return s.repo.ListQuotations(ctx, portsrepo.ListFilter{
		View:      q.Status,
		Limit:     q.Limit,
		NextToken: q.NextToken,
	})
}

func (s *quotationService) AcceptQuotation(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Quotation, *domain.SyncOutcome, error) {
	now := time.Now().UTC()
	q, err := s.repo.AcceptQuotationRole(ctx, id, role, actorID, now)
	if err != nil {
		return nil, nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Quotation accepted by role",
		slog.Int64("id", id), slog.String("role", string(role)), slog.String("status", string(q.Status)))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "quotation",
		RecordNo:   q.QuotationNo,
		From:       string(domain.AcceptancePending),
		To:         fmt.Sprintf("%s_accepted", role),
		ActorID:    actorID,
		At:         now,
	})

	if q.Status != domain.QuotationAccepted {
		return q, nil, nil
	}

	// Final acceptance is terminal and already committed; the invoice sync
	// follows and its failure never unwinds the acceptance.
	outcome := s.syncSvc.SyncQuotationInvoice(ctx, *q)
	if refreshed, err := s.repo.FindQuotationByID(ctx, id); err == nil {
		q = refreshed
	}
	return q, &outcome, nil
}

func (s *quotationService) UpdateQuotation(ctx context.Context, id int64, req dto.UpdateQuotationRequest, actorID string) (*domain.Quotation, error) {
	current, err := s.repo.FindQuotationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Terminal() {
		return nil, fmt.Errorf("quotation %d is %s: %w", id, current.Status, apperrors.ErrTerminal)
	}

	items, totals, err := pricedItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	revisedNo := current.QuotationNo
	anyAccepted := current.Supervisor.Accepted() || current.Manager.Accepted()
	if anyAccepted {
		revisedNo = sequence.BumpRevision(current.QuotationNo)
	}

	now := time.Now().UTC()
	replacement := domain.Quotation{
		ID:          id,
		ClientID:    req.ClientID,
		Note:        req.Note,
		SalesmanID:  req.SalesmanID,
		WarehouseID: req.WarehouseID,
		LineItems:   items,
		Totals:      totals,
	}
	q, err := s.repo.ReplaceQuotation(ctx, replacement, revisedNo, actorID, now)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Quotation updated",
		slog.Int64("id", id), slog.String("quotation_no", q.QuotationNo), slog.Bool("acceptances_reset", anyAccepted))
	if anyAccepted {
		s.notifier.StageChanged(dto.StageChangeEvent{
			RecordKind: "quotation",
			RecordNo:   q.QuotationNo,
			From:       current.QuotationNo,
			To:         "acceptances_reset",
			ActorID:    actorID,
			At:         now,
		})
	}
	return q, nil
}

func (s *quotationService) DeleteQuotation(ctx context.Context, id int64, actorID string) error {
	if err := s.repo.DeleteQuotation(ctx, id); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Quotation deleted", slog.Int64("id", id), slog.String("actor", actorID))
	return nil
}

func (s *quotationService) ResyncQuotation(ctx context.Context, id int64, actorID string) (*domain.Quotation, *domain.SyncOutcome, error) {
	q, err := s.repo.FindQuotationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if q.Status != domain.QuotationAccepted {
		return nil, nil, fmt.Errorf("%w: only fully accepted quotations can be resynced", apperrors.ErrStateConflict)
	}
	if q.Synced() {
		return nil, nil, fmt.Errorf("%w: quotation is already synced to Medad", apperrors.ErrValidation)
	}

	outcome := s.syncSvc.SyncQuotationInvoice(ctx, *q)
	if refreshed, err := s.repo.FindQuotationByID(ctx, id); err == nil {
		q = refreshed
	}
	return q, &outcome, nil
}
