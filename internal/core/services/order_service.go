package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
	"github.com/qistas/opsflow_backend/internal/utils/financial"
	"github.com/qistas/opsflow_backend/internal/utils/sequence"
)

type orderService struct {
	repo     portsrepo.OrderRepositoryFacade
	syncSvc  portssvc.MedadSyncSvcFacade
	notifier portssvc.Notifier
}

// NewOrderService creates the order workflow service.
func NewOrderService(repo portsrepo.OrderRepositoryFacade, syncSvc portssvc.MedadSyncSvcFacade, notifier portssvc.Notifier) portssvc.OrderSvcFacade {
	return &orderService{repo: repo, syncSvc: syncSvc, notifier: notifier}
}

// Ensure orderService implements the facade
var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// pricedItems aggregates the input lines and assigns fresh line ids.
func pricedItems(inputs []dto.LineItemInput) ([]domain.LineItem, domain.Totals, error) {
	items, totals, err := financial.Aggregate(dto.DomainItems(inputs))
	if err != nil {
		return nil, domain.Totals{}, err
	}
	for i := range items {
		items[i].LineID = uuid.NewString()
	}
	return items, totals, nil
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	items, totals, err := pricedItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	year := now.Year()

	var created *domain.Order
	for attempt := 0; attempt < sequenceRetries; attempt++ {
		existing, err := s.repo.ListOrderNos(ctx, sequence.Prefix("ORD", year))
		if err != nil {
			return nil, fmt.Errorf("failed to derive order number: %w", err)
		}
		orderNo := sequence.Next("ORD", year, existing)

		o := domain.Order{
			OrderNo:     orderNo,
			Status:      domain.OrderPending,
			ClientID:    req.ClientID,
			Note:        req.Note,
			Storekeeper: domain.Acceptance{State: domain.AcceptancePending},
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

		created, err = s.repo.CreateOrder(ctx, o)
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Order number collision, retrying", slog.String("order_no", orderNo))
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if created == nil {
		return nil, fmt.Errorf("exhausted order number retries: %w", apperrors.ErrDuplicate)
	}

	logger.Info("Order created", slog.Int64("id", created.ID), slog.String("order_no", created.OrderNo))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "order",
		RecordNo:   created.OrderNo,
		To:         string(domain.OrderPending),
		ActorID:    creatorUserID,
		At:         now,
	})
	return created, nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindOrderByID(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context, q dto.ListQuery) ([]domain.Order, *string, error) {
	return s.repo.ListOrders(ctx, portsrepo.ListFilter{
		View:      q.Status,
		Limit:     q.Limit,
		NextToken: q.NextToken,
	})
}

func (s *orderService) AcceptOrder(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Order, error) {
	now := time.Now().UTC()
	o, err := s.repo.AcceptOrderRole(ctx, id, role, actorID, now)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Order accepted by role",
		slog.Int64("id", id), slog.String("role", string(role)), slog.Bool("fully_accepted", o.FullyAccepted()))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "order",
		RecordNo:   o.OrderNo,
		From:       string(domain.AcceptancePending),
		To:         fmt.Sprintf("%s_accepted", role),
		ActorID:    actorID,
		At:         now,
	})
	return o, nil
}

func (s *orderService) DeliverOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error) {
	now := time.Now().UTC()
	o, err := s.repo.MarkOrderDelivered(ctx, id, actorID, now)
	if err != nil {
		return nil, nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Order delivered", slog.Int64("id", id), slog.String("order_no", o.OrderNo))
	s.notifier.StageChanged(dto.StageChangeEvent{
		RecordKind: "order",
		RecordNo:   o.OrderNo,
		From:       string(domain.OrderPending),
		To:         string(domain.OrderDelivered),
		ActorID:    actorID,
		At:         now,
	})

	// Delivery is committed; the invoice sync runs after it and its failure
	// never unwinds the delivery.
	outcome := s.syncSvc.SyncOrderInvoice(ctx, *o)
	if refreshed, err := s.repo.FindOrderByID(ctx, id); err == nil {
		o = refreshed
	}
	return o, &outcome, nil
}

func (s *orderService) UpdateOrder(ctx context.Context, id int64, req dto.UpdateOrderRequest, actorID string) (*domain.Order, error) {
	current, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Terminal() {
		return nil, fmt.Errorf("order %d is %s: %w", id, current.Status, apperrors.ErrTerminal)
	}

	items, totals, err := pricedItems(req.LineItems)
	if err != nil {
		return nil, err
	}

	// An edit after any acceptance invalidates the approvals, so the order
	// number gains a revision marker alongside the slot reset.
	revisedNo := current.OrderNo
	anyAccepted := current.Storekeeper.Accepted() || current.Supervisor.Accepted() || current.Manager.Accepted()
	if anyAccepted {
		revisedNo = sequence.BumpRevision(current.OrderNo)
	}

	now := time.Now().UTC()
	replacement := domain.Order{
		ID:          id,
		ClientID:    req.ClientID,
		Note:        req.Note,
		SalesmanID:  req.SalesmanID,
		WarehouseID: req.WarehouseID,
		LineItems:   items,
		Totals:      totals,
	}
	o, err := s.repo.ReplaceOrder(ctx, replacement, revisedNo, actorID, now)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Order updated",
		slog.Int64("id", id), slog.String("order_no", o.OrderNo), slog.Bool("acceptances_reset", anyAccepted))
	if anyAccepted {
		s.notifier.StageChanged(dto.StageChangeEvent{
			RecordKind: "order",
			RecordNo:   o.OrderNo,
			From:       current.OrderNo,
			To:         "acceptances_reset",
			ActorID:    actorID,
			At:         now,
		})
	}
	return o, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64, actorID string) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Order deleted", slog.Int64("id", id), slog.String("actor", actorID))
	return nil
}

func (s *orderService) ResyncOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error) {
	o, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if o.Status != domain.OrderDelivered {
		return nil, nil, fmt.Errorf("%w: only delivered orders can be resynced", apperrors.ErrStateConflict)
	}
	if o.Synced() {
		return nil, nil, fmt.Errorf("%w: order is already synced to Medad", apperrors.ErrValidation)
	}

	outcome := s.syncSvc.SyncOrderInvoice(ctx, *o)
	if refreshed, err := s.repo.FindOrderByID(ctx, id); err == nil {
		o = refreshed
	}
	return o, &outcome, nil
}
