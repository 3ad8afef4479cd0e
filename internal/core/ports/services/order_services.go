package services

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// OrderSvcFacade drives the storekeeper/supervisor/manager acceptance chain
// and delivery.
type OrderSvcFacade interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error)

	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListOrders(ctx context.Context, q dto.ListQuery) ([]domain.Order, *string, error)

	// AcceptOrder records one role's acceptance. Each role transitions
	// independently; "fully accepted" is computed, never stored.
	AcceptOrder(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Order, error)

	// DeliverOrder is the manager's terminal transition; requires full
	// acceptance and triggers the Medad invoice sync.
	DeliverOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error)

	// UpdateOrder replaces the order body, resetting acceptances and bumping
	// the revision suffix. Refused once delivered.
	UpdateOrder(ctx context.Context, id int64, req dto.UpdateOrderRequest, actorID string) (*domain.Order, error)

	// DeleteOrder removes a non-delivered order.
	DeleteOrder(ctx context.Context, id int64, actorID string) error

	ResyncOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error)
}
