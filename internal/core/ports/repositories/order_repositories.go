package repositories

import (
	"context"
	"time"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// OrderRepositoryFacade persists orders, their line items and acceptance
// transitions. Stage transitions follow the same guarded-update contract as
// payment requests.
type OrderRepositoryFacade interface {
	// CreateOrder inserts the order header and its line items in one
	// transaction. Order number collisions surface as apperrors.ErrDuplicate.
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)

	FindOrderByID(ctx context.Context, id int64) (*domain.Order, error)

	ListOrderNos(ctx context.Context, prefix string) ([]string, error)

	ListOrders(ctx context.Context, f ListFilter) ([]domain.Order, *string, error)

	// AcceptOrderRole flips one role's acceptance slot from pending to
	// accepted with a conditional update gated on (status=pending,
	// <role>_state=pending).
	AcceptOrderRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Order, error)

	// MarkOrderDelivered is the terminal transition. It row-locks the order,
	// verifies full acceptance inside the transaction, and commits
	// status=delivered. An order not fully accepted yields
	// apperrors.ErrValidation.
	MarkOrderDelivered(ctx context.Context, id int64, actorID string, at time.Time) (*domain.Order, error)

	// ReplaceOrder rewrites the mutable body (header fields + line items +
	// recomputed totals), resets every acceptance slot to pending and swaps
	// in the revised order number, all in one transaction guarded by
	// status <> 'delivered' after a row-locked existence check. A delivered
	// order yields apperrors.ErrTerminal.
	ReplaceOrder(ctx context.Context, o domain.Order, revisedNo string, actorID string, at time.Time) (*domain.Order, error)

	// DeleteOrder removes a non-delivered order and its line items.
	DeleteOrder(ctx context.Context, id int64) error

	RecordOrderSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error
}
