package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// ListFilter is the common shape of role-scoped list queries. View is one of
// pending|sent|all as defined per record kind; pagination is token-based.
type ListFilter struct {
	View      string
	Limit     int
	NextToken *string
}

// PaymentRequestRepositoryFacade persists payment requests and performs
// their guarded stage transitions. All transition methods return
// apperrors.ErrNotFound when the id does not exist and
// apperrors.ErrStateConflict when the record exists but has left the
// expected stage/status.
type PaymentRequestRepositoryFacade interface {
	// CreatePaymentRequest inserts a new request and returns it with its
	// assigned numeric id. A request number collision (the benign sequence
	// race) surfaces as apperrors.ErrDuplicate so the caller can re-derive
	// and retry.
	CreatePaymentRequest(ctx context.Context, pr domain.PaymentRequest) (*domain.PaymentRequest, error)

	FindPaymentRequestByID(ctx context.Context, id int64) (*domain.PaymentRequest, error)

	// ListRequestNos returns every request number starting with prefix,
	// for sequence derivation.
	ListRequestNos(ctx context.Context, prefix string) ([]string, error)

	ListPaymentRequests(ctx context.Context, role domain.Role, f ListFilter) ([]domain.PaymentRequest, *string, error)

	// SetAccountantReview advances accountant -> manager with a single
	// conditional update gated on (stage=accountant, status=pending_accountant).
	SetAccountantReview(ctx context.Context, id int64, dueAmount decimal.Decimal, actorID string, at time.Time) (*domain.PaymentRequest, error)

	// ApproveByManager performs the row-locked read-validate-write: the due
	// amount is read FOR UPDATE, amountToPay is validated against it inside
	// the transaction, and the terminal status/remainder/payment state are
	// written on commit. amountToPay > dueAmount yields apperrors.ErrValidation
	// with no write.
	ApproveByManager(ctx context.Context, id int64, amountToPay decimal.Decimal, priority int, actorID string, at time.Time) (*domain.PaymentRequest, error)

	// RejectPaymentRequest moves any non-terminal request to rejected.
	RejectPaymentRequest(ctx context.Context, id int64, actorID string, reason string, at time.Time) (*domain.PaymentRequest, error)

	// RecordPaymentSyncOutcome durably stores the result of a Medad attempt.
	// It never alters workflow fields.
	RecordPaymentSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error
}
