package repositories

import (
	"context"
	"time"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// QuotationRepositoryFacade persists quotations and their acceptance chain.
type QuotationRepositoryFacade interface {
	CreateQuotation(ctx context.Context, q domain.Quotation) (*domain.Quotation, error)

	FindQuotationByID(ctx context.Context, id int64) (*domain.Quotation, error)

	ListQuotationNos(ctx context.Context, prefix string) ([]string, error)

	ListQuotations(ctx context.Context, f ListFilter) ([]domain.Quotation, *string, error)

	// AcceptQuotationRole flips one role's slot pending -> accepted. When the
	// flip completes the chain, the same transaction commits
	// status=accepted and the acceptance timestamp; the returned record
	// reflects the final state.
	AcceptQuotationRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Quotation, error)

	// ReplaceQuotation mirrors ReplaceOrder: body rewrite + acceptance reset
	// + revision bump, refused with apperrors.ErrTerminal once accepted.
	ReplaceQuotation(ctx context.Context, q domain.Quotation, revisedNo string, actorID string, at time.Time) (*domain.Quotation, error)

	DeleteQuotation(ctx context.Context, id int64) error

	RecordQuotationSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error
}
