package services

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// QuotationSvcFacade drives the supervisor/manager acceptance chain.
type QuotationSvcFacade interface {
	CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest, creatorUserID string) (*domain.Quotation, error)

	GetQuotation(ctx context.Context, id int64) (*domain.Quotation, error)

	ListQuotations(ctx context.Context, q dto.ListQuery) ([]domain.Quotation, *string, error)

	// AcceptQuotation records one role's acceptance; completing the chain is
	// terminal and triggers the Medad invoice sync, whose outcome is
	// returned (nil while the chain is incomplete).
	AcceptQuotation(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Quotation, *domain.SyncOutcome, error)

	UpdateQuotation(ctx context.Context, id int64, req dto.UpdateQuotationRequest, actorID string) (*domain.Quotation, error)

	DeleteQuotation(ctx context.Context, id int64, actorID string) error

	ResyncQuotation(ctx context.Context, id int64, actorID string) (*domain.Quotation, *domain.SyncOutcome, error)
}
