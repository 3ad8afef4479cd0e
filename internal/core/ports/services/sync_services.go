package services

import (
	"context"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// MedadGateway is the thin client over the Medad HTTP bridge. Implementations
// own token acquisition and caching.
type MedadGateway interface {
	PostPayment(ctx context.Context, payload dto.MedadPaymentPayload) (dto.MedadSyncResult, error)
	PostInvoice(ctx context.Context, payload dto.MedadInvoicePayload) (dto.MedadSyncResult, error)
	ListCustomers(ctx context.Context, accountType string, page, limit int) ([]dto.MedadCustomer, error)
}

// MedadSyncSvcFacade builds payloads, checks hard prerequisites, posts to
// Medad and durably records the outcome on the record. It is invoked only
// after the terminal internal approval has committed and never unwinds it.
type MedadSyncSvcFacade interface {
	SyncPaymentRequest(ctx context.Context, pr domain.PaymentRequest) domain.SyncOutcome
	SyncOrderInvoice(ctx context.Context, o domain.Order) domain.SyncOutcome
	SyncQuotationInvoice(ctx context.Context, q domain.Quotation) domain.SyncOutcome
	ListCustomers(ctx context.Context, q dto.ListMedadCustomersQuery) ([]dto.MedadCustomer, error)

	// LinkClient records the Medad customer id on an internal client,
	// satisfying the invoice sync prerequisite.
	LinkClient(ctx context.Context, clientID, medadCustomerID, actorID string) error
}

// Notifier is informed of stage changes, best-effort: implementations must
// never let a delivery failure surface to the workflow.
type Notifier interface {
	StageChanged(evt dto.StageChangeEvent)
}
