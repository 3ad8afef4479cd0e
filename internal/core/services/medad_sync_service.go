package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
	"github.com/qistas/opsflow_backend/pkg/config"
)

// medadSyncService builds Medad payloads, enforces the hard sync
// prerequisites and records each attempt's outcome on the record. It runs
// only after the terminal internal transition has committed; a failed sync is
// recorded, never propagated as a workflow failure.
type medadSyncService struct {
	gateway       portssvc.MedadGateway
	partyRepo     portsrepo.PartyRepositoryFacade
	prRepo        portsrepo.PaymentRequestRepositoryFacade
	orderRepo     portsrepo.OrderRepositoryFacade
	quotationRepo portsrepo.QuotationRepositoryFacade
	settings      config.MedadSettings
}

// NewMedadSyncService creates the sync service.
func NewMedadSyncService(gateway portssvc.MedadGateway, repos portsrepo.RepositoryProvider, settings config.MedadSettings) portssvc.MedadSyncSvcFacade {
	return &medadSyncService{
		gateway:       gateway,
		partyRepo:     repos.PartyRepo,
		prRepo:        repos.PaymentRequestRepo,
		orderRepo:     repos.OrderRepo,
		quotationRepo: repos.QuotationRepo,
		settings:      settings,
	}
}

// Ensure medadSyncService implements the facade
var _ portssvc.MedadSyncSvcFacade = (*medadSyncService)(nil)

func failedOutcome(payload string, reason string) domain.SyncOutcome {
	return domain.SyncOutcome{
		Status:  domain.SyncFailed,
		Payload: payload,
		Err:     reason,
		At:      time.Now().UTC(),
	}
}

// outcomeFromErr shapes a gateway error, keeping the raw error body when the
// bridge answered with one.
func outcomeFromErr(payload string, err error) domain.SyncOutcome {
	out := failedOutcome(payload, err.Error())
	var syncErr *apperrors.ExternalSyncError
	if errors.As(err, &syncErr) {
		out.Response = syncErr.Body
	}
	return out
}

func sentOutcome(payload string, res dto.MedadSyncResult) domain.SyncOutcome {
	return domain.SyncOutcome{
		Status:   domain.SyncSent,
		Payload:  payload,
		Response: res.RawResponse,
		MedadRef: res.Ref,
		At:       time.Now().UTC(),
	}
}

func (s *medadSyncService) record(ctx context.Context, kind string, id int64, outcome domain.SyncOutcome, persist func(context.Context, int64, domain.SyncOutcome) error) domain.SyncOutcome {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := persist(ctx, id, outcome); err != nil {
		// The attempt itself happened; losing the record of it is log-worthy
		// but must not fail the caller.
		logger.Error("Failed to persist sync outcome",
			slog.String("kind", kind),
			slog.Int64("id", id),
			slog.String("status", string(outcome.Status)),
			slog.String("error", err.Error()),
		)
	}
	if outcome.Status == domain.SyncSent {
		logger.Info("Record synced to Medad", slog.String("kind", kind), slog.Int64("id", id), slog.String("medad_ref", outcome.MedadRef))
	} else {
		logger.Warn("Medad sync failed", slog.String("kind", kind), slog.Int64("id", id), slog.String("reason", outcome.Err))
	}
	return outcome
}

func (s *medadSyncService) SyncPaymentRequest(ctx context.Context, pr domain.PaymentRequest) domain.SyncOutcome {
	if pr.AmountToPay == nil || pr.Priority == nil {
		outcome := failedOutcome("", "payment request is missing the approved amount or priority")
		return s.record(ctx, "payment_request", pr.ID, outcome, s.prRepo.RecordPaymentSyncOutcome)
	}

	payload := dto.MedadPaymentPayload{
		SubscriptionID: s.settings.SubscriptionID,
		BranchID:       s.settings.BranchID,
		FiscalYear:     s.settings.FiscalYear,
		PaymentType:    s.settings.PaymentType,
		Version:        s.settings.Version,
		ReferenceNo:    pr.RequestNo,
		BeneficiaryID:  pr.OriginatorID,
		Amount:         pr.AmountToPay.String(),
		Priority:       *pr.Priority,
		Note:           pr.Note,
	}
	payloadJSON := marshalPayload(payload)

	res, err := s.gateway.PostPayment(ctx, payload)
	if err != nil {
		return s.record(ctx, "payment_request", pr.ID, outcomeFromErr(payloadJSON, err), s.prRepo.RecordPaymentSyncOutcome)
	}
	return s.record(ctx, "payment_request", pr.ID, sentOutcome(payloadJSON, res), s.prRepo.RecordPaymentSyncOutcome)
}

func (s *medadSyncService) SyncOrderInvoice(ctx context.Context, o domain.Order) domain.SyncOutcome {
	payload, reasons, err := s.buildInvoicePayload(ctx, o.OrderNo, o.ClientID, o.SalesmanID, o.WarehouseID, o.LineItems, o.Totals)
	if err != nil {
		return s.record(ctx, "order", o.ID, failedOutcome("", err.Error()), s.orderRepo.RecordOrderSyncOutcome)
	}
	if len(reasons) > 0 {
		outcome := failedOutcome("", "sync prerequisites not met: "+strings.Join(reasons, "; "))
		return s.record(ctx, "order", o.ID, outcome, s.orderRepo.RecordOrderSyncOutcome)
	}
	payloadJSON := marshalPayload(payload)

	res, err := s.gateway.PostInvoice(ctx, payload)
	if err != nil {
		return s.record(ctx, "order", o.ID, outcomeFromErr(payloadJSON, err), s.orderRepo.RecordOrderSyncOutcome)
	}
	return s.record(ctx, "order", o.ID, sentOutcome(payloadJSON, res), s.orderRepo.RecordOrderSyncOutcome)
}

func (s *medadSyncService) SyncQuotationInvoice(ctx context.Context, q domain.Quotation) domain.SyncOutcome {
	payload, reasons, err := s.buildInvoicePayload(ctx, q.QuotationNo, q.ClientID, q.SalesmanID, q.WarehouseID, q.LineItems, q.Totals)
	if err != nil {
		return s.record(ctx, "quotation", q.ID, failedOutcome("", err.Error()), s.quotationRepo.RecordQuotationSyncOutcome)
	}
	if len(reasons) > 0 {
		outcome := failedOutcome("", "sync prerequisites not met: "+strings.Join(reasons, "; "))
		return s.record(ctx, "quotation", q.ID, outcome, s.quotationRepo.RecordQuotationSyncOutcome)
	}
	payloadJSON := marshalPayload(payload)

	res, err := s.gateway.PostInvoice(ctx, payload)
	if err != nil {
		return s.record(ctx, "quotation", q.ID, outcomeFromErr(payloadJSON, err), s.quotationRepo.RecordQuotationSyncOutcome)
	}
	return s.record(ctx, "quotation", q.ID, sentOutcome(payloadJSON, res), s.quotationRepo.RecordQuotationSyncOutcome)
}

// buildInvoicePayload resolves the external counterpart ids and collects every
// missing prerequisite instead of stopping at the first, so the stored
// failure names everything the operator must fix.
func (s *medadSyncService) buildInvoicePayload(ctx context.Context, referenceNo, clientID string, salesmanID, warehouseID *string, items []domain.LineItem, totals domain.Totals) (dto.MedadInvoicePayload, []string, error) {
	var reasons []string

	payload := dto.MedadInvoicePayload{
		SubscriptionID: s.settings.SubscriptionID,
		BranchID:       s.settings.BranchID,
		FiscalYear:     s.settings.FiscalYear,
		Version:        s.settings.Version,
		ReferenceNo:    referenceNo,
		Total:          totals.Total.String(),
		VAT:            totals.VAT.String(),
		Subtotal:       totals.Subtotal.String(),
	}

	client, err := s.partyRepo.FindClientByID(ctx, clientID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		reasons = append(reasons, fmt.Sprintf("client %s not found", clientID))
	case err != nil:
		return dto.MedadInvoicePayload{}, nil, fmt.Errorf("failed to resolve client %s: %w", clientID, err)
	case client.MedadCustomerID == nil:
		reasons = append(reasons, fmt.Sprintf("client %s is not linked to a Medad customer", clientID))
	default:
		payload.CustomerID = *client.MedadCustomerID
	}

	if salesmanID == nil {
		reasons = append(reasons, "no salesman assigned")
	} else {
		salesman, err := s.partyRepo.FindSalesmanByID(ctx, *salesmanID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			reasons = append(reasons, fmt.Sprintf("salesman %s not found", *salesmanID))
		case err != nil:
			return dto.MedadInvoicePayload{}, nil, fmt.Errorf("failed to resolve salesman %s: %w", *salesmanID, err)
		case salesman.MedadSalesmanID == nil:
			reasons = append(reasons, fmt.Sprintf("salesman %s has no Medad counterpart", *salesmanID))
		default:
			payload.SalesmanID = *salesman.MedadSalesmanID
		}
	}

	if warehouseID == nil {
		reasons = append(reasons, "no warehouse assigned")
	} else {
		warehouse, err := s.partyRepo.FindWarehouseByID(ctx, *warehouseID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			reasons = append(reasons, fmt.Sprintf("warehouse %s not found", *warehouseID))
		case err != nil:
			return dto.MedadInvoicePayload{}, nil, fmt.Errorf("failed to resolve warehouse %s: %w", *warehouseID, err)
		case warehouse.MedadWarehouseID == nil:
			reasons = append(reasons, fmt.Sprintf("warehouse %s has no Medad counterpart", *warehouseID))
		default:
			payload.WarehouseID = *warehouse.MedadWarehouseID
		}
	}

	for i, it := range items {
		if it.MedadProductCode == nil || *it.MedadProductCode == "" {
			reasons = append(reasons, fmt.Sprintf("line %d has no Medad product code", i+1))
			continue
		}
		payload.Lines = append(payload.Lines, dto.MedadInvoiceLine{
			ProductCode: *it.MedadProductCode,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.String(),
			VAT:         it.VAT.String(),
			Subtotal:    it.Subtotal.String(),
		})
	}

	return payload, reasons, nil
}

func (s *medadSyncService) ListCustomers(ctx context.Context, q dto.ListMedadCustomersQuery) ([]dto.MedadCustomer, error) {
	customers, err := s.gateway.ListCustomers(ctx, q.AccountType, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list Medad customers: %w", err)
	}
	if customers == nil {
		customers = []dto.MedadCustomer{}
	}
	return customers, nil
}

func (s *medadSyncService) LinkClient(ctx context.Context, clientID, medadCustomerID, actorID string) error {
	if medadCustomerID == "" {
		return fmt.Errorf("%w: medad customer id is required", apperrors.ErrValidation)
	}
	if err := s.partyRepo.LinkClientToMedad(ctx, clientID, medadCustomerID, actorID); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Client linked to Medad customer",
		slog.String("client_id", clientID), slog.String("medad_customer_id", medadCustomerID))
	return nil
}

func marshalPayload(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
