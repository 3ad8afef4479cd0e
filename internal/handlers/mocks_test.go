package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// --- Mock PaymentRequestSvcFacade ---

type MockPaymentRequestService struct {
	mock.Mock
}

func (m *MockPaymentRequestService) CreatePaymentRequest(ctx context.Context, req dto.CreatePaymentRequestRequest, creatorUserID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestService) GetPaymentRequest(ctx context.Context, id int64) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestService) ListPaymentRequests(ctx context.Context, role domain.Role, q dto.ListQuery) ([]domain.PaymentRequest, *string, error) {
	args := m.Called(ctx, role, q)
	var items []domain.PaymentRequest
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.PaymentRequest)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return items, token, args.Error(2)
}

func (m *MockPaymentRequestService) AccountantReview(ctx context.Context, id int64, req dto.AccountantReviewRequest, actorID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestService) ManagerApprove(ctx context.Context, id int64, req dto.ManagerApprovalRequest, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, req, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.PaymentRequest), outcome, args.Error(2)
}

func (m *MockPaymentRequestService) RejectPaymentRequest(ctx context.Context, id int64, req dto.RejectRequest, actorID string) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestService) ResyncPaymentRequest(ctx context.Context, id int64, actorID string) (*domain.PaymentRequest, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.PaymentRequest), outcome, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.PaymentRequestSvcFacade = (*MockPaymentRequestService)(nil)

// --- Mock OrderSvcFacade ---

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, q dto.ListQuery) ([]domain.Order, *string, error) {
	args := m.Called(ctx, q)
	var items []domain.Order
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Order)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return items, token, args.Error(2)
}

func (m *MockOrderService) AcceptOrder(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Order, error) {
	args := m.Called(ctx, id, role, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) DeliverOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.Order), outcome, args.Error(2)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, id int64, req dto.UpdateOrderRequest, actorID string) (*domain.Order, error) {
	args := m.Called(ctx, id, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id int64, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockOrderService) ResyncOrder(ctx context.Context, id int64, actorID string) (*domain.Order, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.Order), outcome, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock QuotationSvcFacade ---

type MockQuotationService struct {
	mock.Mock
}

func (m *MockQuotationService) CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest, creatorUserID string) (*domain.Quotation, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationService) GetQuotation(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationService) ListQuotations(ctx context.Context, q dto.ListQuery) ([]domain.Quotation, *string, error) {
	args := m.Called(ctx, q)
	var items []domain.Quotation
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Quotation)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return items, token, args.Error(2)
}

func (m *MockQuotationService) AcceptQuotation(ctx context.Context, id int64, role domain.Role, actorID string) (*domain.Quotation, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, role, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.Quotation), outcome, args.Error(2)
}

func (m *MockQuotationService) UpdateQuotation(ctx context.Context, id int64, req dto.UpdateQuotationRequest, actorID string) (*domain.Quotation, error) {
	args := m.Called(ctx, id, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationService) DeleteQuotation(ctx context.Context, id int64, actorID string) error {
	args := m.Called(ctx, id, actorID)
	return args.Error(0)
}

func (m *MockQuotationService) ResyncQuotation(ctx context.Context, id int64, actorID string) (*domain.Quotation, *domain.SyncOutcome, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var outcome *domain.SyncOutcome
	if args.Get(1) != nil {
		outcome = args.Get(1).(*domain.SyncOutcome)
	}
	return args.Get(0).(*domain.Quotation), outcome, args.Error(2)
}

// Ensure mock implements the interface
var _ portssvc.QuotationSvcFacade = (*MockQuotationService)(nil)

// --- Mock MedadSyncSvcFacade ---

type MockMedadSyncService struct {
	mock.Mock
}

func (m *MockMedadSyncService) SyncPaymentRequest(ctx context.Context, pr domain.PaymentRequest) domain.SyncOutcome {
	args := m.Called(ctx, pr)
	return args.Get(0).(domain.SyncOutcome)
}

func (m *MockMedadSyncService) SyncOrderInvoice(ctx context.Context, o domain.Order) domain.SyncOutcome {
	args := m.Called(ctx, o)
	return args.Get(0).(domain.SyncOutcome)
}

func (m *MockMedadSyncService) SyncQuotationInvoice(ctx context.Context, q domain.Quotation) domain.SyncOutcome {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.SyncOutcome)
}

func (m *MockMedadSyncService) ListCustomers(ctx context.Context, q dto.ListMedadCustomersQuery) ([]dto.MedadCustomer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MedadCustomer), args.Error(1)
}

func (m *MockMedadSyncService) LinkClient(ctx context.Context, clientID, medadCustomerID, actorID string) error {
	args := m.Called(ctx, clientID, medadCustomerID, actorID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.MedadSyncSvcFacade = (*MockMedadSyncService)(nil)

// --- Mock UserSvcFacade ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.UserSvcFacade = (*MockUserService)(nil)
