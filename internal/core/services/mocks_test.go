package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	"github.com/qistas/opsflow_backend/internal/dto"
)

// --- Mock PaymentRequestRepositoryFacade ---

type MockPaymentRequestRepository struct {
	mock.Mock
}

func (m *MockPaymentRequestRepository) CreatePaymentRequest(ctx context.Context, pr domain.PaymentRequest) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) FindPaymentRequestByID(ctx context.Context, id int64) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) ListRequestNos(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPaymentRequestRepository) ListPaymentRequests(ctx context.Context, role domain.Role, f portsrepo.ListFilter) ([]domain.PaymentRequest, *string, error) {
	args := m.Called(ctx, role, f)
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

func (m *MockPaymentRequestRepository) SetAccountantReview(ctx context.Context, id int64, dueAmount decimal.Decimal, actorID string, at time.Time) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id, dueAmount, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) ApproveByManager(ctx context.Context, id int64, amountToPay decimal.Decimal, priority int, actorID string, at time.Time) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id, amountToPay, priority, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) RejectPaymentRequest(ctx context.Context, id int64, actorID string, reason string, at time.Time) (*domain.PaymentRequest, error) {
	args := m.Called(ctx, id, actorID, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRequest), args.Error(1)
}

func (m *MockPaymentRequestRepository) RecordPaymentSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

// --- Mock OrderRepositoryFacade ---

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrderNos(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, f portsrepo.ListFilter) ([]domain.Order, *string, error) {
	args := m.Called(ctx, f)
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

func (m *MockOrderRepository) AcceptOrderRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, role, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkOrderDelivered(ctx context.Context, id int64, actorID string, at time.Time) (*domain.Order, error) {
	args := m.Called(ctx, id, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ReplaceOrder(ctx context.Context, o domain.Order, revisedNo string, actorID string, at time.Time) (*domain.Order, error) {
	args := m.Called(ctx, o, revisedNo, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) RecordOrderSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

// --- Mock QuotationRepositoryFacade ---

type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) CreateQuotation(ctx context.Context, q domain.Quotation) (*domain.Quotation, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindQuotationByID(ctx context.Context, id int64) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) ListQuotationNos(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQuotationRepository) ListQuotations(ctx context.Context, f portsrepo.ListFilter) ([]domain.Quotation, *string, error) {
	args := m.Called(ctx, f)
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

func (m *MockQuotationRepository) AcceptQuotationRole(ctx context.Context, id int64, role domain.Role, actorID string, at time.Time) (*domain.Quotation, error) {
	args := m.Called(ctx, id, role, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) ReplaceQuotation(ctx context.Context, q domain.Quotation, revisedNo string, actorID string, at time.Time) (*domain.Quotation, error) {
	args := m.Called(ctx, q, revisedNo, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) DeleteQuotation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) RecordQuotationSyncOutcome(ctx context.Context, id int64, outcome domain.SyncOutcome) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

// --- Mock PartyRepositoryFacade ---

type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockPartyRepository) LinkClientToMedad(ctx context.Context, clientID, medadCustomerID, actorID string) error {
	args := m.Called(ctx, clientID, medadCustomerID, actorID)
	return args.Error(0)
}

func (m *MockPartyRepository) FindSalesmanByID(ctx context.Context, salesmanID string) (*domain.Salesman, error) {
	args := m.Called(ctx, salesmanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Salesman), args.Error(1)
}

func (m *MockPartyRepository) FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Warehouse), args.Error(1)
}

// --- Mock UserRepositoryFacade ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock MedadGateway ---

type MockMedadGateway struct {
	mock.Mock
}

func (m *MockMedadGateway) PostPayment(ctx context.Context, payload dto.MedadPaymentPayload) (dto.MedadSyncResult, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(dto.MedadSyncResult), args.Error(1)
}

func (m *MockMedadGateway) PostInvoice(ctx context.Context, payload dto.MedadInvoicePayload) (dto.MedadSyncResult, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(dto.MedadSyncResult), args.Error(1)
}

func (m *MockMedadGateway) ListCustomers(ctx context.Context, accountType string, page, limit int) ([]dto.MedadCustomer, error) {
	args := m.Called(ctx, accountType, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.MedadCustomer), args.Error(1)
}

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

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) StageChanged(evt dto.StageChangeEvent) {
	m.Called(evt)
}
