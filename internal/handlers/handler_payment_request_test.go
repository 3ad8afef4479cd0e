package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/qistas/opsflow_backend/internal/apperrors"
	"github.com/qistas/opsflow_backend/internal/core/domain"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/handlers"
	"github.com/qistas/opsflow_backend/internal/utils"
	"github.com/qistas/opsflow_backend/pkg/config"
)

type PaymentRequestHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockPaymentRequestService
	jwtSecret   string
}

func (suite *PaymentRequestHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockService = new(MockPaymentRequestService)
	container := &portssvc.ServiceContainer{
		PaymentRequest: suite.mockService,
		Order:          new(MockOrderService),
		Quotation:      new(MockQuotationService),
		MedadSync:      new(MockMedadSyncService),
		User:           new(MockUserService),
	}

	cfg := &config.Config{
		JWTSecret:         suite.jwtSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "opsflow-test",
		IsProduction:      true, // skip swagger registration
	}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func TestPaymentRequestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRequestHandlerTestSuite))
}

// generateTestToken creates a signed JWT carrying the given role.
func (suite *PaymentRequestHandlerTestSuite) generateTestToken(userID string, role domain.Role) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "opsflow-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *PaymentRequestHandlerTestSuite) doJSON(method, url string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PaymentRequestHandlerTestSuite) TestCreatePaymentRequest_Created() {
	token := suite.generateTestToken("user-1", domain.RoleOriginator)
	body := dto.CreatePaymentRequestRequest{
		OriginatorID:   "supplier-7",
		OriginatorName: "Al Amal Trading",
		OriginatorType: "supplier",
		Amount:         decimal.NewFromInt(1000),
		DueDate:        time.Now().UTC().AddDate(0, 1, 0),
	}

	created := &domain.PaymentRequest{ID: 11, RequestNo: "PR-2026-00011", Status: domain.StatusPendingAccountant}
	suite.mockService.On("CreatePaymentRequest", mock.Anything, mock.MatchedBy(func(req dto.CreatePaymentRequestRequest) bool {
		return req.OriginatorID == "supplier-7" && req.Amount.Equal(decimal.NewFromInt(1000))
	}), "user-1").Return(created, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/payment-requests", body, token)

	suite.Equal(http.StatusCreated, w.Code)
	var resp domain.PaymentRequest
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("PR-2026-00011", resp.RequestNo)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *PaymentRequestHandlerTestSuite) TestCreatePaymentRequest_MissingToken() {
	w := suite.doJSON(http.MethodPost, "/api/v1/payment-requests", dto.CreatePaymentRequestRequest{}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreatePaymentRequest", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentRequestHandlerTestSuite) TestListPaymentRequests_AccountantView() {
	token := suite.generateTestToken("acct-1", domain.RoleAccountant)

	items := []domain.PaymentRequest{{ID: 1, RequestNo: "PR-2026-00001", Status: domain.StatusPendingAccountant}}
	next := "token-2"
	suite.mockService.On("ListPaymentRequests", mock.Anything, domain.RoleAccountant, mock.MatchedBy(func(q dto.ListQuery) bool {
		return q.Status == "pending" && q.Limit == 20
	})).Return(items, &next, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/payment-requests/accountant", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListPaymentRequestsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Items, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("token-2", *resp.NextToken)
}

func (suite *PaymentRequestHandlerTestSuite) TestListPaymentRequests_UnknownRole() {
	token := suite.generateTestToken("acct-1", domain.RoleAccountant)

	w := suite.doJSON(http.MethodGet, "/api/v1/payment-requests/janitor", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PaymentRequestHandlerTestSuite) TestAccountantReview_WrongStageReads404() {
	token := suite.generateTestToken("acct-1", domain.RoleAccountant)

	suite.mockService.On("AccountantReview", mock.Anything, int64(5), mock.Anything, "acct-1").
		Return(nil, apperrors.ErrStateConflict).Once()

	w := suite.doJSON(http.MethodPatch, "/api/v1/payment-requests/5/accountant",
		dto.AccountantReviewRequest{DueAmount: decimal.NewFromInt(900)}, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PaymentRequestHandlerTestSuite) TestAccountantReview_OriginatorForbidden() {
	token := suite.generateTestToken("user-1", domain.RoleOriginator)

	w := suite.doJSON(http.MethodPatch, "/api/v1/payment-requests/5/accountant",
		dto.AccountantReviewRequest{DueAmount: decimal.NewFromInt(900)}, token)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "AccountantReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentRequestHandlerTestSuite) TestManagerApprove_SyncFailureStill200() {
	token := suite.generateTestToken("mgr-1", domain.RoleManager)

	pay := decimal.NewFromInt(900)
	approved := &domain.PaymentRequest{
		ID: 5, RequestNo: "PR-2026-00005", Status: domain.StatusApprovedManager,
		SyncFields: domain.SyncFields{SyncStatus: domain.SyncFailed},
	}
	outcome := &domain.SyncOutcome{Status: domain.SyncFailed, Err: "medad returned 503", At: time.Now().UTC()}
	suite.mockService.On("ManagerApprove", mock.Anything, int64(5), mock.MatchedBy(func(req dto.ManagerApprovalRequest) bool {
		return req.AmountToPay.Equal(pay) && req.Priority == domain.PriorityHigh
	}), "mgr-1").Return(approved, outcome, nil).Once()

	w := suite.doJSON(http.MethodPatch, "/api/v1/payment-requests/5/manager",
		dto.ManagerApprovalRequest{AmountToPay: pay, Priority: domain.PriorityHigh}, token)

	// The approval stands even though the sync failed.
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ApprovePaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusApprovedManager, resp.Request.Status)
	suite.Equal(domain.SyncFailed, resp.Medad.Status)
	suite.Require().NotNil(resp.Medad.Error)
	suite.Equal("medad returned 503", *resp.Medad.Error)
}

func (suite *PaymentRequestHandlerTestSuite) TestManagerApprove_OverpayReads400() {
	token := suite.generateTestToken("mgr-1", domain.RoleManager)

	suite.mockService.On("ManagerApprove", mock.Anything, int64(5), mock.Anything, "mgr-1").
		Return(nil, nil, apperrors.ErrValidation).Once()

	w := suite.doJSON(http.MethodPatch, "/api/v1/payment-requests/5/manager",
		dto.ManagerApprovalRequest{AmountToPay: decimal.NewFromInt(950), Priority: domain.PriorityHigh}, token)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PaymentRequestHandlerTestSuite) TestResync_AlreadySyncedReads400() {
	token := suite.generateTestToken("mgr-1", domain.RoleManager)

	suite.mockService.On("ResyncPaymentRequest", mock.Anything, int64(5), "mgr-1").
		Return(nil, nil, apperrors.ErrValidation).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/payment-requests/5/sync", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
}
