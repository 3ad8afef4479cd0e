package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
)

// paymentRequestHandler handles HTTP requests for the payment request workflow.
type paymentRequestHandler struct {
	service portssvc.PaymentRequestSvcFacade
}

func newPaymentRequestHandler(s portssvc.PaymentRequestSvcFacade) *paymentRequestHandler {
	return &paymentRequestHandler{service: s}
}

// registerPaymentRequestRoutes registers routes for the payment request workflow.
func registerPaymentRequestRoutes(rg *gin.RouterGroup, service portssvc.PaymentRequestSvcFacade) {
	h := newPaymentRequestHandler(service)

	requests := rg.Group("/payment-requests")
	{
		requests.POST("", h.createPaymentRequest)
		requests.GET("/id/:id", h.getPaymentRequest)
		requests.GET("/:role", h.listPaymentRequests)
		requests.PATCH("/:id/accountant", middleware.RequireRole(domain.RoleAccountant), h.accountantReview)
		requests.PATCH("/:id/manager", middleware.RequireRole(domain.RoleManager), h.managerApprove)
		requests.PATCH("/:id/reject", middleware.RequireRole(domain.RoleAccountant, domain.RoleManager), h.rejectPaymentRequest)
		requests.POST("/:id/sync", middleware.RequireRole(domain.RoleManager), h.resyncPaymentRequest)
	}
}

// parseIDParam extracts the numeric :id path parameter.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid id"})
		return 0, false
	}
	return id, true
}

// createPaymentRequest godoc
// @Summary Create a payment request
// @Description Creates a payment request in the accountant stage with a fresh sequence number.
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequestRequest true "Payment request details"
// @Success 201 {object} domain.PaymentRequest
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-requests [post]
func (h *paymentRequestHandler) createPaymentRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePaymentRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pr, err := h.service.CreatePaymentRequest(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWorkflowError(c, err, "create payment request")
		return
	}
	c.JSON(http.StatusCreated, pr)
}

// getPaymentRequest godoc
// @Summary Get a payment request by id
// @Tags payment-requests
// @Produce json
// @Param id path int true "Payment request ID"
// @Success 200 {object} domain.PaymentRequest
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-requests/id/{id} [get]
func (h *paymentRequestHandler) getPaymentRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	pr, err := h.service.GetPaymentRequest(c.Request.Context(), id)
	if err != nil {
		respondWorkflowError(c, err, "get payment request")
		return
	}
	c.JSON(http.StatusOK, pr)
}

// listPaymentRequests godoc
// @Summary List payment requests for a role
// @Description Lists the requests visible to a role. status=pending shows the role's queue, status=sent what it already acted on.
// @Tags payment-requests
// @Produce json
// @Param role path string true "Workflow role"
// @Param status query string false "pending | sent | all" default(pending)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPaymentRequestsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /payment-requests/{role} [get]
func (h *paymentRequestHandler) listPaymentRequests(c *gin.Context) {
	role := domain.Role(c.Param("role"))
	if !domain.ValidRole(role) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown role: " + c.Param("role")})
		return
	}

	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	items, nextToken, err := h.service.ListPaymentRequests(c.Request.Context(), role, q)
	if err != nil {
		respondWorkflowError(c, err, "list payment requests")
		return
	}
	c.JSON(http.StatusOK, dto.ListPaymentRequestsResponse{Items: items, NextToken: nextToken})
}

// accountantReview godoc
// @Summary Accountant review
// @Description Sets the certified due amount and advances the request to the manager stage.
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path int true "Payment request ID"
// @Param review body dto.AccountantReviewRequest true "Certified due amount"
// @Success 200 {object} domain.PaymentRequest
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Not found or not pending accountant review"
// @Security BearerAuth
// @Router /payment-requests/{id}/accountant [patch]
func (h *paymentRequestHandler) accountantReview(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.AccountantReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pr, err := h.service.AccountantReview(c.Request.Context(), id, req, actorID)
	if err != nil {
		respondWorkflowError(c, err, "review payment request")
		return
	}
	c.JSON(http.StatusOK, pr)
}

// managerApprove godoc
// @Summary Manager approval
// @Description Commits the terminal approval, then attempts the Medad payment sync. The medad sub-object carries the sync outcome; a failed sync does not undo the approval.
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path int true "Payment request ID"
// @Param approval body dto.ManagerApprovalRequest true "Amount to pay and priority"
// @Success 200 {object} dto.ApprovePaymentResponse
// @Failure 400 {object} ErrorResponse "Validation failure, e.g. amountToPay exceeds dueAmount"
// @Failure 404 {object} ErrorResponse "Not found or not pending manager approval"
// @Security BearerAuth
// @Router /payment-requests/{id}/manager [patch]
func (h *paymentRequestHandler) managerApprove(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.ManagerApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pr, outcome, err := h.service.ManagerApprove(c.Request.Context(), id, req, actorID)
	if err != nil {
		respondWorkflowError(c, err, "approve payment request")
		return
	}
	c.JSON(http.StatusOK, dto.ApprovePaymentResponse{Request: *pr, Medad: dto.MedadOutcomeFrom(*outcome)})
}

// rejectPaymentRequest godoc
// @Summary Reject a payment request
// @Description Moves a non-terminal request to rejected.
// @Tags payment-requests
// @Accept json
// @Produce json
// @Param id path int true "Payment request ID"
// @Param rejection body dto.RejectRequest true "Rejection reason"
// @Success 200 {object} domain.PaymentRequest
// @Failure 404 {object} ErrorResponse "Not found or already terminal"
// @Security BearerAuth
// @Router /payment-requests/{id}/reject [patch]
func (h *paymentRequestHandler) rejectPaymentRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pr, err := h.service.RejectPaymentRequest(c.Request.Context(), id, req, actorID)
	if err != nil {
		respondWorkflowError(c, err, "reject payment request")
		return
	}
	c.JSON(http.StatusOK, pr)
}

// resyncPaymentRequest godoc
// @Summary Retry the Medad sync of an approved request
// @Description Re-attempts the payment sync for a terminally approved request whose last attempt failed. Refuses already synced requests.
// @Tags payment-requests
// @Produce json
// @Param id path int true "Payment request ID"
// @Success 200 {object} dto.ApprovePaymentResponse
// @Failure 400 {object} ErrorResponse "Already synced"
// @Failure 404 {object} ErrorResponse "Not found or not terminally approved"
// @Security BearerAuth
// @Router /payment-requests/{id}/sync [post]
func (h *paymentRequestHandler) resyncPaymentRequest(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pr, outcome, err := h.service.ResyncPaymentRequest(c.Request.Context(), id, actorID)
	if err != nil {
		respondWorkflowError(c, err, "resync payment request")
		return
	}
	c.JSON(http.StatusOK, dto.ApprovePaymentResponse{Request: *pr, Medad: dto.MedadOutcomeFrom(*outcome)})
}
