package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
)

// quotationHandler handles HTTP requests for the quotation acceptance workflow.
type quotationHandler struct {
	service portssvc.QuotationSvcFacade
}

func newQuotationHandler(s portssvc.QuotationSvcFacade) *quotationHandler {
	return &quotationHandler{service: s}
}

// registerQuotationRoutes registers routes for the quotation workflow.
func registerQuotationRoutes(rg *gin.RouterGroup, service portssvc.QuotationSvcFacade) {
	h := newQuotationHandler(service)

	quotations := rg.Group("/quotations")
	{
		quotations.POST("", h.createQuotation)
		quotations.GET("", h.listQuotations)
		quotations.GET("/:id", h.getQuotation)
		quotations.PATCH("/:id/accept/:role", middleware.RequireRole(domain.QuotationAcceptanceRoles...), h.acceptQuotation)
		quotations.PUT("/:id", h.updateQuotation)
		quotations.DELETE("/:id", h.deleteQuotation)
		quotations.POST("/:id/sync", middleware.RequireRole(domain.RoleManager), h.resyncQuotation)
	}
}

// createQuotation godoc
// @Summary Create a quotation
// @Description Creates a pending quotation with supervisor and manager slots pending and server-computed totals.
// @Tags quotations
// @Accept json
// @Produce json
// @Param quotation body dto.CreateQuotationRequest true "Quotation details"
// @Success 201 {object} dto.QuotationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /quotations [post]
func (h *quotationHandler) createQuotation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateQuotation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	q, err := h.service.CreateQuotation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWorkflowError(c, err, "create quotation")
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuotationResponse(*q, nil))
}

// listQuotations godoc
// @Summary List quotations
// @Description Lists quotations filtered by view: pending, accepted, sent (synced to Medad) or all.
// @Tags quotations
// @Produce json
// @Param status query string false "pending | accepted | sent | all" default(pending)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListQuotationsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /quotations [get]
func (h *quotationHandler) listQuotations(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	items, nextToken, err := h.service.ListQuotations(c.Request.Context(), q)
	if err != nil {
		respondWorkflowError(c, err, "list quotations")
		return
	}
	c.JSON(http.StatusOK, dto.ListQuotationsResponse{Items: items, NextToken: nextToken})
}

// getQuotation godoc
// @Summary Get a quotation by id
// @Tags quotations
// @Produce json
// @Param id path int true "Quotation ID"
// @Success 200 {object} dto.QuotationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /quotations/{id} [get]
func (h *quotationHandler) getQuotation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	q, err := h.service.GetQuotation(c.Request.Context(), id)
	if err != nil {
		respondWorkflowError(c, err, "get quotation")
		return
	}
	c.JSON(http.StatusOK, dto.NewQuotationResponse(*q, nil))
}

// acceptQuotation godoc
// @Summary Accept a quotation for a role
// @Description Flips the caller's acceptance slot. Completing the chain is terminal and triggers the Medad invoice sync, returned in the medad sub-object.
// @Tags quotations
// @Produce json
// @Param id path int true "Quotation ID"
// @Param role path string true "supervisor | manager"
// @Success 200 {object} dto.QuotationResponse
// @Failure 403 {object} ErrorResponse "Path role differs from the caller's role"
// @Failure 404 {object} ErrorResponse "Not found or slot already accepted"
// @Security BearerAuth
// @Router /quotations/{id}/accept/{role} [patch]
func (h *quotationHandler) acceptQuotation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	role := domain.Role(c.Param("role"))

	callerRole, ok := middleware.GetRoleFromContext(c)
	if !ok || callerRole != role {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Cannot accept on behalf of another role"})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	q, outcome, err := h.service.AcceptQuotation(c.Request.Context(), id, role, actorID)
	if err != nil {
		respondWorkflowError(c, err, "accept quotation")
		return
	}
	c.JSON(http.StatusOK, dto.NewQuotationResponse(*q, outcome))
}

// updateQuotation godoc
// @Summary Replace a quotation's body
// @Description Rewrites header fields and line items, recomputes totals and resets acceptances, bumping the revision suffix when any slot had been accepted. Refused once accepted.
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path int true "Quotation ID"
// @Param quotation body dto.UpdateQuotationRequest true "Replacement body"
// @Success 200 {object} dto.QuotationResponse
// @Failure 404 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse "Quotation is accepted"
// @Security BearerAuth
// @Router /quotations/{id} [put]
func (h *quotationHandler) updateQuotation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	q, err := h.service.UpdateQuotation(c.Request.Context(), id, req, actorID)
	if err != nil {
		respondWorkflowError(c, err, "update quotation")
		return
	}
	c.JSON(http.StatusOK, dto.NewQuotationResponse(*q, nil))
}

// deleteQuotation godoc
// @Summary Delete a quotation
// @Description Removes a non-accepted quotation and its line items.
// @Tags quotations
// @Produce json
// @Param id path int true "Quotation ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse "Quotation is accepted"
// @Security BearerAuth
// @Router /quotations/{id} [delete]
func (h *quotationHandler) deleteQuotation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.service.DeleteQuotation(c.Request.Context(), id, actorID); err != nil {
		respondWorkflowError(c, err, "delete quotation")
		return
	}
	c.Status(http.StatusNoContent)
}

// resyncQuotation godoc
// @Summary Retry the Medad sync of an accepted quotation
// @Tags quotations
// @Produce json
// @Param id path int true "Quotation ID"
// @Success 200 {object} dto.QuotationResponse
// @Failure 400 {object} ErrorResponse "Already synced"
// @Failure 404 {object} ErrorResponse "Not found or not accepted"
// @Security BearerAuth
// @Router /quotations/{id}/sync [post]
func (h *quotationHandler) resyncQuotation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	q, outcome, err := h.service.ResyncQuotation(c.Request.Context(), id, actorID)
	if err != nil {
		respondWorkflowError(c, err, "resync quotation")
		return
	}
	c.JSON(http.StatusOK, dto.NewQuotationResponse(*q, outcome))
}
