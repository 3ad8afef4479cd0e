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

// orderHandler handles HTTP requests for the order acceptance workflow.
type orderHandler struct {
	service portssvc.OrderSvcFacade
}

func newOrderHandler(s portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{service: s}
}

// registerOrderRoutes registers routes for the order workflow.
func registerOrderRoutes(rg *gin.RouterGroup, service portssvc.OrderSvcFacade) {
	h := newOrderHandler(service)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PATCH("/:id/accept/:role", middleware.RequireRole(domain.OrderAcceptanceRoles...), h.acceptOrder)
		orders.PATCH("/:id/deliver", middleware.RequireRole(domain.RoleManager), h.deliverOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.DELETE("/:id", h.deleteOrder)
		orders.POST("/:id/sync", middleware.RequireRole(domain.RoleManager), h.resyncOrder)
	}
}

// createOrder godoc
// @Summary Create an order
// @Description Creates a pending order with all acceptance slots pending and server-computed totals.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	o, err := h.service.CreateOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWorkflowError(c, err, "create order")
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(*o, nil))
}

// listOrders godoc
// @Summary List orders
// @Description Lists orders filtered by view: pending, delivered, sent (synced to Medad) or all.
// @Tags orders
// @Produce json
// @Param status query string false "pending | delivered | sent | all" default(pending)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	items, nextToken, err := h.service.ListOrders(c.Request.Context(), q)
	if err != nil {
		respondWorkflowError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ListOrdersResponse{Items: items, NextToken: nextToken})
}

// getOrder godoc
// @Summary Get an order by id
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	o, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondWorkflowError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*o, nil))
}

// acceptOrder godoc
// @Summary Accept an order for a role
// @Description Flips the caller's acceptance slot from pending to accepted. Each role accepts independently and exactly once.
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Param role path string true "storekeeper | supervisor | manager"
// @Success 200 {object} dto.OrderResponse
// @Failure 403 {object} ErrorResponse "Path role differs from the caller's role"
// @Failure 404 {object} ErrorResponse "Not found or slot already accepted"
// @Security BearerAuth
// @Router /orders/{id}/accept/{role} [patch]
func (h *orderHandler) acceptOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	role := domain.Role(c.Param("role"))

	// A role may only flip its own slot.
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

	o, err := h.service.AcceptOrder(c.Request.Context(), id, role, actorID)
	if err != nil {
		respondWorkflowError(c, err, "accept order")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*o, nil))
}

// deliverOrder godoc
// @Summary Mark an order delivered
// @Description Terminal transition, requires every acceptance slot accepted. Triggers the Medad invoice sync; the medad sub-object carries the outcome.
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Order not fully accepted"
// @Failure 404 {object} ErrorResponse "Not found or not pending"
// @Security BearerAuth
// @Router /orders/{id}/deliver [patch]
func (h *orderHandler) deliverOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	o, outcome, err := h.service.DeliverOrder(c.Request.Context(), id, actorID)
	if err != nil {
		respondWorkflowError(c, err, "deliver order")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*o, outcome))
}

// updateOrder godoc
// @Summary Replace an order's body
// @Description Rewrites header fields and line items, recomputes totals, resets every acceptance slot and bumps the revision suffix when any slot had been accepted. Refused once delivered.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body dto.UpdateOrderRequest true "Replacement body"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse "Order is delivered"
// @Security BearerAuth
// @Router /orders/{id} [put]
func (h *orderHandler) updateOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	o, err := h.service.UpdateOrder(c.Request.Context(), id, req, actorID)
	if err != nil {
		respondWorkflowError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*o, nil))
}

// deleteOrder godoc
// @Summary Delete an order
// @Description Removes a non-delivered order and its line items.
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse "Order is delivered"
// @Security BearerAuth
// @Router /orders/{id} [delete]
func (h *orderHandler) deleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id, actorID); err != nil {
		respondWorkflowError(c, err, "delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

// resyncOrder godoc
// @Summary Retry the Medad sync of a delivered order
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse "Already synced"
// @Failure 404 {object} ErrorResponse "Not found or not delivered"
// @Security BearerAuth
// @Router /orders/{id}/sync [post]
func (h *orderHandler) resyncOrder(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	o, outcome, err := h.service.ResyncOrder(c.Request.Context(), id, actorID)
	if err != nil {
		respondWorkflowError(c, err, "resync order")
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*o, outcome))
}
