package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/middleware"
)

// medadHandler exposes the external party browsing and client linking used to
// satisfy invoice sync prerequisites.
type medadHandler struct {
	syncService portssvc.MedadSyncSvcFacade
}

func newMedadHandler(s portssvc.MedadSyncSvcFacade) *medadHandler {
	return &medadHandler{syncService: s}
}

// registerMedadRoutes registers routes for the Medad bridge.
func registerMedadRoutes(rg *gin.RouterGroup, syncService portssvc.MedadSyncSvcFacade) {
	h := newMedadHandler(syncService)

	medad := rg.Group("/medad", middleware.RequireRole(domain.RoleManager, domain.RoleAccountant))
	{
		medad.GET("/customers", h.listCustomers)
	}
	rg.POST("/clients/:clientID/link", middleware.RequireRole(domain.RoleManager, domain.RoleAccountant), h.linkClient)
}

// listCustomers godoc
// @Summary Browse Medad customers
// @Description Lists customers from the Medad bridge, paginated, for linking internal clients.
// @Tags medad
// @Produce json
// @Param accountType query string false "Account type filter"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(50)
// @Success 200 {array} dto.MedadCustomer
// @Failure 502 {object} ErrorResponse "Bridge unavailable"
// @Security BearerAuth
// @Router /medad/customers [get]
func (h *medadHandler) listCustomers(c *gin.Context) {
	var q dto.ListMedadCustomersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}

	customers, err := h.syncService.ListCustomers(c.Request.Context(), q)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list Medad customers", "error", err.Error())
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to reach Medad"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// linkClient godoc
// @Summary Link a client to a Medad customer
// @Description Records the Medad customer id on an internal client, satisfying the invoice sync prerequisite.
// @Tags medad
// @Accept json
// @Produce json
// @Param clientID path string true "Client ID"
// @Param link body dto.LinkClientRequest true "Medad customer id"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client not found"
// @Security BearerAuth
// @Router /clients/{clientID}/link [post]
func (h *medadHandler) linkClient(c *gin.Context) {
	clientID := c.Param("clientID")
	var req dto.LinkClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.syncService.LinkClient(c.Request.Context(), clientID, req.MedadCustomerID, actorID); err != nil {
		respondWorkflowError(c, err, "link client")
		return
	}
	c.Status(http.StatusNoContent)
}
