package dto

import (
	"github.com/shopspring/decimal"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// LineItemInput is one priced line in a create/update payload. Derived
// figures (VAT, subtotal) are computed server-side and ignored on input.
type LineItemInput struct {
	Description      string          `json:"description" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unitPrice" binding:"required"`
	MedadProductCode *string         `json:"medadProductCode"`
}

// DomainItems converts the inputs to domain line items (derived fields unset).
func DomainItems(items []LineItemInput) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			MedadProductCode: it.MedadProductCode,
		}
	}
	return out
}

// CreateOrderRequest creates an order in the pending state.
type CreateOrderRequest struct {
	ClientID    string          `json:"clientID" binding:"required"`
	Note        string          `json:"note"`
	SalesmanID  *string         `json:"salesmanID"`
	WarehouseID *string         `json:"warehouseID"`
	LineItems   []LineItemInput `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateOrderRequest replaces the mutable body of an order. Any prior
// acceptances are reset and the order number gains a revision suffix.
type UpdateOrderRequest = CreateOrderRequest

// ListOrdersResponse is a token-paginated page of orders.
type ListOrdersResponse struct {
	Items     []domain.Order `json:"items"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// OrderResponse wraps an order with its computed acceptance summary.
type OrderResponse struct {
	Order         domain.Order  `json:"order"`
	FullyAccepted bool          `json:"fullyAccepted"`
	Medad         *MedadOutcome `json:"medad,omitempty"`
}

// NewOrderResponse builds the response shape, computing fullyAccepted.
func NewOrderResponse(o domain.Order, outcome *domain.SyncOutcome) OrderResponse {
	resp := OrderResponse{Order: o, FullyAccepted: o.FullyAccepted()}
	if outcome != nil {
		m := MedadOutcomeFrom(*outcome)
		resp.Medad = &m
	}
	return resp
}
