package dto

import "github.com/qistas/opsflow_backend/internal/core/domain"

// CreateQuotationRequest creates a quotation in the pending state.
type CreateQuotationRequest struct {
	ClientID    string          `json:"clientID" binding:"required"`
	Note        string          `json:"note"`
	SalesmanID  *string         `json:"salesmanID"`
	WarehouseID *string         `json:"warehouseID"`
	LineItems   []LineItemInput `json:"lineItems" binding:"required,min=1,dive"`
}

// UpdateQuotationRequest replaces the mutable body of a quotation.
type UpdateQuotationRequest = CreateQuotationRequest

// ListQuotationsResponse is a token-paginated page of quotations.
type ListQuotationsResponse struct {
	Items     []domain.Quotation `json:"items"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// QuotationResponse wraps a quotation with its computed acceptance summary.
type QuotationResponse struct {
	Quotation     domain.Quotation `json:"quotation"`
	FullyAccepted bool             `json:"fullyAccepted"`
	Medad         *MedadOutcome    `json:"medad,omitempty"`
}

// NewQuotationResponse builds the response shape, computing fullyAccepted.
func NewQuotationResponse(q domain.Quotation, outcome *domain.SyncOutcome) QuotationResponse {
	resp := QuotationResponse{Quotation: q, FullyAccepted: q.FullyAccepted()}
	if outcome != nil {
		m := MedadOutcomeFrom(*outcome)
		resp.Medad = &m
	}
	return resp
}
