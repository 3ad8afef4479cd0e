package dto

// MedadPaymentPayload is the fixed-shape body posted to {medad}/payment.
type MedadPaymentPayload struct {
	SubscriptionID string `json:"subscriptionId"`
	BranchID       string `json:"branchId"`
	FiscalYear     string `json:"fiscalYear"`
	PaymentType    string `json:"paymentType"`
	Version        string `json:"version"`
	ReferenceNo    string `json:"referenceNo"`
	BeneficiaryID  string `json:"beneficiaryId"`
	Amount         string `json:"amount"`
	Priority       int    `json:"priority"`
	Note           string `json:"note,omitempty"`
}

// MedadInvoiceLine is one line of an invoice payload.
type MedadInvoiceLine struct {
	ProductCode string `json:"productCode"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	VAT         string `json:"vat"`
	Subtotal    string `json:"subtotal"`
}

// MedadInvoicePayload is the fixed-shape body posted to {medad}/invoice.
type MedadInvoicePayload struct {
	SubscriptionID string             `json:"subscriptionId"`
	BranchID       string             `json:"branchId"`
	FiscalYear     string             `json:"fiscalYear"`
	Version        string             `json:"version"`
	ReferenceNo    string             `json:"referenceNo"`
	CustomerID     string             `json:"customerId"`
	SalesmanID     string             `json:"salesmanId"`
	WarehouseID    string             `json:"warehouseId"`
	Total          string             `json:"total"`
	VAT            string             `json:"vat"`
	Subtotal       string             `json:"subtotal"`
	Lines          []MedadInvoiceLine `json:"lines"`
}

// MedadSyncResult is what a successful Medad post returns.
type MedadSyncResult struct {
	Ref         string // external transaction id assigned by Medad
	RawResponse string
}

// MedadCustomer is one entry of the paginated external party list.
type MedadCustomer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
}

// LinkClientRequest links an internal client to its Medad customer.
type LinkClientRequest struct {
	MedadCustomerID string `json:"medadCustomerID" binding:"required"`
}

// ListMedadCustomersQuery filters the external customer listing.
type ListMedadCustomersQuery struct {
	AccountType string `form:"accountType"`
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=50"`
}
