package domain

// Client is an internal customer record, optionally linked to its Medad
// counterpart. The link is a hard prerequisite for invoice sync.
type Client struct {
	ClientID        string  `json:"clientID"`
	Name            string  `json:"name"`
	MedadCustomerID *string `json:"medadCustomerID,omitempty"`
	AuditFields
}

// Salesman mirrors a Medad salesman used on synced invoices.
type Salesman struct {
	SalesmanID      string  `json:"salesmanID"`
	Name            string  `json:"name"`
	MedadSalesmanID *string `json:"medadSalesmanID,omitempty"`
}

// Warehouse mirrors a Medad warehouse used on synced invoices.
type Warehouse struct {
	WarehouseID      string  `json:"warehouseID"`
	Name             string  `json:"name"`
	MedadWarehouseID *string `json:"medadWarehouseID,omitempty"`
}
