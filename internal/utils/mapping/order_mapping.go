package mapping

import (
	"time"

	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/models"
)

// ToDomainOrder converts an order row plus its line-item rows.
func ToDomainOrder(m models.Order, items []models.LineItem) domain.Order {
	return domain.Order{
		ID:          m.ID,
		OrderNo:     m.OrderNo,
		Status:      domain.OrderStatus(m.Status),
		ClientID:    m.ClientID,
		Note:        m.Note,
		Storekeeper: toDomainAcceptance(m.StorekeeperState, m.StorekeeperBy, m.StorekeeperAt),
		Supervisor:  toDomainAcceptance(m.SupervisorState, m.SupervisorBy, m.SupervisorAt),
		Manager:     toDomainAcceptance(m.ManagerState, m.ManagerBy, m.ManagerAt),
		DeliveredBy: m.DeliveredBy,
		DeliveredAt: m.DeliveredAt,
		SalesmanID:  m.SalesmanID,
		WarehouseID: m.WarehouseID,
		LineItems:   ToDomainLineItems(items),
		Totals: domain.Totals{
			Total:    m.TotalAmount,
			VAT:      m.TotalVAT,
			Subtotal: m.TotalSubtotal,
		},
		SyncFields:  ToDomainSyncFields(m.SyncFields),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainQuotation converts a quotation row plus its line-item rows.
func ToDomainQuotation(m models.Quotation, items []models.LineItem) domain.Quotation {
	return domain.Quotation{
		ID:          m.ID,
		QuotationNo: m.QuotationNo,
		Status:      domain.QuotationStatus(m.Status),
		ClientID:    m.ClientID,
		Note:        m.Note,
		Supervisor:  toDomainAcceptance(m.SupervisorState, m.SupervisorBy, m.SupervisorAt),
		Manager:     toDomainAcceptance(m.ManagerState, m.ManagerBy, m.ManagerAt),
		AcceptedAt:  m.AcceptedAt,
		SalesmanID:  m.SalesmanID,
		WarehouseID: m.WarehouseID,
		LineItems:   ToDomainLineItems(items),
		Totals: domain.Totals{
			Total:    m.TotalAmount,
			VAT:      m.TotalVAT,
			Subtotal: m.TotalSubtotal,
		},
		SyncFields:  ToDomainSyncFields(m.SyncFields),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOrder converts a domain order to its row form. Line items travel
// separately via ToModelLineItems.
func ToModelOrder(o domain.Order) models.Order {
	m := models.Order{
		ID:            o.ID,
		OrderNo:       o.OrderNo,
		Status:        string(o.Status),
		ClientID:      o.ClientID,
		Note:          o.Note,
		DeliveredBy:   o.DeliveredBy,
		DeliveredAt:   o.DeliveredAt,
		SalesmanID:    o.SalesmanID,
		WarehouseID:   o.WarehouseID,
		TotalAmount:   o.Totals.Total,
		TotalVAT:      o.Totals.VAT,
		TotalSubtotal: o.Totals.Subtotal,
		SyncFields:    ToModelSyncFields(o.SyncFields),
		AuditFields:   ToModelAuditFields(o.AuditFields),
	}
	m.StorekeeperState, m.StorekeeperBy, m.StorekeeperAt = toModelAcceptance(o.Storekeeper)
	m.SupervisorState, m.SupervisorBy, m.SupervisorAt = toModelAcceptance(o.Supervisor)
	m.ManagerState, m.ManagerBy, m.ManagerAt = toModelAcceptance(o.Manager)
	return m
}

// ToModelQuotation converts a domain quotation to its row form.
func ToModelQuotation(q domain.Quotation) models.Quotation {
	m := models.Quotation{
		ID:            q.ID,
		QuotationNo:   q.QuotationNo,
		Status:        string(q.Status),
		ClientID:      q.ClientID,
		Note:          q.Note,
		AcceptedAt:    q.AcceptedAt,
		SalesmanID:    q.SalesmanID,
		WarehouseID:   q.WarehouseID,
		TotalAmount:   q.Totals.Total,
		TotalVAT:      q.Totals.VAT,
		TotalSubtotal: q.Totals.Subtotal,
		SyncFields:    ToModelSyncFields(q.SyncFields),
		AuditFields:   ToModelAuditFields(q.AuditFields),
	}
	m.SupervisorState, m.SupervisorBy, m.SupervisorAt = toModelAcceptance(q.Supervisor)
	m.ManagerState, m.ManagerBy, m.ManagerAt = toModelAcceptance(q.Manager)
	return m
}

func toModelAcceptance(a domain.Acceptance) (string, *string, *time.Time) {
	state := string(a.State)
	if state == "" {
		state = string(domain.AcceptancePending)
	}
	return state, a.ActorID, a.ActedAt
}

func toDomainAcceptance(state string, by *string, at *time.Time) domain.Acceptance {
	s := domain.AcceptanceState(state)
	if state == "" {
		s = domain.AcceptancePending
	}
	return domain.Acceptance{State: s, ActorID: by, ActedAt: at}
}

// ToDomainLineItems converts line-item rows.
func ToDomainLineItems(items []models.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	for i, it := range items {
		out[i] = domain.LineItem{
			LineID:           it.LineID,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
			VAT:              it.VAT,
			Subtotal:         it.Subtotal,
			MedadProductCode: it.MedadProductCode,
		}
	}
	return out
}

// ToModelLineItems converts domain line items to rows belonging to recordID.
func ToModelLineItems(recordID int64, items []domain.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	for i, it := range items {
		out[i] = models.LineItem{
			LineID:           it.LineID,
			RecordID:         recordID,
			Position:         i,
			Description:      it.Description,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			LineTotal:        it.LineTotal,
			VAT:              it.VAT,
			Subtotal:         it.Subtotal,
			MedadProductCode: it.MedadProductCode,
		}
	}
	return out
}
