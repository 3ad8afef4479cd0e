package mapping

import (
	"github.com/qistas/opsflow_backend/internal/core/domain"
	"github.com/qistas/opsflow_backend/internal/models"
)

// ToDomainPaymentRequest converts a database row to the domain representation.
func ToDomainPaymentRequest(m models.PaymentRequest) domain.PaymentRequest {
	pr := domain.PaymentRequest{
		ID:             m.ID,
		RequestNo:      m.RequestNo,
		Stage:          domain.PaymentRequestStage(m.Stage),
		Status:         domain.PaymentRequestStatus(m.Status),
		OriginatorID:   m.OriginatorID,
		OriginatorName: m.OriginatorName,
		OriginatorType: m.OriginatorType,
		Amount:         m.Amount,
		DueDate:        m.DueDate,
		Note:           m.Note,
		DueAmount:      m.DueAmount,
		AccountantID:   m.AccountantID,
		AccountantAt:   m.AccountantAt,
		AmountToPay:    m.AmountToPay,
		Priority:       m.Priority,
		ManagerID:      m.ManagerID,
		ManagerAt:      m.ManagerAt,
		RemainingAmount: m.RemainingAmount,
		RejectedBy:     m.RejectedBy,
		RejectedAt:     m.RejectedAt,
		RejectedReason: m.RejectedReason,
		SyncFields:     ToDomainSyncFields(m.SyncFields),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
	if m.PaymentState != nil {
		state := domain.PaymentState(*m.PaymentState)
		pr.PaymentState = &state
	}
	return pr
}

// ToModelPaymentRequest converts a domain payment request to its row form.
func ToModelPaymentRequest(pr domain.PaymentRequest) models.PaymentRequest {
	m := models.PaymentRequest{
		ID:             pr.ID,
		RequestNo:      pr.RequestNo,
		Stage:          string(pr.Stage),
		Status:         string(pr.Status),
		OriginatorID:   pr.OriginatorID,
		OriginatorName: pr.OriginatorName,
		OriginatorType: pr.OriginatorType,
		Amount:         pr.Amount,
		DueDate:        pr.DueDate,
		Note:           pr.Note,
		DueAmount:      pr.DueAmount,
		AccountantID:   pr.AccountantID,
		AccountantAt:   pr.AccountantAt,
		AmountToPay:    pr.AmountToPay,
		Priority:       pr.Priority,
		ManagerID:      pr.ManagerID,
		ManagerAt:      pr.ManagerAt,
		RemainingAmount: pr.RemainingAmount,
		RejectedBy:     pr.RejectedBy,
		RejectedAt:     pr.RejectedAt,
		RejectedReason: pr.RejectedReason,
		SyncFields:     ToModelSyncFields(pr.SyncFields),
		AuditFields:    ToModelAuditFields(pr.AuditFields),
	}
	if pr.PaymentState != nil {
		state := string(*pr.PaymentState)
		m.PaymentState = &state
	}
	return m
}

// ToDomainSyncFields converts the shared sync columns.
func ToDomainSyncFields(m models.SyncFields) domain.SyncFields {
	status := domain.SyncStatus(m.SyncStatus)
	if m.SyncStatus == "" {
		status = domain.SyncNotSent
	}
	return domain.SyncFields{
		SyncStatus:   status,
		LastPayload:  m.LastPayload,
		LastResponse: m.LastResponse,
		LastError:    m.LastError,
		SyncedAt:     m.SyncedAt,
		MedadRef:     m.MedadRef,
	}
}

// ToModelSyncFields converts sync fields to their row form.
func ToModelSyncFields(s domain.SyncFields) models.SyncFields {
	return models.SyncFields{
		SyncStatus:   string(s.SyncStatus),
		LastPayload:  s.LastPayload,
		LastResponse: s.LastResponse,
		LastError:    s.LastError,
		SyncedAt:     s.SyncedAt,
		MedadRef:     s.MedadRef,
	}
}

// ToDomainAuditFields converts the shared audit columns.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// ToModelAuditFields converts audit fields to their row form.
func ToModelAuditFields(a domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     a.CreatedAt,
		CreatedBy:     a.CreatedBy,
		LastUpdatedAt: a.LastUpdatedAt,
		LastUpdatedBy: a.LastUpdatedBy,
	}
}
