package domain

import "time"

// SyncStatus is the durable outcome of the last Medad sync attempt.
type SyncStatus string

const (
	SyncNotSent SyncStatus = "not_sent"
	SyncSent    SyncStatus = "SENT_TO_MEDAD"
	SyncFailed  SyncStatus = "FAILED"
)

// SyncFields carry the last payload/response exchanged with Medad and the
// recorded outcome. They live on the record itself so a failed sync is
// inspectable and retryable without re-deriving anything.
type SyncFields struct {
	SyncStatus   SyncStatus `json:"syncStatus"`
	LastPayload  *string    `json:"lastPayload,omitempty"`
	LastResponse *string    `json:"lastResponse,omitempty"`
	LastError    *string    `json:"lastError,omitempty"`
	SyncedAt     *time.Time `json:"syncedAt,omitempty"`
	MedadRef     *string    `json:"medadRef,omitempty"` // external transaction id assigned by Medad
}

// Synced reports whether the record has already been accepted by Medad.
func (s SyncFields) Synced() bool {
	return s.SyncStatus == SyncSent
}

// SyncOutcome is what a single sync attempt produced, before it is persisted
// onto the record's SyncFields.
type SyncOutcome struct {
	Status   SyncStatus
	Payload  string
	Response string
	Err      string
	MedadRef string
	At       time.Time
}
