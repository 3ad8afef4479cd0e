package dto

import "time"

// StageChangeEvent informs the notification dispatcher that a record moved.
// Delivery is best-effort; the transition is durable regardless.
type StageChangeEvent struct {
	EventID    string    `json:"eventID"`
	RecordKind string    `json:"recordKind"` // payment_request | order | quotation
	RecordNo   string    `json:"recordNo"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actorID"`
	At         time.Time `json:"at"`
}
