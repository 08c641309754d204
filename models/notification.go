package models

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityError   Severity = "error"
)

type RecipientRole string

const (
	RecipientUser       RecipientRole = "user"
	RecipientTechnician RecipientRole = "technician"
)

// NotificationEvent is the descriptor the lifecycle emits for fan-out.
type NotificationEvent struct {
	// ID keys the inbox entry so redelivery of the same event stores it once.
	ID            string        `json:"id,omitempty"`
	RecipientID   string        `json:"recipientId"`
	RecipientRole RecipientRole `json:"recipientRole"`
	Title         string        `json:"title"`
	Body          string        `json:"body"`
	Severity      Severity      `json:"severity"`
	BookingID     string        `json:"bookingId"`
}

// Notification is a persisted inbox entry.
type Notification struct {
	ID            string        `bson:"id" json:"id"`
	RecipientID   string        `bson:"recipientId" json:"recipientId"`
	RecipientRole RecipientRole `bson:"recipientRole" json:"recipientRole"`
	Title         string        `bson:"title" json:"title"`
	Message       string        `bson:"message" json:"message"`
	Type          Severity      `bson:"type" json:"type"`
	BookingID     string        `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Seen          bool          `bson:"seen" json:"seen"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}
