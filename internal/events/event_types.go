package events

import (
	"time"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventUserApproved     EventType = "user_approved"
	EventUserRejected     EventType = "user_rejected"
	EventPaymentSubmitted EventType = "payment_submitted"
	EventPaymentCompleted EventType = "payment_completed"
	EventPaymentRejected  EventType = "payment_rejected"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role   domain.UserRole `json:"role"`
	UserID string          `json:"user_id"`
}

// Event represents a domain event emitted by services. SubjectID is
// the user or payment the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserApprovedPayload payload.
type UserApprovedPayload struct {
	CustomerNo string `json:"customer_no"`
}

// UserRejectedPayload payload.
type UserRejectedPayload struct {
	Email string `json:"email"`
}

// PaymentSubmittedPayload payload.
type PaymentSubmittedPayload struct {
	Amount         float64 `json:"amount"`
	QuotaRequested float64 `json:"quota_requested"`
	Method         string  `json:"method"`
}

// PaymentDecidedPayload payload for completion and rejection.
type PaymentDecidedPayload struct {
	OldStatus  domain.PaymentStatus `json:"old_status"`
	NewStatus  domain.PaymentStatus `json:"new_status"`
	QuotaAdded float64              `json:"quota_added,omitempty"`
}
