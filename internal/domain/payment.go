package domain

import "time"

// PaymentStatus enumerates lifecycle states for top-up requests.
// COMPLETED and REJECTED are terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// Payment is a customer-initiated quota top-up request awaiting admin
// review. QuotaAdded is set equal to QuotaRequested only on completion.
type Payment struct {
	ID             string
	CustomerID     string
	Amount         float64
	QuotaRequested float64
	QuotaAdded     float64
	Method         string
	Status         PaymentStatus
	ApprovedAt     *time.Time
	ApprovedBy     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PendingPayment is a payment joined with customer display fields for
// the admin review queue.
type PendingPayment struct {
	Payment
	CustomerNo   *string
	CustomerName string
	Email        string
}
