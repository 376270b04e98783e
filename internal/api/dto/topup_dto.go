package dto

import "time"

// TopupRequest is a customer's top-up submission.
type TopupRequest struct {
	Amount         float64 `json:"amount"`
	QuotaRequested float64 `json:"quotaRequested"`
	Method         string  `json:"method"`
}

// PaymentResponse is one entry in the customer's top-up history.
type PaymentResponse struct {
	ID             string     `json:"id"`
	Amount         float64    `json:"amount"`
	QuotaRequested float64    `json:"quotaRequested"`
	QuotaAdded     float64    `json:"quotaAdded"`
	Method         string     `json:"method"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
}
