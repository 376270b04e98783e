package domain

import "time"

// Customer is the water-service record linked one-to-one with a
// CUSTOMER-role user. CustomerNo stays nil until the registration is
// approved; once assigned it is unique and never changes.
type Customer struct {
	ID         string
	UserID     string
	CustomerNo *string
	Address    string
	Phone      string
	WaterQuota float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CustomerStats aggregates figures for the admin dashboard.
type CustomerStats struct {
	TotalCustomers  int64   `json:"totalCustomers"`
	ActiveCustomers int64   `json:"activeCustomers"`
	TotalQuota      float64 `json:"totalQuota"`
}
