package dto

import "time"

// PendingUserResponse is one row in the registration approval queue.
type PendingUserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserDecisionRequest carries an admin decision on a registration.
type UserDecisionRequest struct {
	UserID     string `json:"userId"`
	Action     string `json:"action"`
	CustomerNo string `json:"customerNo"`
}

// PendingPaymentResponse is one row in the top-up approval queue.
type PendingPaymentResponse struct {
	ID             string    `json:"id"`
	CustomerName   string    `json:"customerName"`
	CustomerNo     *string   `json:"customerNo"`
	Email          string    `json:"email"`
	Amount         float64   `json:"amount"`
	QuotaRequested float64   `json:"quotaRequested"`
	Method         string    `json:"method"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PaymentDecisionRequest carries an admin decision on a top-up.
type PaymentDecisionRequest struct {
	PaymentID string `json:"paymentId"`
	Action    string `json:"action"`
}

// CheckCustomerNoRequest asks whether a customer number is free.
type CheckCustomerNoRequest struct {
	CustomerNo string `json:"customerNo"`
}

// SettingUpdateRequest changes a system setting value.
type SettingUpdateRequest struct {
	Key   string `json:"settingKey"`
	Value string `json:"settingValue"`
}
