package domain

import "time"

// UserRole distinguishes portal administrators from water customers.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleCustomer UserRole = "CUSTOMER"
)

// UserStatus represents lifecycle states for an account. New
// registrations start PENDING and become ACTIVE only through admin
// approval; INACTIVE exists for administrative suspension.
type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the domain model for portal accounts.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	ApprovedAt   *time.Time
	ApprovedBy   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
