package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/config"
	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	"github.com/spec-kit/pdam-portal/internal/repository"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput is the registration payload.
type RegisterInput struct {
	FullName        string
	Email           string
	Phone           string
	Address         string
	Password        string
	ConfirmPassword string
}

// SessionSnapshot carries the customer figures cached in the session
// token, returned by the refresh endpoint after a quota change.
type SessionSnapshot struct {
	WaterQuota float64 `json:"waterQuota"`
	CustomerNo *string `json:"customerNo"`
}

// AuthService coordinates registration, login, and password resets.
type AuthService struct {
	users      repository.UserRepository
	customers  repository.CustomerRepository
	approvals  repository.ApprovalRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	CustomerRepo      repository.CustomerRepository
	ApprovalRepo      repository.ApprovalRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		customers:  deps.CustomerRepo,
		approvals:  deps.ApprovalRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Register creates a PENDING customer account together with its empty
// customer record. The account stays unusable until an admin approves
// it and assigns a customer number.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Status:       domain.UserStatusPending,
	}
	customer := &domain.Customer{
		Address:    strings.TrimSpace(input.Address),
		Phone:      strings.TrimSpace(input.Phone),
		WaterQuota: 0,
		IsActive:   false,
	}

	if err := s.approvals.CreateUserWithCustomer(ctx, user, customer); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, apperrors.NewConflict("user with this email already exists", nil)
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Actor:     events.Actor{Role: domain.RoleCustomer, UserID: user.ID},
		Payload:   events.UserRegisteredPayload{Email: user.Email, Name: user.Name},
	})
	return user, nil
}

// Login authenticates an account and issues a session token. Accounts
// that are not ACTIVE cannot sign in, whatever their credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Customer, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, "", time.Time{}, apperrors.NewUnauthorized("account pending approval or inactive")
	}

	var customer *domain.Customer
	if user.Role == domain.RoleCustomer {
		customer, err = s.customers.GetByUserID(ctx, user.ID)
		if err != nil && err != pgx.ErrNoRows {
			return nil, nil, "", time.Time{}, err
		}
	}

	token, exp, err := s.tokenMgr.GenerateToken(user, customer)
	if err != nil {
		return nil, nil, "", time.Time{}, err
	}
	return user, customer, token, exp, nil
}

// RefreshSession returns the current quota figures so a client can
// update its cached session after a top-up completes.
func (s *AuthService) RefreshSession(ctx context.Context, userID string) (*SessionSnapshot, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	return &SessionSnapshot{
		WaterQuota: customer.WaterQuota,
		CustomerNo: customer.CustomerNo,
	}, nil
}

// RequestPasswordReset persists a reset token for the given email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword, confirmPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if newPassword != confirmPassword {
		return apperrors.NewValidationError("passwords don't match", nil)
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("invalid reset token", nil)
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("reset token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// validateRegistration applies the intake rules in order; the first
// violated rule wins.
func validateRegistration(input RegisterInput) error {
	if len(strings.TrimSpace(input.FullName)) < 2 {
		return apperrors.NewValidationError("full name must be at least 2 characters", nil)
	}
	if !emailPattern.MatchString(strings.TrimSpace(input.Email)) {
		return apperrors.NewValidationError("invalid email format", nil)
	}
	if len(strings.TrimSpace(input.Phone)) < 10 {
		return apperrors.NewValidationError("phone must be at least 10 characters", nil)
	}
	if len(strings.TrimSpace(input.Address)) < 5 {
		return apperrors.NewValidationError("address must be at least 5 characters", nil)
	}
	if len(input.Password) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if input.Password != input.ConfirmPassword {
		return apperrors.NewValidationError("passwords don't match", nil)
	}
	return nil
}
