package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/config"
	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

func newTestAuthService(store *fakeStore, dispatcher events.Dispatcher) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLMinutes:       60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{
		UserRepo:          &fakeUserRepo{store: store},
		CustomerRepo:      &fakeCustomerRepo{store: store},
		ApprovalRepo:      &fakeApprovalRepo{store: store},
		PasswordResetRepo: &fakeResetRepo{store: store},
		Dispatcher:        dispatcher,
	})
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FullName:        "Budi Santoso",
		Email:           "budi@gmail.com",
		Phone:           "08123456789",
		Address:         "Jl. Merdeka No. 123, Malang",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	store := newFakeStore()
	recorder := &eventRecorder{}
	svc := newTestAuthService(store, recorder)

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, domain.UserStatusPending, user.Status)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	customer, err := (&fakeCustomerRepo{store: store}).GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, customer.CustomerNo)
	assert.False(t, customer.IsActive)
	assert.Equal(t, 0.0, customer.WaterQuota)

	assert.Contains(t, recorder.typesSeen(), events.EventUserRegistered)
}

func TestRegisterValidationOrder(t *testing.T) {
	svc := newTestAuthService(newFakeStore(), &eventRecorder{})

	cases := []struct {
		name    string
		mutate  func(*RegisterInput)
		message string
	}{
		{"short name", func(in *RegisterInput) { in.FullName = "B" }, "full name must be at least 2 characters"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "invalid email format"},
		{"short phone", func(in *RegisterInput) { in.Phone = "0812345" }, "phone must be at least 10 characters"},
		{"short address", func(in *RegisterInput) { in.Address = "Jl." }, "address must be at least 5 characters"},
		{"short password", func(in *RegisterInput) { in.Password = "abc"; in.ConfirmPassword = "abc" }, "password must be at least 6 characters"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "different" }, "passwords don't match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validRegistration()
			tc.mutate(&input)
			_, err := svc.Register(context.Background(), input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Equal(t, tc.message, domainErr.Message)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store, &eventRecorder{})

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, "user with this email already exists", domainErr.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store, &eventRecorder{})

	_, _, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	assert.Equal(t, "invalid credentials", domainErr.Message)

	hash, err := auth.HashPassword("correct1", bcrypt.MinCost)
	require.NoError(t, err)
	user, _ := store.addActiveCustomer("known@example.com", "PDAM-050", 100)
	store.users[user.ID].PasswordHash = hash

	_, _, _, _, err = svc.Login(context.Background(), "known@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", apperrors.ToDomainError(err).Message)
}

func TestLoginIssuesTokenWithCustomerClaims(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store, &eventRecorder{})

	hash, err := auth.HashPassword("correct1", bcrypt.MinCost)
	require.NoError(t, err)
	user, customer := store.addActiveCustomer("known@example.com", "PDAM-050", 150)
	store.users[user.ID].PasswordHash = hash

	loggedIn, loggedCustomer, token, expiresAt, err := svc.Login(context.Background(), "known@example.com", "correct1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotNil(t, loggedCustomer)
	assert.Equal(t, customer.ID, loggedCustomer.ID)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	require.NotNil(t, claims.CustomerNo)
	assert.Equal(t, "PDAM-050", *claims.CustomerNo)
	require.NotNil(t, claims.WaterQuota)
	assert.Equal(t, 150.0, *claims.WaterQuota)
}

func TestPasswordResetFlow(t *testing.T) {
	store := newFakeStore()
	svc := newTestAuthService(store, &eventRecorder{})

	hash, err := auth.HashPassword("oldpass", bcrypt.MinCost)
	require.NoError(t, err)
	user, _ := store.addActiveCustomer("reset@example.com", "PDAM-060", 100)
	store.users[user.ID].PasswordHash = hash

	token, err := svc.RequestPasswordReset(context.Background(), "reset@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)

	err = svc.ConfirmPasswordReset(context.Background(), token.Token, "newpass", "newpass")
	require.NoError(t, err)

	_, _, _, _, err = svc.Login(context.Background(), "reset@example.com", "newpass")
	require.NoError(t, err)

	// a used token cannot be replayed
	err = svc.ConfirmPasswordReset(context.Background(), token.Token, "another", "another")
	require.Error(t, err)
	assert.Equal(t, "reset token expired or used", apperrors.ToDomainError(err).Message)
}

func TestConfirmPasswordResetValidation(t *testing.T) {
	svc := newTestAuthService(newFakeStore(), &eventRecorder{})

	err := svc.ConfirmPasswordReset(context.Background(), "tok", "abc", "abc")
	require.Error(t, err)
	assert.Equal(t, "password must be at least 6 characters", apperrors.ToDomainError(err).Message)

	err = svc.ConfirmPasswordReset(context.Background(), "tok", "abcdef", "different")
	require.Error(t, err)
	assert.Equal(t, "passwords don't match", apperrors.ToDomainError(err).Message)

	err = svc.ConfirmPasswordReset(context.Background(), "missing", "abcdef", "abcdef")
	require.Error(t, err)
	assert.Equal(t, "invalid reset token", apperrors.ToDomainError(err).Message)
}
