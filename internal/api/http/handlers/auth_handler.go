package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pdam-portal/internal/api/dto"
	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/service"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// AuthHandler manages registration, login, and password resets.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	_, err := h.service.Register(c.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful. Please wait for admin approval.",
	})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, customer, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userProfile(user, customer),
	})
}

// RefreshSession GET /auth/session/refresh.
func (h *AuthHandler) RefreshSession(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	snapshot, err := h.service.RefreshSession(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}

// RequestPasswordReset POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	// the token would be delivered out of band; the response never
	// reveals whether the email exists
	if _, err := h.service.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if domainErr := apperrors.ToDomainError(err); domainErr.Code != "NOT_FOUND" {
			return err
		}
	}
	return c.JSON(fiber.Map{
		"message": "If the email exists, a reset link has been sent",
	})
}

// ConfirmPasswordReset POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	if err := h.service.ConfirmPasswordReset(c.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func userProfile(user *domain.User, customer *domain.Customer) dto.UserProfile {
	profile := dto.UserProfile{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		Status: string(user.Status),
	}
	if customer != nil {
		profile.CustomerID = &customer.ID
		profile.CustomerNo = customer.CustomerNo
		quota := customer.WaterQuota
		profile.WaterQuota = &quota
	}
	return profile
}
