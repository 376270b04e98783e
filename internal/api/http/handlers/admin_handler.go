package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pdam-portal/internal/api/dto"
	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/service"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// AdminHandler serves the admin approval queues, dashboard figures,
// monitoring view, and system settings.
type AdminHandler struct {
	approvals  *service.ApprovalService
	monitoring *service.MonitoringService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(approvalService *service.ApprovalService, monitoringService *service.MonitoringService) *AdminHandler {
	return &AdminHandler{approvals: approvalService, monitoring: monitoringService}
}

// PendingUsers GET /admin/pending-users.
func (h *AdminHandler) PendingUsers(c *fiber.Ctx) error {
	pending, err := h.approvals.ListPendingUsers(c.Context())
	if err != nil {
		return err
	}
	users := make([]dto.PendingUserResponse, 0, len(pending))
	for _, reg := range pending {
		users = append(users, dto.PendingUserResponse{
			ID:        reg.User.ID,
			Name:      reg.User.Name,
			Email:     reg.User.Email,
			Phone:     reg.Customer.Phone,
			Address:   reg.Customer.Address,
			CreatedAt: reg.User.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

// DecideUser POST /admin/pending-users.
func (h *AdminHandler) DecideUser(c *fiber.Ctx) error {
	adminID, err := adminIDFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UserDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}

	message, err := h.approvals.DecideUser(c.Context(), adminID, req.UserID, req.Action, req.CustomerNo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": message})
}

// CheckCustomerNo POST /admin/check-customer-no. Always responds 200;
// the availability verdict lives in the body.
func (h *AdminHandler) CheckCustomerNo(c *fiber.Ctx) error {
	var req dto.CheckCustomerNoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.approvals.CheckCustomerNo(c.Context(), req.CustomerNo)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// PendingPayments GET /admin/pending-payments.
func (h *AdminHandler) PendingPayments(c *fiber.Ctx) error {
	pending, err := h.approvals.ListPendingPayments(c.Context())
	if err != nil {
		return err
	}
	payments := make([]dto.PendingPaymentResponse, 0, len(pending))
	for _, p := range pending {
		payments = append(payments, dto.PendingPaymentResponse{
			ID:             p.ID,
			CustomerName:   p.CustomerName,
			CustomerNo:     p.CustomerNo,
			Email:          p.Email,
			Amount:         p.Amount,
			QuotaRequested: p.QuotaRequested,
			Method:         p.Method,
			CreatedAt:      p.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"payments": payments})
}

// DecidePayment POST /admin/pending-payments.
func (h *AdminHandler) DecidePayment(c *fiber.Ctx) error {
	adminID, err := adminIDFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PaymentDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.PaymentID == "" {
		return apperrors.NewValidationError("paymentId required", nil)
	}

	message, err := h.approvals.DecidePayment(c.Context(), adminID, req.PaymentID, req.Action)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": message})
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.approvals.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// Monitoring GET /admin/monitoring.
func (h *AdminHandler) Monitoring(c *fiber.Ctx) error {
	snapshot, err := h.monitoring.Snapshot(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}

// Settings GET /admin/settings.
func (h *AdminHandler) Settings(c *fiber.Ctx) error {
	settings, err := h.monitoring.ListSettings(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateSetting PUT /admin/settings.
func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	adminID, err := adminIDFromContext(c)
	if err != nil {
		return err
	}
	var req dto.SettingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	setting, err := h.monitoring.UpdateSetting(c.Context(), adminID, req.Key, req.Value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"setting": setting})
}

func adminIDFromContext(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return "", apperrors.NewUnauthorized("admin required")
	}
	return principal.User.ID, nil
}
