package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pdam-portal/internal/api/dto"
	"github.com/spec-kit/pdam-portal/internal/auth"
	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/service"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// TopupHandler manages customer top-up endpoints.
type TopupHandler struct {
	service *service.TopupService
}

// NewTopupHandler constructs handler.
func NewTopupHandler(topupService *service.TopupService) *TopupHandler {
	return &TopupHandler{service: topupService}
}

// Submit POST /customer/topup.
func (h *TopupHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	var req dto.TopupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.service.Submit(c.Context(), principal.User.ID, service.TopupInput{
		Amount:         req.Amount,
		QuotaRequested: req.QuotaRequested,
		Method:         req.Method,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Top-up request submitted successfully. Please wait for admin approval.",
		"paymentId": payment.ID,
	})
}

// History GET /customer/topup.
func (h *TopupHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("customer required")
	}
	payments, err := h.service.History(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"payments": items})
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:             payment.ID,
		Amount:         payment.Amount,
		QuotaRequested: payment.QuotaRequested,
		QuotaAdded:     payment.QuotaAdded,
		Method:         payment.Method,
		Status:         string(payment.Status),
		CreatedAt:      payment.CreatedAt,
		ApprovedAt:     payment.ApprovedAt,
	}
}
