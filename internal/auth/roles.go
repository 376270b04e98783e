package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pdam-portal/internal/domain"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// RequireAdmin gates the /admin route family. Wrong or missing role
// yields 401, mirroring the sign-in redirect of the web frontend.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil || principal.User.Role != domain.RoleAdmin {
			return apperrors.NewUnauthorized("admin role required")
		}
		return c.Next()
	}
}

// RequireActiveCustomer gates the /customer route family. Pending and
// inactive accounts are turned away even with a valid token.
func RequireActiveCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.Role != domain.RoleCustomer || principal.User.Status != domain.UserStatusActive {
			return apperrors.NewUnauthorized("active customer account required")
		}
		return c.Next()
	}
}
