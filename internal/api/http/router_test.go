package http

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pdam-portal/internal/api/http/handlers"
	"github.com/spec-kit/pdam-portal/internal/auth"
)

// Handlers are registered as method values and never invoked here, so
// zero-value instances are enough to inspect the route table.
func registeredRoutes(t *testing.T) map[string]bool {
	t.Helper()

	app := fiber.New()
	RegisterRoutes(app, RouteConfig{
		Health:         &handlers.HealthHandler{},
		Auth:           &handlers.AuthHandler{},
		Admin:          &handlers.AdminHandler{},
		Topup:          &handlers.TopupHandler{},
		AuthMiddleware: &auth.AuthMiddleware{},
	})

	routes := make(map[string]bool)
	for _, route := range app.GetRoutes() {
		routes[route.Method+" "+route.Path] = true
	}
	require.NotEmpty(t, routes)
	return routes
}

func TestRouteTable(t *testing.T) {
	routes := registeredRoutes(t)

	for _, expected := range []string{
		"GET /health/live",
		"GET /health/ready",
		"POST /auth/register",
		"POST /auth/login",
		"POST /auth/password/reset/request",
		"POST /auth/password/reset/confirm",
		"GET /auth/session/refresh",
		"GET /admin/pending-users",
		"POST /admin/pending-users",
		"POST /admin/check-customer-no",
		"GET /admin/pending-payments",
		"POST /admin/pending-payments",
		"GET /admin/stats",
		"GET /admin/monitoring",
		"GET /admin/settings",
		"PUT /admin/settings",
		"POST /customer/topup",
		"GET /customer/topup",
	} {
		assert.True(t, routes[expected], "missing route %s", expected)
	}

	// history is served by GET on the topup resource itself
	assert.False(t, routes["GET /customer/topup/history"])
}
