package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cafeconnect/internal/middleware"
	"cafeconnect/internal/models"
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator map[string]*services.Claims

func (s stubValidator) ValidateToken(token string) (*services.Claims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func newGuardedApp() *fiber.App {
	validator := stubValidator{
		"admin-token":    {UserID: "u-admin", Role: models.RoleAdmin},
		"customer-token": {UserID: "u-customer", Role: models.RoleCustomer},
	}
	app := fiber.New()
	app.Get("/staff",
		middleware.AuthRequired(validator),
		middleware.RequireRole(models.RoleAdmin, models.RoleOwner),
		func(c *fiber.Ctx) error {
			return c.SendString(c.Locals(middleware.LocalUserID).(string))
		})
	return app
}

func TestAuthRequiredAndRequireRole(t *testing.T) {
	app := newGuardedApp()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic admin-token", fiber.StatusUnauthorized},
		{"unknown token", "Bearer forged", fiber.StatusUnauthorized},
		{"customer role", "Bearer customer-token", fiber.StatusForbidden},
		{"admin role", "Bearer admin-token", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTimeout(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Timeout(50 * time.Millisecond))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok || time.Until(deadline) > 50*time.Millisecond {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestLoginLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", middleware.NewLoginLimiter(3).Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "attempt %d", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
}
