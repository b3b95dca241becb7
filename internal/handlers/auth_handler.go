package handlers

import (
	"fmt"

	"cafeconnect/internal/models"
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes. limiter throttles login attempts.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limiter fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", limiter, h.HandleLogin)
}

// HandleRegister creates a customer account.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Registration failed", models.InvalidPayload(err))
	}

	user, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Registration failed", err)
	}
	log.WithField("user_id", user.ID).Info("User registered")
	return respond(c, fiber.StatusCreated, "User registered successfully", user)
}

// HandleLogin authenticates by email and password and issues a JWT.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Authentication failed", models.InvalidPayload(err))
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, "Authentication failed", fmt.Errorf("%w: email and password are required", services.ErrValidation))
	}

	token, user, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		log.WithError(err).WithField("email", req.Email).Warn("Login failed")
		return respondError(c, "Authentication failed", err)
	}
	return respond(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}
