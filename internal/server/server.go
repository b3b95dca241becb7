// Package server assembles the HTTP API: middleware, services, handlers and routes.
package server

import (
	"context"
	"errors"
	"time"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/config"
	"cafeconnect/internal/handlers"
	"cafeconnect/internal/middleware"
	"cafeconnect/internal/models"
	"cafeconnect/internal/services"
	"cafeconnect/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

// Dependencies are the long-lived resources the API runs on. They are created and
// closed by the caller.
type Dependencies struct {
	Store store.Store
	Carts cart.Store
	// Publisher may be nil, which disables order events.
	Publisher services.EventPublisher
}

// New builds the Fiber app serving the CafeConnect API.
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CafeConnect API " + handlers.Version,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.StandardLogger().Out,
	}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	s := deps.Store
	authService := services.NewAuthService(s.Users(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	orderService := services.NewOrderService(s.Orders(), s.Cafes(), s.Users(), deps.Publisher, cfg.PublicAPIURL)

	var staff handlers.Guard
	if cfg.Auth.Enforced {
		staff = handlers.Guard{
			middleware.AuthRequired(authService),
			middleware.RequireRole(models.RoleAdmin, models.RoleOwner),
		}
	}

	api := app.Group("/api", middleware.Timeout(cfg.RequestTimeout))
	api.Get("/", handlers.HandleAPIInfo)

	handlers.NewAuthHandler(authService).
		RegisterRoutes(api, middleware.NewLoginLimiter(cfg.Auth.LoginAttempts).Handler())
	handlers.NewCafeHandler(services.NewCafeService(s.Cafes())).RegisterRoutes(api, staff)
	handlers.NewMenuHandler(services.NewMenuService(s.Menus())).RegisterRoutes(api, staff)
	handlers.NewUserHandler(services.NewUserService(s.Users())).RegisterRoutes(api, staff)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, staff)
	handlers.NewCashierHandler(services.NewCashierService(deps.Carts, s.Menus(), orderService)).RegisterRoutes(api, staff)
	handlers.NewReportHandler(services.NewReportService(s)).RegisterRoutes(api, staff)

	app.Get("/health", healthCheck(s))
	app.Use(handlers.HandleNotFound)

	return app
}

func healthCheck(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"database": "disconnected",
				"error":    err.Error(),
				"time":     time.Now().Format(time.RFC3339),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": "connected",
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}

// errorHandler renders errors that escape a handler, such as a recovered panic or a
// Fiber routing error, in the failure envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
	}
	return c.Status(status).JSON(handlers.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
	})
}
