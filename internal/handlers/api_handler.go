package handlers

import "github.com/gofiber/fiber/v2"

// Version is reported by the API index.
const Version = "1.0.0"

// HandleAPIInfo describes the API and its top-level endpoints.
func HandleAPIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "CafeConnect API",
		"version": Version,
		"endpoints": fiber.Map{
			"cafes":   "/api/cafes",
			"menus":   "/api/menus",
			"users":   "/api/users",
			"orders":  "/api/orders",
			"auth":    "/api/auth",
			"cashier": "/api/cashier",
			"reports": "/api/reports",
		},
	})
}

// HandleNotFound answers unmatched routes with the failure envelope.
func HandleNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "Not found",
		Message: "Cannot " + c.Method() + " " + c.Path(),
	})
}
