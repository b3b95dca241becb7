package handlers

import (
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts. Every route is guarded.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", guard.then(h.HandleGetUsers)...)
	userRoutes.Get("/:id", guard.then(h.HandleGetUserByID)...)
	userRoutes.Post("/", guard.then(h.HandleCreateUser)...)
	userRoutes.Put("/:id", guard.then(h.HandleUpdateUser)...)
	userRoutes.Patch("/:id", guard.then(h.HandleUpdateUser)...)
	userRoutes.Delete("/:id", guard.then(h.HandleDeleteUser)...)
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, "Could not retrieve users", err)
	}
	return respondList(c, users)
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve user", err)
	}
	return respond(c, fiber.StatusOK, "", user)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	user, err := h.service.CreateUser(c.UserContext(), decoder(c))
	if err != nil {
		return respondError(c, "Could not create user", err)
	}
	return respond(c, fiber.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), updateMode(c), decoder(c))
	if err != nil {
		return respondError(c, "Could not update user", err)
	}
	return respond(c, fiber.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	user, err := h.service.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not delete user", err)
	}
	return respond(c, fiber.StatusOK, "User deleted successfully", user)
}
