package handlers

import (
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles HTTP requests for menu items.
type MenuHandler struct {
	service *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(service *services.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

// RegisterRoutes registers the menu routes. Reads are public; writes go through guard.
func (h *MenuHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	menuRoutes := router.Group("/menus")
	menuRoutes.Get("/", h.HandleGetMenus)
	menuRoutes.Get("/:id", h.HandleGetMenuByID)
	menuRoutes.Post("/", guard.then(h.HandleCreateMenu)...)
	menuRoutes.Put("/:id", guard.then(h.HandleUpdateMenu)...)
	menuRoutes.Patch("/:id", guard.then(h.HandleUpdateMenu)...)
	menuRoutes.Delete("/:id", guard.then(h.HandleDeleteMenu)...)
}

// HandleGetMenus lists menu items filtered by ?q= and ?category=.
func (h *MenuHandler) HandleGetMenus(c *fiber.Ctx) error {
	menus, err := h.service.ListMenus(c.UserContext(), c.Query("q"), c.Query("category"))
	if err != nil {
		return respondError(c, "Could not retrieve menus", err)
	}
	return respondList(c, menus)
}

func (h *MenuHandler) HandleGetMenuByID(c *fiber.Ctx) error {
	menu, err := h.service.GetMenu(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve menu", err)
	}
	return respond(c, fiber.StatusOK, "", menu)
}

func (h *MenuHandler) HandleCreateMenu(c *fiber.Ctx) error {
	menu, err := h.service.CreateMenu(c.UserContext(), decoder(c))
	if err != nil {
		return respondError(c, "Could not create menu", err)
	}
	return respond(c, fiber.StatusCreated, "Menu created successfully", menu)
}

func (h *MenuHandler) HandleUpdateMenu(c *fiber.Ctx) error {
	menu, err := h.service.UpdateMenu(c.UserContext(), c.Params("id"), updateMode(c), decoder(c))
	if err != nil {
		return respondError(c, "Could not update menu", err)
	}
	return respond(c, fiber.StatusOK, "Menu updated successfully", menu)
}

func (h *MenuHandler) HandleDeleteMenu(c *fiber.Ctx) error {
	menu, err := h.service.DeleteMenu(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not delete menu", err)
	}
	return respond(c, fiber.StatusOK, "Menu deleted successfully", menu)
}
