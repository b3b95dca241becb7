package handlers

import (
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CafeHandler handles HTTP requests for cafes.
type CafeHandler struct {
	service *services.CafeService
}

// NewCafeHandler creates a new CafeHandler.
func NewCafeHandler(service *services.CafeService) *CafeHandler {
	return &CafeHandler{service: service}
}

// RegisterRoutes registers the cafe routes. Reads are public; writes go through guard.
func (h *CafeHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	cafeRoutes := router.Group("/cafes")
	cafeRoutes.Get("/", h.HandleGetCafes)
	cafeRoutes.Get("/:id", h.HandleGetCafeByID)
	cafeRoutes.Post("/", guard.then(h.HandleCreateCafe)...)
	cafeRoutes.Put("/:id", guard.then(h.HandleUpdateCafe)...)
	cafeRoutes.Patch("/:id", guard.then(h.HandleUpdateCafe)...)
	cafeRoutes.Delete("/:id", guard.then(h.HandleDeleteCafe)...)
}

// HandleGetCafes lists cafes, newest first, optionally searched with ?q=.
func (h *CafeHandler) HandleGetCafes(c *fiber.Ctx) error {
	cafes, err := h.service.ListCafes(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, "Could not retrieve cafes", err)
	}
	return respondList(c, cafes)
}

func (h *CafeHandler) HandleGetCafeByID(c *fiber.Ctx) error {
	cafe, err := h.service.GetCafe(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve cafe", err)
	}
	return respond(c, fiber.StatusOK, "", cafe)
}

func (h *CafeHandler) HandleCreateCafe(c *fiber.Ctx) error {
	cafe, err := h.service.CreateCafe(c.UserContext(), decoder(c))
	if err != nil {
		return respondError(c, "Could not create cafe", err)
	}
	return respond(c, fiber.StatusCreated, "Cafe created successfully", cafe)
}

// HandleUpdateCafe serves both PUT (full replacement) and PATCH (merge).
func (h *CafeHandler) HandleUpdateCafe(c *fiber.Ctx) error {
	cafe, err := h.service.UpdateCafe(c.UserContext(), c.Params("id"), updateMode(c), decoder(c))
	if err != nil {
		return respondError(c, "Could not update cafe", err)
	}
	return respond(c, fiber.StatusOK, "Cafe updated successfully", cafe)
}

func (h *CafeHandler) HandleDeleteCafe(c *fiber.Ctx) error {
	cafe, err := h.service.DeleteCafe(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not delete cafe", err)
	}
	return respond(c, fiber.StatusOK, "Cafe deleted successfully", cafe)
}
