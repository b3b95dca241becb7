package handlers

import (
	"cafeconnect/internal/models"
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CashierHandler exposes the point-of-sale cart flow.
type CashierHandler struct {
	service *services.CashierService
}

// NewCashierHandler creates a new CashierHandler.
func NewCashierHandler(service *services.CashierService) *CashierHandler {
	return &CashierHandler{service: service}
}

func (h *CashierHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	cashier := router.Group("/cashier")
	cashier.Get("/products", guard.then(h.HandleGetProducts)...)
	cashier.Post("/carts", guard.then(h.HandleCreateCart)...)
	cashier.Get("/carts/:id", guard.then(h.HandleGetCart)...)
	cashier.Delete("/carts/:id", guard.then(h.HandleDiscardCart)...)
	cashier.Post("/carts/:id/items", guard.then(h.HandleAddItem)...)
	cashier.Put("/carts/:id/items/:menuId", guard.then(h.HandleSetQuantity)...)
	cashier.Delete("/carts/:id/items/:menuId", guard.then(h.HandleRemoveItem)...)
	cashier.Post("/carts/:id/checkout", guard.then(h.HandleCheckout)...)
}

// HandleGetProducts lists the menu items on sale, filtered by ?q= and ?category=.
func (h *CashierHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.Products(c.UserContext(), c.Query("q"), c.Query("category"))
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return respondList(c, products)
}

func (h *CashierHandler) HandleCreateCart(c *fiber.Ctx) error {
	cart, err := h.service.NewCart(c.UserContext())
	if err != nil {
		return respondError(c, "Could not create cart", err)
	}
	return respond(c, fiber.StatusCreated, "Cart created", cart)
}

func (h *CashierHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return respond(c, fiber.StatusOK, "", cart)
}

func (h *CashierHandler) HandleDiscardCart(c *fiber.Ctx) error {
	if err := h.service.DiscardCart(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Could not discard cart", err)
	}
	return respond(c, fiber.StatusOK, "Cart discarded", nil)
}

func (h *CashierHandler) HandleAddItem(c *fiber.Ctx) error {
	var req struct {
		MenuID string `json:"menuId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Could not add item", models.InvalidPayload(err))
	}
	cart, err := h.service.AddItem(c.UserContext(), c.Params("id"), req.MenuID)
	if err != nil {
		return respondError(c, "Could not add item", err)
	}
	return respond(c, fiber.StatusOK, "Item added", cart)
}

// HandleSetQuantity sets a line quantity; an explicit zero or less removes the line.
func (h *CashierHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Could not update quantity", models.InvalidPayload(err))
	}
	if req.Quantity == nil {
		return respondError(c, "Could not update quantity", &models.ValidationError{
			Fields: map[string]string{"quantity": "is required"},
		})
	}
	cart, err := h.service.SetQuantity(c.UserContext(), c.Params("id"), c.Params("menuId"), *req.Quantity)
	if err != nil {
		return respondError(c, "Could not update quantity", err)
	}
	return respond(c, fiber.StatusOK, "Quantity updated", cart)
}

func (h *CashierHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(c.UserContext(), c.Params("id"), c.Params("menuId"))
	if err != nil {
		return respondError(c, "Could not remove item", err)
	}
	return respond(c, fiber.StatusOK, "Item removed", cart)
}

// HandleCheckout turns the cart into a confirmed, paid order and returns the receipt.
func (h *CashierHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Checkout failed", models.InvalidPayload(err))
	}
	result, err := h.service.Checkout(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, "Checkout failed", err)
	}
	return respond(c, fiber.StatusCreated, "Transaction completed successfully", result)
}
