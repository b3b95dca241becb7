package handlers

import (
	"fmt"

	"cafeconnect/internal/models"
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", guard.then(h.HandleGetOrders)...)
	orderRoutes.Get("/:id", guard.then(h.HandleGetOrderByID)...)
	orderRoutes.Get("/:id/qrcode", guard.then(h.HandleGetReceiptQRCode)...)
	orderRoutes.Post("/", guard.then(h.HandleCreateOrder)...)
	orderRoutes.Put("/:id", guard.then(h.HandleUpdateOrder)...)
	orderRoutes.Patch("/:id/status", guard.then(h.HandleUpdateOrderStatus)...)
	orderRoutes.Patch("/:id/payment", guard.then(h.HandleUpdatePaymentStatus)...)
	orderRoutes.Patch("/:id", guard.then(h.HandleUpdateOrder)...)
	orderRoutes.Delete("/:id", guard.then(h.HandleDeleteOrder)...)
}

// HandleGetOrders lists orders, optionally for one user (?userId=) or one cafe
// (?cafeId=), narrowed by ?status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), services.OrderFilter{
		UserID: c.Query("userId"),
		CafeID: c.Query("cafeId"),
		Status: models.OrderStatus(c.Query("status")),
	})
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return respondList(c, orders)
}

func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	return respond(c, fiber.StatusOK, "", order)
}

// HandleCreateOrder creates a new order. The total is always computed server-side.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	order, err := h.service.CreateOrder(c.UserContext(), decoder(c))
	if err != nil {
		return respondError(c, "Could not create order", err)
	}
	return respond(c, fiber.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	order, err := h.service.UpdateOrder(c.UserContext(), c.Params("id"), updateMode(c), decoder(c))
	if err != nil {
		return respondError(c, "Could not update order", err)
	}
	return respond(c, fiber.StatusOK, "Order updated successfully", order)
}

func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	order, err := h.service.DeleteOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not delete order", err)
	}
	return respond(c, fiber.StatusOK, "Order deleted successfully", order)
}

// HandleUpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Could not update order status", models.InvalidPayload(err))
	}
	if req.Status == "" {
		return respondError(c, "Could not update order status", fmt.Errorf("%w: status is required", services.ErrValidation))
	}

	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, "Could not update order status", err)
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Order status updated to %s", order.Status), order)
}

// HandleUpdatePaymentStatus records payment or refund of an order.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	var req struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, "Could not update payment status", models.InvalidPayload(err))
	}
	if req.PaymentStatus == "" {
		return respondError(c, "Could not update payment status", fmt.Errorf("%w: paymentStatus is required", services.ErrValidation))
	}

	order, err := h.service.UpdatePayment(c.UserContext(), c.Params("id"), req.PaymentStatus)
	if err != nil {
		return respondError(c, "Could not update payment status", err)
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("Payment status updated to %s", order.PaymentStatus), order)
}

// HandleGetReceiptQRCode serves a PNG QR code linking to the order.
func (h *OrderHandler) HandleGetReceiptQRCode(c *fiber.Ctx) error {
	png, err := h.service.ReceiptQRCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not generate receipt QR code", err)
	}
	c.Type("png")
	return c.Send(png)
}
