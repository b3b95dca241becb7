package handlers

import (
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the back-office sales reports.
type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) RegisterRoutes(router fiber.Router, guard Guard) {
	reports := router.Group("/reports")
	reports.Get("/sales", guard.then(h.HandleSalesReport)...)
	reports.Get("/dashboard", guard.then(h.HandleDashboard)...)
}

// HandleSalesReport serves ?range=today|week|month|all, today by default.
func (h *ReportHandler) HandleSalesReport(c *fiber.Ctx) error {
	report, err := h.service.SalesReport(c.UserContext(), c.Query("range", services.RangeToday))
	if err != nil {
		return respondError(c, "Could not build sales report", err)
	}
	return respond(c, fiber.StatusOK, "", report)
}

func (h *ReportHandler) HandleDashboard(c *fiber.Ctx) error {
	dash, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, "Could not build dashboard", err)
	}
	return respond(c, fiber.StatusOK, "", dash)
}
