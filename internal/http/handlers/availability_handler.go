package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"ikhor/internal/services"
	"ikhor/internal/validate"
)

type AvailabilityHandler struct {
	Catalog *services.CatalogService
}

// Check answers GET /api/v1/availability?perfumeId=… with the classified
// status, effective stock, low-stock flag, and the projected ETA for
// pre-orders.
func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	perfumeID := strings.TrimSpace(c.Query("perfumeId"))
	if _, ok := validate.ID(perfumeID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid perfumeId",
		})
	}

	avail, err := h.Catalog.Availability(perfumeID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "perfume not found",
		})
	}
	return c.JSON(avail)
}
