package handlers

import (
	"ikhor/internal/log"
	"ikhor/internal/services"
	"ikhor/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "perfume"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Este perfume ya no está disponible"})
	}
	p, err := h.Catalog.GetPerfume(id)
	if err != nil || p.ID == "" {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Este perfume ya no está disponible"})
	}
	return render(c, "product", fiber.Map{"P": p})
}
