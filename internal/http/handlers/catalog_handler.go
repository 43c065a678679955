package handlers

import (
	"ikhor/internal/log"
	"ikhor/internal/services"
	"ikhor/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	perfumes, err := h.Catalog.ListPerfumes(1, 24)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "home", fiber.Map{"Perfumes": perfumes})
}

func (h *CatalogHandler) Category(c *fiber.Ctx) error {
	cat, ok := validate.Category(c.Params("category"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "category"})
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Categoría no encontrada"})
	}
	perfumes, err := h.Catalog.ListByCategory(cat, 1, 24)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "category", fiber.Map{"Category": cat, "Perfumes": perfumes})
}
