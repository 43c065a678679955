package handlers

import (
	"ikhor/internal/services"
	"ikhor/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, Path: "/", HTTPOnly: true})
	}
	return sid
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	perfumeID := c.FormValue("perfumeId")
	qty := validate.Qty(c.FormValue("qty"))
	if qty <= 0 {
		qty = 1
	}
	if _, ok := validate.ID(perfumeID); !ok {
		return c.Status(400).SendString("missing perfumeId")
	}
	if err := h.Cart.Add(sid, perfumeID, qty); err != nil {
		return c.Status(400).SendString("No se pudo agregar al carrito")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	perfumeID := c.FormValue("perfumeId")
	if _, ok := validate.ID(perfumeID); !ok {
		return c.Status(400).SendString("missing perfumeId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.SetQty(sid, perfumeID, qty); err != nil {
		return c.Status(400).SendString("No se pudo actualizar el carrito")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	perfumeID := c.FormValue("perfumeId")
	if _, ok := validate.ID(perfumeID); !ok {
		return c.Status(400).SendString("missing perfumeId")
	}
	if err := h.Cart.Remove(sid, perfumeID); err != nil {
		return c.Status(400).SendString("No se pudo quitar el producto")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}
