package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ikhor/internal/domain"
	"ikhor/internal/email"
	applog "ikhor/internal/log"
	"ikhor/internal/payments"
	"ikhor/internal/repos"
	"ikhor/internal/services"
	"ikhor/internal/validate"
)

type OrderHandler struct {
	Cart      *services.CartService
	Checkout  *services.CheckoutService
	Repo      *repos.OrderRepo
	Auth      *services.AuthService
	Users     *repos.UserRepo
	Addresses *repos.AddressRepo
	Mail      *email.Sender
	PayPal    *payments.PayPalClient
}

func (h *OrderHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// CheckoutForm shows the checkout page, pre-filling the saved default
// address for logged-in users.
func (h *OrderHandler) CheckoutForm(c *fiber.Ctx) error {
	cv, err := h.Cart.View(h.ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudo cargar tu carrito"})
	}

	data := fiber.Map{"Cart": cv, "PayPalEnabled": h.PayPal.Configured()}
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		if addr, err := h.Addresses.Default(u.ID); err == nil {
			data["Saved"] = addr
		}
	}
	return render(c, "checkout", data)
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := h.ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("nombre inválido")
	}
	wa, ok := validate.Whatsapp(c.FormValue("whatsapp"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "whatsapp"})
		return c.Status(fiber.StatusBadRequest).SendString("número de WhatsApp inválido")
	}
	city, ok := validate.City(c.FormValue("city"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "city"})
		return c.Status(fiber.StatusBadRequest).SendString("ciudad inválida")
	}
	address := strings.TrimSpace(c.FormValue("address"))
	if address == "" || len(address) > 200 {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("dirección inválida")
	}

	mail := strings.TrimSpace(c.FormValue("email"))
	if mail != "" {
		if _, ok := validate.Email(mail); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "email"})
			return c.Status(fiber.StatusBadRequest).SendString("email inválido")
		}
	}

	method := c.FormValue("payment_method")
	if _, ok := validate.PaymentMethod(method); !ok {
		method = domain.PayTransfer
	}
	if method == domain.PayPayPal && !h.PayPal.Configured() {
		method = domain.PayTransfer
	}

	contact := services.Contact{Name: name, Email: mail, Whatsapp: wa, City: city, Address: address}

	o, items, err := h.Checkout.Place(sid, method, contact)
	switch {
	case errors.Is(err, services.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).SendString("Tu carrito está vacío.")
	case errors.Is(err, repos.ErrInsufficientStock):
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Stock insuficiente. Revisa las cantidades e intenta de nuevo.")
	case errors.Is(err, services.ErrConcurrencyConflict):
		applog.Error(c, "order.place.conflict", err, map[string]any{"sid": sid})
		return c.Status(fiber.StatusConflict).SendString("Mucho tráfico en este momento. Intenta de nuevo.")
	case err != nil:
		applog.Error(c, "order.place.fail", err, map[string]any{"sid": sid})
		return c.Status(fiber.StatusBadRequest).SendString("No se pudo crear la orden. Intenta de nuevo.")
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":    o.ID,
		"total_cents": o.TotalCents,
		"preorder":    o.IsPreorder,
		"payment":     o.PaymentMethod,
	})

	// Post-commit extras are best-effort: the order exists either way.
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		if err := h.Addresses.Save(domain.Address{
			UserID: u.ID, Name: name, Whatsapp: wa, City: city, Address: address,
		}); err != nil {
			applog.Error(c, "order.address.save.fail", err, map[string]any{"order_id": o.ID})
		}
		if mail == "" {
			mail = u.Email
		}
	}
	if err := h.Mail.SendOrderConfirmation(mail, o, items); err != nil {
		applog.Error(c, "order.email.fail", err, map[string]any{"order_id": o.ID})
	}

	if o.PaymentMethod == domain.PayPayPal {
		returnURL := c.BaseURL() + "/paypal/return?order=" + o.ID
		cancelURL := c.BaseURL() + "/order/" + o.ID
		created, err := h.PayPal.CreateOrder(c.Context(), o.ID, o.TotalCents, returnURL, cancelURL)
		if err != nil || created.ApproveURL == "" {
			applog.Error(c, "paypal.create.fail", err, map[string]any{"order_id": o.ID})
			return c.Redirect("/order/" + o.ID)
		}
		return c.Redirect(created.ApproveURL)
	}
	return c.Redirect("/order/" + o.ID)
}

// PayPalReturn captures the payment after buyer approval and confirms the
// order.
func (h *OrderHandler) PayPalReturn(c *fiber.Ctx) error {
	ourID := c.Query("order")
	token := c.Query("token") // paypal order id
	if ourID == "" || token == "" {
		return c.Redirect("/")
	}

	done, err := h.PayPal.CaptureOrder(c.Context(), token)
	if err != nil || !done {
		applog.Error(c, "paypal.capture.fail", err, map[string]any{"order_id": ourID})
		return c.Redirect("/order/" + ourID)
	}
	if err := h.Checkout.MarkPaid(ourID); err != nil {
		applog.Error(c, "paypal.markpaid.fail", err, map[string]any{"order_id": ourID})
	} else {
		applog.Audit(c, "paypal.capture", map[string]any{"order_id": ourID})
	}
	return c.Redirect("/order/" + ourID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orden no encontrada"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orden no encontrada"})
	}

	// Ownership check: session owner, the user that owns the order's
	// session, or an admin.
	sid := c.Cookies("sid")
	allowed := sid != "" && sid == o.SessionID
	if !allowed {
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			if u.Role == "ADMIN" {
				allowed = true
			} else if owner, err := h.Users.SessionUser(o.SessionID); err == nil && owner != nil && owner.ID == u.ID {
				allowed = true
			}
		}
	}
	if !allowed {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orden no encontrada"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	// If RequireUser is used, user is guaranteed; fallback to 404
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Órdenes no disponibles"})
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "No se pudieron cargar tus órdenes"})
	}
	// Fallback: show session orders if none linked to user (e.g., pre-login)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}
