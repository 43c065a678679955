package handlers

import (
	"ikhor/internal/domain"
	"ikhor/internal/email"
	applog "ikhor/internal/log"
	"ikhor/internal/repos"
	"ikhor/internal/services"
	"ikhor/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	OrderRepo *repos.OrderRepo
	Users     *repos.UserRepo
	Settings  *services.SettingsService
	Mail      *email.Sender
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	sv, err := h.Settings.View()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudo cargar el panel"})
	}
	ords, _ := h.OrderRepo.ListLatest(10)
	return render(c, "admin_dashboard", fiber.Map{"Quota": sv, "Orders": ords})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	status, ok := validate.OrderStatus(c.Query("status"))
	var (
		orders []domain.Order
		err    error
	)
	if ok {
		orders, err = h.OrderRepo.ListByStatus(status, 100)
	} else {
		status = ""
		orders, err = h.OrderRepo.ListLatest(100)
	}
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar las órdenes"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": orders, "Status": status})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status, ok := validate.OrderStatus(c.FormValue("status"))
	if id == "" || !ok {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.OrderRepo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// POST /admin/orders/:id/ship records courier and tracking data, marks the
// order enviado, and mails the shipping notification.
func (h *AdminHandler) ShipOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	courier := c.FormValue("courier")
	tracking := c.FormValue("tracking_number")
	eta := c.FormValue("estimated_delivery")
	if id == "" || courier == "" || tracking == "" {
		return c.Status(400).SendString("missing shipping data")
	}

	if err := h.OrderRepo.SetShipping(id, courier, tracking, eta); err != nil {
		applog.Error(c, "admin.orders.ship.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not mark as shipped")
	}
	applog.Audit(c, "admin.orders.ship", map[string]any{"order_id": id, "tracking": tracking})

	if o, _, err := h.OrderRepo.Get(id); err == nil {
		if err := h.Mail.SendShippingNotification(o.CustomerEmail, o); err != nil {
			applog.Error(c, "admin.orders.ship.email.fail", err, map[string]any{"order_id": id})
		}
	}
	return c.Redirect("/admin/orders")
}

// UsersPage lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	var users []struct {
		ID    string `db:"id"`
		Email string `db:"email"`
		Name  string `db:"name"`
		Role  string `db:"role"`
	}
	if err := h.Users.DB.Select(&users, `SELECT id,email,name,role FROM users WHERE role != 'ADMIN' ORDER BY email`); err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "No se pudieron cargar los usuarios"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser deletes a user and related data, cancels their orders.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
