package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"ikhor/internal/config"
	"ikhor/internal/http/handlers"
	"ikhor/internal/repos"
	"ikhor/internal/services"
)

// Admin stock changes land in the audit log
func TestAdminStockChangeLogs(t *testing.T) {
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{Views: newEngine()})
	app.Use(requestid.New())
	app.Use(limiter.New(limiter.Config{Max: 100, Expiration: 0}))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, authSvc)
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Post("/products/:id/stock", deps.AdminCatalogHandler.UpdateStock)
	app.Get("/login", authH.LoginForm)

	// Bind admin session
	if err := userRepo.BindSession("sid-admin", "u-admin"); err != nil {
		t.Fatalf("bind admin session: %v", err)
	}

	// get csrf token
	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	entries := captureLogs(t, func() {
		form := strings.NewReader("csrf=" + csrfTok + "&stock=9")
		req := httptest.NewRequest("POST", "/admin/products/khamrah-001/stock", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
		req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-admin"})
		_, _ = app.Test(req)
	})

	found := false
	for _, e := range entries {
		if e.Action == "admin.products.stock" {
			found = true
			if _, ok := e.Fields["perfume"]; !ok {
				t.Fatalf("admin.products.stock missing perfume")
			}
			if _, ok := e.Fields["stock"]; !ok {
				t.Fatalf("admin.products.stock missing stock")
			}
		}
	}
	if !found {
		t.Fatalf("admin.products.stock log not found")
	}

	// The write went through too
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM perfumes WHERE id='khamrah-001'`); err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 9 {
		t.Fatalf("stock not updated, got %d", stock)
	}
}
