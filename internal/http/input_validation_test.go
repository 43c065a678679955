package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"ikhor/internal/config"
	"ikhor/internal/http/handlers"
	"ikhor/internal/repos"
	"ikhor/internal/services"
)

// Minimal app setup for validation tests
func newValidationApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: "../../web/media"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{Views: newEngine()})
	app.Server().MaxRequestBodySize = 1 << 20
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
	app.Get("/search", deps.SearchHandler.Search)
	app.Get("/product/:id", deps.ProductHandler.Detail)
	api := app.Group("/api/v1")
	api.Get("/availability", deps.AvailabilityHandler.Check)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/login", authH.LoginForm)

	return app, db
}

// Malformed inputs are rejected before touching any state.
func TestValidationBadInputs(t *testing.T) {
	app, _ := newValidationApp(t)

	// availability with a malformed perfume id
	req := httptest.NewRequest("GET", "/api/v1/availability?perfumeId=kham!rah", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad perfumeId expected 400, got %d", resp.StatusCode)
	}

	// search with invalid chars
	req2 := httptest.NewRequest("GET", "/search?q=%3Cscript%3E", nil)
	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatal(err)
	}
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad search expected 400, got %d", resp2.StatusCode)
	}

	// order with an invalid whatsapp number (set up cart and csrf/sid first)
	loginResp, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(loginResp, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}
	formCart := strings.NewReader("csrf=" + csrfTok + "&perfumeId=khamrah-001&qty=1")
	reqCart := httptest.NewRequest("POST", "/cart", formCart)
	reqCart.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqCart.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	respCart, err := app.Test(reqCart)
	if err != nil {
		t.Fatal(err)
	}
	sid := extractCookie(respCart, "sid")
	if sid == "" {
		t.Fatal("sid not set after cart add")
	}

	formOrder := strings.NewReader("csrf=" + csrfTok +
		"&name=Maria&whatsapp=no-es-numero&city=Quito&address=Av. Amazonas 123&payment_method=transferencia")
	reqOrder := httptest.NewRequest("POST", "/orders", formOrder)
	reqOrder.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	reqOrder.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	reqOrder.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	respOrder, err := app.Test(reqOrder)
	if err != nil {
		t.Fatal(err)
	}
	if respOrder.StatusCode != http.StatusBadRequest {
		body, _ := io.ReadAll(respOrder.Body)
		t.Fatalf("bad whatsapp order expected 400, got %d body=%s", respOrder.StatusCode, body)
	}
}

// Templates auto-escape untrusted text
func TestTemplateAutoEscape(t *testing.T) {
	app, db := newValidationApp(t)
	// Insert a perfume with XSS-y fields
	_, _ = db.Exec(`
		INSERT INTO perfumes(id,name,description,brand,category,price_cents,stock,active)
		VALUES('xss-1','<script>alert(1)</script>','<b>desc</b>','Lattafa','arabe_medio',999,3,1)
	`)

	req := httptest.NewRequest("GET", "/product/xss-1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}
