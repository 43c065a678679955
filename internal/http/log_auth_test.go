package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"ikhor/internal/http/handlers"
	"ikhor/internal/repos"
	"ikhor/internal/services"
)

// Auth attempts are logged with their outcome
func TestAuthLogging(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{Views: newEngine()})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Post("/login", limiter.New(limiter.Config{Max: 100, Expiration: time.Minute}), authH.Login)
	app.Get("/login", authH.LoginForm)

	// fetch csrf token
	respLogin, _ := app.Test(httptest.NewRequest("GET", "/login", nil))
	csrfTok := extractCookie(respLogin, "csrf_")
	if csrfTok == "" {
		t.Fatal("csrf token missing")
	}

	run := func(email, pass string) []logEntry {
		return captureLogs(t, func() {
			form := strings.NewReader("csrf=" + csrfTok + "&email=" + email + "&password=" + pass)
			req := httptest.NewRequest("POST", "/login", form)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
			_, _ = app.Test(req)
		})
	}

	failLogs := run("cliente@ikhor.test", "badpass!!")
	if len(failLogs) == 0 {
		t.Fatal("expected auth logs on failure")
	}
	foundFail := false
	for _, e := range failLogs {
		if e.Action == "auth.login.fail" {
			foundFail = true
			if _, ok := e.Fields["email"]; !ok {
				t.Fatalf("auth.login.fail missing email field")
			}
		}
	}
	if !foundFail {
		t.Fatalf("auth.login.fail log not found")
	}

	successLogs := run("cliente@ikhor.test", "Passw0rd!")
	foundSuccess := false
	for _, e := range successLogs {
		if e.Action == "auth.login.success" {
			foundSuccess = true
			if _, ok := e.Fields["email"]; !ok {
				t.Fatalf("auth.login.success missing email field")
			}
		}
	}
	if !foundSuccess {
		t.Fatalf("auth.login.success log not found")
	}
}
