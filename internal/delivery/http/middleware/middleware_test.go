package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"internhub/internal/domain/user"
	"internhub/internal/pkg/jwt"
	"internhub/internal/pkg/response"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newGatedApp(jwtSvc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(quietLogger()).Middleware())
	app.Use(NewErrorMiddleware(quietLogger()).Middleware())

	auth := NewAuthMiddleware(jwtSvc)
	app.Get("/me", auth.Middleware(), func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, UserID(c).String(), nil)
	})
	app.Get("/recruiter", auth.Middleware(), RequireRole(user.RoleRecruiter), func(c fiber.Ctx) error {
		return response.Success(c, fiber.StatusOK, "", nil)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadGateway, "upstream said no", nil, errors.New("secret detail"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("kaboom")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestAuthAndRoleGate(t *testing.T) {
	svc := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	app := newGatedApp(svc)

	student, _ := svc.GenerateAccessToken(uuid.New(), "s@example.com", string(user.RoleStudent))
	recruiter, _ := svc.GenerateAccessToken(uuid.New(), "r@example.com", string(user.RoleRecruiter))
	refresh, _ := svc.GenerateRefreshToken(uuid.New())

	if resp := get(t, app, "/me", ""); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/me", refresh); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/me", student); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/recruiter", student); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", resp.StatusCode)
	}
	if resp := get(t, app, "/recruiter", recruiter); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for recruiter, got %d", resp.StatusCode)
	}
}

func TestErrorMiddleware_HidesServerErrors(t *testing.T) {
	app := newGatedApp(jwt.NewHMACService("a", "b", time.Minute, time.Hour))

	resp := get(t, app, "/boom", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if len(body) == 0 || strings.Contains(string(body), "secret detail") || strings.Contains(string(body), "upstream said no") {
		t.Fatalf("unexpected body %s", body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	if resp := get(t, app, "/panic", ""); resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", resp.StatusCode)
	}
}

func TestNormalizeError_ServiceUnavailableKeepsMessage(t *testing.T) {
	status, msg, _ := normalizeError(NewAppError(fiber.StatusServiceUnavailable, "couldn't get a response", nil, errors.New("429")))
	if status != fiber.StatusServiceUnavailable || msg != "couldn't get a response" {
		t.Fatalf("unexpected %d %q", status, msg)
	}
}
