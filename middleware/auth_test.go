package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/logger"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const secret = "test_secret"

func sign(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func validToken(t *testing.T, id string, role models.Role) string {
	return sign(t, jwt.MapClaims{
		"id":   id,
		"role": string(role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}, secret)
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(StatusOf(err)).SendString(string(apperror.KindOf(err)))
		},
	})
	app.Get("/user", Protected(secret), RequireRole(models.RoleUser), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c) + ":" + string(Role(c)))
	})
	app.Get("/staff", Protected(secret), RequireRole(models.RoleLawyer, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func call(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestProtected(t *testing.T) {
	app := newTestApp()
	userToken := validToken(t, "u1", models.RoleUser)

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
		wantBody   string
	}{
		{"missing token", "/user", nil, 401, "unauthenticated"},
		{"bearer token", "/user", map[string]string{"Authorization": "Bearer " + userToken}, 200, "u1:user"},
		{"bare authorization", "/user", map[string]string{"Authorization": userToken}, 200, "u1:user"},
		{"legacy token header", "/user", map[string]string{"token": userToken}, 200, "u1:user"},
		{"legacy admin header", "/staff", map[string]string{"aToken": validToken(t, "a1", models.RoleAdmin)}, 200, "a1"},
		{"legacy lawyer header", "/staff", map[string]string{"dToken": validToken(t, "l1", models.RoleLawyer)}, 200, "l1"},
		{"wrong role", "/staff", map[string]string{"token": userToken}, 403, "forbidden"},
		{"garbage token", "/user", map[string]string{"token": "not.a.jwt"}, 401, "unauthenticated"},
		{"wrong secret", "/user", map[string]string{"token": sign(t, jwt.MapClaims{
			"id": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
		}, "other")}, 401, "unauthenticated"},
		{"expired", "/user", map[string]string{"token": sign(t, jwt.MapClaims{
			"id": "u1", "role": "user", "exp": time.Now().Add(-time.Minute).Unix(),
		}, secret)}, 401, "unauthenticated"},
		{"unknown role", "/user", map[string]string{"token": sign(t, jwt.MapClaims{
			"id": "u1", "role": "root", "exp": time.Now().Add(time.Hour).Unix(),
		}, secret)}, 401, "unauthenticated"},
		{"missing id", "/user", map[string]string{"token": sign(t, jwt.MapClaims{
			"role": "user", "exp": time.Now().Add(time.Hour).Unix(),
		}, secret)}, 401, "unauthenticated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, tt.path, tt.headers)
			if status != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, status, body)
			}
			if body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(StatusOf(err))
		},
	})
	app.Get("/", RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error { return c.SendString("ok") })

	status, _ := call(t, app, "/", nil)
	if status != 401 {
		t.Errorf("expected 401, got %d", status)
	}
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		limiter    *stubLimiter
		wantStatus int
	}{
		{"allowed", &stubLimiter{allow: true}, 200},
		{"throttled", &stubLimiter{allow: false}, 429},
		{"limiter down", &stubLimiter{err: errors.New("redis down")}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{
				ErrorHandler: func(c *fiber.Ctx, err error) error {
					return c.SendStatus(StatusOf(err))
				},
			})
			app.Post("/login", RateLimit(tt.limiter, "user-auth", logger.Nop()), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if len(tt.limiter.keys) != 1 || tt.limiter.keys[0][:10] != "user-auth:" {
				t.Errorf("unexpected limiter keys %v", tt.limiter.keys)
			}
		})
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimit(nil, "user-auth", logger.Nop()), func(c *fiber.Ctx) error { return c.SendString("ok") })

	status, _ := call(t, app, "/", nil)
	if status != 200 {
		t.Errorf("expected 200, got %d", status)
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(fiber.ErrMethodNotAllowed); got != 405 {
		t.Errorf("expected 405, got %d", got)
	}
	if got := StatusOf(apperror.SlotUnavailable("15_6_2025", "10:00 AM")); got != 409 {
		t.Errorf("expected 409, got %d", got)
	}
	if got := StatusOf(errors.New("boom")); got != 500 {
		t.Errorf("expected 500, got %d", got)
	}
}
