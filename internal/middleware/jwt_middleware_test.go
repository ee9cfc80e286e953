package middleware_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/database/dbtest"
	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/repositories"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*fiber.App, string) {
	t.Helper()
	auth := services.NewAuthService(repositories.NewGORMUserRepository(dbtest.Open(t)), "test_jwt_secret", time.Hour)
	_, err := auth.Register(context.Background(), domain.RegisterRequest{
		Email: "alice@example.com", Username: "alice", FirstName: "A", LastName: "B", Password: "secret123",
	})
	require.NoError(t, err)
	token, err := auth.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)

	whoami := func(c *fiber.Ctx) error {
		if user := middleware.CurrentUser(c); user != nil {
			return c.SendString(user.Username)
		}
		return c.SendString("anonymous")
	}

	app := fiber.New()
	app.Get("/private", middleware.AuthRequired(auth), whoami)
	app.Get("/public", middleware.OptionalAuth(auth), whoami)
	return app, token
}

func call(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app, token := setup(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"Token scheme", "Token " + token, http.StatusOK},
		{"Bearer scheme", "Bearer " + token, http.StatusOK},
		{"Missing header", "", http.StatusUnauthorized},
		{"Unknown scheme", "Basic " + token, http.StatusUnauthorized},
		{"Garbage token", "Token abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, app, "/private", tt.header)
			assert.Equal(t, tt.status, status)
		})
	}

	_, body := call(t, app, "/private", "Token "+token)
	assert.Equal(t, "alice", body)
}

func TestOptionalAuth(t *testing.T) {
	app, token := setup(t)

	status, body := call(t, app, "/public", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	status, body = call(t, app, "/public", "Token garbage")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)

	_, body = call(t, app, "/public", "Token "+token)
	assert.Equal(t, "alice", body)
}
