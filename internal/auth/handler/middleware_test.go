package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	"github.com/ShashkovS/ejapp/internal/auth/handler"
)

// probeApp mounts a protected route that echoes the resolved identity.
func probeApp(env *testEnv) *fiber.App {
	app := env.app
	app.Get("/protected", env.handler.RequireAuth, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": handler.CurrentUser(c).Email})
	})
	return app
}

func protectedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "alice@example.com", Active: true}

	t.Run("resolves the subject and passes through", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("alice@example.com", domain.KindAccess, time.Hour)
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(user, nil)

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		resp, err := app.Test(protectedRequest(""), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("header without bearer prefix", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		resp, err := app.Test(protectedRequest("not-a-token"), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("alice@example.com", domain.KindAccess, -time.Second)
		require.NoError(t, err)

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("alice@example.com", domain.KindRefresh, time.Hour)
		require.NoError(t, err)

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown subject", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("ghost@example.com", domain.KindAccess, time.Hour)
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("inactive subject", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		inactive := &domain.User{ID: "user-1", Email: "alice@example.com", Active: false}
		token, err := env.tokens.Encode("alice@example.com", domain.KindAccess, time.Hour)
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(inactive, nil)

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("store outage is a server error, not a 401", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("alice@example.com", domain.KindAccess, time.Hour)
		require.NoError(t, err)
		env.repo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(nil, errors.New("db down"))

		resp, err := app.Test(protectedRequest(token), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("every request hits the store once", func(t *testing.T) {
		env := newTestEnv(t)
		app := probeApp(env)

		token, err := env.tokens.Encode("alice@example.com", domain.KindAccess, time.Hour)
		require.NoError(t, err)
		// No identity caching between requests: two calls, two lookups.
		env.repo.EXPECT().GetByEmail(gomock.Any(), "alice@example.com").Return(user, nil).Times(2)

		for i := 0; i < 2; i++ {
			resp, err := app.Test(protectedRequest(token), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}
	})
}

func TestCurrentUserOutsideGuard(t *testing.T) {
	app := fiber.New()
	app.Get("/open", func(c *fiber.Ctx) error {
		if handler.CurrentUser(c) == nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
