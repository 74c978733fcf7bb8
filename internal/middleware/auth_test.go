package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"warble/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T) (*session.Manager, *fiber.App) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := session.NewManager(client, "test-secret")
	app := fiber.New()

	app.Get("/protected", SessionRequired(sessions), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})
	app.Get("/open", SessionOptional(sessions), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userID").(uint)
		return c.JSON(fiber.Map{"user_id": uid})
	})

	return sessions, app
}

func requestWithCookie(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestSessionRequired(t *testing.T) {
	sessions, app := setupAuthTest(t)

	t.Run("no cookie", func(t *testing.T) {
		resp := requestWithCookie(t, app, "/protected", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := requestWithCookie(t, app, "/protected", "not-a-token")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid session", func(t *testing.T) {
		token, err := sessions.Create(context.Background(), 42)
		require.NoError(t, err)

		resp := requestWithCookie(t, app, "/protected", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("revoked session", func(t *testing.T) {
		token, err := sessions.Create(context.Background(), 42)
		require.NoError(t, err)
		require.NoError(t, sessions.Destroy(context.Background(), token))

		resp := requestWithCookie(t, app, "/protected", token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// The context-aware logger reads the user ID from the request context, and
// ContextMiddleware runs before session resolution, so the session
// middleware itself must inject it.
func TestSessionMiddlewarePropagatesContextUserID(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := session.NewManager(client, "test-secret")

	var requiredCtxUser, optionalCtxUser any
	app := fiber.New()
	app.Get("/required", SessionRequired(sessions), func(c *fiber.Ctx) error {
		requiredCtxUser = c.UserContext().Value(UserIDKey)
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/optional", SessionOptional(sessions), func(c *fiber.Ctx) error {
		optionalCtxUser = c.UserContext().Value(UserIDKey)
		return c.SendStatus(http.StatusOK)
	})

	token, err := sessions.Create(context.Background(), 42)
	require.NoError(t, err)

	resp := requestWithCookie(t, app, "/required", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(42), requiredCtxUser)

	resp = requestWithCookie(t, app, "/optional", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, uint(42), optionalCtxUser)

	// Anonymous requests leave the context untouched.
	resp = requestWithCookie(t, app, "/optional", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, optionalCtxUser)
}

func TestSessionOptional(t *testing.T) {
	sessions, app := setupAuthTest(t)

	t.Run("anonymous passes through", func(t *testing.T) {
		resp := requestWithCookie(t, app, "/open", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("invalid cookie passes through anonymously", func(t *testing.T) {
		resp := requestWithCookie(t, app, "/open", "garbage")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("valid session resolves the user", func(t *testing.T) {
		token, err := sessions.Create(context.Background(), 7)
		require.NoError(t, err)

		resp := requestWithCookie(t, app, "/open", token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			UserID uint `json:"user_id"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint(7), body.UserID)
	})
}
