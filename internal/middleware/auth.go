// Package middleware provides authentication, logging, and observability
// middleware for the application.
package middleware

import (
	"context"

	"warble/internal/models"
	"warble/internal/session"

	"github.com/gofiber/fiber/v2"
)

// propagateUserID stores the resolved user in Fiber locals and the request
// context. ContextMiddleware runs before session resolution, so the
// context-aware logger relies on this injection for user_id.
func propagateUserID(c *fiber.Ctx, userID uint, token string) {
	c.Locals("userID", userID)
	c.Locals("sessionToken", token)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// SessionRequired enforces an authenticated session for protected routes.
// On success the user ID and raw session token are stored in Fiber locals.
func SessionRequired(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access unauthorized"))
		}

		userID, err := sessions.Resolve(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access unauthorized"))
		}

		propagateUserID(c, userID, token)
		return c.Next()
	}
}

// SessionOptional resolves the session when a cookie is present but never
// rejects the request. Anonymous requests proceed with no user ID set.
func SessionOptional(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(session.CookieName)
		if token != "" {
			if userID, err := sessions.Resolve(c.Context(), token); err == nil {
				propagateUserID(c, userID, token)
			}
		}
		return c.Next()
	}
}
