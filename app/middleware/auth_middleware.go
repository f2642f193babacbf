package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"clinicagent/app/api"
)

// BearerAuth guards a route group with a static bearer token. An empty
// token disables the check, which is the local-development default.
func BearerAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Next()
		}
		auth := c.Get(fiber.HeaderAuthorization)
		got, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || got != token {
			return api.ErrUnAuthorized("invalid or missing bearer token")
		}
		return c.Next()
	}
}
