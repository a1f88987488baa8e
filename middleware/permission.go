package middleware

import (
	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
)

// RequireRole lets the request through only when the token role is one of
// roles. It must run after Protected.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		if role == "" {
			return apperror.Unauthenticated("authentication required")
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apperror.Forbidden("this action requires the %s role", joinRoles(roles))
	}
}

func joinRoles(roles []models.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(r)
	}
	return out
}
