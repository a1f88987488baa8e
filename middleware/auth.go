package middleware

import (
	"fmt"
	"strings"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/models"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
)

// legacyTokenHeaders are the raw token headers older clients still send.
var legacyTokenHeaders = []string{"token", "aToken", "dToken"}

// Protected verifies the HS256 bearer token and stores the principal id and
// role in c.Locals("userID") and c.Locals("role").
func Protected(secret string) fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		SigningKey:     []byte(secret),
		SigningMethod:  "HS256",
		ErrorHandler:   jwtError,
		SuccessHandler: storePrincipal,
	})

	return func(c *fiber.Ctx) error {
		normalizeToken(c)
		return verify(c)
	}
}

// normalizeToken rewrites a legacy raw token header, or a bare token in
// Authorization, into the "Bearer <token>" form.
func normalizeToken(c *fiber.Ctx) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth != "" {
		if !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+auth)
		}
		return
	}
	for _, h := range legacyTokenHeaders {
		if v := strings.TrimSpace(c.Get(h)); v != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+v)
			return
		}
	}
}

func storePrincipal(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return apperror.Unauthenticated("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return apperror.Unauthenticated("invalid token claims")
	}

	userID, err := extractUserID(claims)
	if err != nil {
		return apperror.Unauthenticated("invalid user id in token")
	}
	role, err := extractRole(claims)
	if err != nil {
		return apperror.Unauthenticated("invalid role in token")
	}

	c.Locals("userID", userID)
	c.Locals("role", role)
	return c.Next()
}

func extractUserID(claims jwt.MapClaims) (string, error) {
	switch v := claims["id"].(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("empty id claim")
		}
		return v, nil
	case nil:
		return "", fmt.Errorf("no id claim")
	default:
		return "", fmt.Errorf("unsupported id type: %T", v)
	}
}

func extractRole(claims jwt.MapClaims) (models.Role, error) {
	v, ok := claims["role"].(string)
	if !ok {
		return "", fmt.Errorf("no role claim")
	}
	role := models.Role(v)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", v)
	}
	return role, nil
}

// jwtError maps every token failure to unauthenticated.
func jwtError(c *fiber.Ctx, err error) error {
	return apperror.Wrap(apperror.KindUnauthenticated, err, "invalid or missing token")
}

// UserID returns the authenticated principal id.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

// Role returns the authenticated principal role.
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals("role").(models.Role)
	return role
}
