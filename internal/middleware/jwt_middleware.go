package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

// claimsKey is where Authenticate stores verified claims on the request.
const claimsKey = "claims"

// ClaimsFrom returns the verified claims stored by Authenticate, or nil when
// the request was not authenticated.
func ClaimsFrom(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}

// Authenticate extracts and verifies the bearer token and stores its claims
// on the request. It short-circuits with 401 when the header is missing,
// malformed, or the token does not verify.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "no auth header provided",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "invalid token",
			})
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// AdminOnly allows only requests whose claims carry the admin flag. Must run
// after Authenticate.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "no auth header provided",
			})
		}
		if !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "this is only allowed for admins",
			})
		}
		return c.Next()
	}
}

// SelfOnly allows only the user whose id matches the named path parameter.
func SelfOnly(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "no auth header provided",
			})
		}
		if claims.UserID != c.Params(param) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "only this user can take this action",
			})
		}
		return c.Next()
	}
}

// SelfOrAdmin allows the user whose id matches the named path parameter, and
// any admin.
func SelfOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "no auth header provided",
			})
		}
		if claims.UserID != c.Params(param) && !claims.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "FAIL",
				"message": "only this user or admin can take this action",
			})
		}
		return c.Next()
	}
}
