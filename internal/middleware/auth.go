package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Locals key for the authenticated admin subject.
const AdminSubjectKey = "adminSubject"

// RequireAdmin gates admin endpoints (cascade delete, status override) on a
// bearer token issued by the external auth service. The token must be HS256
// with role=admin; the protocol itself lives outside this backend.
func RequireAdmin(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if secret == "" {
			return ErrorResponse(c, fiber.StatusServiceUnavailable, "AUTH_DISABLED",
				"Admin endpoints are disabled: no JWT secret configured")
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Bearer token required")
		}

		token, err := jwt.Parse(strings.TrimPrefix(authHeader, "Bearer "),
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
		if err != nil || !token.Valid {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims")
		}
		if role, _ := claims["role"].(string); role != "admin" {
			return ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Admin role required")
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			c.Locals(AdminSubjectKey, sub)
		}
		return c.Next()
	}
}

// AdminSubject returns the authenticated admin id, or "admin" when the token
// carried no subject.
func AdminSubject(c fiber.Ctx) string {
	if sub, ok := c.Locals(AdminSubjectKey).(string); ok && sub != "" {
		return sub
	}
	return "admin"
}
