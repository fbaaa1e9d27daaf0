package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"fashionflow/models"
)

const (
	localUserID    = "userID"
	localUserEmail = "userEmail"
	localUserRole  = "userRole"
)

// JWTMiddleware validates the access token the identity service issued,
// provided in the Authorization header, and stores the caller's identity in
// the request locals. An empty secret rejects every token, since HMAC
// verification would otherwise accept tokens signed with an empty key.
func JWTMiddleware(secret []byte) fiber.Handler {
	if len(secret) == 0 {
		logrus.Warn("⚠️ [AUTH] JWT secret is empty, all authenticated routes will reject requests")
		return func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Authentication is not configured"})
		}
	}
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
		}

		claims := &models.JwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			// Ensure the token signing method is what you expect
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secret, nil
		})

		if err != nil || !token.Valid || claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localUserEmail, claims.Email)
		c.Locals(localUserRole, claims.Role)

		return c.Next()
	}
}

// UserID returns the authenticated caller's id.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(localUserID).(string)
	return id, ok && id != ""
}
