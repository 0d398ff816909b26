package middleware

import (
	"strings"

	"pawhaven/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// viewerFromToken extracts the opaque viewer id from a bearer token issued by
// the identity provider. The viewer id is the token's "sub" claim and must be
// UUID-shaped.
func viewerFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	if _, err := uuid.Parse(sub); err != nil {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid viewer ID in token")
	}

	return sub, nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// ViewerRequired enforces an authenticated viewer for protected routes and
// stores the viewer id in c.Locals("viewerID").
func ViewerRequired(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	viewerID, err := viewerFromToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	c.Locals("viewerID", viewerID)
	return c.Next()
}

// ViewerOptional resolves the viewer when a valid token is present and
// otherwise continues anonymously. A malformed token on a public route is
// treated the same as no token.
func ViewerOptional(c *fiber.Ctx) error {
	if tokenString := bearerToken(c); tokenString != "" {
		if viewerID, err := viewerFromToken(tokenString); err == nil {
			c.Locals("viewerID", viewerID)
		}
	}
	return c.Next()
}
