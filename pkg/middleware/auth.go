// Package middleware holds the fiber middleware shared by the API routes.
package middleware

import (
	"errors"
	"fmt"

	"github.com/amirasaad/fundledger/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "user"

// JwtProtected verifies an HS256 bearer token and stores it in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:   userContextKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	status, title := fiber.StatusUnauthorized, "Invalid or expired JWT"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		status, title = fiber.StatusBadRequest, "Missing or malformed JWT"
	}
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"detail":   err.Error(),
		"instance": c.OriginalURL(),
	}, "application/problem+json")
}

// CurrentUserID reads the user_id claim of the verified token. It is the
// identity recorded on every ledger write.
func CurrentUserID(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return "", errors.New("missing user context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected token claims")
	}
	switch v := claims["user_id"].(type) {
	case string:
		if v == "" {
			break
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	}
	return "", errors.New("token has no user_id claim")
}
