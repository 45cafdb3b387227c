package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airsightlab/airsight-backend/internal/domain"
	"github.com/airsightlab/airsight-backend/internal/port"
	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig holds bearer-token configuration.
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// GenerateToken mints a signed bearer token carrying only the user id.
func GenerateToken(userID string, cfg JWTConfig) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.ExpiresIn)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// RequireAuth validates the bearer token, re-fetches the referenced user
// and injects it into Fiber locals. Deactivated accounts are rejected.
func RequireAuth(cfg JWTConfig, users port.UserStore) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authorized, no token"})
		}

		userID, err := verifyToken(token, cfg.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token expired, please login again"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authorized, token failed"})
		}

		user, err := users.GetUserByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "user not found"})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": port.ErrAccountDeactivated.Error()})
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid bearer token is present and
// silently continues anonymous otherwise. Used by the geo routes, where a
// resolved user gets the query result cached on their record.
func OptionalAuth(cfg JWTConfig, users port.UserStore) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		userID, err := verifyToken(token, cfg.Secret)
		if err != nil {
			return c.Next()
		}

		user, err := users.GetUserByID(c.Context(), userID)
		if err != nil || !user.IsActive {
			return c.Next()
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// GetUser extracts the authenticated user from Fiber locals, or nil.
func GetUser(c fiber.Ctx) *domain.User {
	u, ok := c.Locals("user").(*domain.User)
	if !ok {
		return nil
	}
	return u
}

func bearerToken(c fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func verifyToken(tokenStr, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !tok.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}
