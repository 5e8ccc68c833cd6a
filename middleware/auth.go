package middleware

import (
	"errors"
	"fmt"
	"strings"

	"subercraftex/constants"
	"subercraftex/logger"
	"subercraftex/types"
	"subercraftex/types/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload. Tokens are issued elsewhere and
// signed with the shared HS256 secret.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("authorization token missing")

// ParseToken verifies an HS256 token and returns the actor it names.
func ParseToken(secret, tokenString string) (auth.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return auth.Guest, fmt.Errorf("failed to parse JWT: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return auth.Guest, errors.New("invalid JWT token")
	}
	return auth.Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}

func extractToken(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies("access"); cookie != "" {
		return cookie, nil
	}
	return "", errMissingToken
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Message: "Unauthorized",
		Status:  fiber.StatusUnauthorized,
		Error:   msg,
	})
}

// authenticate resolves the actor into Locals. With required=false a
// request without a token continues as a guest, but a bad token is still
// rejected.
func authenticate(secret string, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if errors.Is(err, errMissingToken) && !required {
			c.Locals(constants.LocalsActor, auth.Guest)
			return c.Next()
		}
		if err != nil {
			return unauthorized(c, err.Error())
		}

		actor, err := ParseToken(secret, token)
		if err != nil {
			logger.Debug("token rejected", "error", err.Error(), "path", c.Path())
			return unauthorized(c, "Session expired or invalid. Login again.")
		}
		c.Locals(constants.LocalsActor, actor)
		return c.Next()
	}
}

// RequireAuthentication only requires a valid token.
func RequireAuthentication(secret string) fiber.Handler {
	return authenticate(secret, true)
}

// OptionalAuthentication admits guests and resolves the actor when a token is sent.
func OptionalAuthentication(secret string) fiber.Handler {
	return authenticate(secret, false)
}

// RequireRoles must run after RequireAuthentication.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActor(c)
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Forbidden",
			Status:  fiber.StatusForbidden,
			Error:   "Insufficient permissions",
		})
	}
}

// GetActor returns the actor resolved by the auth middleware, or a guest.
func GetActor(c *fiber.Ctx) auth.Actor {
	if actor, ok := c.Locals(constants.LocalsActor).(auth.Actor); ok {
		return actor
	}
	return auth.Guest
}
