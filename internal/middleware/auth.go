package middleware

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTProtected requires a valid bearer token and stores it in Locals("user").
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) && c.Get(fiber.HeaderAuthorization) == "" {
				return apperr.ErrUnauthorized
			}
			return apperr.ErrInvalidToken
		},
	})
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	protected := JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return protected(c)
	}
}

// GetUserID extracts the user id from the sub claim of the verified token.
func GetUserID(c *fiber.Ctx) (uint, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return 0, apperr.ErrUnauthorized
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, apperr.ErrInvalidToken
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidToken
	}
	return uint(id), nil
}

// OptionalUserID returns nil for anonymous requests.
func OptionalUserID(c *fiber.Ctx) (*uint, error) {
	if _, ok := c.Locals("user").(*jwt.Token); !ok {
		return nil, nil
	}
	id, err := GetUserID(c)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
