package middleware

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const bodyKey = "body"

// ValidateBody decodes the JSON body into T, trims and validates it, and
// hands it to the next handler through Body[T].
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(req); err != nil {
				return apperr.ErrValidation.WithMessage("Invalid request body")
			}
		}
		if err := validation.Struct(req); err != nil {
			return err
		}
		c.Locals(bodyKey, req)
		return c.Next()
	}
}

func Body[T any](c *fiber.Ctx) *T {
	if req, ok := c.Locals(bodyKey).(*T); ok {
		return req
	}
	return new(T)
}
