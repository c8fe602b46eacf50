package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive integer path parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidID
	}
	return uint(id), nil
}

// queryLimit returns 0 when the parameter is absent.
func queryLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.ErrInvalidLimit
	}
	return n, nil
}

func queryCursor(c *fiber.Ctx) (uint, error) {
	raw := c.Query("before")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperr.ErrInvalidCursor
	}
	return uint(n), nil
}

func queryUint(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return nil, apperr.ErrValidation.WithDetails(map[string]string{name: "must be a positive integer"})
	}
	id := uint(n)
	return &id, nil
}

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
