package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes fn inside a real request so Params/Query are populated.
func run(t *testing.T, route, target string, fn func(c *fiber.Ctx) error) {
	t.Helper()
	app := fiber.New()
	app.Get(route, fn)
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestParseID(t *testing.T) {
	cases := []struct {
		target string
		want   uint
		err    error
	}{
		{"/items/42", 42, nil},
		{"/items/0", 0, apperr.ErrInvalidID},
		{"/items/-1", 0, apperr.ErrInvalidID},
		{"/items/abc", 0, apperr.ErrInvalidID},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			run(t, "/items/:id", tc.target, func(c *fiber.Ctx) error {
				id, err := parseID(c, "id")
				assert.Equal(t, tc.want, id)
				if tc.err != nil {
					assert.True(t, errors.Is(err, tc.err))
				} else {
					assert.NoError(t, err)
				}
				return c.SendStatus(fiber.StatusOK)
			})
		})
	}
}

func TestQueryLimit(t *testing.T) {
	run(t, "/", "/", func(c *fiber.Ctx) error {
		n, err := queryLimit(c)
		assert.NoError(t, err)
		assert.Zero(t, n)
		return c.SendStatus(fiber.StatusOK)
	})
	run(t, "/", "/?limit=25", func(c *fiber.Ctx) error {
		n, err := queryLimit(c)
		assert.NoError(t, err)
		assert.Equal(t, 25, n)
		return c.SendStatus(fiber.StatusOK)
	})
	for _, raw := range []string{"0", "-5", "ten"} {
		run(t, "/", "/?limit="+raw, func(c *fiber.Ctx) error {
			_, err := queryLimit(c)
			assert.True(t, errors.Is(err, apperr.ErrInvalidLimit), raw)
			return c.SendStatus(fiber.StatusOK)
		})
	}
}

func TestQueryCursor(t *testing.T) {
	run(t, "/", "/?before=17", func(c *fiber.Ctx) error {
		n, err := queryCursor(c)
		assert.NoError(t, err)
		assert.Equal(t, uint(17), n)
		return c.SendStatus(fiber.StatusOK)
	})
	run(t, "/", "/?before=x", func(c *fiber.Ctx) error {
		_, err := queryCursor(c)
		assert.True(t, errors.Is(err, apperr.ErrInvalidCursor))
		return c.SendStatus(fiber.StatusOK)
	})
}

func TestQueryUint(t *testing.T) {
	run(t, "/", "/?sport_id=3", func(c *fiber.Ctx) error {
		v, err := queryUint(c, "sport_id")
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, uint(3), *v)
		return c.SendStatus(fiber.StatusOK)
	})
	run(t, "/", "/", func(c *fiber.Ctx) error {
		v, err := queryUint(c, "sport_id")
		assert.NoError(t, err)
		assert.Nil(t, v)
		return c.SendStatus(fiber.StatusOK)
	})
	run(t, "/", "/?sport_id=0", func(c *fiber.Ctx) error {
		_, err := queryUint(c, "sport_id")
		e, ok := apperr.From(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", e.Code)
		assert.Equal(t, map[string]string{"sport_id": "must be a positive integer"}, e.Details)
		return c.SendStatus(fiber.StatusOK)
	})
}
