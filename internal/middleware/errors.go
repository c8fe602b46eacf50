package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as {"error": {code, message, details}}.
// 5xx details never reach the client.
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		e := toAppError(err)

		attrs := []any{
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"status", e.Status,
			"error", err.Error(),
		}
		if userID, uerr := GetUserID(c); uerr == nil {
			attrs = append(attrs, "user_id", userID)
		}

		if e.Status >= http.StatusInternalServerError && e.Status != http.StatusNotImplemented {
			slog.Error("unhandled server error", attrs...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
			e = apperr.ErrInternal
		} else if !cfg.IsProduction() {
			slog.Warn("request failed", attrs...)
		}

		return c.Status(e.Status).JSON(dto.ErrorResponse{Error: dto.ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		}})
	}
}

func toAppError(err error) *apperr.Error {
	if e, ok := apperr.From(err); ok {
		return e
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return apperr.ErrNotFound
		case fiber.StatusUnauthorized:
			return apperr.ErrUnauthorized
		case fiber.StatusTooManyRequests:
			return apperr.ErrRateLimited
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
			return apperr.ErrValidation.WithMessage(fe.Message)
		}
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fe.Code), " ", "_"))
		if code == "" {
			code = "HTTP_ERROR"
		}
		return apperr.New(fe.Code, code, fe.Message)
	}
	return apperr.ErrInternal
}
