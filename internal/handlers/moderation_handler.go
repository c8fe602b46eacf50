package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// Admin: List reports
func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", models.ReportOpen, models.ReportActioned, models.ReportDismissed:
	default:
		return apperr.ErrValidation.WithDetails(map[string]string{"status": "must be one of open actioned dismissed"})
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	offset := c.QueryInt("offset", 0)

	reports, total, err := h.moderationService.ListReports(c.UserContext(), status, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reports": reports, "total": total})
}

// Admin: Action a report
func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.moderationService.ActionReport(c.UserContext(), id, middleware.Body[dto.ActionReportRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"report": report})
}
