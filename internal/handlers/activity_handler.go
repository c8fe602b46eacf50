package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// userAndActivity reads the caller and the :id path parameter.
func userAndActivity(c *fiber.Ctx) (uint, uint, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return 0, 0, err
	}
	activityID, err := parseID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, activityID, nil
}

func (h *ActivityHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	activity, err := h.activityService.Create(c.UserContext(), userID, middleware.Body[dto.CreateActivityRequest](c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"activity": activity})
}

func (h *ActivityHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	activity, err := h.activityService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": activity})
}

func (h *ActivityHandler) ListByGroup(c *fiber.Ctx) error {
	groupID, err := parseID(c, "groupId")
	if err != nil {
		return err
	}
	activities, err := h.activityService.ListByGroup(c.UserContext(), groupID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activities": activities})
}

func (h *ActivityHandler) Update(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	activity, err := h.activityService.Update(c.UserContext(), userID, id, middleware.Body[dto.UpdateActivityRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": activity})
}

func (h *ActivityHandler) Delete(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	if err := h.activityService.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *ActivityHandler) Cancel(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	activity, err := h.activityService.Cancel(c.UserContext(), userID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"activity": activity})
}

func (h *ActivityHandler) Enroll(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	if err := h.activityService.Enroll(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *ActivityHandler) Unenroll(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	if err := h.activityService.Unenroll(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *ActivityHandler) Participants(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	participants, err := h.activityService.Participants(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"participants": participants})
}

func (h *ActivityHandler) Remaining(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	remaining, err := h.activityService.RemainingSpots(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.RemainingResponse{Remaining: remaining})
}

func (h *ActivityHandler) Rate(c *fiber.Ctx) error {
	userID, id, err := userAndActivity(c)
	if err != nil {
		return err
	}
	if err := h.activityService.RateOrganizer(c.UserContext(), userID, id, middleware.Body[dto.RateRequest](c)); err != nil {
		return err
	}
	return ok(c)
}
