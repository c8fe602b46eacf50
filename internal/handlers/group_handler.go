package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	group, err := h.groupService.Create(c.UserContext(), userID, middleware.Body[dto.CreateGroupRequest](c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) Search(c *fiber.Ctx) error {
	sportID, err := queryUint(c, "sport_id")
	if err != nil {
		return err
	}
	filter := dto.GroupSearchFilter{
		SportID: sportID,
		Level:   strings.TrimSpace(c.Query("level")),
		City:    strings.TrimSpace(c.Query("city")),
	}
	switch filter.Level {
	case "", models.LevelBeginner, models.LevelIntermediate, models.LevelExpert:
	default:
		return apperr.ErrValidation.WithDetails(map[string]string{"level": "must be one of debutant intermediaire expert"})
	}

	groups, err := h.groupService.Search(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) Mine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	groups, err := h.groupService.ListMine(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	group, err := h.groupService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	group, err := h.groupService.Update(c.UserContext(), userID, id, middleware.Body[dto.UpdateGroupRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"group": group})
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.groupService.Delete(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *GroupHandler) Join(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.groupService.Join(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *GroupHandler) Leave(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.groupService.Leave(c.UserContext(), userID, id); err != nil {
		return err
	}
	return ok(c)
}

func (h *GroupHandler) Members(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	members, err := h.groupService.Members(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"members": members})
}
