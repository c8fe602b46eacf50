package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetMe(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.UpdateProfile(c.UserContext(), userID, middleware.Body[dto.UpdateProfileRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) SetVisibility(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	req := middleware.Body[dto.VisibilityRequest](c)
	user, err := h.userService.SetVisibility(c.UserContext(), userID, req.Visibility)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) SetSports(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	req := middleware.Body[dto.UserSportsRequest](c)
	user, err := h.userService.SetSports(c.UserContext(), userID, req.Sports)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) DeleteMe(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteAccount(c.UserContext(), userID); err != nil {
		return err
	}
	return ok(c)
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	viewerID, err := middleware.OptionalUserID(c)
	if err != nil {
		return err
	}
	profile, err := h.userService.GetPublicProfile(c.UserContext(), viewerID, targetID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": profile})
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	users, err := h.userService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}
