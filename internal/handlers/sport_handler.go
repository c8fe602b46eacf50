package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SportHandler struct {
	sportService *services.SportService
}

func NewSportHandler(sportService *services.SportService) *SportHandler {
	return &SportHandler{sportService: sportService}
}

func (h *SportHandler) List(c *fiber.Ctx) error {
	sports, err := h.sportService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sports": sports})
}
