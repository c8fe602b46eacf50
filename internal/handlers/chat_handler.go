package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	userID, activityID, err := userAndActivity(c)
	if err != nil {
		return err
	}
	limit, err := queryLimit(c)
	if err != nil {
		return err
	}
	before, err := queryCursor(c)
	if err != nil {
		return err
	}
	messages, err := h.chatService.List(c.UserContext(), userID, activityID, limit, before)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	userID, activityID, err := userAndActivity(c)
	if err != nil {
		return err
	}
	req := middleware.Body[dto.SendMessageRequest](c)
	message, err := h.chatService.Send(c.UserContext(), userID, activityID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

func (h *ChatHandler) Report(c *fiber.Ctx) error {
	userID, activityID, err := userAndActivity(c)
	if err != nil {
		return err
	}
	messageID, err := parseID(c, "messageId")
	if err != nil {
		return err
	}
	req := middleware.Body[dto.ReportMessageRequest](c)
	if err := h.chatService.Report(c.UserContext(), userID, activityID, messageID, req.Reason); err != nil {
		return err
	}
	return ok(c)
}
