package handlers

import (
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	resp, err := h.authService.Signup(c.UserContext(), middleware.Body[dto.SignupRequest](c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	resp, err := h.authService.Login(c.UserContext(), middleware.Body[dto.LoginRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) RequestReset(c *fiber.Ctx) error {
	resp, err := h.authService.RequestPasswordReset(c.UserContext(), middleware.Body[dto.RequestResetRequest](c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	if err := h.authService.ResetPassword(c.UserContext(), middleware.Body[dto.ResetPasswordRequest](c)); err != nil {
		return err
	}
	return ok(c)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.UserContext(), userID, middleware.Body[dto.ChangePasswordRequest](c)); err != nil {
		return err
	}
	return ok(c)
}

func (h *AuthHandler) Google(c *fiber.Ctx) error {
	return apperr.ErrNotImplemented.WithMessage("Google login not implemented yet")
}
