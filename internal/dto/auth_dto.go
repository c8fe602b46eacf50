package dto

import "time"

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=4,max=255" trim:"false"`
	Pseudo   string `json:"pseudo" validate:"required,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4" trim:"false"`
}

type AuthResponse struct {
	User  UserView `json:"user"`
	Token string   `json:"token"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestResetResponse only carries the token outside production.
type RequestResetResponse struct {
	OK        bool       `json:"ok"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,len=64,hexadecimal"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=255" trim:"false"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,min=6" trim:"false"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=255" trim:"false"`
}
