package models

import "time"

type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"not null;index"`
	Token     string     `gorm:"size:64;not null;uniqueIndex:idx_password_reset_tokens_token"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	UsedAt    *time.Time
	CreatedAt time.Time
}
