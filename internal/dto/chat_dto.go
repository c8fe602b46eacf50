package dto

import "time"

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000" trim:"false"`
}

type ReportMessageRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

type MessageView struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	SenderID       uint      `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Pseudo         string    `json:"pseudo"`
	AvatarURL      *string   `json:"avatar_url"`
}
