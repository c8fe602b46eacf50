package models

import "time"

const ConversationActivity = "activity"

type Conversation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Type       string    `gorm:"size:20;not null" json:"type"`
	ActivityID *uint     `gorm:"uniqueIndex:idx_conversations_activity" json:"activity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type ConversationParticipant struct {
	ConversationID uint      `gorm:"primaryKey;autoIncrement:false" json:"conversation_id"`
	UserID         uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Message rows are hidden through IsDeleted/IsApproved, never removed by moderation.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index:idx_messages_conversation" json:"conversation_id"`
	SenderID       uint      `gorm:"not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsDeleted      bool      `gorm:"not null;default:false" json:"-"`
	IsApproved     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
