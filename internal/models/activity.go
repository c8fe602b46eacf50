package models

import "time"

const (
	ActivityPublished = "published"
	ActivityCancelled = "cancelled"

	ParticipantRegistered = "registered"
	ParticipantCancelled  = "cancelled"
)

type Activity struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	GroupID         uint       `gorm:"not null;index" json:"group_id"`
	SportID         uint       `gorm:"not null" json:"sport_id"`
	Title           string     `gorm:"size:150;not null" json:"title"`
	Description     *string    `gorm:"type:text" json:"description"`
	StartAt         time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	Location        string     `gorm:"size:255;not null" json:"location"`
	Level           string     `gorm:"size:20;not null" json:"level"`
	MaxParticipants *int       `json:"max_participants"`
	Status          string     `gorm:"size:15;not null;default:'published'" json:"status"`
	CreatedBy       uint       `gorm:"not null;index" json:"created_by"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ActivityParticipant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ActivityID   uint       `gorm:"not null;uniqueIndex:idx_activity_participants_pair" json:"activity_id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_activity_participants_pair;index" json:"user_id"`
	Status       string     `gorm:"size:15;not null;default:'registered'" json:"status"`
	RegisteredAt time.Time  `json:"registered_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
}

// ActivityRating is a participant's score of the organizer, one per rater.
type ActivityRating struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ActivityID  uint      `gorm:"not null;uniqueIndex:idx_activity_ratings_rater" json:"activity_id"`
	RaterUserID uint      `gorm:"not null;uniqueIndex:idx_activity_ratings_rater" json:"rater_user_id"`
	RatedUserID uint      `gorm:"not null;index" json:"rated_user_id"`
	Score       int       `gorm:"not null" json:"score"`
	Comment     *string   `gorm:"size:1000" json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
