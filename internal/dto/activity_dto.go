package dto

import "time"

type CreateActivityRequest struct {
	GroupID         uint             `json:"group_id" validate:"required,gt=0"`
	SportID         uint             `json:"sport_id" validate:"required,gt=0"`
	Title           string           `json:"title" validate:"required,min=3,max=150"`
	Description     Nullable[string] `json:"description" validate:"omitnil,max=5000"`
	StartAt         string           `json:"start_at" validate:"required"`
	EndAt           Nullable[string] `json:"end_at"`
	Location        string           `json:"location" validate:"required,min=2,max=255"`
	Level           string           `json:"level" validate:"required,oneof=debutant intermediaire expert"`
	MaxParticipants Nullable[int]    `json:"max_participants" validate:"omitnil,gt=0"`
}

// UpdateActivityRequest is the allow-list of fields an organizer may change.
type UpdateActivityRequest struct {
	SportID         *uint            `json:"sport_id" validate:"omitnil,gt=0"`
	Title           *string          `json:"title" validate:"omitnil,min=3,max=150"`
	Description     Nullable[string] `json:"description" validate:"omitnil,max=5000"`
	StartAt         *string          `json:"start_at"`
	EndAt           Nullable[string] `json:"end_at"`
	Location        *string          `json:"location" validate:"omitnil,min=2,max=255"`
	Level           *string          `json:"level" validate:"omitnil,oneof=debutant intermediaire expert"`
	MaxParticipants Nullable[int]    `json:"max_participants" validate:"omitnil,gt=0"`
}

type RateRequest struct {
	Score   int     `json:"score" validate:"required,min=1,max=5"`
	Comment *string `json:"comment" validate:"omitnil,max=1000"`
}

type ActivityView struct {
	ID              uint       `json:"id"`
	GroupID         uint       `json:"group_id"`
	GroupName       string     `json:"group_name"`
	SportID         uint       `json:"sport_id"`
	SportName       string     `json:"sport_name"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at"`
	Location        string     `json:"location"`
	Level           string     `json:"level"`
	MaxParticipants *int       `json:"max_participants"`
	Status          string     `json:"status"`
	CreatedBy       uint       `json:"created_by"`
	RegisteredCount int64      `json:"registered_count"`
	RemainingSpots  *int       `json:"remaining_spots"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ParticipantView struct {
	UserID       uint      `json:"id"`
	Pseudo       string    `json:"pseudo"`
	AvatarURL    *string   `json:"avatar_url"`
	RegisteredAt time.Time `json:"registered_at"`
}

type RemainingResponse struct {
	Remaining *int `json:"remaining"`
}
