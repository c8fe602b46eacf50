package dto

import "time"

// UserView is the full profile projection.
type UserView struct {
	ID                uint            `json:"id"`
	Email             string          `json:"email"`
	Pseudo            string          `json:"pseudo"`
	FirstName         *string         `json:"first_name"`
	LastName          *string         `json:"last_name"`
	City              *string         `json:"city"`
	Bio               *string         `json:"bio"`
	AvatarURL         *string         `json:"avatar_url"`
	ProfileVisibility string          `json:"profile_visibility"`
	AccountStatus     string          `json:"account_status"`
	Sports            []UserSportView `json:"sports,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// MinimalProfile is what viewers without access to the full profile get.
type MinimalProfile struct {
	ID                uint   `json:"id"`
	Pseudo            string `json:"pseudo"`
	ProfileVisibility string `json:"profile_visibility"`
}

type UserSummary struct {
	ID        uint    `json:"id"`
	Pseudo    string  `json:"pseudo"`
	AvatarURL *string `json:"avatar_url"`
	City      *string `json:"city"`
}

type UpdateProfileRequest struct {
	FirstName Nullable[string] `json:"first_name" validate:"omitnil,max=100"`
	LastName  Nullable[string] `json:"last_name" validate:"omitnil,max=100"`
	City      Nullable[string] `json:"city" validate:"omitnil,max=100"`
	Bio       Nullable[string] `json:"bio" validate:"omitnil,max=1000"`
	AvatarURL Nullable[string] `json:"avatar_url" validate:"omitnil,url,max=255"`
}

type VisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=public groups private"`
}

type UserSportInput struct {
	SportID uint   `json:"sport_id" validate:"required,gt=0"`
	Level   string `json:"level" validate:"required,oneof=debutant intermediaire expert"`
}

type UserSportsRequest struct {
	Sports []UserSportInput `json:"sports" validate:"max=20,dive"`
}

type UserSportView struct {
	SportID   uint   `json:"sport_id"`
	SportName string `json:"sport_name"`
	Level     string `json:"level"`
}
