package dto

import "time"

type CreateGroupRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=150"`
	Description Nullable[string] `json:"description" validate:"omitnil,max=2000"`
	City        string           `json:"city" validate:"required,min=2,max=100"`
	SportID     uint             `json:"sport_id" validate:"required,gt=0"`
	Level       string           `json:"level" validate:"required,oneof=debutant intermediaire expert"`
	Visibility  string           `json:"visibility" validate:"omitempty,oneof=public private"`
	MaxMembers  Nullable[int]    `json:"max_members" validate:"omitnil,gt=0"`
}

// UpdateGroupRequest is the partial form of CreateGroupRequest.
type UpdateGroupRequest struct {
	Name        *string          `json:"name" validate:"omitnil,min=3,max=150"`
	Description Nullable[string] `json:"description" validate:"omitnil,max=2000"`
	City        *string          `json:"city" validate:"omitnil,min=2,max=100"`
	SportID     *uint            `json:"sport_id" validate:"omitnil,gt=0"`
	Level       *string          `json:"level" validate:"omitnil,oneof=debutant intermediaire expert"`
	Visibility  *string          `json:"visibility" validate:"omitnil,oneof=public private"`
	MaxMembers  Nullable[int]    `json:"max_members" validate:"omitnil,gt=0"`
}

type GroupSearchFilter struct {
	SportID *uint
	Level   string
	City    string
}

type GroupView struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	City         string    `json:"city"`
	SportID      uint      `json:"sport_id"`
	SportName    string    `json:"sport_name"`
	Level        string    `json:"level"`
	Visibility   string    `json:"visibility"`
	MaxMembers   *int      `json:"max_members"`
	CreatedBy    uint      `json:"created_by"`
	MembersCount int64     `json:"members_count"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MemberView struct {
	UserID    uint      `json:"id"`
	Pseudo    string    `json:"pseudo"`
	AvatarURL *string   `json:"avatar_url"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}
