package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityGroups  = "groups"
	VisibilityPrivate = "private"

	AccountActive  = "active"
	AccountDeleted = "deleted"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is soft-deleted through AccountStatus; rows are never removed.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash      string     `gorm:"size:255;not null" json:"-"`
	Pseudo            string     `gorm:"size:50;not null;uniqueIndex:idx_users_pseudo" json:"pseudo"`
	FirstName         *string    `gorm:"size:100" json:"first_name"`
	LastName          *string    `gorm:"size:100" json:"last_name"`
	City              *string    `gorm:"size:100" json:"city"`
	Bio               *string    `gorm:"type:text" json:"bio"`
	AvatarURL         *string    `gorm:"size:255" json:"avatar_url"`
	ProfileVisibility string     `gorm:"size:10;not null;default:'public'" json:"profile_visibility"`
	AccountStatus     string     `gorm:"size:10;not null;default:'active';index" json:"account_status"`
	Role              string     `gorm:"size:20;not null;default:'user'" json:"-"`
	DeletedAt         *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
