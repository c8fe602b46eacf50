package models

import "time"

const (
	GroupPublic  = "public"
	GroupPrivate = "private"

	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"

	MemberActive = "active"
	MemberLeft   = "left"
)

type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	City        string    `gorm:"size:100;not null;index" json:"city"`
	SportID     uint      `gorm:"not null;index" json:"sport_id"`
	Level       string    `gorm:"size:20;not null" json:"level"`
	Visibility  string    `gorm:"size:10;not null;default:'public'" json:"visibility"`
	MaxMembers  *int      `json:"max_members"`
	CreatedBy   uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// groups is a reserved word in MySQL 8.
func (Group) TableName() string {
	return "sport_groups"
}

type GroupMember struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	GroupID  uint       `gorm:"not null;uniqueIndex:idx_group_members_pair" json:"group_id"`
	UserID   uint       `gorm:"not null;uniqueIndex:idx_group_members_pair;index" json:"user_id"`
	Role     string     `gorm:"size:10;not null;default:'member'" json:"role"`
	Status   string     `gorm:"size:10;not null;default:'active'" json:"status"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`
}
