package models

import "time"

const (
	ReportTargetMessage = "message"

	ReportOpen      = "open"
	ReportActioned  = "actioned"
	ReportDismissed = "dismissed"
)

// ContentReport is a user's flag on a piece of content; one per reporter and target.
type ContentReport struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:idx_content_reports_unique" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_content_reports_unique" json:"target_id"`
	ReporterID uint      `gorm:"not null;uniqueIndex:idx_content_reports_unique" json:"reporter_id"`
	Reason     string    `gorm:"size:255;not null" json:"reason"`
	Status     string    `gorm:"size:20;not null;default:'open';index" json:"status"`
	AdminNote  *string   `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
