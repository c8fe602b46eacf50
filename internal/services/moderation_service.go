package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultReportLimit = 50
	MaxReportLimit     = 200
)

type ModerationService struct {
	db *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{db: db}
}

func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.ContentReport, int64, error) {
	if limit <= 0 || limit > MaxReportLimit {
		limit = DefaultReportLimit
	}
	if offset < 0 {
		offset = 0
	}

	reports := make([]models.ContentReport, 0)
	var total int64

	query := s.db.WithContext(ctx).Model(&models.ContentReport{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// ActionReport closes a report. A reported message stays hidden while any
// report on it is open or actioned.
func (s *ModerationService) ActionReport(ctx context.Context, reportID uint, req *dto.ActionReportRequest) (*models.ContentReport, error) {
	var report models.ContentReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&report, reportID).Error; err != nil {
			return notFound(err, apperr.ErrReportNotFound)
		}

		report.Status = req.Status
		report.AdminNote = req.AdminNote
		report.UpdatedAt = now()
		if err := tx.Model(&models.ContentReport{}).Where("id = ?", report.ID).Updates(map[string]interface{}{
			"status":     report.Status,
			"admin_note": report.AdminNote,
			"updated_at": report.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		if report.TargetType != models.ReportTargetMessage {
			return nil
		}
		return syncMessageApproval(tx, report.TargetID)
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func syncMessageApproval(tx *gorm.DB, messageID uint) error {
	var pending int64
	if err := tx.Model(&models.ContentReport{}).
		Where("target_type = ? AND target_id = ? AND status IN ?",
			models.ReportTargetMessage, messageID, []string{models.ReportOpen, models.ReportActioned}).
		Count(&pending).Error; err != nil {
		return err
	}
	return tx.Model(&models.Message{}).Where("id = ?", messageID).Update("is_approved", pending == 0).Error
}
