package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultMessageLimit = 30
	MaxMessageLimit     = 100
)

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// ClampLimit bounds a page size to [1, MaxMessageLimit]; 0 selects the default.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultMessageLimit
	}
	return max(1, min(limit, MaxMessageLimit))
}

// ensureParticipant requires a registered participation in the activity.
func ensureParticipant(db *gorm.DB, userID, activityID uint) error {
	var activities int64
	if err := db.Model(&models.Activity{}).Where("id = ?", activityID).Count(&activities).Error; err != nil {
		return err
	}
	if activities == 0 {
		return apperr.ErrActivityNotFound
	}

	var registered int64
	if err := db.Model(&models.ActivityParticipant{}).
		Where("activity_id = ? AND user_id = ? AND status = ?", activityID, userID, models.ParticipantRegistered).
		Count(&registered).Error; err != nil {
		return err
	}
	if registered == 0 {
		return apperr.ErrNotParticipant
	}
	return nil
}

// ensureConversation returns the activity's conversation, creating it on
// first use. Concurrent creators race on the unique activity_id index and
// the loser reloads the winner's row.
func ensureConversation(db *gorm.DB, activityID uint) (*models.Conversation, error) {
	conv := models.Conversation{Type: models.ConversationActivity, ActivityID: &activityID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&conv).Error; err != nil {
		return nil, err
	}
	var loaded models.Conversation
	if err := db.Where("activity_id = ? AND type = ?", activityID, models.ConversationActivity).First(&loaded).Error; err != nil {
		return nil, err
	}
	return &loaded, nil
}

func addConversationParticipant(db *gorm.DB, conversationID, userID uint) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.ConversationParticipant{
		ConversationID: conversationID,
		UserID:         userID,
		JoinedAt:       now(),
	}).Error
}

// join runs the participant gate and returns the conversation with the caller in it.
func (s *ChatService) join(ctx context.Context, userID, activityID uint) (*models.Conversation, error) {
	db := s.db.WithContext(ctx)
	if err := ensureParticipant(db, userID, activityID); err != nil {
		return nil, err
	}
	return s.enterConversation(db, userID, activityID)
}

// enterConversation assumes the caller already passed ensureParticipant.
func (s *ChatService) enterConversation(db *gorm.DB, userID, activityID uint) (*models.Conversation, error) {
	conv, err := ensureConversation(db, activityID)
	if err != nil {
		return nil, err
	}
	if err := addConversationParticipant(db, conv.ID, userID); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) messageQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.conversation_id, m.sender_id, m.content, m.created_at, u.pseudo, u.avatar_url").
		Joins("JOIN users u ON u.id = m.sender_id")
}

// List returns up to limit visible messages older than before (0 for the
// latest page), oldest first.
func (s *ChatService) List(ctx context.Context, userID, activityID uint, limit int, before uint) ([]dto.MessageView, error) {
	conv, err := s.join(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}

	q := s.messageQuery(ctx).
		Where("m.conversation_id = ? AND m.is_deleted = ? AND m.is_approved = ?", conv.ID, false, true)
	if before > 0 {
		q = q.Where("m.id < ?", before)
	}

	messages := make([]dto.MessageView, 0)
	if err := q.Order("m.id DESC").Limit(ClampLimit(limit)).Scan(&messages).Error; err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}

func (s *ChatService) Send(ctx context.Context, userID, activityID uint, content string) (*dto.MessageView, error) {
	db := s.db.WithContext(ctx)
	if err := ensureParticipant(db, userID, activityID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.ErrEmptyMessage
	}
	conv, err := s.enterConversation(db, userID, activityID)
	if err != nil {
		return nil, err
	}

	msg := models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        content,
		IsApproved:     true,
	}
	if err := db.Create(&msg).Error; err != nil {
		return nil, err
	}
	metrics.ChatMessagesTotal.Inc()

	var view dto.MessageView
	if err := s.messageQuery(ctx).Where("m.id = ?", msg.ID).Scan(&view).Error; err != nil {
		return nil, err
	}
	return &view, nil
}

// Report flags a message and hides it until an admin dismisses the report.
func (s *ChatService) Report(ctx context.Context, userID, activityID, messageID uint, reason string) error {
	if err := ensureParticipant(s.db.WithContext(ctx), userID, activityID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Table("messages AS m").
			Joins("JOIN conversations c ON c.id = m.conversation_id").
			Where("m.id = ? AND c.activity_id = ? AND c.type = ?", messageID, activityID, models.ConversationActivity).
			Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return apperr.ErrMessageNotFound
		}

		var existing int64
		if err := tx.Model(&models.ContentReport{}).
			Where("target_type = ? AND target_id = ? AND reporter_id = ?", models.ReportTargetMessage, messageID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperr.ErrReportExists
		}

		if err := tx.Create(&models.ContentReport{
			TargetType: models.ReportTargetMessage,
			TargetID:   messageID,
			ReporterID: userID,
			Reason:     reason,
			Status:     models.ReportOpen,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Message{}).Where("id = ?", messageID).Update("is_approved", false).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrReportExists
	}
	if err == nil {
		metrics.MessageReportsTotal.Inc()
	}
	return err
}
