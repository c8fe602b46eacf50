package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const groupActivitiesLimit = 100

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

type activityRow struct {
	models.Activity `gorm:"embedded"`
	SportName       string
	GroupName       string
	RegisteredCount int64
}

func (r activityRow) view() dto.ActivityView {
	a := r.Activity
	return dto.ActivityView{
		ID:              a.ID,
		GroupID:         a.GroupID,
		GroupName:       r.GroupName,
		SportID:         a.SportID,
		SportName:       r.SportName,
		Title:           a.Title,
		Description:     a.Description,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		Location:        a.Location,
		Level:           a.Level,
		MaxParticipants: a.MaxParticipants,
		Status:          a.Status,
		CreatedBy:       a.CreatedBy,
		RegisteredCount: r.RegisteredCount,
		RemainingSpots:  remaining(a.MaxParticipants, r.RegisteredCount),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (s *ActivityService) activityQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("activities").
		Select(`activities.*, sports.name AS sport_name, sport_groups.name AS group_name,
			(SELECT COUNT(*) FROM activity_participants ap WHERE ap.activity_id = activities.id AND ap.status = ?) AS registered_count`,
			models.ParticipantRegistered).
		Joins("JOIN sports ON sports.id = activities.sport_id").
		Joins("JOIN sport_groups ON sport_groups.id = activities.group_id")
}

func (s *ActivityService) Get(ctx context.Context, id uint) (*dto.ActivityView, error) {
	var row activityRow
	res := s.activityQuery(ctx).Where("activities.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrActivityNotFound
	}
	v := row.view()
	return &v, nil
}

func (s *ActivityService) ListByGroup(ctx context.Context, groupID uint) ([]dto.ActivityView, error) {
	var rows []activityRow
	if err := s.activityQuery(ctx).
		Where("activities.group_id = ?", groupID).
		Order("activities.start_at DESC").
		Limit(groupActivitiesLimit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]dto.ActivityView, len(rows))
	for i, r := range rows {
		views[i] = r.view()
	}
	return views, nil
}

// Create inserts a published activity and registers the organizer in it.
func (s *ActivityService) Create(ctx context.Context, userID uint, req *dto.CreateActivityRequest) (*dto.ActivityView, error) {
	startAt, err := ParseDatetime(req.StartAt)
	if err != nil {
		return nil, err
	}
	var endAt *time.Time
	if p := req.EndAt.Validatable().(*string); p != nil && *p != "" {
		t, err := ParseDatetime(*p)
		if err != nil {
			return nil, err
		}
		endAt = &t
	}
	if endAt != nil && endAt.Before(startAt) {
		return nil, apperr.ErrInvalidDatetime.WithMessage("end_at must not be before start_at")
	}

	var id uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Group{}, req.GroupID).Error; err != nil {
			return notFound(err, apperr.ErrGroupNotFound)
		}
		if err := tx.Select("id").First(&models.Sport{}, req.SportID).Error; err != nil {
			return notFound(err, apperr.ErrSportNotFound)
		}

		ts := now()
		activity := models.Activity{
			GroupID:         req.GroupID,
			SportID:         req.SportID,
			Title:           req.Title,
			Description:     req.Description.Validatable().(*string),
			StartAt:         startAt,
			EndAt:           endAt,
			Location:        req.Location,
			Level:           req.Level,
			MaxParticipants: req.MaxParticipants.Validatable().(*int),
			Status:          models.ActivityPublished,
			CreatedBy:       userID,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}
		id = activity.ID

		return tx.Create(&models.ActivityParticipant{
			ActivityID:   activity.ID,
			UserID:       userID,
			Status:       models.ParticipantRegistered,
			RegisteredAt: ts,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ownedActivity locks the activity row and checks the caller organizes it.
func ownedActivity(tx *gorm.DB, userID, activityID uint) (*models.Activity, error) {
	var activity models.Activity
	if err := forUpdate(tx).First(&activity, activityID).Error; err != nil {
		return nil, notFound(err, apperr.ErrActivityNotFound)
	}
	if activity.CreatedBy != userID {
		return nil, apperr.ErrForbidden
	}
	return &activity, nil
}

// Update applies the allow-listed fields of req.
func (s *ActivityService) Update(ctx context.Context, userID, activityID uint, req *dto.UpdateActivityRequest) (*dto.ActivityView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := ownedActivity(tx, userID, activityID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.SportID != nil {
			if err := tx.Select("id").First(&models.Sport{}, *req.SportID).Error; err != nil {
				return notFound(err, apperr.ErrSportNotFound)
			}
			updates["sport_id"] = *req.SportID
		}
		if req.Title != nil {
			updates["title"] = *req.Title
		}
		if req.Description.Set {
			updates["description"] = req.Description.Ptr()
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.Level != nil {
			updates["level"] = *req.Level
		}
		if req.MaxParticipants.Set {
			updates["max_participants"] = req.MaxParticipants.Ptr()
		}

		startAt := activity.StartAt
		if req.StartAt != nil {
			if startAt, err = ParseDatetime(*req.StartAt); err != nil {
				return err
			}
			updates["start_at"] = startAt
		}
		endAt := activity.EndAt
		if req.EndAt.Set {
			endAt = nil
			if p := req.EndAt.Ptr(); p != nil && strings.TrimSpace(*p) != "" {
				t, err := ParseDatetime(*p)
				if err != nil {
					return err
				}
				endAt = &t
			}
			updates["end_at"] = endAt
		}
		if endAt != nil && endAt.Before(startAt) {
			return apperr.ErrInvalidDatetime.WithMessage("end_at must not be before start_at")
		}

		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = now()
		return tx.Model(&models.Activity{}).Where("id = ?", activityID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, activityID)
}

func (s *ActivityService) Cancel(ctx context.Context, userID, activityID uint) (*dto.ActivityView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := ownedActivity(tx, userID, activityID)
		if err != nil {
			return err
		}
		if activity.Status == models.ActivityCancelled {
			return nil
		}
		ts := now()
		return tx.Model(&models.Activity{}).Where("id = ?", activityID).Updates(map[string]interface{}{
			"status":       models.ActivityCancelled,
			"cancelled_at": ts,
			"updated_at":   ts,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, activityID)
}

// Delete removes the activity with its participants, ratings and chat.
// Deleting an activity that does not exist succeeds.
func (s *ActivityService) Delete(ctx context.Context, userID, activityID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ownedActivity(tx, userID, activityID)
		if errors.Is(err, apperr.ErrActivityNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := deleteActivityChildren(tx, []uint{activityID}); err != nil {
			return err
		}
		return tx.Delete(&models.Activity{}, activityID).Error
	})
}

func deleteActivityChildren(tx *gorm.DB, activityIDs []uint) error {
	var conversationIDs []uint
	if err := tx.Model(&models.Conversation{}).Where("activity_id IN ?", activityIDs).Pluck("id", &conversationIDs).Error; err != nil {
		return err
	}
	if len(conversationIDs) > 0 {
		messageIDs := tx.Model(&models.Message{}).Select("id").Where("conversation_id IN ?", conversationIDs)
		if err := tx.Where("target_type = ? AND target_id IN (?)", models.ReportTargetMessage, messageIDs).Delete(&models.ContentReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id IN ?", conversationIDs).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id IN ?", conversationIDs).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", conversationIDs).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("activity_id IN ?", activityIDs).Delete(&models.ActivityRating{}).Error; err != nil {
		return err
	}
	return tx.Where("activity_id IN ?", activityIDs).Delete(&models.ActivityParticipant{}).Error
}

// Enroll registers userID, holding a lock on the activity row so the
// registered count cannot exceed max_participants under concurrency.
func (s *ActivityService) Enroll(ctx context.Context, userID, activityID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity models.Activity
		if err := forUpdate(tx).Select("id", "status", "max_participants").First(&activity, activityID).Error; err != nil {
			return notFound(err, apperr.ErrActivityNotFound)
		}
		if activity.Status != models.ActivityPublished {
			return apperr.ErrNotOpen
		}
		if activity.MaxParticipants != nil {
			count, err := countRegistered(tx, activityID)
			if err != nil {
				return err
			}
			if !hasCapacity(activity.MaxParticipants, count) {
				return apperr.ErrActivityFull
			}
		}

		ts := now()
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "activity_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":        models.ParticipantRegistered,
				"registered_at": ts,
				"cancelled_at":  nil,
			}),
		}).Create(&models.ActivityParticipant{
			ActivityID:   activityID,
			UserID:       userID,
			Status:       models.ParticipantRegistered,
			RegisteredAt: ts,
		}).Error
	})
	metrics.EnrollmentsTotal.WithLabelValues(outcome(err)).Inc()
	return err
}

// Unenroll cancels a current registration; it is a no-op otherwise.
func (s *ActivityService) Unenroll(ctx context.Context, userID, activityID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.ActivityParticipant{}).
		Where("activity_id = ? AND user_id = ? AND status = ?", activityID, userID, models.ParticipantRegistered).
		Updates(map[string]interface{}{
			"status":       models.ParticipantCancelled,
			"cancelled_at": now(),
		}).Error
}

func countRegistered(tx *gorm.DB, activityID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.ActivityParticipant{}).
		Where("activity_id = ? AND status = ?", activityID, models.ParticipantRegistered).
		Count(&count).Error
	return count, err
}

func (s *ActivityService) Participants(ctx context.Context, activityID uint) ([]dto.ParticipantView, error) {
	participants := make([]dto.ParticipantView, 0)
	err := s.db.WithContext(ctx).
		Table("activity_participants AS ap").
		Select("ap.user_id, u.pseudo, u.avatar_url, ap.registered_at").
		Joins("JOIN users u ON u.id = ap.user_id").
		Where("ap.activity_id = ? AND ap.status = ?", activityID, models.ParticipantRegistered).
		Order("u.pseudo ASC").
		Scan(&participants).Error
	return participants, err
}

// RemainingSpots is nil for unlimited or unknown activities.
func (s *ActivityService) RemainingSpots(ctx context.Context, activityID uint) (*int, error) {
	db := s.db.WithContext(ctx)
	var activity models.Activity
	err := db.Select("id", "max_participants").First(&activity, activityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if activity.MaxParticipants == nil {
		return nil, nil
	}
	count, err := countRegistered(db, activityID)
	if err != nil {
		return nil, err
	}
	return remaining(activity.MaxParticipants, count), nil
}

// RateOrganizer records or replaces userID's score of the activity organizer.
func (s *ActivityService) RateOrganizer(ctx context.Context, userID, activityID uint, req *dto.RateRequest) error {
	db := s.db.WithContext(ctx)
	var activity models.Activity
	if err := db.Select("id", "created_by").First(&activity, activityID).Error; err != nil {
		return notFound(err, apperr.ErrActivityNotFound)
	}

	ts := now()
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "activity_id"}, {Name: "rater_user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      req.Score,
			"comment":    req.Comment,
			"updated_at": ts,
		}),
	}).Create(&models.ActivityRating{
		ActivityID:  activityID,
		RaterUserID: userID,
		RatedUserID: activity.CreatedBy,
		Score:       req.Score,
		Comment:     req.Comment,
	}).Error
}

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDatetime accepts RFC 3339 and the zone-less forms sent by HTML
// datetime inputs, which are read as UTC.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.ErrInvalidDatetime.WithDetails(map[string]string{"value": s})
}
