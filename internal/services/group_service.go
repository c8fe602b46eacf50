package services

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const groupSearchLimit = 200

type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

type groupRow struct {
	models.Group `gorm:"embedded"`
	SportName    string
	MembersCount int64
	Role         string
}

func (r groupRow) view() dto.GroupView {
	g := r.Group
	return dto.GroupView{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		City:         g.City,
		SportID:      g.SportID,
		SportName:    r.SportName,
		Level:        g.Level,
		Visibility:   g.Visibility,
		MaxMembers:   g.MaxMembers,
		CreatedBy:    g.CreatedBy,
		MembersCount: r.MembersCount,
		Role:         r.Role,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

const groupColumns = `sport_groups.*, sports.name AS sport_name,
	(SELECT COUNT(*) FROM group_members gm WHERE gm.group_id = sport_groups.id AND gm.status = ?) AS members_count`

func (s *GroupService) groupQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("sport_groups").
		Select(groupColumns, models.MemberActive).
		Joins("JOIN sports ON sports.id = sport_groups.sport_id")
}

func groupViews(rows []groupRow) []dto.GroupView {
	out := make([]dto.GroupView, len(rows))
	for i, r := range rows {
		out[i] = r.view()
	}
	return out
}

func (s *GroupService) Get(ctx context.Context, id uint) (*dto.GroupView, error) {
	var row groupRow
	res := s.groupQuery(ctx).Where("sport_groups.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.ErrGroupNotFound
	}
	v := row.view()
	return &v, nil
}

// Create inserts the group and makes userID its owner.
func (s *GroupService) Create(ctx context.Context, userID uint, req *dto.CreateGroupRequest) (*dto.GroupView, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.GroupPublic
	}

	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Sport{}, req.SportID).Error; err != nil {
			return notFound(err, apperr.ErrSportNotFound)
		}
		group := models.Group{
			Name:        req.Name,
			Description: req.Description.Validatable().(*string),
			City:        req.City,
			SportID:     req.SportID,
			Level:       req.Level,
			Visibility:  visibility,
			MaxMembers:  req.MaxMembers.Validatable().(*int),
			CreatedBy:   userID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		id = group.ID
		return tx.Create(&models.GroupMember{
			GroupID:  group.ID,
			UserID:   userID,
			Role:     models.MemberRoleOwner,
			Status:   models.MemberActive,
			JoinedAt: now(),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *GroupService) Search(ctx context.Context, f dto.GroupSearchFilter) ([]dto.GroupView, error) {
	q := s.groupQuery(ctx)
	if f.SportID != nil {
		q = q.Where("sport_groups.sport_id = ?", *f.SportID)
	}
	if f.Level != "" {
		q = q.Where("sport_groups.level = ?", f.Level)
	}
	if f.City != "" {
		q = q.Where("LOWER(sport_groups.city) = LOWER(?)", f.City)
	}
	var rows []groupRow
	if err := q.Order("sport_groups.created_at DESC").Limit(groupSearchLimit).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return groupViews(rows), nil
}

// ListMine returns the groups userID is an active member of, with their role.
func (s *GroupService) ListMine(ctx context.Context, userID uint) ([]dto.GroupView, error) {
	var rows []groupRow
	err := s.db.WithContext(ctx).
		Table("sport_groups").
		Select(groupColumns+", me.role AS role", models.MemberActive).
		Joins("JOIN sports ON sports.id = sport_groups.sport_id").
		Joins("JOIN group_members me ON me.group_id = sport_groups.id").
		Where("me.user_id = ? AND me.status = ?", userID, models.MemberActive).
		Order("sport_groups.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupViews(rows), nil
}

func ownedGroup(tx *gorm.DB, userID, groupID uint) (*models.Group, error) {
	var group models.Group
	if err := forUpdate(tx).First(&group, groupID).Error; err != nil {
		return nil, notFound(err, apperr.ErrGroupNotFound)
	}
	if group.CreatedBy != userID {
		return nil, apperr.ErrForbidden
	}
	return &group, nil
}

func (s *GroupService) Update(ctx context.Context, userID, groupID uint, req *dto.UpdateGroupRequest) (*dto.GroupView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ownedGroup(tx, userID, groupID); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.SportID != nil {
			if err := tx.Select("id").First(&models.Sport{}, *req.SportID).Error; err != nil {
				return notFound(err, apperr.ErrSportNotFound)
			}
			updates["sport_id"] = *req.SportID
		}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description.Set {
			updates["description"] = req.Description.Ptr()
		}
		if req.City != nil {
			updates["city"] = *req.City
		}
		if req.Level != nil {
			updates["level"] = *req.Level
		}
		if req.Visibility != nil {
			updates["visibility"] = *req.Visibility
		}
		if req.MaxMembers.Set {
			updates["max_members"] = req.MaxMembers.Ptr()
		}
		if len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = now()
		return tx.Model(&models.Group{}).Where("id = ?", groupID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, groupID)
}

// Delete removes the group, its memberships and its activities.
// Deleting a group that does not exist succeeds.
func (s *GroupService) Delete(ctx context.Context, userID, groupID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ownedGroup(tx, userID, groupID)
		if errors.Is(err, apperr.ErrGroupNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var activityIDs []uint
		if err := tx.Model(&models.Activity{}).Where("group_id = ?", groupID).Pluck("id", &activityIDs).Error; err != nil {
			return err
		}
		if len(activityIDs) > 0 {
			if err := deleteActivityChildren(tx, activityIDs); err != nil {
				return err
			}
			if err := tx.Where("id IN ?", activityIDs).Delete(&models.Activity{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, groupID).Error
	})
}

// Join adds userID as a member while holding a lock on the group row, so
// the active member count cannot exceed max_members. Re-joining keeps the
// existing role.
func (s *GroupService) Join(ctx context.Context, userID, groupID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := forUpdate(tx).Select("id", "max_members").First(&group, groupID).Error; err != nil {
			return notFound(err, apperr.ErrGroupNotFound)
		}
		if group.MaxMembers != nil {
			var count int64
			if err := tx.Model(&models.GroupMember{}).
				Where("group_id = ? AND status = ?", groupID, models.MemberActive).
				Count(&count).Error; err != nil {
				return err
			}
			if !hasCapacity(group.MaxMembers, count) {
				return apperr.ErrGroupFull
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":  models.MemberActive,
				"left_at": nil,
			}),
		}).Create(&models.GroupMember{
			GroupID:  groupID,
			UserID:   userID,
			Role:     models.MemberRoleMember,
			Status:   models.MemberActive,
			JoinedAt: now(),
		}).Error
	})
	metrics.GroupJoinsTotal.WithLabelValues(outcome(err)).Inc()
	return err
}

func (s *GroupService) Leave(ctx context.Context, userID, groupID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.MemberActive).
		Updates(map[string]interface{}{
			"status":  models.MemberLeft,
			"left_at": now(),
		}).Error
}

// Members lists active members, owners first.
func (s *GroupService) Members(ctx context.Context, groupID uint) ([]dto.MemberView, error) {
	members := make([]dto.MemberView, 0)
	err := s.db.WithContext(ctx).
		Table("group_members AS gm").
		Select("gm.user_id, u.pseudo, u.avatar_url, gm.role, gm.joined_at").
		Joins("JOIN users u ON u.id = gm.user_id").
		Where("gm.group_id = ? AND gm.status = ?", groupID, models.MemberActive).
		Order("gm.role DESC, u.pseudo ASC").
		Scan(&members).Error
	return members, err
}
