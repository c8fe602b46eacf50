package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
)

const userSearchLimit = 20

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func userView(u *models.User) dto.UserView {
	return dto.UserView{
		ID:                u.ID,
		Email:             u.Email,
		Pseudo:            u.Pseudo,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		City:              u.City,
		Bio:               u.Bio,
		AvatarURL:         u.AvatarURL,
		ProfileVisibility: u.ProfileVisibility,
		AccountStatus:     u.AccountStatus,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func minimalProfile(u *models.User) dto.MinimalProfile {
	return dto.MinimalProfile{
		ID:                u.ID,
		Pseudo:            u.Pseudo,
		ProfileVisibility: u.ProfileVisibility,
	}
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, apperr.ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserService) sports(ctx context.Context, userID uint) ([]dto.UserSportView, error) {
	out := make([]dto.UserSportView, 0)
	err := s.db.WithContext(ctx).
		Table("user_sports AS us").
		Select("us.sport_id, sports.name AS sport_name, us.level").
		Joins("JOIN sports ON sports.id = us.sport_id").
		Where("us.user_id = ?", userID).
		Order("sports.name ASC").
		Scan(&out).Error
	return out, err
}

// GetMe returns the caller's full profile with their sports.
func (s *UserService) GetMe(ctx context.Context, userID uint) (*dto.UserView, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	v := userView(user)
	if v.Sports, err = s.sports(ctx, userID); err != nil {
		return nil, err
	}
	return &v, nil
}

// canViewFullProfile applies the profile visibility rules. sharesGroup is
// only consulted for the "groups" setting.
func canViewFullProfile(viewerID *uint, target *models.User, sharesGroup bool) bool {
	if viewerID != nil && *viewerID == target.ID {
		return true
	}
	switch target.ProfileVisibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityGroups:
		return viewerID != nil && sharesGroup
	default:
		return false
	}
}

func (s *UserService) sharesActiveGroup(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Table("group_members AS gm1").
		Joins("JOIN group_members gm2 ON gm1.group_id = gm2.group_id").
		Where("gm1.user_id = ? AND gm2.user_id = ? AND gm1.status = ? AND gm2.status = ?",
			a, b, models.MemberActive, models.MemberActive).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// GetPublicProfile returns a dto.UserView or a dto.MinimalProfile depending on
// what viewerID (nil for anonymous) may see of targetID.
func (s *UserService) GetPublicProfile(ctx context.Context, viewerID *uint, targetID uint) (any, error) {
	target, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}

	shares := false
	if target.ProfileVisibility == models.VisibilityGroups && viewerID != nil && *viewerID != targetID {
		if shares, err = s.sharesActiveGroup(ctx, *viewerID, targetID); err != nil {
			return nil, err
		}
	}
	if canViewFullProfile(viewerID, target, shares) {
		return userView(target), nil
	}
	return minimalProfile(target), nil
}

// UpdateProfile writes only the fields present in req; an explicit null
// clears the column.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest) (*dto.UserView, error) {
	updates := map[string]interface{}{}
	set := func(column string, v dto.Nullable[string]) {
		if v.Set {
			updates[column] = v.Ptr()
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("city", req.City)
	set("avatar_url", req.AvatarURL)
	if req.Bio.Set {
		if p := req.Bio.Ptr(); p != nil {
			bio := sanitizeText(*p)
			updates["bio"] = &bio
		} else {
			updates["bio"] = nil
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = now()
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetMe(ctx, userID)
}

func (s *UserService) SetVisibility(ctx context.Context, userID uint, visibility string) (*dto.UserView, error) {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"profile_visibility": visibility,
		"updated_at":         now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return s.GetMe(ctx, userID)
}

// SetSports replaces the caller's sports in one transaction.
func (s *UserService) SetSports(ctx context.Context, userID uint, sports []dto.UserSportInput) (*dto.UserView, error) {
	rows := make([]models.UserSport, 0, len(sports))
	seen := make(map[uint]bool, len(sports))
	for _, in := range sports {
		if seen[in.SportID] {
			return nil, apperr.ErrValidation.WithMessage("Duplicate sport_id")
		}
		seen[in.SportID] = true
		rows = append(rows, models.UserSport{UserID: userID, SportID: in.SportID, Level: in.Level})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			var known int64
			if err := tx.Model(&models.Sport{}).Where("id IN ?", keys(seen)).Count(&known).Error; err != nil {
				return err
			}
			if int(known) != len(rows) {
				return apperr.ErrSportNotFound
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserSport{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetMe(ctx, userID)
}

func keys(m map[uint]bool) []uint {
	out := make([]uint, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// DeleteAccount soft-deletes the caller. The row stays so memberships,
// messages and ratings keep their author.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	t := now()
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"account_status": models.AccountDeleted,
		"deleted_at":     t,
		"updated_at":     t,
	}).Error
}

// Search matches pseudo substrings case-insensitively.
func (s *UserService) Search(ctx context.Context, query string) ([]dto.UserSummary, error) {
	out := make([]dto.UserSummary, 0)
	query = strings.TrimSpace(query)
	if query == "" {
		return out, nil
	}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, pseudo, avatar_url, city").
		Where("LOWER(pseudo) LIKE ? AND account_status = ?", "%"+escapeLike(strings.ToLower(query))+"%", models.AccountActive).
		Order("pseudo ASC").
		Limit(userSearchLimit).
		Scan(&out).Error
	return out, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
