package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/notify"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	notifier notify.Sender
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notifier notify.Sender) *AuthService {
	return &AuthService{db: db, cfg: cfg, notifier: notifier}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:             email,
		PasswordHash:      string(hash),
		Pseudo:            req.Pseudo,
		ProfileVisibility: models.VisibilityPublic,
		AccountStatus:     models.AccountActive,
		Role:              models.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		res := tx.Select("id", "email", "pseudo").
			Where("email = ? OR pseudo = ?", email, req.Pseudo).
			Limit(1).
			Find(&existing)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			field := "pseudo"
			if existing.Email == email {
				field = "email"
			}
			return apperr.ErrDuplicate.WithMessage(field + " already in use")
		}
		return tx.Create(&user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperr.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}

	return s.authResponse(&user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		return nil, notFound(err, apperr.ErrInvalidCredentials)
	}
	if user.AccountStatus != models.AccountActive {
		return nil, apperr.ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.authResponse(&user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: userView(user), Token: token}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWTExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func generateResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// RequestPasswordReset never reveals whether the email is registered.
// Outside production the token is echoed back so it can be used without a
// mail server.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *dto.RequestResetRequest) (*dto.RequestResetResponse, error) {
	resp := &dto.RequestResetResponse{OK: true}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? AND account_status = ?", normalizeEmail(req.Email), models.AccountActive).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}
	record := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now().Add(resetTokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	mail := notify.ResetMail{To: user.Email, Pseudo: user.Pseudo, Token: token, ExpiresAt: record.ExpiresAt}
	if err := s.notifier.SendPasswordReset(ctx, mail); err != nil {
		slog.Error("password reset delivery failed", "user_id", user.ID, "error", err)
	}

	if !s.cfg.IsProduction() {
		resp.Token = token
		resp.ExpiresAt = &record.ExpiresAt
	}
	return resp, nil
}

// ResetPassword consumes a reset token. The token row is locked so the
// same token cannot be used twice concurrently.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.PasswordResetToken
		if err := forUpdate(tx).Where("token = ?", strings.ToLower(req.Token)).First(&record).Error; err != nil {
			return notFound(err, apperr.ErrResetToken)
		}
		t := now()
		if record.UsedAt != nil || record.ExpiresAt.Before(t) {
			return apperr.ErrTokenExpired
		}
		if err := tx.Model(&models.User{}).Where("id = ?", record.UserID).Updates(map[string]interface{}{
			"password_hash": string(hash),
			"updated_at":    t,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.PasswordResetToken{}).Where("id = ?", record.ID).Update("used_at", t).Error
	})
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "password_hash").First(&user, userID).Error; err != nil {
		return notFound(err, apperr.ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"password_hash": string(hash),
		"updated_at":    now(),
	}).Error
}
