package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired must run after JWTProtected. A user is an admin when their
// role column says so or their email is listed in ADMIN_EMAILS.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		userID, err := GetUserID(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := db.WithContext(c.UserContext()).
			Select("id", "email", "role", "account_status").
			First(&user, userID).Error; err != nil {
			return apperr.ErrForbidden
		}

		if user.AccountStatus == models.AccountActive &&
			(user.Role == models.RoleAdmin || contains(adminEmails, strings.ToLower(user.Email))) {
			return c.Next()
		}
		return apperr.ErrForbidden.WithMessage("Admin access required")
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
