package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Sport      *handlers.SportHandler
	User       *handlers.UserHandler
	Group      *handlers.GroupHandler
	Activity   *handlers.ActivityHandler
	Chat       *handlers.ChatHandler
	Moderation *handlers.ModerationHandler
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached:      func(c *fiber.Ctx) error { return apperr.ErrRateLimited },
	})
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(rateLimit(cfg.RateLimitPerMinute))

	api.Get("/health", h.Health.Check)
	api.Get("/sports", h.Sport.List)

	protected := middleware.JWTProtected(cfg)

	// Auth-specific rate limit (stricter)
	auth := api.Group("/auth", rateLimit(cfg.AuthRateLimitPerMinute))
	auth.Post("/signup", middleware.ValidateBody[dto.SignupRequest](), h.Auth.Signup)
	auth.Post("/login", middleware.ValidateBody[dto.LoginRequest](), h.Auth.Login)
	auth.Post("/password/request-reset", middleware.ValidateBody[dto.RequestResetRequest](), h.Auth.RequestReset)
	auth.Post("/password/reset", middleware.ValidateBody[dto.ResetPasswordRequest](), h.Auth.ResetPassword)
	auth.Post("/password/change", protected, middleware.ValidateBody[dto.ChangePasswordRequest](), h.Auth.ChangePassword)
	auth.Get("/google", h.Auth.Google)

	users := api.Group("/users")
	users.Get("/me", protected, h.User.Me)
	users.Patch("/me", protected, middleware.ValidateBody[dto.UpdateProfileRequest](), h.User.UpdateMe)
	users.Delete("/me", protected, h.User.DeleteMe)
	users.Post("/me/visibility", protected, middleware.ValidateBody[dto.VisibilityRequest](), h.User.SetVisibility)
	users.Post("/me/sports", protected, middleware.ValidateBody[dto.UserSportsRequest](), h.User.SetSports)
	users.Get("/", h.User.Search)
	users.Get("/:id", middleware.OptionalAuth(cfg), h.User.Profile)

	groups := api.Group("/groups")
	groups.Post("/", protected, middleware.ValidateBody[dto.CreateGroupRequest](), h.Group.Create)
	groups.Get("/search", h.Group.Search)
	groups.Get("/mine", protected, h.Group.Mine)
	groups.Get("/:id", h.Group.Get)
	groups.Patch("/:id", protected, middleware.ValidateBody[dto.UpdateGroupRequest](), h.Group.Update)
	groups.Delete("/:id", protected, h.Group.Delete)
	groups.Post("/:id/join", protected, h.Group.Join)
	groups.Post("/:id/leave", protected, h.Group.Leave)
	groups.Get("/:id/members", protected, h.Group.Members)

	activities := api.Group("/activities")
	activities.Post("/", protected, middleware.ValidateBody[dto.CreateActivityRequest](), h.Activity.Create)
	activities.Get("/group/:groupId", h.Activity.ListByGroup)
	activities.Get("/:id", h.Activity.Get)
	activities.Patch("/:id", protected, middleware.ValidateBody[dto.UpdateActivityRequest](), h.Activity.Update)
	activities.Delete("/:id", protected, h.Activity.Delete)
	activities.Post("/:id/cancel", protected, h.Activity.Cancel)
	activities.Post("/:id/enroll", protected, h.Activity.Enroll)
	activities.Post("/:id/unenroll", protected, h.Activity.Unenroll)
	activities.Get("/:id/participants", protected, h.Activity.Participants)
	activities.Get("/:id/remaining", h.Activity.Remaining)
	activities.Post("/:id/rate", protected, middleware.ValidateBody[dto.RateRequest](), h.Activity.Rate)

	// Activity chat (registered participants only, checked by the service)
	activities.Get("/:id/chat/messages", protected, h.Chat.List)
	activities.Post("/:id/chat/messages", protected, middleware.ValidateBody[dto.SendMessageRequest](), h.Chat.Send)
	activities.Post("/:id/chat/messages/:messageId/report", protected, middleware.ValidateBody[dto.ReportMessageRequest](), h.Chat.Report)

	// Admin moderation panel (protected + admin required)
	admin := api.Group("/admin", protected, middleware.AdminRequired(db, cfg))
	admin.Get("/reports", h.Moderation.ListReports)
	admin.Put("/reports/:id", middleware.ValidateBody[dto.ActionReportRequest](), h.Moderation.ActionReport)

	app.Use(func(c *fiber.Ctx) error {
		return apperr.ErrNotFound
	})
}
