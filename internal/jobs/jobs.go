// Package jobs runs the periodic maintenance tasks: system_logs retention
// and expired password reset token cleanup.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	// Every day at 03:30 UTC.
	cleanupSpec    = "30 3 * * *"
	cleanupTimeout = 5 * time.Minute
)

type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	retention time.Duration
}

func New(db *gorm.DB, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Start registers the jobs and starts the scheduler in its own goroutine.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(cleanupSpec, s.cleanup); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("job scheduler started", "cleanup", cleanupSpec, "log_retention", s.retention.String())
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		slog.Warn("job scheduler stop timed out")
	}
}

func (s *Scheduler) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	now := time.Now().UTC()
	logs, err := PurgeSystemLogs(ctx, s.db, now.Add(-s.retention))
	if err != nil {
		slog.Error("log cleanup failed", "error", err)
	} else if logs > 0 {
		slog.Info("log cleanup completed", "deleted", logs)
	}

	tokens, err := PurgeResetTokens(ctx, s.db, now)
	if err != nil {
		slog.Error("reset token cleanup failed", "error", err)
	} else if tokens > 0 {
		slog.Info("reset token cleanup completed", "deleted", tokens)
	}
}

// PurgeSystemLogs deletes log rows recorded before cutoff.
func PurgeSystemLogs(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}

// PurgeResetTokens deletes tokens that were used or have expired.
func PurgeResetTokens(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("used_at IS NOT NULL OR expires_at < ?", now).
		Delete(&models.PasswordResetToken{})
	return res.RowsAffected, res.Error
}
