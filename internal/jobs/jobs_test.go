package jobs

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurgeSystemLogs(t *testing.T) {
	db, mock := testutil.MockDB(t)
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "system_logs" WHERE timestamp < $1`)).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := PurgeSystemLogs(context.Background(), db, cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 12, n)
}

func TestPurgeResetTokens(t *testing.T) {
	db, mock := testutil.MockDB(t)
	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "password_reset_tokens" WHERE used_at IS NOT NULL OR expires_at < $1`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := PurgeResetTokens(context.Background(), db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestCleanupSpecParses(t *testing.T) {
	sched, err := cron.ParseStandard(cleanupSpec)
	require.NoError(t, err)
	from := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 30, 0, 0, time.UTC), sched.Next(from))
}

func TestSchedulerStartStop(t *testing.T) {
	db, _ := testutil.MockDB(t)
	s := New(db, 30)
	assert.Equal(t, 30*24*time.Hour, s.retention)
	require.NoError(t, s.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
