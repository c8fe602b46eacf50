package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/database"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: config.DriverPostgres, DatabaseURL: testutil.PostgresDSN(t)}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Email:             fmt.Sprintf("it-%d-%d@example.com", suffix, i),
			Pseudo:            fmt.Sprintf("it-%d-%d", suffix, i),
			PasswordHash:      "x",
			ProfileVisibility: models.VisibilityPublic,
			AccountStatus:     models.AccountActive,
			Role:              models.RoleUser,
		}
	}
	require.NoError(t, db.Create(&users).Error)
	return users
}

func createSport(t *testing.T, db *gorm.DB) models.Sport {
	t.Helper()
	sport := models.Sport{Slug: fmt.Sprintf("it-%d", time.Now().UnixNano()), Name: "Integration"}
	require.NoError(t, db.Create(&sport).Error)
	return sport
}

// createGroup makes a group owned by owner and removes it with its
// activities when the test ends.
func createGroup(t *testing.T, db *gorm.DB, owner uint, sportID uint, maxMembers *int) *dto.GroupView {
	t.Helper()
	req := &dto.CreateGroupRequest{Name: "Integration group", City: "Lyon", SportID: sportID, Level: models.LevelBeginner}
	if maxMembers != nil {
		req.MaxMembers = dto.Value(*maxMembers)
	}
	groups := NewGroupService(db)
	group, err := groups.Create(context.Background(), owner, req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = groups.Delete(context.Background(), owner, group.ID) })
	return group
}

func createActivity(t *testing.T, db *gorm.DB, organizer uint, group *dto.GroupView, maxParticipants *int) *dto.ActivityView {
	t.Helper()
	req := &dto.CreateActivityRequest{
		GroupID:  group.ID,
		SportID:  group.SportID,
		Title:    "Capacity run",
		StartAt:  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		Location: "Parc de la Tete d'Or",
		Level:    models.LevelBeginner,
	}
	if maxParticipants != nil {
		req.MaxParticipants = dto.Value(*maxParticipants)
	}
	activity, err := NewActivityService(db).Create(context.Background(), organizer, req)
	require.NoError(t, err)
	return activity
}

func TestConcurrentEnrollmentNeverOverbooks(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	users := createUsers(t, db, 11)
	organizer := users[0]

	sport := createSport(t, db)
	group := createGroup(t, db, organizer.ID, sport.ID, nil)

	activities := NewActivityService(db)
	activity := createActivity(t, db, organizer.ID, group, intPtr(4))
	assert.EqualValues(t, 1, activity.RegisteredCount)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		full int
	)
	for _, u := range users[1:] {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			err := activities.Enroll(ctx, id, activity.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrActivityFull):
				full++
			default:
				t.Errorf("unexpected enroll error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, full)

	spots, err := activities.RemainingSpots(ctx, activity.ID)
	require.NoError(t, err)
	require.NotNil(t, spots)
	assert.Equal(t, 0, *spots)

	require.NoError(t, activities.Delete(ctx, organizer.ID, activity.ID))
}

func TestGroupCapacityFreesSeatOnLeave(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	users := createUsers(t, db, 3)
	owner, b, c := users[0], users[1], users[2]

	group := createGroup(t, db, owner.ID, createSport(t, db).ID, intPtr(2))
	groups := NewGroupService(db)

	require.NoError(t, groups.Join(ctx, b.ID, group.ID))
	assert.ErrorIs(t, groups.Join(ctx, c.ID, group.ID), apperr.ErrGroupFull)
	require.NoError(t, groups.Leave(ctx, b.ID, group.ID))
	require.NoError(t, groups.Join(ctx, c.ID, group.ID))

	var active int64
	require.NoError(t, db.Model(&models.GroupMember{}).
		Where("group_id = ? AND status = ?", group.ID, models.MemberActive).Count(&active).Error)
	assert.EqualValues(t, 2, active)
}

func TestReenrollReusesParticipantRow(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	users := createUsers(t, db, 2)
	organizer, runner := users[0], users[1]

	group := createGroup(t, db, organizer.ID, createSport(t, db).ID, nil)
	activity := createActivity(t, db, organizer.ID, group, nil)
	activities := NewActivityService(db)

	require.NoError(t, activities.Enroll(ctx, runner.ID, activity.ID))
	require.NoError(t, activities.Unenroll(ctx, runner.ID, activity.ID))
	require.NoError(t, activities.Enroll(ctx, runner.ID, activity.ID))

	var rows []models.ActivityParticipant
	require.NoError(t, db.Where("activity_id = ? AND user_id = ?", activity.ID, runner.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.ParticipantRegistered, rows[0].Status)
	assert.Nil(t, rows[0].CancelledAt)
}

func TestReportedMessageHiddenButKept(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	users := createUsers(t, db, 2)
	organizer, runner := users[0], users[1]

	group := createGroup(t, db, organizer.ID, createSport(t, db).ID, nil)
	activity := createActivity(t, db, organizer.ID, group, nil)
	require.NoError(t, NewActivityService(db).Enroll(ctx, runner.ID, activity.ID))

	chat := NewChatService(db)
	var sent []*dto.MessageView
	for _, content := range []string{"hello", "see you at 9", "bring water"} {
		msg, err := chat.Send(ctx, organizer.ID, activity.ID, content)
		require.NoError(t, err)
		sent = append(sent, msg)
	}

	before, err := chat.List(ctx, runner.ID, activity.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, before, 3)

	require.NoError(t, chat.Report(ctx, runner.ID, activity.ID, sent[1].ID, "spam"))

	after, err := chat.List(ctx, runner.ID, activity.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, "hello", after[0].Content)
	assert.Equal(t, "bring water", after[1].Content)

	var stored int64
	require.NoError(t, db.Model(&models.Message{}).Where("conversation_id = ?", sent[0].ConversationID).Count(&stored).Error)
	assert.EqualValues(t, 3, stored)
}

func TestDeleteActivityTwiceSucceeds(t *testing.T) {
	db := integrationDB(t)
	ctx := context.Background()
	organizer := createUsers(t, db, 1)[0]

	group := createGroup(t, db, organizer.ID, createSport(t, db).ID, nil)
	activity := createActivity(t, db, organizer.ID, group, nil)
	activities := NewActivityService(db)

	require.NoError(t, activities.Delete(ctx, organizer.ID, activity.ID))
	require.NoError(t, activities.Delete(ctx, organizer.ID, activity.ID))

	_, err := activities.Get(ctx, activity.ID)
	assert.ErrorIs(t, err, apperr.ErrActivityNotFound)
}
