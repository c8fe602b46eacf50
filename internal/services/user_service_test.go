package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var selectUser = regexp.QuoteMeta(`SELECT * FROM "users"`)

func userRows(id uint, visibility string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "pseudo", "profile_visibility", "account_status", "created_at", "updated_at"}).
		AddRow(id, "target@example.com", "target", visibility, models.AccountActive, time.Now(), time.Now())
}

func TestPublicProfileUnknownUser(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserService(db).GetPublicProfile(context.Background(), nil, 1)
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestPublicProfilePrivateIsMinimal(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows(1, models.VisibilityPrivate))

	got, err := NewUserService(db).GetPublicProfile(context.Background(), uintPtr(2), 1)
	require.NoError(t, err)
	assert.Equal(t, dto.MinimalProfile{ID: 1, Pseudo: "target", ProfileVisibility: models.VisibilityPrivate}, got)
}

func TestPublicProfileSelfSeesEverything(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows(1, models.VisibilityPrivate))

	got, err := NewUserService(db).GetPublicProfile(context.Background(), uintPtr(1), 1)
	require.NoError(t, err)
	view, ok := got.(dto.UserView)
	require.True(t, ok)
	assert.Equal(t, "target@example.com", view.Email)
}

func TestPublicProfileGroupsSharedMembership(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows(1, models.VisibilityGroups))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM group_members AS gm1 JOIN group_members gm2`)).
		WillReturnRows(countRows(1))

	got, err := NewUserService(db).GetPublicProfile(context.Background(), uintPtr(2), 1)
	require.NoError(t, err)
	_, ok := got.(dto.UserView)
	assert.True(t, ok)
}

func TestPublicProfileGroupsWithoutSharedMembership(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows(1, models.VisibilityGroups))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM group_members AS gm1`)).WillReturnRows(countRows(0))

	got, err := NewUserService(db).GetPublicProfile(context.Background(), uintPtr(2), 1)
	require.NoError(t, err)
	_, ok := got.(dto.MinimalProfile)
	assert.True(t, ok)
}

func TestPublicProfileGroupsAnonymous(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(selectUser).WillReturnRows(userRows(1, models.VisibilityGroups))

	got, err := NewUserService(db).GetPublicProfile(context.Background(), nil, 1)
	require.NoError(t, err)
	_, ok := got.(dto.MinimalProfile)
	assert.True(t, ok)
}

func TestSearchEmptyQuery(t *testing.T) {
	db, _ := testutil.MockDB(t)

	users, err := NewUserService(db).Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`LOWER(pseudo) LIKE $1`)).
		WithArgs("%ann%", models.AccountActive, userSearchLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "pseudo", "avatar_url", "city"}).AddRow(4, "Annie", nil, "Lyon"))

	users, err := NewUserService(db).Search(context.Background(), "ANN")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Annie", users[0].Pseudo)
}

func TestSetSportsRejectsDuplicates(t *testing.T) {
	db, _ := testutil.MockDB(t)

	_, err := NewUserService(db).SetSports(context.Background(), 1, []dto.UserSportInput{
		{SportID: 1, Level: models.LevelExpert},
		{SportID: 1, Level: models.LevelBeginner},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSetSportsUnknownSportRollsBack(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "sports"`)).WillReturnRows(countRows(1))
	mock.ExpectRollback()

	_, err := NewUserService(db).SetSports(context.Background(), 1, []dto.UserSportInput{
		{SportID: 1, Level: models.LevelExpert},
		{SportID: 2, Level: models.LevelBeginner},
	})
	assert.ErrorIs(t, err, apperr.ErrSportNotFound)
}

func TestDeleteAccountIsSoft(t *testing.T) {
	db, mock := testutil.MockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "account_status"=$1,"deleted_at"=$2,"updated_at"=$3`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewUserService(db).DeleteAccount(context.Background(), 1))
}
