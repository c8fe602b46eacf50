package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
	e, _ := apperr.From(err)
	d, ok := e.Details.(map[string]string)
	require.True(t, ok)
	return d
}

func TestSignupValidation(t *testing.T) {
	req := &dto.SignupRequest{Email: "  not-an-email ", Password: "abc", Pseudo: "x"}
	d := details(t, Struct(req))

	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be at least 4", d["password"])
	assert.Equal(t, "must be at least 2", d["pseudo"])
	assert.Equal(t, "not-an-email", req.Email)
}

func TestPasswordIsNotTrimmed(t *testing.T) {
	req := &dto.SignupRequest{Email: "a@b.co", Password: " pass ", Pseudo: " ana "}
	require.NoError(t, Struct(req))
	assert.Equal(t, " pass ", req.Password)
	assert.Equal(t, "ana", req.Pseudo)
}

func TestNullableFields(t *testing.T) {
	var req dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":null,"city":"  Paris  "}`), &req))
	require.NoError(t, Struct(&req))
	assert.Equal(t, "Paris", req.City.Value)

	var bad dto.UpdateProfileRequest
	require.NoError(t, json.Unmarshal([]byte(`{"avatar_url":"nope"}`), &bad))
	d := details(t, Struct(&bad))
	assert.Equal(t, "must be a valid URL", d["avatar_url"])
}

func TestNullableIntRejectsZero(t *testing.T) {
	var req dto.CreateGroupRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Runners","city":"Lyon","sport_id":1,"level":"expert","max_members":0}`), &req))
	d := details(t, Struct(&req))
	assert.Equal(t, "must be greater than 0", d["max_members"])

	req.MaxMembers = dto.Null[int]()
	require.NoError(t, Struct(&req))
}

func TestPartialUpdateRejectsBlankTitle(t *testing.T) {
	blank := "   "
	req := &dto.UpdateActivityRequest{Title: &blank}
	d := details(t, Struct(req))
	assert.Equal(t, "must be at least 3", d["title"])

	require.NoError(t, Struct(&dto.UpdateActivityRequest{}))
}

func TestDiveReportsIndexedPath(t *testing.T) {
	req := &dto.UserSportsRequest{Sports: []dto.UserSportInput{
		{SportID: 1, Level: "expert"},
		{SportID: 2, Level: "pro"},
	}}
	d := details(t, Struct(req))
	assert.Equal(t, "must be one of: debutant, intermediaire, expert", d["sports[1].level"])
}

func TestTooManySports(t *testing.T) {
	sports := make([]dto.UserSportInput, 21)
	for i := range sports {
		sports[i] = dto.UserSportInput{SportID: uint(i + 1), Level: "debutant"}
	}
	d := details(t, Struct(&dto.UserSportsRequest{Sports: sports}))
	assert.Equal(t, "must be at most 20", d["sports"])
}

func TestMessageContentLeftForService(t *testing.T) {
	req := &dto.SendMessageRequest{Content: "   "}
	require.NoError(t, Struct(req))
	assert.Equal(t, "   ", req.Content)

	details(t, Struct(&dto.SendMessageRequest{}))
}
