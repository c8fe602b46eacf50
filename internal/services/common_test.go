package services

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func uintPtr(n uint) *uint { return &n }

func TestRemaining(t *testing.T) {
	assert.Nil(t, remaining(nil, 5))
	assert.Equal(t, 3, *remaining(intPtr(5), 2))
	assert.Equal(t, 0, *remaining(intPtr(5), 5))
	assert.Equal(t, 0, *remaining(intPtr(2), 7))
}

func TestHasCapacity(t *testing.T) {
	assert.True(t, hasCapacity(nil, 1000))
	assert.True(t, hasCapacity(intPtr(3), 2))
	assert.False(t, hasCapacity(intPtr(3), 3))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "ACTIVITY_FULL", outcome(apperr.ErrActivityFull))
	assert.Equal(t, "error", outcome(assert.AnError))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultMessageLimit, ClampLimit(0))
	assert.Equal(t, 1, ClampLimit(-4))
	assert.Equal(t, 42, ClampLimit(42))
	assert.Equal(t, MaxMessageLimit, ClampLimit(5000))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "hello", sanitizeText("  <b>hello</b> "))
	assert.Equal(t, "", sanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "I'm late & sorry", sanitizeText("I'm late & sorry"))
}

func TestParseDatetime(t *testing.T) {
	got, err := ParseDatetime("2025-06-01T18:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 16, 30, 0, 0, time.UTC), got)

	got, err = ParseDatetime("2025-06-01T18:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC), got)

	_, err = ParseDatetime("tomorrow")
	assert.ErrorIs(t, err, apperr.ErrInvalidDatetime)
}

func TestCanViewFullProfile(t *testing.T) {
	target := func(visibility string) *models.User {
		return &models.User{ID: 1, ProfileVisibility: visibility}
	}

	cases := []struct {
		name        string
		viewer      *uint
		visibility  string
		sharesGroup bool
		want        bool
	}{
		{"self private", uintPtr(1), models.VisibilityPrivate, false, true},
		{"public anonymous", nil, models.VisibilityPublic, false, true},
		{"private other", uintPtr(2), models.VisibilityPrivate, true, false},
		{"groups shared", uintPtr(2), models.VisibilityGroups, true, true},
		{"groups not shared", uintPtr(2), models.VisibilityGroups, false, false},
		{"groups anonymous", nil, models.VisibilityGroups, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canViewFullProfile(tc.viewer, target(tc.visibility), tc.sharesGroup))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
