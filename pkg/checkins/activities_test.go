package checkins

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActivities(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	activities, err := ListActivities(ctx, testDB)
	require.NoError(t, err)
	assert.Empty(t, activities)

	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	createTestCheckIn(t, ctx, testDB, "user-1", "Happy", 70, at, "yoga", "Work")
	createTestCheckIn(t, ctx, testDB, "user-2", "Tired", 40, at, "work", "commute")

	activities, err = ListActivities(ctx, testDB)
	require.NoError(t, err)

	var names []string
	for _, a := range activities {
		names = append(names, a.Activity)
		assert.False(t, a.CreatedAt.IsZero(), "CreatedAt not set for %s", a.Activity)
	}
	assert.Equal(t, []string{"commute", "work", "yoga"}, names)
}

func TestListActivitiesForCheckIn(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := createTestCheckIn(t, ctx, testDB, "user-1", "Calm", 50, at, "reading", "tea", "music")

	activities, err := ListActivitiesForCheckIn(ctx, testDB, c.ID)
	require.NoError(t, err)

	var names []string
	for _, a := range activities {
		names = append(names, a.Activity)
	}
	assert.Equal(t, []string{"reading", "tea", "music"}, names, "submission order")

	_, err = ListActivitiesForCheckIn(ctx, testDB, uuid.New())
	assert.ErrorIs(t, err, ErrCheckInNotFound)
}

func TestNormalizeActivities(t *testing.T) {
	got := normalizeActivities([]string{" Gym ", "gym", "", "Family", "GYM", "work"})
	assert.Equal(t, []string{"gym", "family", "work"}, got)
	assert.Empty(t, normalizeActivities(nil))
}
