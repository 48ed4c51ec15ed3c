package checkins

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCheckInsByActivity(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c1 := createTestCheckIn(t, ctx, testDB, "user-1", "Happy", 80, base, "gym", "friends")
	c2 := createTestCheckIn(t, ctx, testDB, "user-1", "Tired", 40, base.Add(time.Hour), "gym")
	c3 := createTestCheckIn(t, ctx, testDB, "user-1", "Calm", 50, base.Add(2*time.Hour), "friends", "gym", "music")
	createTestCheckIn(t, ctx, testDB, "user-1", "Sad", 60, base.Add(3*time.Hour), "work")
	createTestCheckIn(t, ctx, testDB, "user-2", "Happy", 90, base, "gym", "friends")

	tests := []struct {
		name      string
		query     []string
		wantIDs   []uuid.UUID
		wantCount []int
	}{
		{
			name:      "two activities rank by matches then recency",
			query:     []string{"gym", "friends"},
			wantIDs:   []uuid.UUID{c3.ID, c1.ID, c2.ID},
			wantCount: []int{2, 2, 1},
		},
		{
			name:      "case and whitespace are normalized",
			query:     []string{" MUSIC "},
			wantIDs:   []uuid.UUID{c3.ID},
			wantCount: []int{1},
		},
		{
			name:    "unknown activity",
			query:   []string{"skydiving"},
			wantIDs: nil,
		},
		{
			name:    "empty query",
			query:   []string{},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := SearchCheckInsByActivity(ctx, testDB, "user-1", tt.query)
			require.NoError(t, err)
			require.NotNil(t, results)
			require.Len(t, results, len(tt.wantIDs))

			for i, r := range results {
				assert.Equal(t, tt.wantIDs[i], r.ID, "result %d", i)
				assert.Equal(t, tt.wantCount[i], r.MatchCount, "result %d", i)
				assert.Equal(t, "user-1", r.UserID, "result %d", i)
				assert.NotEmpty(t, r.Activities, "result %d", i)
			}
		})
	}
}
