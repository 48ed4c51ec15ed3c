package checkins

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/unowned-ai/moodlog/pkg/db"
)

// MatchedCheckIn holds a CheckIn and the number of query activities it carries.
type MatchedCheckIn struct {
	CheckIn
	MatchCount int `json:"match_count"`
}

// SearchCheckInsByActivity returns a user's check-ins carrying at least one of
// the given activities, ranked by the number of matches and then by recency.
func SearchCheckInsByActivity(ctx context.Context, conn *sql.DB, userID string, activities []string) ([]MatchedCheckIn, error) {
	query := normalizeActivities(activities)
	if len(query) == 0 {
		return []MatchedCheckIn{}, nil
	}

	placeholders := strings.Repeat("?,", len(query)-1) + "?"

	sqlQuery := fmt.Sprintf(`
		SELECT
			c.id, c.user_id, c.feelings, c.emotion_intensity, c.notes, c.created_at,
			COUNT(ca.activity) AS match_count
		FROM
			checkins c
		JOIN
			checkin_activities ca ON c.id = ca.checkin_id
		WHERE
			c.user_id = ?
			AND ca.activity IN (%s)
		GROUP BY
			c.id, c.user_id, c.feelings, c.emotion_intensity, c.notes, c.created_at
		ORDER BY
			match_count DESC,
			c.created_at DESC;
	`, placeholders)

	args := make([]any, 0, 1+len(query))
	args = append(args, userID)
	for _, a := range query {
		args = append(args, a)
	}

	rows, err := conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	results := []MatchedCheckIn{}
	for rows.Next() {
		var m MatchedCheckIn
		var createdAt float64
		err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.Feelings,
			&m.EmotionIntensity,
			&m.Notes,
			&createdAt,
			&m.MatchCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search result row: %w", err)
		}
		m.CreatedAt = db.TimeFromUnix(createdAt)
		results = append(results, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over search results: %w", err)
	}
	rows.Close()

	for i := range results {
		results[i].Activities, err = activityNames(ctx, conn, results[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
