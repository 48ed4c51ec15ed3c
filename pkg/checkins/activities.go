package checkins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/unowned-ai/moodlog/pkg/db"
)

const (
	ensureActivityStatement = `
	INSERT INTO activities (activity) VALUES (?)
	ON CONFLICT(activity) DO NOTHING
	`

	attachActivityStatement = `
	INSERT INTO checkin_activities (checkin_id, activity, position)
	VALUES (?, ?, ?)
	`

	activityNamesStatement = `
	SELECT activity FROM checkin_activities
	WHERE checkin_id = ?
	ORDER BY position ASC
	`

	listActivitiesForCheckInStatement = `
	SELECT a.activity, a.created_at
	FROM activities a
	JOIN checkin_activities ca ON ca.activity = a.activity
	WHERE ca.checkin_id = ?
	ORDER BY ca.position ASC
	`
)

// normalizeActivities trims, lowercases and de-duplicates activity tags,
// keeping the first occurrence's position.
func normalizeActivities(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func attachActivities(ctx context.Context, tx *sql.Tx, checkInID uuid.UUID, activities []string) error {
	for pos, a := range activities {
		if _, err := tx.ExecContext(ctx, ensureActivityStatement, a); err != nil {
			return fmt.Errorf("failed to ensure activity %q: %w", a, err)
		}
		if _, err := tx.ExecContext(ctx, attachActivityStatement, checkInID, a, pos); err != nil {
			return fmt.Errorf("failed to attach activity %q: %w", a, err)
		}
	}
	return nil
}

func activityNames(ctx context.Context, conn *sql.DB, checkInID uuid.UUID) ([]string, error) {
	rows, err := conn.QueryContext(ctx, activityNamesStatement, checkInID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for check-in: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		names = append(names, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return names, nil
}

// ListActivities retrieves every known activity tag.
func ListActivities(ctx context.Context, conn *sql.DB) ([]Activity, error) {
	rows, err := conn.QueryContext(ctx, "SELECT activity, created_at FROM activities ORDER BY activity ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListActivitiesForCheckIn retrieves the activities attached to one check-in, in submission order.
func ListActivitiesForCheckIn(ctx context.Context, conn *sql.DB, checkInID uuid.UUID) ([]Activity, error) {
	if _, err := scanCheckIn(conn.QueryRowContext(ctx, getCheckInStatement, checkInID)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, listActivitiesForCheckInStatement, checkInID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities for check-in: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]Activity, error) {
	activities := []Activity{}
	for rows.Next() {
		var a Activity
		var createdAt float64
		if err := rows.Scan(&a.Activity, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		a.CreatedAt = db.TimeFromUnix(createdAt)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activities, nil
}
