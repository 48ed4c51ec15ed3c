package checkins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unowned-ai/moodlog/pkg/db"
)

var (
	ErrCheckInNotFound  = errors.New("check-in not found")
	ErrInvalidIntensity = errors.New("emotion intensity must be between 0 and 100")
	ErrInvalidFeelings  = errors.New("feelings label must not be empty")
	ErrInvalidUser      = errors.New("user id must not be empty")
)

const (
	createCheckInStatement = `
	INSERT INTO checkins (id, user_id, feelings, emotion_intensity, notes, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getCheckInStatement = `
	SELECT id, user_id, feelings, emotion_intensity, notes, created_at
	FROM checkins
	WHERE id = ?
	`

	listForDayStatement = `
	SELECT id, user_id, feelings, emotion_intensity, notes, created_at
	FROM checkins
	WHERE user_id = ? AND created_at >= ? AND created_at < ?
	ORDER BY created_at DESC
	`

	listUsersForDayStatement = `
	SELECT DISTINCT user_id
	FROM checkins
	WHERE created_at >= ? AND created_at < ?
	ORDER BY user_id ASC
	`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckIn(row rowScanner) (CheckIn, error) {
	var c CheckIn
	var createdAt float64
	if err := row.Scan(&c.ID, &c.UserID, &c.Feelings, &c.EmotionIntensity, &c.Notes, &createdAt); err != nil {
		return CheckIn{}, err
	}
	c.CreatedAt = db.TimeFromUnix(createdAt)
	return c, nil
}

// CreateCheckIn validates and stores a check-in together with its activities
// in a single transaction, then returns the stored row.
func CreateCheckIn(ctx context.Context, conn *sql.DB, in NewCheckIn) (CheckIn, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return CheckIn{}, ErrInvalidUser
	}
	feelings := strings.TrimSpace(in.Feelings)
	if feelings == "" {
		return CheckIn{}, ErrInvalidFeelings
	}
	if in.EmotionIntensity < 0 || in.EmotionIntensity > 100 {
		return CheckIn{}, fmt.Errorf("%w: got %d", ErrInvalidIntensity, in.EmotionIntensity)
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	checkInID := uuid.New()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return CheckIn{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	_, err = tx.ExecContext(
		ctx,
		createCheckInStatement,
		checkInID,
		userID,
		feelings,
		in.EmotionIntensity,
		in.Notes,
		db.UnixSeconds(createdAt),
	)
	if err != nil {
		return CheckIn{}, fmt.Errorf("failed to insert check-in: %w", err)
	}

	if err := attachActivities(ctx, tx, checkInID, normalizeActivities(in.Activities)); err != nil {
		return CheckIn{}, err
	}

	if err := tx.Commit(); err != nil {
		return CheckIn{}, fmt.Errorf("failed to commit check-in: %w", err)
	}

	return GetCheckIn(ctx, conn, checkInID)
}

// GetCheckIn retrieves a check-in and its activities.
func GetCheckIn(ctx context.Context, conn *sql.DB, id uuid.UUID) (CheckIn, error) {
	c, err := scanCheckIn(conn.QueryRowContext(ctx, getCheckInStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CheckIn{}, ErrCheckInNotFound
		}
		return CheckIn{}, err
	}

	c.Activities, err = activityNames(ctx, conn, c.ID)
	if err != nil {
		return CheckIn{}, err
	}

	return c, nil
}

// ListForDay returns a user's check-ins created in [start, end), newest first.
func ListForDay(ctx context.Context, conn *sql.DB, userID string, start, end time.Time) ([]CheckIn, error) {
	rows, err := conn.QueryContext(ctx, listForDayStatement, userID, db.UnixSeconds(start), db.UnixSeconds(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query check-ins: %w", err)
	}
	defer rows.Close()

	var result []CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in row: %w", err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-in rows: %w", err)
	}
	rows.Close()

	for i := range result {
		result[i].Activities, err = activityNames(ctx, conn, result[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// ListUsersForDay returns the distinct users with at least one check-in in [start, end).
func ListUsersForDay(ctx context.Context, conn *sql.DB, start, end time.Time) ([]string, error) {
	rows, err := conn.QueryContext(ctx, listUsersForDayStatement, db.UnixSeconds(start), db.UnixSeconds(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}
