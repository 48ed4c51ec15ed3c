package summaries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unowned-ai/moodlog/pkg/db"
)

var (
	ErrSummaryNotFound = errors.New("daily summary not found")
	ErrInvalidDate     = errors.New("summary date must be formatted as YYYY-MM-DD")
	ErrInvalidUser     = errors.New("user id must not be empty")
)

const summaryColumns = `id, user_id, summary_date, emotional_state, band, emotional_score, color_code,
	total_entries, ai_analysis, ai_insights, ai_recommendations, ai_daily_tips,
	ai_motivational_message, ai_warning_flags, insight_source, created_at, updated_at`

// upsertSummaryStatement relies on UNIQUE(user_id, summary_date): concurrent
// writers for the same key serialize in SQLite and the later one updates.
// id and created_at of an existing row are left untouched.
const upsertSummaryStatement = `
	INSERT INTO daily_summaries (` + summaryColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, summary_date) DO UPDATE SET
		emotional_state = excluded.emotional_state,
		band = excluded.band,
		emotional_score = excluded.emotional_score,
		color_code = excluded.color_code,
		total_entries = excluded.total_entries,
		ai_analysis = excluded.ai_analysis,
		ai_insights = excluded.ai_insights,
		ai_recommendations = excluded.ai_recommendations,
		ai_daily_tips = excluded.ai_daily_tips,
		ai_motivational_message = excluded.ai_motivational_message,
		ai_warning_flags = excluded.ai_warning_flags,
		insight_source = excluded.insight_source,
		updated_at = excluded.updated_at
	`

const getSummaryStatement = `
	SELECT ` + summaryColumns + `
	FROM daily_summaries
	WHERE user_id = ? AND summary_date = ?
	`

// Upsert writes s as the summary for (s.UserID, s.SummaryDate), inserting a
// new row or replacing every mutable field of the existing one, and returns
// the stored row. A zero UpdatedAt means now.
func Upsert(ctx context.Context, conn *sql.DB, s DailySummary) (DailySummary, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return DailySummary{}, ErrInvalidUser
	}
	if err := ValidateDate(s.SummaryDate); err != nil {
		return DailySummary{}, err
	}

	now := time.Now()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}

	lists := make([]string, 4)
	for i, l := range [][]string{s.AIInsights, s.AIRecommendations, s.AIDailyTips, s.AIWarningFlags} {
		encoded, err := encodeList(l)
		if err != nil {
			return DailySummary{}, err
		}
		lists[i] = encoded
	}

	_, err := conn.ExecContext(
		ctx,
		upsertSummaryStatement,
		s.ID,
		s.UserID,
		s.SummaryDate,
		s.EmotionalState,
		s.Band,
		s.EmotionalScore,
		s.ColorCode,
		s.TotalEntries,
		s.AIAnalysis,
		lists[0],
		lists[1],
		lists[2],
		s.AIMotivationalMessage,
		lists[3],
		s.InsightSource,
		db.UnixSeconds(s.CreatedAt),
		db.UnixSeconds(s.UpdatedAt),
	)
	if err != nil {
		return DailySummary{}, fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	return GetSummary(ctx, conn, s.UserID, s.SummaryDate)
}

// GetSummary retrieves the summary for a user and date.
func GetSummary(ctx context.Context, conn *sql.DB, userID, summaryDate string) (DailySummary, error) {
	s, err := scanSummary(conn.QueryRowContext(ctx, getSummaryStatement, userID, summaryDate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DailySummary{}, ErrSummaryNotFound
		}
		return DailySummary{}, err
	}
	return s, nil
}

// ListSummaries returns a user's summaries with from <= summary_date <= to,
// newest first. Empty bounds are open.
func ListSummaries(ctx context.Context, conn *sql.DB, userID, from, to string) ([]DailySummary, error) {
	query := "SELECT " + summaryColumns + " FROM daily_summaries WHERE user_id = ?"
	args := []any{userID}

	if from != "" {
		if err := ValidateDate(from); err != nil {
			return nil, err
		}
		query += " AND summary_date >= ?"
		args = append(args, from)
	}
	if to != "" {
		if err := ValidateDate(to); err != nil {
			return nil, err
		}
		query += " AND summary_date <= ?"
		args = append(args, to)
	}
	query += " ORDER BY summary_date DESC"

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer rows.Close()

	result := []DailySummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily summary row: %w", err)
		}
		result = append(result, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily summary rows: %w", err)
	}

	return result, nil
}

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (DailySummary, error) {
	var s DailySummary
	var insights, recommendations, tips, warnings string
	var createdAt, updatedAt float64

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.SummaryDate,
		&s.EmotionalState,
		&s.Band,
		&s.EmotionalScore,
		&s.ColorCode,
		&s.TotalEntries,
		&s.AIAnalysis,
		&insights,
		&recommendations,
		&tips,
		&s.AIMotivationalMessage,
		&warnings,
		&s.InsightSource,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return DailySummary{}, err
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{
		{insights, &s.AIInsights},
		{recommendations, &s.AIRecommendations},
		{tips, &s.AIDailyTips},
		{warnings, &s.AIWarningFlags},
	} {
		if *f.dst, err = decodeList(f.raw); err != nil {
			return DailySummary{}, err
		}
	}

	s.CreatedAt = db.TimeFromUnix(createdAt)
	s.UpdatedAt = db.TimeFromUnix(updatedAt)
	return s, nil
}

func encodeList(l []string) (string, error) {
	if l == nil {
		l = []string{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("failed to encode list column: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode list column: %w", err)
	}
	return out, nil
}
