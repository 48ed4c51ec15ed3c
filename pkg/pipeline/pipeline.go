// Package pipeline wires check-in storage, scoring, insight generation and
// the summary repository into the daily summary run.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/insights"
	"github.com/unowned-ai/moodlog/pkg/mood"
	"github.com/unowned-ai/moodlog/pkg/summaries"
)

var (
	ErrInvalidDate = summaries.ErrInvalidDate
	ErrInvalidUser = summaries.ErrInvalidUser
)

// Outcome is the result of a successful run.
type Outcome int

const (
	// OutcomeNoData means the user had no check-ins that day; nothing was written.
	OutcomeNoData Outcome = iota
	// OutcomeUpdated means the day's summary row was inserted or replaced.
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoData:
		return "no_data"
	case OutcomeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

const outcomeFailed = "failed"

// InsightGenerator produces the natural-language part of a summary. It must
// not fail; *insights.Generator falls back internally.
type InsightGenerator interface {
	Generate(ctx context.Context, entries []checkins.CheckIn, agg mood.Aggregate) insights.DailySummaryAI
}

// Pipeline runs daily summaries against one database.
type Pipeline struct {
	db        *sql.DB
	generator InsightGenerator
	logger    *zap.Logger
	metrics   *Metrics
	now       func() time.Time
}

type Option func(*Pipeline)

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics records run outcomes and insight sources on m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithClock overrides the clock used for updated_at.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pipeline. A nil generator means fallback-only insights.
func New(conn *sql.DB, generator InsightGenerator, opts ...Option) *Pipeline {
	if generator == nil {
		generator = insights.NewGenerator(insights.Config{})
	}
	p := &Pipeline{
		db:        conn,
		generator: generator,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DayWindow returns the UTC interval [00:00, next day 00:00) for a YYYY-MM-DD date.
func DayWindow(targetDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(summaries.DateLayout, targetDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, targetDate)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// RunDailySummary summarizes one user's day and reports whether a summary
// was produced or updated. It never fails or panics: no check-ins, invalid
// input and internal errors all report false, the latter two with an error log.
func (p *Pipeline) RunDailySummary(ctx context.Context, userID, targetDate string) bool {
	outcome, err := p.Run(ctx, userID, targetDate)
	if err != nil {
		p.logger.Error("daily summary run failed",
			zap.String("user_id", userID),
			zap.String("date", targetDate),
			zap.Error(err))
		return false
	}
	return outcome == OutcomeUpdated
}

// Run summarizes one user's day: read the day's check-ins, score them,
// generate insights and upsert the summary. A panic anywhere in the run is
// returned as an error.
func (p *Pipeline) Run(ctx context.Context, userID, targetDate string) (outcome Outcome, err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("daily summary run panicked: %v", r)
		}
		label := outcome.String()
		if err != nil {
			label = outcomeFailed
		}
		p.metrics.observeRun(label, time.Since(started))
	}()

	return p.run(ctx, userID, targetDate)
}

func (p *Pipeline) run(ctx context.Context, userID, targetDate string) (Outcome, error) {
	if strings.TrimSpace(userID) == "" {
		return OutcomeNoData, ErrInvalidUser
	}
	start, end, err := DayWindow(targetDate)
	if err != nil {
		return OutcomeNoData, err
	}

	entries, err := checkins.ListForDay(ctx, p.db, userID, start, end)
	if err != nil {
		return OutcomeNoData, fmt.Errorf("failed to read check-ins: %w", err)
	}
	if len(entries) == 0 {
		p.logger.Debug("no check-ins to summarize", zap.String("user_id", userID), zap.String("date", targetDate))
		return OutcomeNoData, nil
	}

	agg, err := mood.Compute(entries)
	if err != nil {
		return OutcomeNoData, err
	}

	ai := p.generator.Generate(ctx, entries, agg)
	p.metrics.observeInsight(string(ai.Source))

	stored, err := summaries.Upsert(ctx, p.db, summaries.DailySummary{
		UserID:                userID,
		SummaryDate:           targetDate,
		EmotionalState:        string(agg.EmotionalState),
		Band:                  string(agg.Band),
		EmotionalScore:        agg.EmotionalScore,
		ColorCode:             agg.ColorCode,
		TotalEntries:          agg.TotalEntries,
		AIAnalysis:            ai.Analysis,
		AIInsights:            ai.Insights,
		AIRecommendations:     ai.Recommendations,
		AIDailyTips:           ai.DailyTips,
		AIMotivationalMessage: ai.MotivationalMessage,
		AIWarningFlags:        ai.WarningFlags,
		InsightSource:         string(ai.Source),
		UpdatedAt:             p.now(),
	})
	if err != nil {
		return OutcomeNoData, err
	}

	p.logger.Info("daily summary updated",
		zap.String("user_id", userID),
		zap.String("date", targetDate),
		zap.String("summary_id", stored.ID.String()),
		zap.Int("total_entries", stored.TotalEntries),
		zap.Int("emotional_score", stored.EmotionalScore),
		zap.String("emotional_state", stored.EmotionalState),
		zap.String("insight_source", stored.InsightSource))

	return OutcomeUpdated, nil
}
