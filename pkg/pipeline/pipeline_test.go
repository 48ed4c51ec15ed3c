package pipeline

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms/fake"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/db"
	"github.com/unowned-ai/moodlog/pkg/insights"
	"github.com/unowned-ai/moodlog/pkg/mood"
	"github.com/unowned-ai/moodlog/pkg/summaries"
)

const day = "2024-03-01"

var dayStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDBConnection(":memory:", true, "NORMAL")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.UpgradeDB(context.Background(), conn, db.TargetSchemaVersion, nil))
	return conn
}

func addCheckIn(t *testing.T, conn *sql.DB, userID, feelings string, intensity int, at time.Time) checkins.CheckIn {
	t.Helper()
	c, err := checkins.CreateCheckIn(context.Background(), conn, checkins.NewCheckIn{
		UserID:           userID,
		Feelings:         feelings,
		EmotionIntensity: intensity,
		CreatedAt:        at,
	})
	require.NoError(t, err)
	return c
}

// steppingClock returns a clock that advances by one minute per call.
func steppingClock(from time.Time) func() time.Time {
	var mu sync.Mutex
	next := from
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func countRows(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM daily_summaries").Scan(&n))
	return n
}

type panickingGenerator struct{ user string }

func (g panickingGenerator) Generate(ctx context.Context, entries []checkins.CheckIn, agg mood.Aggregate) insights.DailySummaryAI {
	if g.user == "" || entries[0].UserID == g.user {
		panic("generator exploded")
	}
	return insights.Fallback(agg)
}

func TestRunDailySummary_ExampleScenario(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	p := New(conn, nil, WithClock(steppingClock(dayStart.Add(20*time.Hour))))

	addCheckIn(t, conn, "user-1", "Happy", 80, dayStart.Add(8*time.Hour))
	addCheckIn(t, conn, "user-1", "Happy", 60, dayStart.Add(12*time.Hour))
	addCheckIn(t, conn, "user-1", "Neutral", 40, dayStart.Add(16*time.Hour))

	require.True(t, p.RunDailySummary(ctx, "user-1", day))

	first, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalEntries)
	assert.Equal(t, 47, first.EmotionalScore)
	assert.Equal(t, "Positive", first.EmotionalState)
	assert.Equal(t, "light-green", first.ColorCode)
	assert.Equal(t, "fallback", first.InsightSource)
	assert.Contains(t, first.AIAnalysis, "3 check-ins")
	assert.Len(t, first.AIRecommendations, 3)
	assert.NotEmpty(t, first.AIMotivationalMessage)
	assert.Empty(t, first.AIWarningFlags)

	addCheckIn(t, conn, "user-1", "Angry", 90, dayStart.Add(21*time.Hour))
	require.True(t, p.RunDailySummary(ctx, "user-1", day))

	second, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.TotalEntries)
	assert.Equal(t, 13, second.EmotionalScore)
	assert.Less(t, second.EmotionalScore, first.EmotionalScore)
	assert.Equal(t, "Neutral", second.EmotionalState)
	assert.Contains(t, second.AIAnalysis, "4 check-ins")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, 1, countRows(t, conn))
}

func TestRunDailySummary_Idempotent(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	p := New(conn, nil, WithClock(steppingClock(dayStart.Add(23*time.Hour))))

	addCheckIn(t, conn, "user-1", "Tired", 70, dayStart.Add(9*time.Hour))
	addCheckIn(t, conn, "user-1", "Sad", 50, dayStart.Add(10*time.Hour))

	require.True(t, p.RunDailySummary(ctx, "user-1", day))
	first, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)

	require.True(t, p.RunDailySummary(ctx, "user-1", day))
	second, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, conn))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	second.UpdatedAt = first.UpdatedAt
	assert.Equal(t, first, second)
}

func TestRunDailySummary_NoData(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := New(conn, nil, WithMetrics(metrics))

	// Adjacent days and other users must not count.
	addCheckIn(t, conn, "user-1", "Happy", 80, dayStart.Add(-time.Millisecond))
	addCheckIn(t, conn, "user-1", "Happy", 80, dayStart.AddDate(0, 0, 1))
	addCheckIn(t, conn, "user-2", "Happy", 80, dayStart.Add(time.Hour))

	outcome, err := p.Run(ctx, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoData, outcome)

	assert.False(t, p.RunDailySummary(ctx, "user-1", day))
	assert.Equal(t, 0, countRows(t, conn))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("no_data")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.InsightsTotal.WithLabelValues("fallback")))
}

func TestRunDailySummary_DayWindowBoundaries(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	p := New(conn, nil)

	addCheckIn(t, conn, "user-1", "Happy", 100, dayStart)
	addCheckIn(t, conn, "user-1", "Happy", 100, dayStart.Add(24*time.Hour-time.Millisecond))
	addCheckIn(t, conn, "user-1", "Angry", 100, dayStart.AddDate(0, 0, 1))

	require.True(t, p.RunDailySummary(ctx, "user-1", day))

	s, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalEntries)
	assert.Equal(t, 100, s.EmotionalScore)
}

func TestRunDailySummary_InvalidInput(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	core, logs := observer.New(zapcore.ErrorLevel)
	p := New(conn, nil, WithLogger(zap.New(core)))

	for _, date := range []string{"", "yesterday", "2024-13-01", "2024-02-30", "2024/03/01"} {
		_, err := p.Run(ctx, "user-1", date)
		require.ErrorIs(t, err, ErrInvalidDate, date)
		assert.False(t, p.RunDailySummary(ctx, "user-1", date), date)
	}

	_, err := p.Run(ctx, " ", day)
	require.ErrorIs(t, err, ErrInvalidUser)
	assert.False(t, p.RunDailySummary(ctx, "", day))

	assert.Equal(t, 6, logs.FilterMessage("daily summary run failed").Len())
}

func TestRunDailySummary_StorageFailure(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := New(conn, nil, WithMetrics(metrics))

	addCheckIn(t, conn, "user-1", "Happy", 80, dayStart.Add(time.Hour))
	require.NoError(t, conn.Close())

	assert.False(t, p.RunDailySummary(ctx, "user-1", day))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("failed")))
}

func TestRunDailySummary_PanicIsContained(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	addCheckIn(t, conn, "user-1", "Happy", 80, dayStart.Add(time.Hour))

	p := New(conn, panickingGenerator{})
	_, err := p.Run(ctx, "user-1", day)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator exploded")

	assert.NotPanics(t, func() {
		assert.False(t, p.RunDailySummary(ctx, "user-1", day))
	})
	assert.Equal(t, 0, countRows(t, conn))
}

func TestRunDailySummary_AIInsights(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	model := fake.NewFakeLLM([]string{`{"analysis":"Mostly sunny.","insights":["Good start"],` +
		`"recommendations":["Walk"],"dailyTips":["Sleep"],"motivationalMessage":"Nice!","warningFlags":[]}`})
	gen := insights.NewGenerator(insights.Config{APIKey: "k"}, insights.WithModel(model))

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	p := New(conn, gen, WithMetrics(metrics))

	addCheckIn(t, conn, "user-1", "Excited", 70, dayStart.Add(time.Hour))
	require.True(t, p.RunDailySummary(ctx, "user-1", day))

	s, err := summaries.GetSummary(ctx, conn, "user-1", day)
	require.NoError(t, err)
	assert.Equal(t, "ai", s.InsightSource)
	assert.Equal(t, "Mostly sunny.", s.AIAnalysis)
	assert.Equal(t, []string{"Walk"}, s.AIRecommendations)
	assert.Equal(t, 63, s.EmotionalScore)
	assert.Equal(t, "green", s.ColorCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.InsightsTotal.WithLabelValues("ai")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues("updated")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunDuration))
}

func TestRunDailySummary_ConcurrentRunsKeepOneRow(t *testing.T) {
	conn, err := db.OpenDB(filepath.Join(t.TempDir(), "moodlog.db"), db.Options{WAL: true, Sync: "NORMAL", BusyTimeout: 10 * time.Second})
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, db.UpgradeDB(ctx, conn, db.TargetSchemaVersion, nil))

	addCheckIn(t, conn, "user-1", "Calm", 60, dayStart.Add(time.Hour))
	addCheckIn(t, conn, "user-1", "Anxious", 40, dayStart.Add(2*time.Hour))

	p := New(conn, nil)

	const runs = 8
	results := make([]bool, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.RunDailySummary(ctx, "user-1", day)
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "run %d", i)
	}
	assert.Equal(t, 1, countRows(t, conn))
}

func TestDayWindow(t *testing.T) {
	start, end, err := DayWindow("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)

	_, _, err = DayWindow("28-02-2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "no_data", OutcomeNoData.String())
	assert.Equal(t, "updated", OutcomeUpdated.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())
}
