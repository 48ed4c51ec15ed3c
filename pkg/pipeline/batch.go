package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unowned-ai/moodlog/pkg/checkins"
)

// DefaultConcurrency bounds RunAll when no concurrency is given.
const DefaultConcurrency = 4

// BatchReport summarizes a RunAll call.
type BatchReport struct {
	Date        string   `json:"date"`
	Users       int      `json:"users"`
	Updated     int      `json:"updated"`
	NoData      int      `json:"no_data"`
	Failed      int      `json:"failed"`
	FailedUsers []string `json:"failed_users,omitempty"`
}

// RunAll runs the daily summary for every user with check-ins on targetDate,
// at most concurrency at a time. A failing user does not stop the others; the
// returned error covers only listing users and context cancellation.
func (p *Pipeline) RunAll(ctx context.Context, targetDate string, concurrency int) (BatchReport, error) {
	report := BatchReport{Date: targetDate}

	start, end, err := DayWindow(targetDate)
	if err != nil {
		return report, err
	}

	users, err := checkins.ListUsersForDay(ctx, p.db, start, end)
	if err != nil {
		return report, fmt.Errorf("failed to list users for %s: %w", targetDate, err)
	}
	report.Users = len(users)

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(concurrency)

	for _, userID := range users {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome, err := p.Run(ctx, userID, targetDate)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed++
				report.FailedUsers = append(report.FailedUsers, userID)
				p.logger.Warn("daily summary run failed in batch",
					zap.String("user_id", userID),
					zap.String("date", targetDate),
					zap.Error(err))
			case outcome == OutcomeUpdated:
				report.Updated++
			default:
				report.NoData++
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.FailedUsers)

	p.logger.Info("daily summary batch finished",
		zap.String("date", targetDate),
		zap.Int("users", report.Users),
		zap.Int("updated", report.Updated),
		zap.Int("no_data", report.NoData),
		zap.Int("failed", report.Failed))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
