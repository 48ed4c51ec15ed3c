package summaries

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the format of SummaryDate.
const DateLayout = "2006-01-02"

// DailySummary is the single aggregate row kept per (UserID, SummaryDate).
type DailySummary struct {
	ID                    uuid.UUID `json:"id"`
	UserID                string    `json:"user_id"`
	SummaryDate           string    `json:"summary_date"`
	EmotionalState        string    `json:"emotional_state"`
	Band                  string    `json:"band"`
	EmotionalScore        int       `json:"emotional_score"`
	ColorCode             string    `json:"color_code"`
	TotalEntries          int       `json:"total_entries"`
	AIAnalysis            string    `json:"ai_analysis"`
	AIInsights            []string  `json:"ai_insights"`
	AIRecommendations     []string  `json:"ai_recommendations"`
	AIDailyTips           []string  `json:"ai_daily_tips"`
	AIMotivationalMessage string    `json:"ai_motivational_message"`
	AIWarningFlags        []string  `json:"ai_warning_flags"`
	InsightSource         string    `json:"insight_source"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
