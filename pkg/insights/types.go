package insights

// Source records which path produced a DailySummaryAI.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// DailySummaryAI is the natural-language part of a daily summary.
type DailySummaryAI struct {
	Analysis            string   `json:"analysis"`
	Insights            []string `json:"insights"`
	Recommendations     []string `json:"recommendations"`
	DailyTips           []string `json:"dailyTips"`
	MotivationalMessage string   `json:"motivationalMessage"`
	WarningFlags        []string `json:"warningFlags"`
	Source              Source   `json:"source"`
}
