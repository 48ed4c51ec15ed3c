package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/pipeline"
	"github.com/unowned-ai/moodlog/pkg/summaries"
)

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Moodlog MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_moodlog"), nil
}

// LogCheckInResult is returned by log_checkin.
type LogCheckInResult struct {
	CheckIn checkins.CheckIn `json:"checkin"`
	// Set only when summarize was requested.
	SummaryDate    string `json:"summary_date,omitempty"`
	SummaryUpdated *bool  `json:"summary_updated,omitempty"`
}

// RegisterLogCheckInTool registers the log_checkin tool.
func RegisterLogCheckInTool(s *server.MCPServer, db *sql.DB, p *pipeline.Pipeline) {
	tool := mcp.NewTool("log_checkin",
		mcp.WithDescription("Records an emotion check-in for a user. With summarize=true the user's daily summary for the check-in's day is refreshed afterwards."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User the check-in belongs to.")),
		mcp.WithString("feelings", mcp.Required(), mcp.Description("Emotion label, e.g. Happy, Sad, Anxious.")),
		mcp.WithNumber("emotion_intensity", mcp.Required(), mcp.Min(0), mcp.Max(100), mcp.Description("Intensity from 0 to 100.")),
		mcp.WithString("notes", mcp.Description("Optional free-text notes.")),
		mcp.WithArray("activities", mcp.Items(map[string]any{"type": "string"}), mcp.Description("Optional activities, e.g. [\"exercise\", \"work\"].")),
		mcp.WithBoolean("summarize", mcp.DefaultBool(false), mcp.Description("Refresh today's daily summary after recording.")),
	)
	s.AddTool(tool, logCheckInHandler(db, p))
}

func logCheckInHandler(db *sql.DB, p *pipeline.Pipeline) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}
		feelings, errResult := requireNonEmpty(request, "feelings")
		if errResult != nil {
			return errResult, nil
		}
		intensity, err := request.RequireInt("emotion_intensity")
		if err != nil {
			return mcp.NewToolResultError("'emotion_intensity' parameter is required and must be a number."), nil
		}

		c, err := checkins.CreateCheckIn(ctx, db, checkins.NewCheckIn{
			UserID:           userID,
			Feelings:         feelings,
			EmotionIntensity: intensity,
			Notes:            request.GetString("notes", ""),
			Activities:       stringList(request, "activities"),
			CreatedAt:        now(),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to record check-in for '%s': %v", userID, err)), nil
		}

		result := LogCheckInResult{CheckIn: c}
		if request.GetBool("summarize", false) {
			date := c.CreatedAt.UTC().Format(summaries.DateLayout)
			updated := p.RunDailySummary(ctx, userID, date)
			result.SummaryDate = date
			result.SummaryUpdated = &updated
		}
		return jsonResult(result, "check-in"), nil
	}
}

// RegisterListCheckInsTool registers the list_checkins tool.
func RegisterListCheckInsTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("list_checkins",
		mcp.WithDescription("Lists a user's check-ins for one UTC day, newest first."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User whose check-ins to list.")),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD. Defaults to today (UTC).")),
	)
	s.AddTool(tool, listCheckInsHandler(db))
}

func listCheckInsHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}
		date := request.GetString("date", todayUTC())

		start, end, err := pipeline.DayWindow(date)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid 'date': %v", err)), nil
		}

		list, err := checkins.ListForDay(ctx, db, userID, start, end)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list check-ins: %v", err)), nil
		}
		if len(list) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(list, "check-ins"), nil
	}
}

// RegisterGetCheckInTool registers the get_checkin tool.
func RegisterGetCheckInTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("get_checkin",
		mcp.WithDescription("Retrieves a single check-in, including its activities, by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Check-in UUID.")),
	)
	s.AddTool(tool, getCheckInHandler(db))
}

func getCheckInHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, errResult := requireNonEmpty(request, "id")
		if errResult != nil {
			return errResult, nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid check-in id '%s': %v", raw, err)), nil
		}

		c, err := checkins.GetCheckIn(ctx, db, id)
		if errors.Is(err, checkins.ErrCheckInNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Check-in '%s' not found.", id)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving check-in '%s': %v", id, err)), nil
		}
		return jsonResult(c, "check-in"), nil
	}
}

// RegisterSearchCheckInsTool registers the search_checkins tool.
func RegisterSearchCheckInsTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("search_checkins",
		mcp.WithDescription("Finds a user's check-ins tagged with any of the given activities, best matches first."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User whose check-ins to search.")),
		mcp.WithArray("activities", mcp.Required(), mcp.Items(map[string]any{"type": "string"}), mcp.Description("Activities to match.")),
	)
	s.AddTool(tool, searchCheckInsHandler(db))
}

func searchCheckInsHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}
		activities := stringList(request, "activities")
		if len(activities) == 0 {
			return mcp.NewToolResultError("'activities' parameter is required and must be non-empty."), nil
		}

		matches, err := checkins.SearchCheckInsByActivity(ctx, db, userID, activities)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search check-ins by activity: %v", err)), nil
		}
		return jsonResult(matches, "search results"), nil
	}
}

// RegisterListActivitiesTool registers the list_activities tool.
func RegisterListActivitiesTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("list_activities",
		mcp.WithDescription("Lists every activity ever attached to a check-in."),
	)
	s.AddTool(tool, listActivitiesHandler(db))
}

func listActivitiesHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		activities, err := checkins.ListActivities(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list activities: %v", err)), nil
		}
		return jsonResult(activities, "activities"), nil
	}
}

// RunDailySummaryResult is returned by run_daily_summary for a single user.
type RunDailySummaryResult struct {
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
	Updated bool   `json:"updated"`
}

// RegisterRunDailySummaryTool registers the run_daily_summary tool.
func RegisterRunDailySummaryTool(s *server.MCPServer, p *pipeline.Pipeline) {
	tool := mcp.NewTool("run_daily_summary",
		mcp.WithDescription("Recomputes the daily emotion summary for one user, or for every user with check-ins that day when all=true."),
		mcp.WithString("user_id", mcp.Description("User to summarize. Required unless all=true.")),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD. Defaults to today (UTC).")),
		mcp.WithBoolean("all", mcp.DefaultBool(false), mcp.Description("Summarize every user with check-ins on the date.")),
		mcp.WithNumber("concurrency", mcp.Min(1), mcp.Description("Parallel runs when all=true.")),
	)
	s.AddTool(tool, runDailySummaryHandler(p))
}

func runDailySummaryHandler(p *pipeline.Pipeline) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := request.GetString("date", todayUTC())

		if request.GetBool("all", false) {
			report, err := p.RunAll(ctx, date, request.GetInt("concurrency", pipeline.DefaultConcurrency))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Daily summary batch for %s failed: %v", date, err)), nil
			}
			return jsonResult(report, "batch report"), nil
		}

		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}
		if err := summaries.ValidateDate(date); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid 'date': %v", err)), nil
		}

		updated := p.RunDailySummary(ctx, userID, date)
		return jsonResult(RunDailySummaryResult{UserID: userID, Date: date, Updated: updated}, "run result"), nil
	}
}

// RegisterGetDailySummaryTool registers the get_daily_summary tool.
func RegisterGetDailySummaryTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("get_daily_summary",
		mcp.WithDescription("Retrieves the stored daily summary for a user and date."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User whose summary to fetch.")),
		mcp.WithString("date", mcp.Description("Day in YYYY-MM-DD. Defaults to today (UTC).")),
	)
	s.AddTool(tool, getDailySummaryHandler(db))
}

func getDailySummaryHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}
		date := request.GetString("date", todayUTC())
		if err := summaries.ValidateDate(date); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid 'date': %v", err)), nil
		}

		sum, err := summaries.GetSummary(ctx, db, userID, date)
		if errors.Is(err, summaries.ErrSummaryNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No daily summary for '%s' on %s.", userID, date)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving daily summary: %v", err)), nil
		}
		return jsonResult(sum, "daily summary"), nil
	}
}

// RegisterListDailySummariesTool registers the list_daily_summaries tool.
func RegisterListDailySummariesTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("list_daily_summaries",
		mcp.WithDescription("Lists a user's daily summaries, newest first, optionally bounded by an inclusive date range."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User whose summaries to list.")),
		mcp.WithString("from", mcp.Description("Earliest date (YYYY-MM-DD), inclusive.")),
		mcp.WithString("to", mcp.Description("Latest date (YYYY-MM-DD), inclusive.")),
	)
	s.AddTool(tool, listDailySummariesHandler(db))
}

func listDailySummariesHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, errResult := requireNonEmpty(request, "user_id")
		if errResult != nil {
			return errResult, nil
		}

		list, err := summaries.ListSummaries(ctx, db, userID, request.GetString("from", ""), request.GetString("to", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list daily summaries: %v", err)), nil
		}
		return jsonResult(list, "daily summaries"), nil
	}
}
