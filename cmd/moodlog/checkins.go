package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/pipeline"
	"github.com/unowned-ai/moodlog/pkg/summaries"
)

var (
	userFlag       string
	dateFlag       string
	activitiesFlag string
)

var checkInsCmd = &cobra.Command{
	Use:     "checkins",
	Aliases: []string{"checkin"},
	Short:   "Record and browse emotion check-ins",
}

var createCheckInCmd = &cobra.Command{
	Use:   "create",
	Short: "Record a new check-in",
	Long: `Record an emotion check-in with a feelings label, an intensity from 0 to 100,
optional notes and optional comma-separated activities.

With --summarize the user's daily summary for today is refreshed right after the write.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		feelings, _ := cmd.Flags().GetString("feelings")
		intensity, _ := cmd.Flags().GetInt("intensity")
		notes, _ := cmd.Flags().GetString("notes")
		summarize, _ := cmd.Flags().GetBool("summarize")

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		c, err := checkins.CreateCheckIn(cmd.Context(), dbConn, checkins.NewCheckIn{
			UserID:           userFlag,
			Feelings:         feelings,
			EmotionIntensity: intensity,
			Notes:            notes,
			Activities:       splitList(activitiesFlag),
		})
		if err != nil {
			return fmt.Errorf("failed to create check-in: %w", err)
		}
		printCheckIn(cmd.OutOrStdout(), c)

		if !summarize {
			return nil
		}

		p, err := newPipeline(dbConn, nil)
		if err != nil {
			return err
		}
		date := c.CreatedAt.UTC().Format(summaries.DateLayout)
		summarizeAfterCheckIn(cmd.Context(), cmd.OutOrStdout(), p, c.UserID, date)
		return nil
	},
}

type dailySummarizer interface {
	RunDailySummary(ctx context.Context, userID, date string) bool
}

// summarizeAfterCheckIn refreshes the day's summary once the check-in is
// stored. A failed run is reported but never undoes the write.
func summarizeAfterCheckIn(ctx context.Context, out io.Writer, s dailySummarizer, userID, date string) bool {
	if !s.RunDailySummary(ctx, userID, date) {
		fmt.Fprintf(out, "\nCheck-in recorded; no daily summary produced for %s (see logs).\n", date)
		return false
	}
	fmt.Fprintf(out, "\nDaily summary for %s updated.\n", date)
	return true
}

var getCheckInCmd = &cobra.Command{
	Use:   "get [checkin-id]",
	Short: "Get a check-in by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid check-in ID: %w", err)
		}

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		c, err := checkins.GetCheckIn(cmd.Context(), dbConn, id)
		if errors.Is(err, checkins.ErrCheckInNotFound) {
			return fmt.Errorf("check-in not found: %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get check-in: %w", err)
		}

		printCheckIn(cmd.OutOrStdout(), c)
		return nil
	},
}

var listCheckInsCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's check-ins for one day",
	Long:  `List a user's check-ins for one UTC day (default today), newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := dateFlag
		if date == "" {
			date = todayUTC()
		}
		start, end, err := pipeline.DayWindow(date)
		if err != nil {
			return err
		}

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		list, err := checkins.ListForDay(cmd.Context(), dbConn, userFlag, start, end)
		if err != nil {
			return fmt.Errorf("failed to list check-ins: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintf(out, "No check-ins for %s on %s.\n", userFlag, date)
			return nil
		}

		fmt.Fprintf(out, "Check-ins for %s on %s (%d):\n", userFlag, date, len(list))
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, c := range list {
			fmt.Fprintf(out, "%s  %s  %-12s %3d/100  %s\n",
				c.ID, formatTimestamp(c.CreatedAt), c.Feelings, c.EmotionIntensity, orNone(c.Activities))
		}
		return nil
	},
}

var searchCheckInsCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a user's check-ins by activity",
	Long:  `Find check-ins carrying any of the given activities, ranked by how many match.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		activities := splitList(activitiesFlag)
		if len(activities) == 0 {
			return errors.New("at least one activity is required")
		}

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		matches, err := checkins.SearchCheckInsByActivity(cmd.Context(), dbConn, userFlag, activities)
		if err != nil {
			return fmt.Errorf("failed to search check-ins: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintln(out, "No matching check-ins found.")
			return nil
		}

		fmt.Fprintf(out, "Found %d check-in(s):\n", len(matches))
		fmt.Fprintln(out, "------------------------------------------------------------")
		for _, m := range matches {
			fmt.Fprintf(out, "%s  %s  %-12s %3d/100  matches: %d  activities: %s\n",
				m.ID, formatTimestamp(m.CreatedAt), m.Feelings, m.EmotionIntensity, m.MatchCount, orNone(m.Activities))
		}
		return nil
	},
}

func initCheckInsCmd() {
	createCheckInCmd.Flags().StringVar(&userFlag, "user", "", "User the check-in belongs to")
	createCheckInCmd.Flags().String("feelings", "", "Feelings label (e.g. Happy, Sad, Anxious)")
	createCheckInCmd.Flags().Int("intensity", 50, "Emotion intensity from 0 to 100")
	createCheckInCmd.Flags().String("notes", "", "Optional notes")
	createCheckInCmd.Flags().StringVar(&activitiesFlag, "activities", "", "Comma-separated list of activities")
	createCheckInCmd.Flags().Bool("summarize", false, "Refresh today's daily summary after recording")
	createCheckInCmd.MarkFlagRequired("user")
	createCheckInCmd.MarkFlagRequired("feelings")

	listCheckInsCmd.Flags().StringVar(&userFlag, "user", "", "User whose check-ins to list")
	listCheckInsCmd.Flags().StringVar(&dateFlag, "date", "", "Day in YYYY-MM-DD (default: today, UTC)")
	listCheckInsCmd.MarkFlagRequired("user")

	searchCheckInsCmd.Flags().StringVar(&userFlag, "user", "", "User whose check-ins to search")
	searchCheckInsCmd.Flags().StringVar(&activitiesFlag, "activities", "", "Comma-separated list of activities to match")
	searchCheckInsCmd.MarkFlagRequired("user")
	searchCheckInsCmd.MarkFlagRequired("activities")

	checkInsCmd.AddCommand(createCheckInCmd, getCheckInCmd, listCheckInsCmd, searchCheckInsCmd)
}

func printCheckIn(out io.Writer, c checkins.CheckIn) {
	fmt.Fprintln(out, "Check-in Details:")
	fmt.Fprintf(out, "ID:          %s\n", c.ID)
	fmt.Fprintf(out, "User:        %s\n", c.UserID)
	fmt.Fprintf(out, "Feelings:    %s\n", c.Feelings)
	fmt.Fprintf(out, "Intensity:   %d/100\n", c.EmotionIntensity)
	fmt.Fprintf(out, "Activities:  %s\n", orNone(c.Activities))
	fmt.Fprintf(out, "Created At:  %s\n", formatTimestamp(c.CreatedAt))
	if c.Notes != "" {
		fmt.Fprintln(out, "\nNotes:")
		fmt.Fprintln(out, "------------------------------------------------------------")
		fmt.Fprintln(out, c.Notes)
		fmt.Fprintln(out, "------------------------------------------------------------")
	}
}
