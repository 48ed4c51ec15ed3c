package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/moodlog/pkg/summaries"
)

var (
	summaryUserFlag string
	summaryDateFlag string
)

var summariesCmd = &cobra.Command{
	Use:     "summaries",
	Aliases: []string{"summary"},
	Short:   "Compute and read daily mood summaries",
}

var runSummaryCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the daily summary for a user, or for every user with --all",
	Long: `Aggregate a day's check-ins into a mood score and band, generate insights
(AI when ai.api_key is configured, fallback otherwise) and store the summary.
Re-running for the same user and day replaces the stored summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if !cmd.Flags().Changed("concurrency") {
			concurrency = cfg.Pipeline.Concurrency
		}

		if !all && summaryUserFlag == "" {
			return errors.New("either --user or --all is required")
		}

		date := summaryDateFlag
		if date == "" {
			date = todayUTC()
		}
		if err := summaries.ValidateDate(date); err != nil {
			return err
		}

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		p, err := newPipeline(dbConn, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if all {
			report, err := p.RunAll(cmd.Context(), date, concurrency)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Summaries for %s: %d user(s), %d updated, %d without data, %d failed\n",
				report.Date, report.Users, report.Updated, report.NoData, report.Failed)
			if report.Failed > 0 {
				return fmt.Errorf("daily summary failed for: %s", orNone(report.FailedUsers))
			}
			return nil
		}

		if !p.RunDailySummary(cmd.Context(), summaryUserFlag, date) {
			fmt.Fprintf(out, "No summary produced for %s on %s (no check-ins, or the run failed; see logs).\n", summaryUserFlag, date)
			return nil
		}

		s, err := summaries.GetSummary(cmd.Context(), dbConn, summaryUserFlag, date)
		if err != nil {
			return fmt.Errorf("failed to read back daily summary: %w", err)
		}
		printSummary(out, s)
		return nil
	},
}

var getSummaryCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the stored daily summary for a user and day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := summaryDateFlag
		if date == "" {
			date = todayUTC()
		}

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		s, err := summaries.GetSummary(cmd.Context(), dbConn, summaryUserFlag, date)
		if errors.Is(err, summaries.ErrSummaryNotFound) {
			return fmt.Errorf("no daily summary for %s on %s", summaryUserFlag, date)
		}
		if err != nil {
			return fmt.Errorf("failed to get daily summary: %w", err)
		}

		printSummary(cmd.OutOrStdout(), s)
		return nil
	},
}

var listSummariesCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's daily summaries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		list, err := summaries.ListSummaries(cmd.Context(), dbConn, summaryUserFlag, from, to)
		if err != nil {
			return fmt.Errorf("failed to list daily summaries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintf(out, "No daily summaries for %s.\n", summaryUserFlag)
			return nil
		}

		fmt.Fprintf(out, "%-10s  %-8s  %-13s  %5s  %-11s  %7s  %s\n", "DATE", "STATE", "BAND", "SCORE", "COLOR", "ENTRIES", "SOURCE")
		for _, s := range list {
			fmt.Fprintf(out, "%-10s  %-8s  %-13s  %5d  %-11s  %7d  %s\n",
				s.SummaryDate, s.EmotionalState, s.Band, s.EmotionalScore, s.ColorCode, s.TotalEntries, s.InsightSource)
		}
		return nil
	},
}

func initSummariesCmd() {
	runSummaryCmd.Flags().StringVar(&summaryUserFlag, "user", "", "User to summarize")
	runSummaryCmd.Flags().StringVar(&summaryDateFlag, "date", "", "Day in YYYY-MM-DD (default: today, UTC)")
	runSummaryCmd.Flags().Bool("all", false, "Summarize every user with check-ins on the day")
	runSummaryCmd.Flags().Int("concurrency", 0, "Parallel runs with --all (default: pipeline.concurrency)")
	runSummaryCmd.MarkFlagsMutuallyExclusive("user", "all")

	getSummaryCmd.Flags().StringVar(&summaryUserFlag, "user", "", "User whose summary to show")
	getSummaryCmd.Flags().StringVar(&summaryDateFlag, "date", "", "Day in YYYY-MM-DD (default: today, UTC)")
	getSummaryCmd.MarkFlagRequired("user")

	listSummariesCmd.Flags().StringVar(&summaryUserFlag, "user", "", "User whose summaries to list")
	listSummariesCmd.Flags().String("from", "", "Earliest day (YYYY-MM-DD), inclusive")
	listSummariesCmd.Flags().String("to", "", "Latest day (YYYY-MM-DD), inclusive")
	listSummariesCmd.MarkFlagRequired("user")

	summariesCmd.AddCommand(runSummaryCmd, getSummaryCmd, listSummariesCmd)
}

func printSummary(out io.Writer, s summaries.DailySummary) {
	fmt.Fprintln(out, "Daily Summary:")
	fmt.Fprintf(out, "User:        %s\n", s.UserID)
	fmt.Fprintf(out, "Date:        %s\n", s.SummaryDate)
	fmt.Fprintf(out, "State:       %s (%s)\n", s.EmotionalState, s.Band)
	fmt.Fprintf(out, "Score:       %d\n", s.EmotionalScore)
	fmt.Fprintf(out, "Color:       %s\n", s.ColorCode)
	fmt.Fprintf(out, "Entries:     %d\n", s.TotalEntries)
	fmt.Fprintf(out, "Insights by: %s\n", s.InsightSource)
	fmt.Fprintf(out, "Updated At:  %s\n", formatTimestamp(s.UpdatedAt))

	fmt.Fprintln(out, "\nAnalysis:")
	fmt.Fprintln(out, "------------------------------------------------------------")
	fmt.Fprintln(out, s.AIAnalysis)
	fmt.Fprintln(out, "------------------------------------------------------------")

	printList(out, "Insights", s.AIInsights)
	printList(out, "Recommendations", s.AIRecommendations)
	printList(out, "Daily tips", s.AIDailyTips)
	printList(out, "Warnings", s.AIWarningFlags)

	fmt.Fprintf(out, "\n%s\n", s.AIMotivationalMessage)
}

func printList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
