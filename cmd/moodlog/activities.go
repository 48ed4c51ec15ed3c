package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/moodlog/pkg/checkins"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Browse activities attached to check-ins",
}

var listActivitiesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all activities, or those of one check-in with --checkin",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkInIDStr, _ := cmd.Flags().GetString("checkin")

		dbConn, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB(dbConn)

		var list []checkins.Activity
		if checkInIDStr != "" {
			id, err := uuid.Parse(checkInIDStr)
			if err != nil {
				return fmt.Errorf("invalid check-in ID: %w", err)
			}
			list, err = checkins.ListActivitiesForCheckIn(cmd.Context(), dbConn, id)
			if errors.Is(err, checkins.ErrCheckInNotFound) {
				return fmt.Errorf("check-in not found: %s", checkInIDStr)
			}
			if err != nil {
				return fmt.Errorf("failed to list activities for check-in: %w", err)
			}
		} else {
			list, err = checkins.ListActivities(cmd.Context(), dbConn)
			if err != nil {
				return fmt.Errorf("failed to list activities: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No activities found.")
			return nil
		}
		for _, a := range list {
			fmt.Fprintf(out, "%-24s  first used %s\n", a.Activity, formatTimestamp(a.CreatedAt))
		}
		return nil
	},
}

func initActivitiesCmd() {
	listActivitiesCmd.Flags().String("checkin", "", "Only list the activities of this check-in ID")
	activitiesCmd.AddCommand(listActivitiesCmd)
}
