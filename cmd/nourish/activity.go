// ABOUTME: CLI commands for exercise sessions and daily fitness signals.
// ABOUTME: Activities feed the burn signal; fitness days hold burned calories, heart rate and sleep.
package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/harperreed/nourish/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	activityDuration float64
	activityCalories float64
	activityNotes    string
	activityAt       string
	activityLimit    int
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"act"},
	Short:   "Log exercise sessions",
	Long: `Log exercise sessions.

Calories burned by activities add to the day's burn signal together with the
fitness day's own calories_burned value.

The activity type is freeform: run, lift, swim, cycle, yoga, walk, etc.`,
}

var activityAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Log an activity",
	Long: `Log an exercise session.

Examples:
  nourish activity add run --duration 45 --calories 420
  nourish activity add yoga --notes "Morning flow" --at "2025-06-01 07:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := models.NewActivity(args[0]).WithPerformedAt(svc.Now())
		if cmd.Flags().Changed("duration") {
			a.WithDuration(activityDuration)
		}
		if cmd.Flags().Changed("calories") {
			a.WithCaloriesBurned(activityCalories)
		}
		if activityNotes != "" {
			a.WithNotes(activityNotes)
		}
		if activityAt != "" {
			t, err := parseTime(activityAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", activityAt)
			}
			a.WithPerformedAt(t)
		}

		if err := svc.LogActivity(a); err != nil {
			return fmt.Errorf("failed to log activity: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Logged %s", a.ActivityType))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", faint.Sprint(shortID(a.ID)), activityDetail(a))
		return nil
	},
}

var activityListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		activities, err := svc.Repository().ListActivities(time.Time{}, time.Time{}, activityLimit)
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(activities) == 0 {
			fmt.Fprintln(out, "No activities found.")
			return nil
		}

		for _, a := range activities {
			notes := ""
			if a.Notes != nil && *a.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*a.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %s %s%s\n",
				faint.Sprint(shortID(a.ID)),
				faint.Sprint(a.PerformedAt.Format("2006-01-02 15:04")),
				padRight(a.ActivityType, 12),
				activityDetail(a),
				notes)
		}
		return nil
	},
}

var activityDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an activity",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := svc.DeleteActivity(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete activity %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted %s (%s)", a.ActivityType, shortID(a.ID)))
		return nil
	},
}

func activityDetail(a *models.Activity) string {
	s := ""
	if a.DurationMinutes != nil {
		s += fmt.Sprintf("%.0f min ", *a.DurationMinutes)
	}
	if a.CaloriesBurned != nil {
		s += fmt.Sprintf("%.0f kcal", *a.CaloriesBurned)
	}
	if s == "" {
		return "-"
	}
	return s
}

var fitnessCmd = &cobra.Command{
	Use:     "fitness",
	Aliases: []string{"fit"},
	Short:   "Record daily fitness signals",
	Long: `Record the wearable-style signals for one day.

Only the flags you pass are changed; other values for the day are kept.

Examples:
  nourish fitness set --burned 450 --bpm 64 --sleep 7.5
  nourish fitness set 2025-06-01 --sleep 6
  nourish fitness show 2025-06-01`,
}

var fitnessSetCmd = &cobra.Command{
	Use:   "set [date]",
	Short: "Update a day's fitness signals",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fd, err := svc.RecordFitness(tracker.FitnessUpdate{
			Date:           dayArg(args),
			CaloriesBurned: optionalFloat(cmd, "burned"),
			AvgBPM:         optionalFloat(cmd, "bpm"),
			SleepHours:     optionalFloat(cmd, "sleep"),
		})
		if err != nil {
			return fmt.Errorf("failed to record fitness: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Recorded fitness for %s", fd.Date))
		printFitness(cmd, fd)
		return nil
	},
}

var fitnessShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show a day's fitness signals",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := svc.ParseDay(dayArg(args))
		if err != nil {
			return err
		}
		key := day.Format(models.DateLayout)
		fd, err := svc.Repository().GetFitnessDay(key)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No fitness data for %s.\n", key)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load fitness day: %w", err)
		}
		printFitness(cmd, fd)
		return nil
	},
}

func printFitness(cmd *cobra.Command, fd *models.FitnessDay) {
	out := cmd.OutOrStdout()
	opt := func(v *float64, format string) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf(format, *v)
	}
	fmt.Fprintf(out, "  %s %.0f kcal\n", faint.Sprint(padRight("burned", 8)), fd.CaloriesBurned)
	fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight("bpm", 8)), opt(fd.AvgBPM, "%.0f"))
	fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight("sleep", 8)), opt(fd.SleepHours, "%.1f h"))
}

func init() {
	activityAddCmd.Flags().Float64Var(&activityDuration, "duration", 0, "duration in minutes")
	activityAddCmd.Flags().Float64Var(&activityCalories, "calories", 0, "calories burned")
	activityAddCmd.Flags().StringVar(&activityNotes, "notes", "", "notes")
	activityAddCmd.Flags().StringVar(&activityAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	activityListCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "max number of results")

	fitnessSetCmd.Flags().Float64("burned", 0, "calories burned for the day")
	fitnessSetCmd.Flags().Float64("bpm", 0, "average heart rate")
	fitnessSetCmd.Flags().Float64("sleep", 0, "hours slept")

	activityCmd.AddCommand(activityAddCmd)
	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityDeleteCmd)
	fitnessCmd.AddCommand(fitnessSetCmd)
	fitnessCmd.AddCommand(fitnessShowCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(fitnessCmd)
}
