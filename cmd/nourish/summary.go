// ABOUTME: CLI commands for the daily summary, calorie target, scoring and score history.
// ABOUTME: The summary command also persists the day's lifestyle point.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/lifestyle"
	"github.com/spf13/cobra"
)

var historyLimit int

var summaryCmd = &cobra.Command{
	Use:     "summary [date]",
	Aliases: []string{"sum", "today"},
	Short:   "Show the daily summary",
	Long: `Show intake against target, burned calories and the lifestyle score for a day.

The lifestyle score (0-100) blends five signals:

  burn            calories burned against a 400 kcal goal      (28%)
  sleep           hours slept, ideal 7.5                        (25%)
  meal interval   average hours between meals, ideal 3.5        (18%)
  calorie ratio   intake divided by target, ideal 1.0           (20%)
  heart rate      average bpm, ideal 64                         (9%)

EXAMPLES:

  nourish summary              # Today
  nourish summary 2025-06-01   # A specific day`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := svc.ParseDay(dayArg(args))
		if err != nil {
			return err
		}
		sum, err := svc.DailySummary(day)
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		fmt.Fprintln(out, bold.Sprintf("Summary for %s", sum.Date))
		fmt.Fprintln(out)

		fmt.Fprintf(out, "  %s %.0f kcal (%d meals)\n", faint.Sprint(padRight("consumed", 12)), sum.Consumed, len(sum.Meals))
		fmt.Fprintf(out, "  %s %.0f kcal (%s)\n", faint.Sprint(padRight("target", 12)), sum.Target.Calories, sum.Target.Method)
		if sum.Excess > 0 {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight("over by", 12)), color.RedString("%.0f kcal", sum.Excess))
		} else {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint(padRight("remaining", 12)), color.GreenString("%.0f kcal", sum.Remaining))
		}
		fmt.Fprintf(out, "  %s P %.0fg  C %.0fg  F %.0fg\n", faint.Sprint(padRight("macros", 12)), sum.ProteinG, sum.CarbsG, sum.FatG)
		fmt.Fprintf(out, "  %s %.0f kcal\n", faint.Sprint(padRight("burned", 12)), sum.ActivityBurned)
		if sum.AvgMealIntervalHours != nil {
			fmt.Fprintf(out, "  %s %.1f h\n", faint.Sprint(padRight("meal gap", 12)), *sum.AvgMealIntervalHours)
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Lifestyle score: %s\n", bold.Sprintf("%.2f", sum.Lifestyle.Total))
		printBreakdown(out, sum.Lifestyle)
		return nil
	},
}

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Show the daily calorie target",
	Long: `Show the daily calorie target for your profile.

The target comes from, in order: an explicit profile target, the trained
model (when its artifact exists), or the Mifflin-St Jeor formula clamped to
1000-4500 kcal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := svc.EstimateTarget()
		if err != nil {
			return fmt.Errorf("failed to estimate target: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprintf("%.0f kcal", t.Calories), faint.Sprintf("(%s)", t.Method))
		if t.BMR > 0 {
			fmt.Fprintf(out, "  %s %.0f\n", faint.Sprint(padRight("bmr", 12)), t.BMR)
			fmt.Fprintf(out, "  %s %.3f\n", faint.Sprint(padRight("multiplier", 12)), t.Multiplier)
		}
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score ad hoc lifestyle signals",
	Long: `Compute a lifestyle score from signals given on the command line.

Missing signals take their neutral defaults.

Examples:
  nourish score --burned 400 --sleep 7.5 --interval 3.5 --intake 2000 --target 2000 --bpm 64
  nourish score --sleep 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b := svc.Score(lifestyle.Signals{
			CaloriesBurned:    optionalFloat(cmd, "burned"),
			SleepHours:        optionalFloat(cmd, "sleep"),
			MealIntervalHours: optionalFloat(cmd, "interval"),
			CaloriesIntake:    optionalFloat(cmd, "intake"),
			TargetCalories:    optionalFloat(cmd, "target"),
			AvgHeartRate:      optionalFloat(cmd, "bpm"),
		})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Lifestyle score: %s\n", color.New(color.Bold).Sprintf("%.2f", b.Total))
		printBreakdown(out, b)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored lifestyle points",
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := svc.Repository().ListLifestylePoints(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list lifestyle points: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(points) == 0 {
			fmt.Fprintln(out, "No lifestyle points yet.")
			return nil
		}
		for _, p := range points {
			fmt.Fprintf(out, "%s %6.2f %s\n", p.Date, p.Points, faint.Sprint(p.Reason))
		}
		return nil
	},
}

func printBreakdown(w io.Writer, b lifestyle.Breakdown) {
	rows := []struct {
		name  string
		value float64
	}{
		{"burn", b.Burn},
		{"sleep", b.Sleep},
		{"meal gap", b.MealInterval},
		{"cal ratio", b.CalorieRatio},
		{"heart rate", b.HeartRate},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %.2f\n", faint.Sprint(padRight(r.name, 12)), r.value)
	}
}

func init() {
	scoreCmd.Flags().Float64("burned", 0, "calories burned")
	scoreCmd.Flags().Float64("sleep", 0, "hours slept")
	scoreCmd.Flags().Float64("interval", 0, "average hours between meals")
	scoreCmd.Flags().Float64("intake", 0, "calories consumed")
	scoreCmd.Flags().Float64("target", 0, "calorie target")
	scoreCmd.Flags().Float64("bpm", 0, "average heart rate")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 14, "max number of days")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
}
