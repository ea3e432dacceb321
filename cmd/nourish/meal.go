// ABOUTME: CLI commands for the meal log and nutrition lookup.
// ABOUTME: Supports add, list, delete and flag subcommands plus a standalone lookup.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/flags"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	mealAt   string
	mealDate string
)

var mealCmd = &cobra.Command{
	Use:     "meal",
	Aliases: []string{"m"},
	Short:   "Log and review meals",
	Long: `Log meals and review what you ate.

Meal nutrition is looked up automatically through the nutrition chain
(CalorieNinjas, then Edamam, then the local table). When no source has an
answer, the --calories value is used instead.

Meals are flagged when the name is missing, calories are missing or zero,
or calories exceed 2000.

COMMANDS:

  add      Log a meal
  list     List meals for a day
  delete   Delete a meal by ID prefix
  flag     Check a name and calorie value against the flag rules`,
}

var mealAddCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Log a meal",
	Long: `Log a meal. The name is used as the lookup query.

Examples:
  nourish meal add "2 eggs and a slice of toast"
  nourish meal add "homemade curry" --calories 700
  nourish meal add "oatmeal" --at "2025-06-01 08:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := tracker.AddMealInput{
			Name:     strings.Join(args, " "),
			Calories: optionalFloat(cmd, "calories"),
		}
		if mealAt != "" {
			t, err := parseTime(mealAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", mealAt)
			}
			in.LoggedAt = t
		}

		meal, err := svc.AddMeal(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to add meal: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added %s", meal.Name))
		printMeal(out, meal)
		return nil
	},
}

var mealListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List meals for a day",
	Long: `List the meals logged on one day, oldest first.

OUTPUT FORMAT:

  Each line shows: ID  TIME  NAME  CALORIES  SOURCE  (FLAG)

EXAMPLES:

  nourish meal list                    # Today
  nourish meal list --date 2025-06-01  # A specific day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := svc.ParseDay(mealDate)
		if err != nil {
			return err
		}
		meals, err := svc.ListMeals(day)
		if err != nil {
			return fmt.Errorf("failed to list meals: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(meals) == 0 {
			fmt.Fprintln(out, "No meals found.")
			return nil
		}

		var total float64
		for _, m := range meals {
			total += m.Calories
			printMealRow(out, m)
		}
		fmt.Fprintf(out, "%s %.0f kcal\n", faint.Sprint(padRight("total", 33)), total)
		return nil
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a meal",
	Long: `Delete a meal by its ID or ID prefix.

The ID prefix is shown in the first column of 'nourish meal list' output.
The day's lifestyle score is recomputed afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meal, err := svc.DeleteMeal(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete meal %s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.YellowString("✗ Deleted %s", meal.Name))
		printMeal(out, meal)
		return nil
	},
}

var mealFlagCmd = &cobra.Command{
	Use:   "flag <name>",
	Short: "Check a meal against the flag rules",
	Long: `Check a name and calorie value against the flag rules without logging.

Examples:
  nourish meal flag "pizza" --calories 2400
  nourish meal flag "" --calories 300`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		calories, _ := cmd.Flags().GetFloat64("calories")
		f := flags.Check(name, calories)

		out := cmd.OutOrStdout()
		if f.Flagged {
			fmt.Fprintln(out, color.RedString("⚑ Flagged: %s", f.Reason))
		} else {
			fmt.Fprintln(out, color.GreenString("✓ Not flagged"))
		}
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <food>",
	Short: "Look up nutrition for a food",
	Long: `Resolve a free-text food description through the nutrition chain.

Examples:
  nourish lookup "1 cup rice"
  nourish lookup "chicken breast 200g"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		res := svc.LookupNutrition(cmd.Context(), query)

		out := cmd.OutOrStdout()
		if res == nil {
			fmt.Fprintln(out, color.YellowString("No nutrition found for %q", query))
			return nil
		}
		fmt.Fprintf(out, "%s  %.0f kcal  P %.1fg  C %.1fg  F %.1fg  %s\n",
			query, res.Calories, res.ProteinG, res.CarbsG, res.FatG,
			faint.Sprintf("(%s)", res.Source))
		return nil
	},
}

func printMeal(w io.Writer, m *models.Meal) {
	fmt.Fprintf(w, "  %s %.0f kcal  P %.1fg  C %.1fg  F %.1fg  %s\n",
		faint.Sprint(shortID(m.ID)),
		m.Calories, m.ProteinG, m.CarbsG, m.FatG,
		faint.Sprintf("(%s)", m.Source))
	if m.Flagged {
		fmt.Fprintln(w, color.RedString("  ⚑ %s", m.FlagReason))
	}
}

func printMealRow(w io.Writer, m *models.Meal) {
	flag := ""
	if m.Flagged {
		flag = color.RedString(" ⚑ %s", m.FlagReason)
	}
	fmt.Fprintf(w, "%s %s %s %6.0f kcal %s%s\n",
		faint.Sprint(shortID(m.ID)),
		faint.Sprint(m.LoggedAt.Format("15:04")),
		padRight(truncate(m.Name, 20), 20),
		m.Calories,
		faint.Sprint(m.Source),
		flag)
}

func init() {
	mealAddCmd.Flags().Float64P("calories", "c", 0, "calories to use when lookup finds nothing")
	mealAddCmd.Flags().StringVar(&mealAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	mealListCmd.Flags().StringVarP(&mealDate, "date", "d", "", "day to list (YYYY-MM-DD, default today)")
	mealFlagCmd.Flags().Float64P("calories", "c", 0, "calories to check")

	mealCmd.AddCommand(mealAddCmd)
	mealCmd.AddCommand(mealListCmd)
	mealCmd.AddCommand(mealDeleteCmd)
	mealCmd.AddCommand(mealFlagCmd)
	rootCmd.AddCommand(mealCmd)
	rootCmd.AddCommand(lookupCmd)
}
