// ABOUTME: CLI commands for viewing and editing the user profile.
// ABOUTME: Only flags the user passes are changed; everything else is kept.
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Show or edit your profile",
	Long: `Show or edit the profile used to estimate your daily calorie target.

FIELDS:

  --sex          male, female or other
  --birth-date   YYYY-MM-DD (age defaults to 30 when unset)
  --height       centimeters
  --weight       kilograms
  --activity     sedentary, light, moderate, active, very_active
  --multiplier   explicit activity multiplier, overrides --activity
  --goal         lose, maintain or gain
  --target       explicit daily calorie target (0 clears it)

EXAMPLES:

  nourish profile                                   # Show profile and target
  nourish profile set --sex male --height 180 --weight 80
  nourish profile set --goal lose
  nourish profile set --target 1800`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.Profile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		target, err := svc.EstimateTarget()
		if err != nil {
			return fmt.Errorf("failed to estimate target: %w", err)
		}
		printProfile(cmd.OutOrStdout(), p)
		fmt.Fprintf(cmd.OutOrStdout(), "\nDaily target: %s (%s)\n",
			color.New(color.Bold).Sprintf("%.0f kcal", target.Calories), target.Method)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.Profile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if err := applyProfileFlags(cmd, p); err != nil {
			return err
		}
		if err := svc.SaveProfile(p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Profile saved"))
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

func applyProfileFlags(cmd *cobra.Command, p *models.UserProfile) error {
	flags := cmd.Flags()

	if flags.Changed("sex") {
		v, _ := flags.GetString("sex")
		v = strings.ToLower(v)
		if !models.IsValidSex(v) {
			return fmt.Errorf("invalid sex: %s (use male, female or other)", v)
		}
		p.Sex = models.Sex(v)
	}
	if flags.Changed("birth-date") {
		v, _ := flags.GetString("birth-date")
		t, err := time.ParseInLocation(models.DateLayout, v, time.Local)
		if err != nil {
			return fmt.Errorf("invalid birth date: %s (use YYYY-MM-DD)", v)
		}
		p.BirthDate = &t
	}
	if v := optionalFloat(cmd, "height"); v != nil {
		p.HeightCM = v
	}
	if v := optionalFloat(cmd, "weight"); v != nil {
		p.WeightKG = v
	}
	if flags.Changed("activity") {
		v, _ := flags.GetString("activity")
		if !models.IsValidActivityLevel(v) {
			return fmt.Errorf("invalid activity level: %s", v)
		}
		p.ActivityLevel = models.ActivityLevel(v)
	}
	if v := optionalFloat(cmd, "multiplier"); v != nil {
		if *v <= 0 {
			p.ActivityMultiplier = nil
		} else {
			p.ActivityMultiplier = v
		}
	}
	if flags.Changed("goal") {
		v, _ := flags.GetString("goal")
		if !models.IsValidGoal(v) {
			return fmt.Errorf("invalid goal: %s (use lose, maintain or gain)", v)
		}
		p.Goal = models.Goal(v)
	}
	if v := optionalFloat(cmd, "target"); v != nil {
		if *v == 0 {
			p.TargetCalories = nil
		} else {
			p.TargetCalories = v
		}
	}
	return nil
}

func printProfile(w io.Writer, p *models.UserProfile) {
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", faint.Sprint(padRight(label, 12)), value)
	}
	opt := func(v *float64, unit string) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f %s", *v, unit)
	}
	str := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	birth := "-"
	if p.BirthDate != nil {
		birth = p.BirthDate.Format(models.DateLayout)
	}

	row("sex", str(string(p.Sex)))
	row("birth date", birth)
	row("height", opt(p.HeightCM, "cm"))
	row("weight", opt(p.WeightKG, "kg"))
	row("activity", str(string(p.ActivityLevel)))
	row("multiplier", opt(p.ActivityMultiplier, "x"))
	row("goal", str(string(p.Goal)))
	row("target", opt(p.TargetCalories, "kcal"))
}

func init() {
	profileSetCmd.Flags().String("sex", "", "male, female or other")
	profileSetCmd.Flags().String("birth-date", "", "birth date (YYYY-MM-DD)")
	profileSetCmd.Flags().Float64("height", 0, "height in cm")
	profileSetCmd.Flags().Float64("weight", 0, "weight in kg")
	profileSetCmd.Flags().String("activity", "", "activity level")
	profileSetCmd.Flags().Float64("multiplier", 0, "explicit activity multiplier (0 clears)")
	profileSetCmd.Flags().String("goal", "", "lose, maintain or gain")
	profileSetCmd.Flags().Float64("target", 0, "explicit daily calorie target (0 clears)")

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
