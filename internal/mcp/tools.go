// ABOUTME: MCP tool implementations for nourish.
// ABOUTME: Exposes lookup, meal logging, flagging, fitness, targets and scoring.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nourish/internal/flags"
	"github.com/harperreed/nourish/internal/lifestyle"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/targets"
	"github.com/harperreed/nourish/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "lookup_nutrition",
		Description: "Look up calories and macros for a free-text food description",
	}, s.handleLookupNutrition)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal",
		Description: "Log a meal; nutrition is looked up, falling back to the given calories",
	}, s.handleAddMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List meals logged on a day (default today)",
	}, s.handleListMeals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal by ID or ID prefix",
	}, s.handleDeleteMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "flag_meal",
		Description: "Check a meal name and calorie count for anomalies without saving it",
	}, s.handleFlagMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_activity",
		Description: "Record an exercise session",
	}, s.handleLogActivity)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_fitness",
		Description: "Set calories burned, average heart rate or sleep hours for a day; omitted fields are kept",
	}, s.handleRecordFitness)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "estimate_target",
		Description: "Estimate the daily calorie target from the saved profile",
	}, s.handleEstimateTarget)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_summary",
		Description: "Summarize intake, target, burn and lifestyle score for a day (default today)",
	}, s.handleDailySummary)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "score_day",
		Description: "Compute a lifestyle score from ad hoc signals without saving anything",
	}, s.handleScoreDay)
}

// Tool input/output types

type lookupInput struct {
	Query string `json:"query" jsonschema:"Food description, e.g. '2 eggs and toast'"`
}

type lookupOutput struct {
	Found    bool    `json:"found"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	Source   string  `json:"source,omitempty"`
	Message  string  `json:"message"`
}

type addMealInput struct {
	Name     string   `json:"name" jsonschema:"Meal description, e.g. '1 apple'"`
	Calories *float64 `json:"calories,omitempty" jsonschema:"Calories to use when lookup finds nothing"`
	LoggedAt string   `json:"logged_at,omitempty" jsonschema:"Timestamp (ISO 8601 or 'YYYY-MM-DD HH:MM'), defaults to now"`
}

type mealOutput struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	CarbsG     float64 `json:"carbs_g"`
	FatG       float64 `json:"fat_g"`
	Source     string  `json:"source"`
	Flagged    bool    `json:"flagged"`
	FlagReason string  `json:"flag_reason,omitempty"`
	Message    string  `json:"message"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type flagInput struct {
	Name     string  `json:"name" jsonschema:"Meal name"`
	Calories float64 `json:"calories" jsonschema:"Calorie count"`
}

type logActivityInput struct {
	ActivityType    string   `json:"activity_type" jsonschema:"Type of activity (run, walk, cycle, swim, etc.)"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes"`
	CaloriesBurned  *float64 `json:"calories_burned,omitempty" jsonschema:"Calories burned"`
	Notes           string   `json:"notes,omitempty" jsonschema:"Optional notes"`
	PerformedAt     string   `json:"performed_at,omitempty" jsonschema:"Timestamp (ISO 8601 or 'YYYY-MM-DD HH:MM'), defaults to now"`
}

type activityOutput struct {
	ID           string `json:"id"`
	ActivityType string `json:"activity_type"`
	Message      string `json:"message"`
}

type recordFitnessInput struct {
	Date           string   `json:"date,omitempty" jsonschema:"Day as YYYY-MM-DD, defaults to today"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty" jsonschema:"Calories burned for the whole day"`
	AvgBPM         *float64 `json:"avg_bpm,omitempty" jsonschema:"Average heart rate in beats per minute"`
	SleepHours     *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept"`
}

type emptyInput struct{}

type scoreInput struct {
	CaloriesBurned    *float64 `json:"calories_burned,omitempty" jsonschema:"Calories burned"`
	SleepHours        *float64 `json:"sleep_hours,omitempty" jsonschema:"Hours slept"`
	MealIntervalHours *float64 `json:"avg_meal_interval_hours,omitempty" jsonschema:"Average hours between meals"`
	CaloriesIntake    *float64 `json:"calories_intake,omitempty" jsonschema:"Calories eaten"`
	TargetCalories    *float64 `json:"target_calories,omitempty" jsonschema:"Daily calorie target"`
	AvgHeartRate      *float64 `json:"avg_bpm,omitempty" jsonschema:"Average heart rate"`
}

// Tool handlers

func (s *Server) handleLookupNutrition(ctx context.Context, req *mcp.CallToolRequest, input lookupInput) (*mcp.CallToolResult, lookupOutput, error) {
	res := s.svc.LookupNutrition(ctx, input.Query)
	if res == nil {
		return nil, lookupOutput{Message: fmt.Sprintf("No nutrition data found for %q", input.Query)}, nil
	}
	return nil, lookupOutput{
		Found:    true,
		Calories: res.Calories,
		ProteinG: res.ProteinG,
		CarbsG:   res.CarbsG,
		FatG:     res.FatG,
		Source:   res.Source,
		Message:  fmt.Sprintf("%s: %.0f kcal (%s)", input.Query, res.Calories, res.Source),
	}, nil
}

func (s *Server) handleAddMeal(ctx context.Context, req *mcp.CallToolRequest, input addMealInput) (*mcp.CallToolResult, mealOutput, error) {
	in := tracker.AddMealInput{Name: input.Name, Calories: input.Calories}
	if input.LoggedAt != "" {
		t, err := parseTimestamp(input.LoggedAt)
		if err != nil {
			return nil, mealOutput{}, err
		}
		in.LoggedAt = t
	}

	m, err := s.svc.AddMeal(ctx, in)
	if err != nil {
		return nil, mealOutput{}, fmt.Errorf("failed to add meal: %w", err)
	}

	msg := fmt.Sprintf("Logged %s: %.0f kcal from %s (ID: %s)", m.Name, m.Calories, m.Source, m.ID.String()[:8])
	if m.Flagged {
		msg += fmt.Sprintf(" [flagged: %s]", m.FlagReason)
	}
	return nil, mealOutput{
		ID:         m.ID.String()[:8],
		Name:       m.Name,
		Calories:   m.Calories,
		ProteinG:   m.ProteinG,
		CarbsG:     m.CarbsG,
		FatG:       m.FatG,
		Source:     m.Source,
		Flagged:    m.Flagged,
		FlagReason: m.FlagReason,
		Message:    msg,
	}, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day, err := s.svc.ParseDay(input.Date)
	if err != nil {
		return nil, nil, err
	}

	meals, err := s.svc.ListMeals(day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meals: %w", err)
	}
	if len(meals) == 0 {
		return nil, map[string]any{"message": "No meals found."}, nil
	}
	return nil, map[string]any{
		"date":  day.Format(models.DateLayout),
		"meals": meals,
		"count": len(meals),
	}, nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	m, err := s.svc.DeleteMeal(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted meal: %s (%s)", m.Name, m.ID.String()[:8])}, nil
}

func (s *Server) handleFlagMeal(ctx context.Context, req *mcp.CallToolRequest, input flagInput) (*mcp.CallToolResult, flags.Flag, error) {
	return nil, flags.Check(input.Name, input.Calories), nil
}

func (s *Server) handleLogActivity(ctx context.Context, req *mcp.CallToolRequest, input logActivityInput) (*mcp.CallToolResult, activityOutput, error) {
	a := models.NewActivity(input.ActivityType)
	if input.DurationMinutes != nil {
		a.WithDuration(*input.DurationMinutes)
	}
	if input.CaloriesBurned != nil {
		a.WithCaloriesBurned(*input.CaloriesBurned)
	}
	if input.Notes != "" {
		a.WithNotes(input.Notes)
	}
	if input.PerformedAt != "" {
		t, err := parseTimestamp(input.PerformedAt)
		if err != nil {
			return nil, activityOutput{}, err
		}
		a.WithPerformedAt(t)
	}

	if err := s.svc.LogActivity(a); err != nil {
		return nil, activityOutput{}, fmt.Errorf("failed to log activity: %w", err)
	}
	return nil, activityOutput{
		ID:           a.ID.String()[:8],
		ActivityType: a.ActivityType,
		Message:      fmt.Sprintf("Logged %s (ID: %s)", a.ActivityType, a.ID.String()[:8]),
	}, nil
}

func (s *Server) handleRecordFitness(ctx context.Context, req *mcp.CallToolRequest, input recordFitnessInput) (*mcp.CallToolResult, any, error) {
	fd, err := s.svc.RecordFitness(tracker.FitnessUpdate{
		Date:           input.Date,
		CaloriesBurned: input.CaloriesBurned,
		AvgBPM:         input.AvgBPM,
		SleepHours:     input.SleepHours,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record fitness: %w", err)
	}
	return nil, fd, nil
}

func (s *Server) handleEstimateTarget(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, targets.Target, error) {
	t, err := s.svc.EstimateTarget()
	if err != nil {
		return nil, targets.Target{}, fmt.Errorf("failed to estimate target: %w", err)
	}
	return nil, t, nil
}

func (s *Server) handleDailySummary(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, any, error) {
	day, err := s.svc.ParseDay(input.Date)
	if err != nil {
		return nil, nil, err
	}
	sum, err := s.svc.DailySummary(day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to summarize day: %w", err)
	}
	return nil, sum, nil
}

func (s *Server) handleScoreDay(ctx context.Context, req *mcp.CallToolRequest, input scoreInput) (*mcp.CallToolResult, lifestyle.Breakdown, error) {
	return nil, s.svc.Score(lifestyle.Signals{
		CaloriesBurned:    input.CaloriesBurned,
		SleepHours:        input.SleepHours,
		MealIntervalHours: input.MealIntervalHours,
		CaloriesIntake:    input.CaloriesIntake,
		TargetCalories:    input.TargetCalories,
		AvgHeartRate:      input.AvgHeartRate,
	}), nil
}

// parseTimestamp accepts RFC3339 or "YYYY-MM-DD HH:MM" in local time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: use RFC3339 or YYYY-MM-DD HH:MM", s)
	}
	return t, nil
}
