// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Verifies CRUD operations for meals, activities, profile and daily records using SQLite.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

func TestCreateAndGetMeal(t *testing.T) {
	db := setupTestDB(t)

	m := models.NewMeal("chicken burrito", 850).WithMacros(40, 90, 30).WithSource("calorieninjas")
	m.Flagged = true
	m.FlagReason = "high_calories"

	if err := db.CreateMeal(m); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	got, err := db.GetMeal(m.ID.String())
	if err != nil {
		t.Fatalf("GetMeal failed: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, m.ID)
	}
	if got.Calories != 850 || got.ProteinG != 40 || got.CarbsG != 90 || got.FatG != 30 {
		t.Errorf("nutrition mismatch: got %+v", got)
	}
	if got.Source != "calorieninjas" {
		t.Errorf("Source = %q, want calorieninjas", got.Source)
	}
	if !got.Flagged || got.FlagReason != "high_calories" {
		t.Errorf("flag mismatch: got %v %q", got.Flagged, got.FlagReason)
	}
	if !got.LoggedAt.Equal(m.LoggedAt.Truncate(time.Second)) {
		t.Errorf("LoggedAt = %v, want %v", got.LoggedAt, m.LoggedAt)
	}
}

func TestGetMealByPrefix(t *testing.T) {
	db := setupTestDB(t)

	m := models.NewMeal("apple", 95)
	if err := db.CreateMeal(m); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	got, err := db.GetMeal(m.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetMeal by prefix failed: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, m.ID)
	}
}

func TestGetMealNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetMeal("deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListMealsRange(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)
	for i, name := range []string{"breakfast", "lunch", "dinner"} {
		m := models.NewMeal(name, 500).WithLoggedAt(base.Add(time.Duration(i*5) * time.Hour))
		if err := db.CreateMeal(m); err != nil {
			t.Fatalf("CreateMeal failed: %v", err)
		}
	}
	next := models.NewMeal("next day", 100).WithLoggedAt(base.AddDate(0, 0, 1))
	if err := db.CreateMeal(next); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}

	start, end := models.DayBounds(base)
	meals, err := db.ListMeals(start, end, 0)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(meals))
	}
	if meals[0].Name != "breakfast" || meals[2].Name != "dinner" {
		t.Errorf("expected oldest first, got %s..%s", meals[0].Name, meals[2].Name)
	}

	all, err := db.ListMeals(time.Time{}, time.Time{}, 2)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected limit 2, got %d", len(all))
	}
}

func TestDeleteMeal(t *testing.T) {
	db := setupTestDB(t)

	m := models.NewMeal("cookie", 150)
	if err := db.CreateMeal(m); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	if err := db.DeleteMeal(m.ID.String()[:8]); err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if _, err := db.GetMeal(m.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.DeleteMeal(m.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestActivities(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2025, 6, 1, 7, 0, 0, 0, time.Local)
	run := models.NewActivity("run").WithDuration(30).WithCaloriesBurned(300).WithNotes("easy pace").WithPerformedAt(base)
	walk := models.NewActivity("walk").WithPerformedAt(base.Add(10 * time.Hour))
	for _, a := range []*models.Activity{run, walk} {
		if err := db.CreateActivity(a); err != nil {
			t.Fatalf("CreateActivity failed: %v", err)
		}
	}

	start, end := models.DayBounds(base)
	list, err := db.ListActivities(start, end, 0)
	if err != nil {
		t.Fatalf("ListActivities failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(list))
	}
	if list[0].ActivityType != "walk" {
		t.Errorf("expected most recent first, got %s", list[0].ActivityType)
	}
	if list[0].CaloriesBurned != nil || list[0].DurationMinutes != nil {
		t.Errorf("expected nil optional fields on walk")
	}
	if list[1].CaloriesBurned == nil || *list[1].CaloriesBurned != 300 {
		t.Errorf("expected 300 kcal burned on run, got %v", list[1].CaloriesBurned)
	}
	if list[1].Notes == nil || *list[1].Notes != "easy pace" {
		t.Errorf("notes mismatch: %v", list[1].Notes)
	}

	got, err := db.GetActivity(run.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if got.ID != run.ID || !got.PerformedAt.Equal(base) {
		t.Errorf("GetActivity returned %+v", got)
	}

	if err := db.DeleteActivity(run.ID.String()); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	list, _ = db.ListActivities(time.Time{}, time.Time{}, 0)
	if len(list) != 1 {
		t.Errorf("expected 1 activity after delete, got %d", len(list))
	}
	if _, err := db.GetActivity(run.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	empty, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if empty.HeightCM != nil || !empty.UpdatedAt.IsZero() {
		t.Errorf("expected empty profile, got %+v", empty)
	}

	birth := time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC)
	height, weight, target := 180.0, 80.0, 2200.0
	p := &models.UserProfile{
		BirthDate:      &birth,
		Sex:            models.SexMale,
		HeightCM:       &height,
		WeightKG:       &weight,
		ActivityLevel:  models.ActivityModerate,
		Goal:           models.GoalLose,
		TargetCalories: &target,
	}
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	weight = 78
	p.WeightKG = &weight
	if err := db.SaveProfile(p); err != nil {
		t.Fatalf("SaveProfile (update) failed: %v", err)
	}

	got, err := db.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.BirthDate == nil || got.BirthDate.Format(models.DateLayout) != "1990-03-14" {
		t.Errorf("BirthDate mismatch: %v", got.BirthDate)
	}
	if got.WeightKG == nil || *got.WeightKG != 78 {
		t.Errorf("WeightKG mismatch: %v", got.WeightKG)
	}
	if got.ActivityMultiplier != nil {
		t.Errorf("expected nil multiplier, got %v", *got.ActivityMultiplier)
	}
	if got.ActivityLevel != models.ActivityModerate || got.Goal != models.GoalLose || !got.IsMale() {
		t.Errorf("enum mismatch: %+v", got)
	}
	if got.TargetCalories == nil || *got.TargetCalories != 2200 {
		t.Errorf("TargetCalories mismatch: %v", got.TargetCalories)
	}
}

func TestFitnessDayUpsert(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetFitnessDay("2025-06-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	sleep := 7.5
	fd := &models.FitnessDay{Date: "2025-06-01", CaloriesBurned: 250, SleepHours: &sleep}
	if err := db.UpsertFitnessDay(fd); err != nil {
		t.Fatalf("UpsertFitnessDay failed: %v", err)
	}
	bpm := 62.0
	fd.AvgBPM = &bpm
	fd.CaloriesBurned = 400
	if err := db.UpsertFitnessDay(fd); err != nil {
		t.Fatalf("UpsertFitnessDay (update) failed: %v", err)
	}

	got, err := db.GetFitnessDay("2025-06-01")
	if err != nil {
		t.Fatalf("GetFitnessDay failed: %v", err)
	}
	if got.CaloriesBurned != 400 {
		t.Errorf("CaloriesBurned = %v, want 400", got.CaloriesBurned)
	}
	if got.AvgBPM == nil || *got.AvgBPM != 62 || got.SleepHours == nil || *got.SleepHours != 7.5 {
		t.Errorf("optional fields mismatch: %+v", got)
	}
}

func TestLifestylePointUpsertKeepsID(t *testing.T) {
	db := setupTestDB(t)

	first := models.NewLifestylePoint("2025-06-01", 40, "first")
	if err := db.UpsertLifestylePoint(first); err != nil {
		t.Fatalf("UpsertLifestylePoint failed: %v", err)
	}
	second := models.NewLifestylePoint("2025-06-01", 72.5, "second")
	if err := db.UpsertLifestylePoint(second); err != nil {
		t.Fatalf("UpsertLifestylePoint failed: %v", err)
	}
	if err := db.UpsertLifestylePoint(models.NewLifestylePoint("2025-05-31", 10, "")); err != nil {
		t.Fatalf("UpsertLifestylePoint failed: %v", err)
	}

	got, err := db.GetLifestylePoint("2025-06-01")
	if err != nil {
		t.Fatalf("GetLifestylePoint failed: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("expected original ID to be kept")
	}
	if got.Points != 72.5 || got.Reason != "second" {
		t.Errorf("expected updated values, got %+v", got)
	}

	points, err := db.ListLifestylePoints(0)
	if err != nil {
		t.Fatalf("ListLifestylePoints failed: %v", err)
	}
	if len(points) != 2 || points[0].Date != "2025-06-01" {
		t.Errorf("expected 2 points newest first, got %+v", points)
	}
}

func TestExportImport(t *testing.T) {
	src := setupTestDB(t)

	weight := 70.0
	if err := src.SaveProfile(&models.UserProfile{WeightKG: &weight, Sex: models.SexFemale}); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if err := src.CreateMeal(models.NewMeal("pasta", 600)); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	if err := src.CreateActivity(models.NewActivity("swim").WithDuration(45)); err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}
	if err := src.UpsertFitnessDay(&models.FitnessDay{Date: "2025-06-01", CaloriesBurned: 100}); err != nil {
		t.Fatalf("UpsertFitnessDay failed: %v", err)
	}
	if err := src.UpsertLifestylePoint(models.NewLifestylePoint("2025-06-01", 55, "")); err != nil {
		t.Fatalf("UpsertLifestylePoint failed: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var raw []byte
			var err error
			if format == "json" {
				raw, err = ExportJSON(src)
			} else {
				raw, err = ExportYAML(src)
			}
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}
			if !strings.Contains(string(raw), "pasta") {
				t.Errorf("export missing meal: %s", raw)
			}

			dst := setupTestDB(t)
			if format == "json" {
				err = ImportJSON(dst, raw)
			} else {
				err = ImportYAML(dst, raw)
			}
			if err != nil {
				t.Fatalf("import failed: %v", err)
			}

			data, err := dst.GetAllData()
			if err != nil {
				t.Fatalf("GetAllData failed: %v", err)
			}
			if data.Profile == nil || data.Profile.WeightKG == nil || *data.Profile.WeightKG != 70 {
				t.Errorf("profile not imported: %+v", data.Profile)
			}
			if len(data.Meals) != 1 || len(data.Activities) != 1 || len(data.FitnessDays) != 1 || len(data.LifestylePoints) != 1 {
				t.Errorf("unexpected counts: %d meals, %d activities, %d days, %d points",
					len(data.Meals), len(data.Activities), len(data.FitnessDays), len(data.LifestylePoints))
			}
		})
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)

	if err := db.CreateMeal(models.NewMeal("bagel", 300)); err != nil {
		t.Fatalf("CreateMeal failed: %v", err)
	}
	if err := db.UpsertLifestylePoint(models.NewLifestylePoint("2025-06-01", 61.25, "burn:0.50")); err != nil {
		t.Fatalf("UpsertLifestylePoint failed: %v", err)
	}

	md, err := ExportMarkdown(db, time.Time{})
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	for _, want := range []string{"# Nourish Export", "## Meals", "bagel", "## Lifestyle Points", "61.25"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)
	if err := ImportJSON(db, []byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nourish-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := Open(filepath.Join(tmpDir, "nourish.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
