// ABOUTME: Export and import functionality for nourish data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for nourish data.
type ExportData struct {
	Version         string                   `json:"version" yaml:"version"`
	ExportedAt      time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool            string                   `json:"tool" yaml:"tool"`
	Profile         *models.UserProfile      `json:"profile,omitempty" yaml:"profile,omitempty"`
	Meals           []*models.Meal           `json:"meals" yaml:"meals"`
	Activities      []*models.Activity       `json:"activities" yaml:"activities"`
	FitnessDays     []*models.FitnessDay     `json:"fitness_days" yaml:"fitness_days"`
	LifestylePoints []*models.LifestylePoint `json:"lifestyle_points" yaml:"lifestyle_points"`
}

func newExportData() *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "nourish",
	}
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data := newExportData()

	profile, err := d.GetProfile()
	if err != nil {
		return nil, err
	}
	if !profile.UpdatedAt.IsZero() {
		data.Profile = profile
	}

	if data.Meals, err = d.ListMeals(time.Time{}, time.Time{}, 0); err != nil {
		return nil, err
	}
	if data.Activities, err = d.ListActivities(time.Time{}, time.Time{}, 0); err != nil {
		return nil, err
	}
	if data.FitnessDays, err = d.listFitnessDays(); err != nil {
		return nil, err
	}
	if data.LifestylePoints, err = d.ListLifestylePoints(0); err != nil {
		return nil, err
	}
	return data, nil
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) error {
	return ImportInto(d, data)
}

// ImportInto writes every record of data through repo's public methods.
func ImportInto(repo Repository, data *ExportData) error {
	if data.Profile != nil {
		if err := repo.SaveProfile(data.Profile); err != nil {
			return fmt.Errorf("import profile: %w", err)
		}
	}
	for _, m := range data.Meals {
		if err := repo.CreateMeal(m); err != nil {
			return fmt.Errorf("import meal: %w", err)
		}
	}
	for _, a := range data.Activities {
		if err := repo.CreateActivity(a); err != nil {
			return fmt.Errorf("import activity: %w", err)
		}
	}
	for _, fd := range data.FitnessDays {
		if err := repo.UpsertFitnessDay(fd); err != nil {
			return fmt.Errorf("import fitness day: %w", err)
		}
	}
	for _, lp := range data.LifestylePoints {
		if err := repo.UpsertLifestylePoint(lp); err != nil {
			return fmt.Errorf("import lifestyle point: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data from repo as indented JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data from repo as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(&data)
}

// ImportYAML imports data from YAML bytes.
func ImportYAML(repo Repository, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return repo.ImportData(&data)
}

// ExportMarkdown renders meals, activities and lifestyle points since the
// given time (zero for everything) as Markdown tables.
func ExportMarkdown(repo Repository, since time.Time) (string, error) {
	meals, err := repo.ListMeals(since, time.Time{}, 0)
	if err != nil {
		return "", err
	}
	activities, err := repo.ListActivities(since, time.Time{}, 0)
	if err != nil {
		return "", err
	}
	points, err := repo.ListLifestylePoints(0)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nourish Export - %s\n\n", now.Format(models.DateLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Meals\n\n")
	sb.WriteString("| Date | Meal | Calories | P/C/F (g) | Source | Flag |\n")
	sb.WriteString("|------|------|----------|-----------|--------|------|\n")
	for _, m := range meals {
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %.1f/%.1f/%.1f | %s | %s |\n",
			m.LoggedAt.Format("2006-01-02 15:04"), m.Name, m.Calories,
			m.ProteinG, m.CarbsG, m.FatG, m.Source, m.FlagReason))
	}

	if len(activities) > 0 {
		sb.WriteString("\n## Activities\n\n")
		sb.WriteString("| Date | Type | Duration | Burned |\n")
		sb.WriteString("|------|------|----------|--------|\n")
		for _, a := range activities {
			duration, burned := "", ""
			if a.DurationMinutes != nil {
				duration = fmt.Sprintf("%.0f min", *a.DurationMinutes)
			}
			if a.CaloriesBurned != nil {
				burned = fmt.Sprintf("%.0f kcal", *a.CaloriesBurned)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				a.PerformedAt.Format("2006-01-02 15:04"), a.ActivityType, duration, burned))
		}
	}

	sinceKey := ""
	if !since.IsZero() {
		sinceKey = since.Format(models.DateLayout)
	}
	var rows []string
	for _, lp := range points {
		if lp.Date < sinceKey {
			continue
		}
		rows = append(rows, fmt.Sprintf("| %s | %.2f | %s |\n", lp.Date, lp.Points, lp.Reason))
	}
	if len(rows) > 0 {
		sb.WriteString("\n## Lifestyle Points\n\n")
		sb.WriteString("| Date | Points | Breakdown |\n")
		sb.WriteString("|------|--------|-----------|\n")
		for _, r := range rows {
			sb.WriteString(r)
		}
	}

	return sb.String(), nil
}
