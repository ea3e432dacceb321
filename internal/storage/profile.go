// ABOUTME: Single-row user profile storage for SQLite.
// ABOUTME: The profile table holds at most one row (id = 1).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

// GetProfile returns the saved profile, or an empty one.
func (d *DB) GetProfile() (*models.UserProfile, error) {
	query := `
		SELECT birth_date, sex, height_cm, weight_kg, activity_level, activity_multiplier, goal, target_calories, updated_at
		FROM profile WHERE id = 1
	`
	var p models.UserProfile
	var birth, sex, level, goal sql.NullString
	var height, weight, mult, target sql.NullFloat64
	var updatedAt string

	err := d.db.QueryRow(query).Scan(&birth, &sex, &height, &weight, &level, &mult, &goal, &target, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.UserProfile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if birth.Valid {
		if t, err := time.Parse(models.DateLayout, birth.String); err == nil {
			p.BirthDate = &t
		}
	}
	p.Sex = models.Sex(sex.String)
	p.ActivityLevel = models.ActivityLevel(level.String)
	p.Goal = models.Goal(goal.String)
	p.HeightCM = nullFloat(height)
	p.WeightKG = nullFloat(weight)
	p.ActivityMultiplier = nullFloat(mult)
	p.TargetCalories = nullFloat(target)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// SaveProfile replaces the saved profile.
func (d *DB) SaveProfile(p *models.UserProfile) error {
	query := `
		INSERT INTO profile (id, birth_date, sex, height_cm, weight_kg, activity_level, activity_multiplier, goal, target_calories, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			birth_date = excluded.birth_date,
			sex = excluded.sex,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity_level = excluded.activity_level,
			activity_multiplier = excluded.activity_multiplier,
			goal = excluded.goal,
			target_calories = excluded.target_calories,
			updated_at = excluded.updated_at
	`
	var birth *string
	if p.BirthDate != nil {
		s := p.BirthDate.Format(models.DateLayout)
		birth = &s
	}
	p.UpdatedAt = time.Now()

	_, err := d.db.Exec(query,
		birth,
		string(p.Sex),
		p.HeightCM,
		p.WeightKG,
		string(p.ActivityLevel),
		p.ActivityMultiplier,
		string(p.Goal),
		p.TargetCalories,
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
