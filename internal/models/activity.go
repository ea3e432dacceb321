// ABOUTME: Activity and FitnessDay models for exercise and daily biometrics.
// ABOUTME: Activities are individual sessions; a FitnessDay aggregates one calendar date.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used as the FitnessDay key.
const DateLayout = "2006-01-02"

// Activity represents an exercise session.
type Activity struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	ActivityType    string    `json:"activity_type" yaml:"activity_type"`
	DurationMinutes *float64  `json:"duration_minutes,omitempty" yaml:"duration_minutes,omitempty"`
	CaloriesBurned  *float64  `json:"calories_burned,omitempty" yaml:"calories_burned,omitempty"`
	Notes           *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	PerformedAt     time.Time `json:"performed_at" yaml:"performed_at"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// NewActivity creates a new Activity with generated UUID and current timestamp.
func NewActivity(activityType string) *Activity {
	now := time.Now()
	return &Activity{
		ID:           uuid.New(),
		ActivityType: activityType,
		PerformedAt:  now,
		CreatedAt:    now,
	}
}

// WithDuration sets the duration in minutes.
func (a *Activity) WithDuration(minutes float64) *Activity {
	a.DurationMinutes = &minutes
	return a
}

// WithCaloriesBurned sets the calories burned.
func (a *Activity) WithCaloriesBurned(kcal float64) *Activity {
	a.CaloriesBurned = &kcal
	return a
}

// WithNotes sets notes on the activity.
func (a *Activity) WithNotes(notes string) *Activity {
	a.Notes = &notes
	return a
}

// WithPerformedAt sets a custom timestamp.
func (a *Activity) WithPerformedAt(t time.Time) *Activity {
	a.PerformedAt = t
	return a
}

// FitnessDay holds the wearable-style signals for one calendar date.
type FitnessDay struct {
	Date           string    `json:"date" yaml:"date"`
	CaloriesBurned float64   `json:"calories_burned" yaml:"calories_burned"`
	AvgBPM         *float64  `json:"avg_bpm,omitempty" yaml:"avg_bpm,omitempty"`
	SleepHours     *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewFitnessDay creates an empty FitnessDay for the date containing t.
func NewFitnessDay(t time.Time) *FitnessDay {
	return &FitnessDay{Date: t.Format(DateLayout), UpdatedAt: time.Now()}
}

// LifestylePoint is the persisted composite score for one date.
type LifestylePoint struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Date      string    `json:"date" yaml:"date"`
	Points    float64   `json:"points" yaml:"points"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewLifestylePoint creates a LifestylePoint for the given date key.
func NewLifestylePoint(date string, points float64, reason string) *LifestylePoint {
	return &LifestylePoint{
		ID:        uuid.New(),
		Date:      date,
		Points:    points,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
}

// DayBounds returns [start, end) of the local calendar day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
