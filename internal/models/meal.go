// ABOUTME: Meal model for the food log.
// ABOUTME: Carries derived nutrition, its provenance, and the anomaly flag.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceManual marks nutrition values typed in by the user.
const SourceManual = "manual"

// Meal represents a single logged meal.
type Meal struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Calories   float64   `json:"calories" yaml:"calories"`
	ProteinG   float64   `json:"protein_g" yaml:"protein_g"`
	CarbsG     float64   `json:"carbs_g" yaml:"carbs_g"`
	FatG       float64   `json:"fat_g" yaml:"fat_g"`
	Source     string    `json:"source" yaml:"source"`
	Flagged    bool      `json:"flagged" yaml:"flagged"`
	FlagReason string    `json:"flag_reason,omitempty" yaml:"flag_reason,omitempty"`
	LoggedAt   time.Time `json:"logged_at" yaml:"logged_at"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewMeal creates a Meal with a generated UUID, logged now, sourced manually.
func NewMeal(name string, calories float64) *Meal {
	now := time.Now()
	return &Meal{
		ID:        uuid.New(),
		Name:      name,
		Calories:  calories,
		Source:    SourceManual,
		LoggedAt:  now,
		CreatedAt: now,
	}
}

// WithMacros sets protein, carbohydrate and fat grams.
func (m *Meal) WithMacros(protein, carbs, fat float64) *Meal {
	m.ProteinG = protein
	m.CarbsG = carbs
	m.FatG = fat
	return m
}

// WithSource sets the provenance tag.
func (m *Meal) WithSource(source string) *Meal {
	m.Source = source
	return m
}

// WithLoggedAt sets a custom logged_at timestamp.
func (m *Meal) WithLoggedAt(t time.Time) *Meal {
	m.LoggedAt = t
	return m
}
