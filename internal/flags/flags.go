// ABOUTME: Sanity checks for a logged meal's name and calories.
// ABOUTME: First matching rule wins; the result is stored on the meal.
package flags

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/nourish/internal/models"
)

// HighCalorieThreshold is the per-meal calorie count above which a meal is
// considered anomalous.
const HighCalorieThreshold = 2000.0

// Reasons reported by Check.
const (
	ReasonMissingName  = "Missing meal name"
	ReasonNoCalories   = "Calories missing or zero"
	ReasonHighCalories = "Unusually high calories"
)

// Flag is the outcome of screening one meal.
type Flag struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
}

// Check screens a meal name and calorie value.
// Non-finite calories count as missing.
func Check(name string, calories float64) Flag {
	if math.IsNaN(calories) || math.IsInf(calories, 0) {
		calories = 0
	}
	switch {
	case strings.TrimSpace(name) == "":
		return Flag{Flagged: true, Reason: ReasonMissingName}
	case calories <= 0:
		return Flag{Flagged: true, Reason: ReasonNoCalories}
	case calories > HighCalorieThreshold:
		return Flag{Flagged: true, Reason: ReasonHighCalories}
	}
	return Flag{}
}

// CheckValues screens loosely typed input such as a decoded JSON body.
// A name must be a string or null. Calories may be null, a number, a bool
// or a numeric string. Any other input is screened as an empty name with
// zero calories.
func CheckValues(name, calories any) Flag {
	n, okName := nameValue(name)
	c, okCal := calorieValue(calories)
	if !okName || !okCal {
		n, c = "", 0
	}
	return Check(n, c)
}

func nameValue(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	}
	return "", false
}

func calorieValue(v any) (float64, bool) {
	switch v := v.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		if v == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// Apply screens m and records the outcome on it.
func Apply(m *models.Meal) Flag {
	f := Check(m.Name, m.Calories)
	m.Flagged = f.Flagged
	m.FlagReason = f.Reason
	return f
}
