// ABOUTME: UserProfile model and the Sex, ActivityLevel and Goal enums.
// ABOUTME: Biometric attributes the target estimator reads; the core never mutates them.
package models

import (
	"strings"
	"time"
)

// Sex is the biological sex category used by the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

// ActivityLevel is a coarse description of daily activity.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// AllActivityLevels lists the recognized activity levels, least active first.
var AllActivityLevels = []ActivityLevel{
	ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive,
}

// Goal is the user's weight goal.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// DefaultAge is used whenever no birth date is known.
const DefaultAge = 30

// UserProfile holds the attributes needed to derive a daily calorie target.
// Pointer fields are optional; nil means "not provided".
type UserProfile struct {
	BirthDate          *time.Time    `json:"birth_date,omitempty" yaml:"birth_date,omitempty"`
	Sex                Sex           `json:"sex,omitempty" yaml:"sex,omitempty"`
	HeightCM           *float64      `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	WeightKG           *float64      `json:"weight_kg,omitempty" yaml:"weight_kg,omitempty"`
	ActivityLevel      ActivityLevel `json:"activity_level,omitempty" yaml:"activity_level,omitempty"`
	ActivityMultiplier *float64      `json:"activity_multiplier,omitempty" yaml:"activity_multiplier,omitempty"`
	Goal               Goal          `json:"goal,omitempty" yaml:"goal,omitempty"`
	TargetCalories     *float64      `json:"target_calories,omitempty" yaml:"target_calories,omitempty"`
	UpdatedAt          time.Time     `json:"updated_at" yaml:"updated_at"`
}

// IsMale reports whether the profile uses the male BMR constant.
// Anything other than an explicit "male" takes the other branch.
func (p *UserProfile) IsMale() bool {
	return Sex(strings.ToLower(string(p.Sex))) == SexMale
}

// Age returns the age in years at now, computed as the difference in
// calendar years. Without a birth date it returns DefaultAge.
func (p *UserProfile) Age(now time.Time) int {
	if p.BirthDate == nil || p.BirthDate.IsZero() {
		return DefaultAge
	}
	return now.Year() - p.BirthDate.Year()
}

// HeightOr returns the height in centimeters, or def when unset or zero.
func (p *UserProfile) HeightOr(def float64) float64 {
	return valueOr(p.HeightCM, def)
}

// WeightOr returns the weight in kilograms, or def when unset or zero.
func (p *UserProfile) WeightOr(def float64) float64 {
	return valueOr(p.WeightKG, def)
}

// HasTargetOverride reports whether an explicit, non-zero target is set.
func (p *UserProfile) HasTargetOverride() bool {
	return p.TargetCalories != nil && *p.TargetCalories != 0
}

// GoalSign maps the goal to -1 (lose), 0 (maintain or unknown), or 1 (gain).
func (p *UserProfile) GoalSign() int {
	switch p.Goal {
	case GoalLose:
		return -1
	case GoalGain:
		return 1
	default:
		return 0
	}
}

// IsValidActivityLevel checks if a string names a recognized activity level.
func IsValidActivityLevel(s string) bool {
	for _, l := range AllActivityLevels {
		if string(l) == s {
			return true
		}
	}
	return false
}

// IsValidGoal checks if a string names a recognized goal.
func IsValidGoal(s string) bool {
	switch Goal(s) {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// IsValidSex checks if a string names a recognized sex category.
func IsValidSex(s string) bool {
	switch Sex(s) {
	case SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

func valueOr(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}
