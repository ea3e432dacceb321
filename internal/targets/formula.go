// ABOUTME: Mifflin-St Jeor BMR, activity multipliers and goal adjustment.
// ABOUTME: The deterministic target path; only this path is clamped.
package targets

import (
	"math"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

const (
	MinBMR         = 800.0
	MinTarget      = 1000.0
	MaxTarget      = 4500.0
	GoalAdjustment = 300.0

	// Profile defaults. The formula and the model were fit with different
	// height defaults and both are kept as-is.
	DefaultFormulaHeightCM = 170.0
	DefaultModelHeightCM   = 165.0
	DefaultWeightKG        = 70.0
	DefaultModelActivity   = 1.3
	DefaultMultiplier      = 1.2
)

// ActivityMultipliers maps activity levels to their TDEE multiplier.
var ActivityMultipliers = map[models.ActivityLevel]float64{
	models.ActivitySedentary:  1.2,
	models.ActivityLight:      1.375,
	models.ActivityModerate:   1.55,
	models.ActivityActive:     1.725,
	models.ActivityVeryActive: 1.9,
}

// BMR returns the Mifflin-St Jeor basal metabolic rate, floored at MinBMR.
func BMR(p *models.UserProfile, now time.Time) float64 {
	weight := p.WeightOr(DefaultWeightKG)
	height := p.HeightOr(DefaultFormulaHeightCM)
	age := float64(p.Age(now))

	bmr := 10*weight + 6.25*height - 5*age
	if p.IsMale() {
		bmr += 5
	} else {
		bmr -= 161
	}
	// NaN compares false, so bad input also lands on the floor.
	if !(bmr >= MinBMR) {
		return MinBMR
	}
	return bmr
}

// Multiplier returns the explicit multiplier when set, otherwise the one
// for the profile's activity level (sedentary when unrecognized).
func Multiplier(p *models.UserProfile) float64 {
	if p.ActivityMultiplier != nil && *p.ActivityMultiplier != 0 {
		return *p.ActivityMultiplier
	}
	if m, ok := ActivityMultipliers[p.ActivityLevel]; ok {
		return m
	}
	return DefaultMultiplier
}

// FormulaTarget computes BMR * multiplier adjusted for the goal and clamped
// to [MinTarget, MaxTarget].
func FormulaTarget(p *models.UserProfile, now time.Time) (target, bmr, multiplier float64) {
	bmr = BMR(p, now)
	multiplier = Multiplier(p)
	target = bmr*multiplier + GoalAdjustment*float64(p.GoalSign())
	return clamp(target, MinTarget, MaxTarget), bmr, multiplier
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Features builds the model input vector in fixed order:
// age, sex (male=1), height_cm, weight_kg, activity multiplier, goal sign.
func Features(p *models.UserProfile, now time.Time) []float64 {
	sex := 0.0
	if p.IsMale() {
		sex = 1
	}
	activity := DefaultModelActivity
	if p.ActivityMultiplier != nil && *p.ActivityMultiplier != 0 {
		activity = *p.ActivityMultiplier
	}
	return []float64{
		float64(p.Age(now)),
		sex,
		p.HeightOr(DefaultModelHeightCM),
		p.WeightOr(DefaultWeightKG),
		activity,
		float64(p.GoalSign()),
	}
}

// FeatureNames labels the Features vector.
var FeatureNames = []string{"age", "sex", "height_cm", "weight_kg", "activity", "goal"}
