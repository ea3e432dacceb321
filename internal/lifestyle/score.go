// ABOUTME: Composite lifestyle score from five daily signals.
// ABOUTME: Triangular sub-scores blended by fixed weights into a 0-100 score.
package lifestyle

import (
	"fmt"
	"math"
)

// Sub-score weights. They sum to 1.
const (
	WeightBurn         = 0.28
	WeightSleep        = 0.25
	WeightMealInterval = 0.18
	WeightCalorieRatio = 0.20
	WeightHeartRate    = 0.09
)

// Triangle bounds and defaults for each signal.
var (
	SleepRange        = Triangle{Low: 4.0, Mid: 7.5, High: 9.5}
	MealIntervalRange = Triangle{Low: 0.5, Mid: 3.5, High: 6.0}
	CalorieRatioRange = Triangle{Low: 0.6, Mid: 1.0, High: 1.3}
	HeartRateRange    = Triangle{Low: 40, Mid: 64, High: 86}
)

const (
	// BurnGoal is the activity burn that earns a full burn sub-score.
	BurnGoal = 400.0

	DefaultSleepHours   = 0.0
	DefaultMealInterval = 3.5
	DefaultHeartRate    = 60.0
)

// Triangle describes a piecewise-linear score peaking at Mid.
type Triangle struct {
	Low, Mid, High float64
}

// Score evaluates the triangle at v.
func (t Triangle) Score(v float64) float64 {
	return ScoreRange(v, t.Low, t.Mid, t.High)
}

// ScoreRange is 0 at or outside [low, high], 1 at mid, and linear between.
// Non-finite values score 0.
func ScoreRange(v, low, mid, high float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	switch {
	case v <= low || v >= high:
		return 0
	case v == mid:
		return 1
	case v < mid:
		return (v - low) / (mid - low)
	default:
		return (high - v) / (high - mid)
	}
}

// Signals are the aggregated inputs for one day. Nil means absent; a zero
// value is treated the same as absent.
type Signals struct {
	CaloriesBurned    *float64 `json:"calories_burned,omitempty"`
	SleepHours        *float64 `json:"sleep_hours,omitempty"`
	MealIntervalHours *float64 `json:"avg_meal_interval_hours,omitempty"`
	CaloriesIntake    *float64 `json:"calories_intake,omitempty"`
	TargetCalories    *float64 `json:"target_calories,omitempty"`
	AvgHeartRate      *float64 `json:"avg_bpm,omitempty"`
}

// Breakdown holds each sub-score in [0, 1] and the composite in [0, 100].
type Breakdown struct {
	Burn         float64 `json:"burn"`
	Sleep        float64 `json:"sleep"`
	MealInterval float64 `json:"meal_interval"`
	CalorieRatio float64 `json:"calorie_ratio"`
	HeartRate    float64 `json:"heart_rate"`
	Total        float64 `json:"total"`
}

// Score returns the composite lifestyle score for s.
func Score(s Signals) float64 {
	return Compute(s).Total
}

// Compute returns the sub-scores and composite for s.
func Compute(s Signals) Breakdown {
	var b Breakdown

	burned := orDefault(s.CaloriesBurned, 0)
	b.Burn = clamp01(burned / BurnGoal)
	b.Sleep = SleepRange.Score(orDefault(s.SleepHours, DefaultSleepHours))
	b.MealInterval = MealIntervalRange.Score(orDefault(s.MealIntervalHours, DefaultMealInterval))
	b.CalorieRatio = CalorieRatioRange.Score(calorieRatio(s))
	b.HeartRate = HeartRateRange.Score(orDefault(s.AvgHeartRate, DefaultHeartRate))

	total := WeightBurn*b.Burn +
		WeightSleep*b.Sleep +
		WeightMealInterval*b.MealInterval +
		WeightCalorieRatio*b.CalorieRatio +
		WeightHeartRate*b.HeartRate
	b.Total = round2(total * 100)
	return b
}

// Reason renders the breakdown as a compact "name:value" list.
func (b Breakdown) Reason() string {
	return fmt.Sprintf("burn:%.2f, sleep:%.2f, meal_interval:%.2f, calorie_ratio:%.2f, bpm:%.2f",
		b.Burn, b.Sleep, b.MealInterval, b.CalorieRatio, b.HeartRate)
}

// calorieRatio is intake/target, or the ideal 1.0 when no positive target.
func calorieRatio(s Signals) float64 {
	target := orDefault(s.TargetCalories, 0)
	if !(target > 0) || math.IsInf(target, 0) {
		return 1.0
	}
	return orDefault(s.CaloriesIntake, 0) / target
}

func orDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(1, v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
