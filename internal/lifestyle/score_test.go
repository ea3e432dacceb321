// ABOUTME: Tests for the triangular sub-scores and the composite lifestyle score.
// ABOUTME: Checks boundary values, monotonic ramps, defaults and bounds.
package lifestyle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestScoreRangeShape(t *testing.T) {
	triangles := []Triangle{SleepRange, MealIntervalRange, CalorieRatioRange, HeartRateRange, {Low: -3, Mid: 0.25, High: 11}}

	for _, tri := range triangles {
		assert.Equal(t, 0.0, tri.Score(tri.Low))
		assert.Equal(t, 1.0, tri.Score(tri.Mid))
		assert.Equal(t, 0.0, tri.Score(tri.High))
		assert.Equal(t, 0.0, tri.Score(tri.Low-1))
		assert.Equal(t, 0.0, tri.Score(tri.High+1))

		const steps = 200
		prev := 0.0
		for i := 0; i <= steps; i++ {
			v := tri.Low + (tri.Mid-tri.Low)*float64(i)/steps
			got := tri.Score(v)
			assert.GreaterOrEqual(t, got, prev-1e-12, "non-decreasing on [low, mid] at %v", v)
			prev = got
		}
		prev = 1.0
		for i := 0; i <= steps; i++ {
			v := tri.Mid + (tri.High-tri.Mid)*float64(i)/steps
			got := tri.Score(v)
			assert.LessOrEqual(t, got, prev+1e-12, "non-increasing on [mid, high] at %v", v)
			prev = got
		}

		// Continuity around the peak.
		assert.InDelta(t, 1.0, tri.Score(tri.Mid-1e-9), 1e-6)
		assert.InDelta(t, 1.0, tri.Score(tri.Mid+1e-9), 1e-6)
	}
}

func TestScoreRangeValues(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want float64
	}{
		{"sleep 6h", 6, (6 - 4.0) / 3.5},
		{"sleep 8.5h", 8.5, (9.5 - 8.5) / 2.0},
		{"nan", math.NaN(), 0},
		{"+inf", math.Inf(1), 0},
		{"-inf", math.Inf(-1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SleepRange.Score(tt.v), 1e-12)
		})
	}
}

func TestAllDefaults(t *testing.T) {
	b := Compute(Signals{})

	assert.Equal(t, 0.0, b.Burn)
	assert.Equal(t, 0.0, b.Sleep)
	assert.Equal(t, 1.0, b.MealInterval)
	assert.Equal(t, 1.0, b.CalorieRatio)
	assert.InDelta(t, 20.0/24.0, b.HeartRate, 1e-12)
	// 0.18 + 0.20 + 0.09 * 20/24
	assert.Equal(t, 45.5, b.Total)
	assert.Equal(t, 45.5, Score(Signals{}))
}

func TestZeroValuesBehaveAsAbsent(t *testing.T) {
	zero := f64(0)
	s := Signals{
		CaloriesBurned:    zero,
		SleepHours:        zero,
		MealIntervalHours: zero,
		CaloriesIntake:    zero,
		TargetCalories:    zero,
		AvgHeartRate:      zero,
	}
	assert.Equal(t, Score(Signals{}), Score(s))
}

func TestPerfectDay(t *testing.T) {
	s := Signals{
		CaloriesBurned:    f64(650),
		SleepHours:        f64(7.5),
		MealIntervalHours: f64(3.5),
		CaloriesIntake:    f64(2000),
		TargetCalories:    f64(2000),
		AvgHeartRate:      f64(64),
	}
	assert.Equal(t, 100.0, Score(s))
}

func TestTypicalDay(t *testing.T) {
	s := Signals{
		CaloriesBurned:    f64(200),
		SleepHours:        f64(6),
		MealIntervalHours: f64(4.75),
		CaloriesIntake:    f64(2200),
		TargetCalories:    f64(2000),
		AvgHeartRate:      f64(75),
	}
	b := Compute(s)
	assert.InDelta(t, 0.5, b.Burn, 1e-12)
	assert.InDelta(t, 2.0/3.5, b.Sleep, 1e-12)
	assert.InDelta(t, 0.5, b.MealInterval, 1e-12)
	assert.InDelta(t, (1.3-1.1)/0.3, b.CalorieRatio, 1e-9)
	assert.InDelta(t, 0.5, b.HeartRate, 1e-12)

	want := 0.28*0.5 + 0.25*(2.0/3.5) + 0.18*0.5 + 0.20*((1.3-1.1)/0.3) + 0.09*0.5
	assert.InDelta(t, math.Round(want*10000)/100, b.Total, 1e-9)
}

func TestMissingTargetUsesIdealRatio(t *testing.T) {
	b := Compute(Signals{CaloriesIntake: f64(5000), TargetCalories: f64(-10)})
	assert.Equal(t, 1.0, b.CalorieRatio)
}

func TestScoreAlwaysBounded(t *testing.T) {
	values := []float64{-1e9, -5, 0.1, 3.5, 64, 1e6, math.NaN(), math.Inf(1), math.Inf(-1)}
	for _, a := range values {
		for _, b := range values {
			s := Signals{
				CaloriesBurned:    f64(a),
				SleepHours:        f64(b),
				MealIntervalHours: f64(a),
				CaloriesIntake:    f64(b),
				TargetCalories:    f64(a),
				AvgHeartRate:      f64(b),
			}
			got := Score(s)
			assert.False(t, math.IsNaN(got))
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	sum := WeightBurn + WeightSleep + WeightMealInterval + WeightCalorieRatio + WeightHeartRate
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestReason(t *testing.T) {
	r := Compute(Signals{}).Reason()
	assert.Equal(t, "burn:0.00, sleep:0.00, meal_interval:1.00, calorie_ratio:1.00, bpm:0.83", r)
}
