// ABOUTME: Daily summary aggregation for one calendar day.
// ABOUTME: Totals intake, resolves the target, scores the day and persists the point.
package tracker

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/harperreed/nourish/internal/lifestyle"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/harperreed/nourish/internal/targets"
)

// DailySummary is everything known about one day.
type DailySummary struct {
	Date                 string                 `json:"date"`
	Meals                []*models.Meal         `json:"meals"`
	Consumed             float64                `json:"consumed"`
	ProteinG             float64                `json:"consumed_protein"`
	CarbsG               float64                `json:"consumed_carbs"`
	FatG                 float64                `json:"consumed_fat"`
	Target               targets.Target         `json:"target"`
	Remaining            float64                `json:"remaining"`
	Excess               float64                `json:"excess"`
	ActivityBurned       float64                `json:"activity_burned"`
	AvgMealIntervalHours *float64               `json:"avg_meal_interval_hours,omitempty"`
	Fitness              *models.FitnessDay     `json:"fitness,omitempty"`
	Lifestyle            lifestyle.Breakdown    `json:"lifestyle"`
	Point                *models.LifestylePoint `json:"lifestyle_point"`
}

// DailySummary aggregates the local day containing day and upserts its
// lifestyle point.
func (s *Service) DailySummary(day time.Time) (*DailySummary, error) {
	start, end := models.DayBounds(day)
	key := start.Format(models.DateLayout)

	meals, err := s.repo.ListMeals(start, end, 0)
	if err != nil {
		return nil, err
	}
	activities, err := s.repo.ListActivities(start, end, 0)
	if err != nil {
		return nil, err
	}
	fd, err := s.repo.GetFitnessDay(key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	profile, err := s.repo.GetProfile()
	if err != nil {
		return nil, err
	}

	sum := &DailySummary{Date: key, Meals: meals, Fitness: fd}

	var consumed, protein, carbs, fat float64
	for _, m := range meals {
		consumed += m.Calories
		protein += m.ProteinG
		carbs += m.CarbsG
		fat += m.FatG
	}

	sum.Target = s.estimator.Estimate(profile)
	target := sum.Target.Calories
	sum.Consumed = math.Round(consumed)
	sum.ProteinG = math.Round(protein)
	sum.CarbsG = math.Round(carbs)
	sum.FatG = math.Round(fat)
	sum.Remaining = math.Round(target - consumed)
	sum.Excess = math.Round(math.Max(0, consumed-target))

	burned := 0.0
	if fd != nil {
		burned += fd.CaloriesBurned
	}
	for _, a := range activities {
		if a.CaloriesBurned != nil {
			burned += *a.CaloriesBurned
		}
	}
	sum.ActivityBurned = burned
	sum.AvgMealIntervalHours = AverageMealInterval(meals)

	sig := lifestyle.Signals{
		CaloriesBurned:    &burned,
		MealIntervalHours: sum.AvgMealIntervalHours,
		CaloriesIntake:    &consumed,
		TargetCalories:    &target,
	}
	if fd != nil {
		sig.SleepHours = fd.SleepHours
		sig.AvgHeartRate = fd.AvgBPM
	}
	sum.Lifestyle = lifestyle.Compute(sig)

	point := models.NewLifestylePoint(key, sum.Lifestyle.Total, sum.Lifestyle.Reason())
	if err := s.repo.UpsertLifestylePoint(point); err != nil {
		return nil, err
	}
	if stored, err := s.repo.GetLifestylePoint(key); err == nil {
		point = stored
	}
	sum.Point = point
	return sum, nil
}

// AverageMealInterval returns the mean gap in hours between consecutive
// meals ordered by logged time, or nil with fewer than two meals.
func AverageMealInterval(meals []*models.Meal) *float64 {
	if len(meals) < 2 {
		return nil
	}
	times := make([]time.Time, 0, len(meals))
	for _, m := range meals {
		times = append(times, m.LoggedAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	total := times[len(times)-1].Sub(times[0]).Hours()
	avg := total / float64(len(times)-1)
	return &avg
}
