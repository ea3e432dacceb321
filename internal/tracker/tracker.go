// ABOUTME: Tracker service composing lookup, flagging, targets, scoring and storage.
// ABOUTME: Every mutating operation refreshes the affected day's lifestyle point.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nourish/internal/flags"
	"github.com/harperreed/nourish/internal/lifestyle"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/harperreed/nourish/internal/targets"
)

var (
	// ErrMissingName is returned when a meal is added without a name.
	ErrMissingName = errors.New("meal name is required")
	// ErrMissingActivityType is returned when an activity has no type.
	ErrMissingActivityType = errors.New("activity type is required")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// Lookup resolves free-text food descriptions. *nutrition.Chain implements it.
type Lookup interface {
	Lookup(ctx context.Context, query string) *nutrition.Result
}

// TargetEstimator computes daily calorie targets. *targets.Estimator implements it.
type TargetEstimator interface {
	Estimate(p *models.UserProfile) targets.Target
}

// FlagObserver is told about every flagged meal.
type FlagObserver interface {
	MealFlagged(reason string)
}

// Service is the nourish application service.
type Service struct {
	repo      storage.Repository
	lookup    Lookup
	estimator TargetEstimator
	logger    *log.Logger
	flagObs   FlagObserver
	now       func() time.Time
}

// New creates a Service. A nil lookup disables nutrition lookup.
func New(repo storage.Repository, lookup Lookup, estimator TargetEstimator, logger *log.Logger) *Service {
	if lookup == nil {
		lookup = nutrition.NewChain(nil, nil)
	}
	if estimator == nil {
		estimator = targets.NewEstimator(nil, logger, nil)
	}
	return &Service{repo: repo, lookup: lookup, estimator: estimator, logger: logger, now: time.Now}
}

// WithFlagObserver registers an observer for flagged meals.
func (s *Service) WithFlagObserver(o FlagObserver) *Service {
	s.flagObs = o
	return s
}

// WithClock overrides the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Repository returns the underlying store.
func (s *Service) Repository() storage.Repository {
	return s.repo
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// LookupNutrition resolves query through the lookup chain; nil when not found.
func (s *Service) LookupNutrition(ctx context.Context, query string) *nutrition.Result {
	return s.lookup.Lookup(ctx, query)
}

// AddMealInput is the user-supplied part of a new meal.
type AddMealInput struct {
	Name string
	// Calories is used only when lookup finds nothing.
	Calories *float64
	// LoggedAt defaults to now.
	LoggedAt time.Time
}

// AddMeal looks the meal up, falls back to manual calories, flags, persists,
// and refreshes the day's lifestyle point.
func (s *Service) AddMeal(ctx context.Context, in AddMealInput) (*models.Meal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	meal := models.NewMeal(name, 0)
	if !in.LoggedAt.IsZero() {
		meal.WithLoggedAt(in.LoggedAt)
	} else {
		meal.WithLoggedAt(s.now())
	}

	if res := s.lookup.Lookup(ctx, name); res != nil {
		meal.Calories = res.Calories
		meal.WithMacros(res.ProteinG, res.CarbsG, res.FatG).WithSource(res.Source)
	} else {
		meal.Calories = manualCalories(in.Calories)
		meal.WithSource(models.SourceManual)
	}

	if f := flags.Apply(meal); f.Flagged {
		if s.flagObs != nil {
			s.flagObs.MealFlagged(f.Reason)
		}
		s.logf("meal flagged", "meal", meal.Name, "reason", f.Reason)
	}

	if err := s.repo.CreateMeal(meal); err != nil {
		return nil, err
	}
	s.refresh(meal.LoggedAt)
	return meal, nil
}

func manualCalories(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// ListMeals returns the meals logged on the local day containing day.
func (s *Service) ListMeals(day time.Time) ([]*models.Meal, error) {
	start, end := models.DayBounds(day)
	return s.repo.ListMeals(start, end, 0)
}

// DeleteMeal removes a meal and refreshes its day.
func (s *Service) DeleteMeal(idOrPrefix string) (*models.Meal, error) {
	meal, err := s.repo.GetMeal(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteMeal(meal.ID.String()); err != nil {
		return nil, err
	}
	s.refresh(meal.LoggedAt)
	return meal, nil
}

// LogActivity stores an activity and refreshes its day.
func (s *Service) LogActivity(a *models.Activity) error {
	a.ActivityType = strings.TrimSpace(a.ActivityType)
	if a.ActivityType == "" {
		return ErrMissingActivityType
	}
	if err := s.repo.CreateActivity(a); err != nil {
		return err
	}
	s.refresh(a.PerformedAt)
	return nil
}

// DeleteActivity removes an activity by ID or prefix and refreshes its day.
func (s *Service) DeleteActivity(idOrPrefix string) (*models.Activity, error) {
	a, err := s.repo.GetActivity(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteActivity(a.ID.String()); err != nil {
		return nil, err
	}
	s.refresh(a.PerformedAt)
	return a, nil
}

// FitnessUpdate carries the fields to change on one day. Nil fields are kept.
type FitnessUpdate struct {
	Date           string
	CaloriesBurned *float64
	AvgBPM         *float64
	SleepHours     *float64
}

// RecordFitness applies a partial update to the fitness day and refreshes it.
func (s *Service) RecordFitness(u FitnessUpdate) (*models.FitnessDay, error) {
	day, err := s.ParseDay(u.Date)
	if err != nil {
		return nil, err
	}
	key := day.Format(models.DateLayout)

	fd, err := s.repo.GetFitnessDay(key)
	if errors.Is(err, storage.ErrNotFound) {
		fd = models.NewFitnessDay(day)
	} else if err != nil {
		return nil, err
	}

	if u.CaloriesBurned != nil {
		fd.CaloriesBurned = *u.CaloriesBurned
	}
	if u.AvgBPM != nil {
		fd.AvgBPM = u.AvgBPM
	}
	if u.SleepHours != nil {
		fd.SleepHours = u.SleepHours
	}

	if err := s.repo.UpsertFitnessDay(fd); err != nil {
		return nil, err
	}
	s.refresh(day)
	return fd, nil
}

// Profile returns the stored profile.
func (s *Service) Profile() (*models.UserProfile, error) {
	return s.repo.GetProfile()
}

// SaveProfile stores p.
func (s *Service) SaveProfile(p *models.UserProfile) error {
	return s.repo.SaveProfile(p)
}

// EstimateTarget returns the daily calorie target for the stored profile.
func (s *Service) EstimateTarget() (targets.Target, error) {
	p, err := s.repo.GetProfile()
	if err != nil {
		return targets.Target{}, err
	}
	return s.estimator.Estimate(p), nil
}

// Score computes the lifestyle breakdown for ad hoc signals.
func (s *Service) Score(sig lifestyle.Signals) lifestyle.Breakdown {
	return lifestyle.Compute(sig)
}

// ParseDay parses YYYY-MM-DD in local time; blank means today.
func (s *Service) ParseDay(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now(), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// refresh recomputes the lifestyle point for day. Failures are logged only;
// the triggering write already succeeded.
func (s *Service) refresh(day time.Time) {
	if _, err := s.DailySummary(day); err != nil && s.logger != nil {
		s.logger.Warn("lifestyle point refresh failed", "date", day.Format(models.DateLayout), "err", err)
	}
}

func (s *Service) logf(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Info(msg, kv...)
	}
}
