// ABOUTME: Daily calorie target estimation.
// ABOUTME: Explicit override, then the cached model, then the clamped BMR formula.
package targets

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/nourish/internal/models"
)

// Method records which path produced a target.
type Method string

const (
	MethodOverride Method = "override"
	MethodModel    Method = "model"
	MethodFormula  Method = "formula"
)

// Target is the result of an estimation. BMR and Multiplier are only set on
// the formula path.
type Target struct {
	Calories   float64 `json:"target_calories"`
	Method     Method  `json:"method"`
	BMR        float64 `json:"bmr,omitempty"`
	Multiplier float64 `json:"activity_multiplier,omitempty"`
}

// Estimator computes daily calorie targets.
type Estimator struct {
	models *ModelCache
	logger *log.Logger
	obs    Observer
	now    func() time.Time
}

// NewEstimator creates an estimator. A nil cache disables the model path.
func NewEstimator(cache *ModelCache, logger *log.Logger, obs Observer) *Estimator {
	if cache == nil {
		cache = NewStaticModelCache(nil)
	}
	return &Estimator{models: cache, logger: logger, obs: obs, now: time.Now}
}

// WithClock overrides the clock used to derive age.
func (e *Estimator) WithClock(now func() time.Time) *Estimator {
	e.now = now
	return e
}

// Estimate returns the daily calorie target for p.
// Override and model values are returned unclamped.
func (e *Estimator) Estimate(p *models.UserProfile) Target {
	if p == nil {
		p = &models.UserProfile{}
	}
	if p.HasTargetOverride() {
		return Target{Calories: *p.TargetCalories, Method: MethodOverride}
	}

	now := e.now()
	if v, err := e.predict(p, now); err == nil {
		return Target{Calories: v, Method: MethodModel}
	} else if !errors.Is(err, ErrModelUnavailable) && e.logger != nil {
		e.logger.Warn("target model prediction failed, using formula", "err", err)
	}

	target, bmr, mult := FormulaTarget(p, now)
	return Target{Calories: target, Method: MethodFormula, BMR: bmr, Multiplier: mult}
}

func (e *Estimator) predict(p *models.UserProfile, now time.Time) (v float64, err error) {
	m, err := e.models.Get()
	if err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrPrediction, r)
		}
		if e.obs != nil {
			e.obs.ModelPredict(err)
		}
	}()

	out, err := m.Predict([][]float64{Features(p, now)})
	switch {
	case err != nil:
		return 0, fmt.Errorf("%w: %v", ErrPrediction, err)
	case len(out) == 0:
		return 0, fmt.Errorf("%w: empty output", ErrPrediction)
	case math.IsNaN(out[0]) || math.IsInf(out[0], 0):
		return 0, fmt.Errorf("%w: non-finite output %v", ErrPrediction, out[0])
	case out[0] == 0:
		return 0, fmt.Errorf("%w: zero output", ErrPrediction)
	}
	return out[0], nil
}
