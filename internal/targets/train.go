// ABOUTME: Synthetic population and least-squares fit for the target model.
// ABOUTME: Produces a linear Artifact stamped with a time-sortable ULID version.
package targets

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/oklog/ulid/v2"
)

// TrainOptions controls synthetic training.
type TrainOptions struct {
	Samples int
	Seed    int64
}

// DefaultTrainOptions mirrors the reference training run.
var DefaultTrainOptions = TrainOptions{Samples: 50000, Seed: 42}

var (
	trainActivities    = []float64{1.2, 1.375, 1.55, 1.725, 1.9}
	trainActivityProbs = []float64{0.25, 0.35, 0.25, 0.10, 0.05}
	trainGoals         = []float64{0, -1, 1}
	trainGoalProbs     = []float64{0.65, 0.20, 0.15}
)

// Synthesize draws n synthetic (features, target) pairs.
func Synthesize(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)

	for i := 0; i < n; i++ {
		age := float64(18 + rng.Intn(52))
		sex := float64(rng.Intn(2))
		height := clamp(165+10*rng.NormFloat64(), 140, 210)
		weight := clamp(70+15*rng.NormFloat64(), 35, 160)
		activity := choose(rng, trainActivities, trainActivityProbs)
		goal := choose(rng, trainGoals, trainGoalProbs)

		bmr := 10*weight + 6.25*height - 5*age
		if sex == 1 {
			bmr += 5
		} else {
			bmr -= 161
		}
		X[i] = []float64{age, sex, height, weight, activity, goal}
		y[i] = bmr*activity + goal*GoalAdjustment + 120*rng.NormFloat64()
	}
	return X, y
}

// Train fits a linear model on a synthetic population.
func Train(opts TrainOptions) (*Artifact, error) {
	if opts.Samples <= len(FeatureNames) {
		return nil, fmt.Errorf("train: need more than %d samples, got %d", len(FeatureNames), opts.Samples)
	}
	X, y := Synthesize(opts.Samples, opts.Seed)
	intercept, coef, err := FitLinear(X, y)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	return &Artifact{
		Kind:         KindLinear,
		Version:      ulid.Make().String(),
		Features:     append([]string(nil), FeatureNames...),
		Intercept:    intercept,
		Coefficients: coef,
	}, nil
}

// FitLinear solves ordinary least squares with an intercept via the normal
// equations.
func FitLinear(X [][]float64, y []float64) (float64, []float64, error) {
	if len(X) == 0 || len(X) != len(y) {
		return 0, nil, errors.New("fit: mismatched or empty inputs")
	}
	p := len(X[0]) + 1
	A := make([][]float64, p)
	for i := range A {
		A[i] = make([]float64, p+1)
	}

	row := make([]float64, p)
	for i, x := range X {
		if len(x) != p-1 {
			return 0, nil, fmt.Errorf("fit: row %d has %d features, want %d", i, len(x), p-1)
		}
		row[0] = 1
		copy(row[1:], x)
		for r := 0; r < p; r++ {
			for c := 0; c < p; c++ {
				A[r][c] += row[r] * row[c]
			}
			A[r][p] += row[r] * y[i]
		}
	}

	beta, err := solve(A)
	if err != nil {
		return 0, nil, err
	}
	return beta[0], beta[1:], nil
}

// solve runs Gauss-Jordan elimination with partial pivoting on an augmented
// matrix.
func solve(A [][]float64) ([]float64, error) {
	n := len(A)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(A[r][col]) > math.Abs(A[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(A[pivot][col]) < 1e-12 {
			return nil, errors.New("fit: singular design matrix")
		}
		A[col], A[pivot] = A[pivot], A[col]

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := A[r][col] / A[col][col]
			for c := col; c <= n; c++ {
				A[r][c] -= f * A[col][c]
			}
		}
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = A[i][n] / A[i][i]
	}
	return out, nil
}

func choose(rng *rand.Rand, values, probs []float64) float64 {
	u := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if u < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}
