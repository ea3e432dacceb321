// ABOUTME: Predictive model capability and the two portable model kinds.
// ABOUTME: Linear regression and gradient-boosted regression tree ensembles.
package targets

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable means no model could be loaded for this process.
	ErrModelUnavailable = errors.New("target model unavailable")
	// ErrPrediction means the model failed on this input.
	ErrPrediction = errors.New("target model prediction failed")
)

// Model predicts one value per feature row.
type Model interface {
	Predict(rows [][]float64) ([]float64, error)
}

// LinearModel is y = intercept + coefficients . x.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// Predict implements Model.
func (m *LinearModel) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("row %d: got %d features, want %d", i, len(row), len(m.Coefficients))
		}
		y := m.Intercept
		for j, c := range m.Coefficients {
			y += c * row[j]
		}
		out[i] = y
	}
	return out, nil
}

// TreeNode is one node of a regression tree. Internal nodes route rows with
// x[Feature] < Threshold to Left, others to Right.
type TreeNode struct {
	Leaf      bool    `yaml:"leaf,omitempty"`
	Value     float64 `yaml:"value,omitempty"`
	Feature   int     `yaml:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Left      int     `yaml:"left,omitempty"`
	Right     int     `yaml:"right,omitempty"`
}

// Tree is a flat node array rooted at index 0.
type Tree struct {
	Nodes []TreeNode `yaml:"nodes"`
}

// TreeEnsemble sums BaseScore and the leaf values of every tree.
type TreeEnsemble struct {
	BaseScore   float64
	NumFeatures int
	Trees       []Tree
}

// Predict implements Model.
func (m *TreeEnsemble) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != m.NumFeatures {
			return nil, fmt.Errorf("row %d: got %d features, want %d", i, len(row), m.NumFeatures)
		}
		y := m.BaseScore
		for t := range m.Trees {
			v, err := m.Trees[t].eval(row)
			if err != nil {
				return nil, fmt.Errorf("tree %d: %w", t, err)
			}
			y += v
		}
		out[i] = y
	}
	return out, nil
}

func (t *Tree) eval(row []float64) (float64, error) {
	idx := 0
	// A well-formed tree reaches a leaf in fewer steps than it has nodes.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		n := t.Nodes[idx]
		if n.Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(row) {
			return 0, fmt.Errorf("node %d: feature %d out of range", idx, n.Feature)
		}
		if row[n.Feature] < n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, errors.New("cycle detected")
}
