// ABOUTME: On-disk model artifact codec (YAML, which also accepts JSON).
// ABOUTME: A document is either an artifact or a mapping with the artifact under "model".
package targets

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Model kinds.
const (
	KindLinear       = "linear"
	KindTreeEnsemble = "tree_ensemble"
)

// Artifact is the serialized form of a Model.
type Artifact struct {
	Kind         string    `yaml:"kind"`
	Version      string    `yaml:"version,omitempty"`
	Features     []string  `yaml:"features,omitempty"`
	Intercept    float64   `yaml:"intercept,omitempty"`
	Coefficients []float64 `yaml:"coefficients,omitempty"`
	BaseScore    float64   `yaml:"base_score,omitempty"`
	Trees        []Tree    `yaml:"trees,omitempty"`
}

type artifactDoc struct {
	Model    *Artifact `yaml:"model"`
	Artifact `yaml:",inline"`
}

// LoadModel reads and builds the model artifact at path.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeModel(data)
}

// DecodeModel parses an artifact document and builds its Model.
func DecodeModel(data []byte) (Model, error) {
	var doc artifactDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	a := &doc.Artifact
	if doc.Model != nil {
		a = doc.Model
	}
	return a.Build()
}

// Build validates the artifact and returns its Model.
func (a *Artifact) Build() (Model, error) {
	n := len(FeatureNames)
	switch a.Kind {
	case KindLinear:
		if len(a.Coefficients) != n {
			return nil, fmt.Errorf("linear model: got %d coefficients, want %d", len(a.Coefficients), n)
		}
		return &LinearModel{Intercept: a.Intercept, Coefficients: append([]float64(nil), a.Coefficients...)}, nil
	case KindTreeEnsemble:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("tree ensemble: no trees")
		}
		for i, t := range a.Trees {
			if len(t.Nodes) == 0 {
				return nil, fmt.Errorf("tree ensemble: tree %d is empty", i)
			}
		}
		return &TreeEnsemble{BaseScore: a.BaseScore, NumFeatures: n, Trees: a.Trees}, nil
	case "":
		return nil, fmt.Errorf("model artifact: missing kind")
	default:
		return nil, fmt.Errorf("model artifact: unknown kind %q", a.Kind)
	}
}

// SaveModel writes a under the "model" key at path.
func SaveModel(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	data, err := yaml.Marshal(struct {
		Model *Artifact `yaml:"model"`
	}{Model: a})
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
