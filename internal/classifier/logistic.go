// Package classifier provides implementations of domain.Classifier.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// Model is the on-disk description of a logistic-regression classifier.
type Model struct {
	Name         string    `yaml:"name"`
	Version      string    `yaml:"version"`
	Features     []string  `yaml:"features"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	Scaling      *Scaling  `yaml:"scaling,omitempty"`
}

// Scaling standardises each feature as (x - mean) / std before weighting.
type Scaling struct {
	Mean []float64 `yaml:"mean"`
	Std  []float64 `yaml:"std"`
}

// Logistic scores feature vectors with a fixed logistic-regression model.
// It holds no mutable state and is safe for concurrent use.
type Logistic struct {
	model Model
}

// LoadLogistic reads a YAML model file.
func LoadLogistic(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return NewLogistic(m)
}

// NewLogistic validates m against the feature schema.
func NewLogistic(m Model) (*Logistic, error) {
	if !slices.Equal(m.Features, domain.FeatureNames) {
		return nil, fmt.Errorf("model features %v do not match schema %v", m.Features, domain.FeatureNames)
	}
	n := len(domain.FeatureNames)
	if len(m.Coefficients) != n {
		return nil, fmt.Errorf("model has %d coefficients, want %d", len(m.Coefficients), n)
	}
	if m.Scaling != nil {
		if len(m.Scaling.Mean) != n || len(m.Scaling.Std) != n {
			return nil, errors.New("model scaling must list one mean and std per feature")
		}
		for i, s := range m.Scaling.Std {
			if s == 0 {
				return nil, fmt.Errorf("model scaling std for %s is zero", domain.FeatureNames[i])
			}
		}
	}
	return &Logistic{model: m}, nil
}

// Model returns the loaded model description.
func (l *Logistic) Model() Model { return l.model }

// Score returns sigmoid(intercept + Σ coef·x) over the standardised features.
func (l *Logistic) Score(_ context.Context, fv domain.FeatureVector) (float64, error) {
	z := l.model.Intercept
	for i, x := range fv.Values() {
		if l.model.Scaling != nil {
			x = (x - l.model.Scaling.Mean[i]) / l.model.Scaling.Std[i]
		}
		z += l.model.Coefficients[i] * x
	}
	p := 1 / (1 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, errors.New("logistic score is NaN")
	}
	return p, nil
}
