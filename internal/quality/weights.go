package quality

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights is the per-metric weight table used for the overall score.
// Weights must each be within [0,1] and sum to 1.0.
type Weights struct {
	Completeness float64 `yaml:"completeness" json:"completeness"`
	Consistency  float64 `yaml:"consistency" json:"consistency"`
	Validity     float64 `yaml:"validity" json:"validity"`
	Relevance    float64 `yaml:"relevance" json:"relevance"`
}

// DefaultWeights returns the built-in weight table. Changing these
// constants requires bumping Version.
func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.30,
		Consistency:  0.25,
		Validity:     0.25,
		Relevance:    0.20,
	}
}

// LoadWeights reads a weight table from a YAML file. Unknown fields and
// invalid tables are rejected so a bad configuration fails at startup,
// not per assessment.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights file: %w", err)
	}

	var w Weights
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // reject typos and unused fields immediately
	if err := dec.Decode(&w); err != nil {
		return Weights{}, fmt.Errorf("parse weights file: %w", err)
	}

	if err := w.Validate(); err != nil {
		return Weights{}, fmt.Errorf("invalid weights in %s: %w", path, err)
	}

	return w, nil
}

// Validate checks bounds and that the table sums to 1.0.
func (w Weights) Validate() error {
	for _, entry := range []struct {
		metric Metric
		value  float64
	}{
		{MetricCompleteness, w.Completeness},
		{MetricConsistency, w.Consistency},
		{MetricValidity, w.Validity},
		{MetricRelevance, w.Relevance},
	} {
		if entry.value < 0 || entry.value > 1 {
			return fmt.Errorf("weight for %s must be in [0,1], got %v", entry.metric, entry.value)
		}
	}

	sum := w.Completeness + w.Consistency + w.Validity + w.Relevance
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}

	return nil
}

// ForMetric returns the weight assigned to m, 0 for unknown metrics.
func (w Weights) ForMetric(m Metric) float64 {
	switch m {
	case MetricCompleteness:
		return w.Completeness
	case MetricConsistency:
		return w.Consistency
	case MetricValidity:
		return w.Validity
	case MetricRelevance:
		return w.Relevance
	}
	return 0
}
