package quality

import (
	"time"
)

// Metric identifies one of the quality dimensions scored in isolation.
type Metric string

const (
	MetricCompleteness Metric = "completeness"
	MetricConsistency  Metric = "consistency"
	MetricValidity     Metric = "validity"
	MetricRelevance    Metric = "relevance"
)

// Metrics lists the assessed metrics in canonical report order.
var Metrics = []Metric{
	MetricCompleteness,
	MetricConsistency,
	MetricValidity,
	MetricRelevance,
}

// Valid reports whether m is one of the assessed metrics.
func (m Metric) Valid() bool {
	switch m {
	case MetricCompleteness, MetricConsistency, MetricValidity, MetricRelevance:
		return true
	}
	return false
}

// Metadata is the typed view of a dataset's metadata record.
// Any field may be zero; analyzers treat zero values as missing and
// never fail on incomplete input.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	OwnerOrg    string
	LicenseID   string
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}

// Score is one metric's result for a single assessment. Immutable once
// produced; score and confidence are always within [0,1].
type Score struct {
	Metric          Metric                 `json:"metric"`
	Score           float64                `json:"score"`
	Confidence      float64                `json:"confidence"`
	Details         map[string]interface{} `json:"details"`
	Recommendations []string               `json:"recommendations"`
}

// Report is a complete quality assessment for one dataset.
// MetricScores holds exactly one Score per metric, in Metrics order.
type Report struct {
	DatasetID       string    `json:"dataset_id"`
	OverallScore    float64   `json:"overall_score"`
	MetricScores    []Score   `json:"metric_scores"`
	AssessmentDate  time.Time `json:"assessment_date"`
	AssessorVersion string    `json:"assessor_version"`
	Summary         string    `json:"summary"`
	Recommendations []string  `json:"recommendations"`
}

// clamp bounds v to [0,1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
