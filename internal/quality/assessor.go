package quality

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Version tags the scoring-rule revision that produced a report. Bump it
// whenever weights, penalties, or recommendation wording change.
const Version = "1.0.0"

// Summary tier thresholds on the overall score.
const (
	thresholdExcellent = 0.9
	thresholdGood      = 0.7
	thresholdFair      = 0.5
)

// Assessor runs the four analyzers and combines their scores into a
// single report. It holds no mutable state; a single instance can serve
// concurrent assessments.
type Assessor struct {
	weights      Weights
	completeness CompletenessAnalyzer
	consistency  ConsistencyAnalyzer
	validity     ValidityAnalyzer
	relevance    RelevanceAnalyzer
}

// NewAssessor creates an assessor with the built-in weight table.
func NewAssessor() *Assessor {
	a, _ := NewAssessorWithWeights(DefaultWeights())
	return a
}

// NewAssessorWithWeights creates an assessor with a custom weight table.
// Invalid tables are rejected up front.
func NewAssessorWithWeights(w Weights) (*Assessor, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Assessor{weights: w}, nil
}

// Weights returns the weight table in use.
func (a *Assessor) Weights() Weights {
	return a.weights
}

// Assess produces a quality report for one dataset. It never fails:
// missing or malformed metadata degrades the scores instead of raising
// an error, so every record gets a report.
func (a *Assessor) Assess(datasetID string, md Metadata, contextText string) *Report {
	scores := []Score{
		a.completeness.Analyze(md),
		a.consistency.Analyze(md),
		a.validity.Analyze(md),
		a.relevance.Analyze(md, contextText),
	}

	overall := 0.0
	for _, s := range scores {
		overall += s.Score * a.weights.ForMetric(s.Metric)
	}

	// Union of analyzer recommendations, first occurrence wins.
	seen := make(map[string]struct{})
	var recommendations []string
	for _, s := range scores {
		for _, rec := range s.Recommendations {
			if _, ok := seen[rec]; ok {
				continue
			}
			seen[rec] = struct{}{}
			recommendations = append(recommendations, rec)
		}
	}

	return &Report{
		DatasetID:       datasetID,
		OverallScore:    overall,
		MetricScores:    scores,
		AssessmentDate:  time.Now().UTC(),
		AssessorVersion: Version,
		Summary:         summarize(overall),
		Recommendations: recommendations,
	}
}

// summarize maps an overall score to its tier description.
func summarize(overall float64) string {
	switch {
	case overall >= thresholdExcellent:
		return "Excellent data quality with minimal issues."
	case overall >= thresholdGood:
		return "Good data quality with some minor improvements needed."
	case overall >= thresholdFair:
		return "Fair data quality with several areas for improvement."
	default:
		return "Poor data quality requiring significant improvements."
	}
}

// Benchmarks returns the lower bound of each summary tier.
func (a *Assessor) Benchmarks() map[string]float64 {
	return map[string]float64{
		"excellent": thresholdExcellent,
		"good":      thresholdGood,
		"fair":      thresholdFair,
		"poor":      0.0,
	}
}

// BatchItem is one unit of work for batch assessment.
type BatchItem struct {
	DatasetID string
	Metadata  Metadata
}

// AssessBatch assesses many datasets concurrently with at most workers
// goroutines. Reports come back in input order. Assessments themselves
// cannot fail; the only error source is context cancellation.
func (a *Assessor) AssessBatch(ctx context.Context, items []BatchItem, contextText string, workers int) ([]*Report, error) {
	if workers < 1 {
		workers = 1
	}

	reports := make([]*Report, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = a.Assess(item.DatasetID, item.Metadata, contextText)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
