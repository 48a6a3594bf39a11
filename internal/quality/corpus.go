package quality

import (
	"errors"
	"math"
	"sort"
)

// ErrNoReports is returned when corpus statistics are requested for an
// empty set of reports.
var ErrNoReports = errors.New("no reports to compare")

// Distribution counts reports per summary tier.
type Distribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// CorpusStats summarizes overall scores across a set of reports.
type CorpusStats struct {
	AverageScore      float64      `json:"average_score"`
	MedianScore       float64      `json:"median_score"`
	MinScore          float64      `json:"min_score"`
	MaxScore          float64      `json:"max_score"`
	StdDeviation      float64      `json:"std_deviation"`
	TotalDatasets     int          `json:"total_datasets"`
	ScoreDistribution Distribution `json:"score_distribution"`
}

// Compare computes distributional statistics over the overall scores of
// previously computed reports. The standard deviation is the sample
// deviation (n-1 denominator), 0 for a single report.
func Compare(reports []*Report) (*CorpusStats, error) {
	if len(reports) == 0 {
		return nil, ErrNoReports
	}

	scores := make([]float64, len(reports))
	for i, r := range reports {
		scores[i] = r.OverallScore
	}

	stats := &CorpusStats{
		AverageScore:  mean(scores),
		MedianScore:   median(scores),
		MinScore:      minOf(scores),
		MaxScore:      maxOf(scores),
		StdDeviation:  sampleStdDev(scores),
		TotalDatasets: len(reports),
	}

	for _, s := range scores {
		switch {
		case s >= thresholdExcellent:
			stats.ScoreDistribution.Excellent++
		case s >= thresholdGood:
			stats.ScoreDistribution.Good++
		case s >= thresholdFair:
			stats.ScoreDistribution.Fair++
		default:
			stats.ScoreDistribution.Poor++
		}
	}

	return stats, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// sampleStdDev uses Bessel's correction; a single sample has no spread.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	avg := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(n-1))
}
