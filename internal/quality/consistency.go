package quality

import (
	"unicode/utf8"
)

const consistencyConfidence = 0.8

// Length bounds for consistency checks, in characters.
const (
	minTitleLen       = 5
	maxTitleLen       = 255
	minDescriptionLen = 20
	maxDescriptionLen = 2000
	maxTagCount       = 20
)

// ConsistencyAnalyzer checks the metadata record for internal
// contradictions: field lengths out of range, duplicate tags, and
// timestamps out of order. Penalties are cumulative; the score is
// clamped at zero.
type ConsistencyAnalyzer struct{}

// Analyze scores md starting from 1.0 and subtracting a fixed penalty
// for each issue found. Missing fields are skipped, not penalized.
func (ConsistencyAnalyzer) Analyze(md Metadata) Score {
	var issues []string
	score := 1.0

	titleLen := utf8.RuneCountInString(md.Title)
	if md.Title != "" {
		if titleLen < minTitleLen {
			issues = append(issues, "Title is too short")
			score -= 0.2
		} else if titleLen > maxTitleLen {
			issues = append(issues, "Title is too long")
			score -= 0.1
		}
	}

	descLen := utf8.RuneCountInString(md.Description)
	if md.Description != "" {
		if descLen < minDescriptionLen {
			issues = append(issues, "Description is too short")
			score -= 0.2
		} else if descLen > maxDescriptionLen {
			issues = append(issues, "Description is too long")
			score -= 0.1
		}
	}

	if len(md.Tags) > 0 {
		if len(md.Tags) > maxTagCount {
			issues = append(issues, "Too many tags")
			score -= 0.1
		}

		seen := make(map[string]struct{}, len(md.Tags))
		for _, tag := range md.Tags {
			seen[tag] = struct{}{}
		}
		if len(seen) != len(md.Tags) {
			issues = append(issues, "Duplicate tags found")
			score -= 0.1
		}
	}

	if md.CreatedAt != nil && md.UpdatedAt != nil {
		if md.UpdatedAt.Before(*md.CreatedAt) {
			issues = append(issues, "Updated date is before created date")
			score -= 0.3
		}
	}

	var recommendations []string
	for _, issue := range issues {
		recommendations = append(recommendations, "Fix: "+issue)
	}
	if len(issues) == 0 {
		recommendations = append(recommendations, "Metadata is consistent")
	}

	if issues == nil {
		issues = []string{}
	}

	return Score{
		Metric:     MetricConsistency,
		Score:      clamp(score),
		Confidence: consistencyConfidence,
		Details: map[string]interface{}{
			"issues_found":       len(issues),
			"issues":             issues,
			"title_length":       titleLen,
			"description_length": descLen,
			"tag_count":          len(md.Tags),
		},
		Recommendations: recommendations,
	}
}
