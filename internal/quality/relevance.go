package quality

import (
	"strings"
)

const relevanceConfidence = 0.7

// Keyword sets that mark a record as catalog-relevant. Matched as
// lowercase substrings for title/description and exact matches for tags.
var (
	titleKeywords       = []string{"data", "dataset", "analysis", "research"}
	descriptionKeywords = []string{"analysis", "research", "study", "survey"}
	tagKeywords         = []string{"data", "research", "analysis", "statistics"}
)

// RelevanceAnalyzer estimates how useful the record is to catalog
// consumers, from content heuristics plus an optional free-text context.
// Unlike the other analyzers it accumulates bonuses over a 0.5 base.
type RelevanceAnalyzer struct{}

// Analyze scores md, optionally biased by a caller-supplied context
// string whose words are matched against the combined metadata text.
func (RelevanceAnalyzer) Analyze(md Metadata, context string) Score {
	score := 0.5

	titleWords := len(strings.Fields(md.Title))
	if md.Title != "" {
		if titleWords >= 3 {
			score += 0.1
		}
		if containsAnyKeyword(strings.ToLower(md.Title), titleKeywords) {
			score += 0.1
		}
	}

	descWords := len(strings.Fields(md.Description))
	if md.Description != "" {
		if descWords >= 20 {
			score += 0.1
		}
		if containsAnyKeyword(strings.ToLower(md.Description), descriptionKeywords) {
			score += 0.1
		}
	}

	if len(md.Tags) > 0 {
		if len(md.Tags) >= 3 {
			score += 0.1
		}
		for _, tag := range md.Tags {
			if isKeywordTag(strings.ToLower(tag)) {
				score += 0.1
				break
			}
		}
	}

	contextMatches := 0
	if context != "" {
		combined := strings.ToLower(md.Title + " " + md.Description + " " + strings.Join(md.Tags, " "))
		for _, word := range strings.Fields(strings.ToLower(context)) {
			if strings.Contains(combined, word) {
				contextMatches++
			}
		}
		if contextMatches > 0 {
			bonus := float64(contextMatches) * 0.05
			if bonus > 0.2 {
				bonus = 0.2
			}
			score += bonus
		}
	}

	// The pre-clamp score drives the recommendations; records scoring in
	// [0.6, 0.8) intentionally get none.
	var recommendations []string
	if score < 0.6 {
		recommendations = append(recommendations,
			"Improve title descriptiveness",
			"Add more detailed description",
			"Add relevant tags",
		)
	}
	if score >= 0.8 {
		recommendations = append(recommendations, "Dataset content is highly relevant")
	}

	return Score{
		Metric:     MetricRelevance,
		Score:      clamp(score),
		Confidence: relevanceConfidence,
		Details: map[string]interface{}{
			"title_word_count":       titleWords,
			"description_word_count": descWords,
			"tag_count":              len(md.Tags),
			"context_matches":        contextMatches,
		},
		Recommendations: recommendations,
	}
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func isKeywordTag(tag string) bool {
	for _, kw := range tagKeywords {
		if tag == kw {
			return true
		}
	}
	return false
}
