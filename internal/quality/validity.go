package quality

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

const validityConfidence = 0.9

const maxTagLen = 50

// ValidLicenses is the license allow-list checked by the validity analyzer.
var ValidLicenses = []string{"MIT", "Apache-2.0", "GPL-3.0", "BSD-3-Clause", "CC-BY-4.0", "CC0-1.0"}

var (
	titlePattern   = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,()]+$`)
	tagPattern     = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
)

// ValidityAnalyzer checks field contents against format rules: character
// sets, HTML fragments, tag length, and the license allow-list.
type ValidityAnalyzer struct{}

// Analyze scores md starting from 1.0 with cumulative penalties per
// violation, clamped at zero. Each tag is checked independently and can
// accumulate multiple penalties.
func (ValidityAnalyzer) Analyze(md Metadata) Score {
	var issues []string
	score := 1.0

	if md.Title != "" && !titlePattern.MatchString(md.Title) {
		issues = append(issues, "Title contains invalid characters")
		score -= 0.2
	}

	// Descriptions are plain text; anything tag-shaped is suspect.
	if md.Description != "" && htmlTagPattern.MatchString(md.Description) {
		issues = append(issues, "Description contains HTML tags")
		score -= 0.1
	}

	for _, tag := range md.Tags {
		if utf8.RuneCountInString(tag) > maxTagLen {
			issues = append(issues, fmt.Sprintf("Tag '%s' is too long", tag))
			score -= 0.1
		}
		if !tagPattern.MatchString(tag) {
			issues = append(issues, fmt.Sprintf("Tag '%s' contains invalid characters", tag))
			score -= 0.1
		}
	}

	if md.OwnerOrg != "" && utf8.RuneCountInString(md.OwnerOrg) < 2 {
		issues = append(issues, "Organization name is too short")
		score -= 0.2
	}

	if md.LicenseID != "" && !licenseAllowed(md.LicenseID) {
		issues = append(issues, fmt.Sprintf("Unknown license: %s", md.LicenseID))
		score -= 0.1
	}

	var recommendations []string
	for _, issue := range issues {
		recommendations = append(recommendations, "Fix: "+issue)
	}
	if len(issues) == 0 {
		recommendations = append(recommendations, "All metadata is valid")
	}

	if issues == nil {
		issues = []string{}
	}

	return Score{
		Metric:     MetricValidity,
		Score:      clamp(score),
		Confidence: validityConfidence,
		Details: map[string]interface{}{
			"issues_found":   len(issues),
			"issues":         issues,
			"valid_licenses": ValidLicenses,
		},
		Recommendations: recommendations,
	}
}

func licenseAllowed(license string) bool {
	for _, valid := range ValidLicenses {
		if license == valid {
			return true
		}
	}
	return false
}
