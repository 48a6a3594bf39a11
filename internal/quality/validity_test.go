package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidityAnalyzer_CleanRecord(t *testing.T) {
	score := ValidityAnalyzer{}.Analyze(fullMetadata())

	assert.Equal(t, MetricValidity, score.Metric)
	assert.InDelta(t, 1.0, score.Score, 1e-9)
	assert.InDelta(t, 0.9, score.Confidence, 1e-9)
	assert.Equal(t, []string{"All metadata is valid"}, score.Recommendations)
	assert.Equal(t, ValidLicenses, score.Details["valid_licenses"])
}

func TestValidityAnalyzer_TitleCharacters(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantScore float64
	}{
		{"plain title", "Air Quality Readings", 1.0},
		{"punctuation allowed", "Air Quality (PM2.5), 2024 - raw_data", 1.0},
		{"at sign rejected", "Data@Set", 0.8},
		{"angle brackets rejected", "<script>Data</script>", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ValidityAnalyzer{}.Analyze(Metadata{Title: tt.title})
			assert.InDelta(t, tt.wantScore, score.Score, 1e-9)
		})
	}
}

func TestValidityAnalyzer_HTMLInDescription(t *testing.T) {
	score := ValidityAnalyzer{}.Analyze(Metadata{
		Description: "Contains <b>markup</b> that should not be here",
	})

	assert.InDelta(t, 0.9, score.Score, 1e-9)
	assert.Contains(t, score.Details["issues"], "Description contains HTML tags")
}

func TestValidityAnalyzer_TagChecks(t *testing.T) {
	t.Run("invalid characters", func(t *testing.T) {
		score := ValidityAnalyzer{}.Analyze(Metadata{Tags: []string{"data", "data!"}})

		assert.InDelta(t, 0.9, score.Score, 1e-9)
		assert.Equal(t, []string{"Fix: Tag 'data!' contains invalid characters"}, score.Recommendations)
	})

	t.Run("too long", func(t *testing.T) {
		long := strings.Repeat("a", 51)
		score := ValidityAnalyzer{}.Analyze(Metadata{Tags: []string{long}})

		assert.InDelta(t, 0.9, score.Score, 1e-9)
		assert.Contains(t, score.Details["issues"], "Tag '"+long+"' is too long")
	})

	t.Run("long and invalid stacks both penalties", func(t *testing.T) {
		bad := strings.Repeat("!", 51)
		score := ValidityAnalyzer{}.Analyze(Metadata{Tags: []string{bad}})

		assert.InDelta(t, 0.8, score.Score, 1e-9)
		assert.Equal(t, 2, score.Details["issues_found"])
	})
}

func TestValidityAnalyzer_OrganizationTooShort(t *testing.T) {
	score := ValidityAnalyzer{}.Analyze(Metadata{OwnerOrg: "A"})

	assert.InDelta(t, 0.8, score.Score, 1e-9)
	assert.Contains(t, score.Details["issues"], "Organization name is too short")
}

func TestValidityAnalyzer_UnknownLicense(t *testing.T) {
	score := ValidityAnalyzer{}.Analyze(Metadata{LicenseID: "WTFPL"})

	assert.InDelta(t, 0.9, score.Score, 1e-9)
	assert.Contains(t, score.Details["issues"], "Unknown license: WTFPL")
}

func TestValidityAnalyzer_ScoreClampedAtZero(t *testing.T) {
	tags := make([]string, 15)
	for i := range tags {
		tags[i] = "bad tag!"
	}

	score := ValidityAnalyzer{}.Analyze(Metadata{Tags: tags})

	assert.InDelta(t, 0.0, score.Score, 1e-9)
	assert.Equal(t, 15, score.Details["issues_found"])
}
