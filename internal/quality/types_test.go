package quality

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric_Valid(t *testing.T) {
	for _, m := range Metrics {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Metric("timeliness").Valid())
	assert.False(t, Metric("").Valid())
}

func TestReport_JSONFieldNames(t *testing.T) {
	report := NewAssessor().Assess("climate-obs", fullMetadata(), "")

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"dataset_id",
		"overall_score",
		"metric_scores",
		"assessment_date",
		"assessor_version",
		"summary",
		"recommendations",
	} {
		assert.Contains(t, decoded, key)
	}

	scores, ok := decoded["metric_scores"].([]interface{})
	require.True(t, ok)
	require.Len(t, scores, 4)

	first, ok := scores[0].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"metric", "score", "confidence", "details", "recommendations"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "completeness", first["metric"])
}

func TestReport_JSONRoundTrip(t *testing.T) {
	original := NewAssessor().Assess("climate-obs", fullMetadata(), "climate")

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.DatasetID, decoded.DatasetID)
	assert.InDelta(t, original.OverallScore, decoded.OverallScore, 1e-12)
	assert.Equal(t, original.Summary, decoded.Summary)
	assert.Equal(t, original.Recommendations, decoded.Recommendations)
	assert.True(t, original.AssessmentDate.Equal(decoded.AssessmentDate))
}
