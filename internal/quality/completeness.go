package quality

import (
	"fmt"
	"strings"
)

// requiredFields and optionalFields define the completeness field groups,
// in reporting order.
var (
	requiredFields = []string{"title", "description", "owner_org", "license_id"}
	optionalFields = []string{"tags", "created_at", "updated_at"}
)

const (
	completenessConfidence = 0.9
	optionalBonusWeight    = 0.2
)

// CompletenessAnalyzer scores how many of the expected metadata fields
// are actually filled in.
type CompletenessAnalyzer struct{}

// Analyze scores md against the required/optional field groups.
// base = present_required/4, plus up to 0.2 bonus for optional fields.
func (CompletenessAnalyzer) Analyze(md Metadata) Score {
	present := map[string]bool{
		"title":       md.Title != "",
		"description": md.Description != "",
		"owner_org":   md.OwnerOrg != "",
		"license_id":  md.LicenseID != "",
		"tags":        len(md.Tags) > 0,
		"created_at":  md.CreatedAt != nil,
		"updated_at":  md.UpdatedAt != nil,
	}

	presentRequired := 0
	var missing []string
	for _, field := range requiredFields {
		if present[field] {
			presentRequired++
		} else {
			missing = append(missing, field)
		}
	}

	presentOptional := 0
	for _, field := range optionalFields {
		if present[field] {
			presentOptional++
		}
	}

	base := float64(presentRequired) / float64(len(requiredFields))
	bonus := float64(presentOptional) / float64(len(optionalFields)) * optionalBonusWeight

	var recommendations []string
	if len(missing) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Add missing required fields: %s", strings.Join(missing, ", ")))
	}
	if !present["tags"] {
		recommendations = append(recommendations, "Add tags to improve discoverability")
	}

	if missing == nil {
		missing = []string{}
	}

	return Score{
		Metric:     MetricCompleteness,
		Score:      clamp(base + bonus),
		Confidence: completenessConfidence,
		Details: map[string]interface{}{
			"required_fields_present": presentRequired,
			"total_required_fields":   len(requiredFields),
			"optional_fields_present": presentOptional,
			"total_optional_fields":   len(optionalFields),
			"missing_fields":          missing,
		},
		Recommendations: recommendations,
	}
}
