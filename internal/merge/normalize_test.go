package merge_test

import (
	"testing"

	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRepairsMissingFields(t *testing.T) {
	fb := merge.Fallback{Urgency: core.UrgencyHigh, Intent: core.IntentIncident, Subject: "Printer down"}

	got := merge.Normalize("{}", map[string]string{"error_code": "401"}, fb, merge.AnalysisKeys, 5)

	assert.Equal(t, core.SentimentNeutral, got.Sentiment)
	assert.Equal(t, core.UrgencyHigh, got.Urgency)
	assert.Equal(t, core.IntentIncident, got.Intent)
	assert.Equal(t, []string{}, got.Keywords)
	assert.Equal(t, map[string]string{"error_code": "401"}, got.Entities)
	assert.Equal(t, "Printer down", got.Summary)
	assert.Equal(t, core.DefaultReply, got.GeneratedReply)
}

func TestNormalizeRegexEntitiesWin(t *testing.T) {
	modelJSON := `{"entities": {"error_code": "500"}}`

	got := merge.Normalize(modelJSON, map[string]string{"error_code": "401"}, merge.Fallback{}, merge.AnalysisKeys, 5)

	assert.Equal(t, "401", got.Entities["error_code"])
}

func TestNormalizeDropsPlaceholderEntities(t *testing.T) {
	modelJSON := `{"entities": {
		"business_service": "Desk",
		"assignment_group": "N/A",
		"subcategory": "",
		"system_name": "Desk",
		"error_code": "401"
	}}`

	got := merge.Normalize(modelJSON, nil, merge.Fallback{}, merge.AnalysisKeys, 5)

	assert.Equal(t, map[string]string{
		"system_name": "Desk",
		"error_code":  "401",
	}, got.Entities)
}

func TestNormalizeStringifiesScalarEntities(t *testing.T) {
	modelJSON := `{"entities": {"error_code": 401, "recurring": true, "nested": {"x": 1}}}`

	got := merge.Normalize(modelJSON, nil, merge.Fallback{}, merge.AnalysisKeys, 5)

	assert.Equal(t, map[string]string{
		"error_code": "401",
		"recurring":  "true",
	}, got.Entities)
}

func TestNormalizeCanonicalizesEnumFields(t *testing.T) {
	modelJSON := `{"sentiment": "mostly positive", "urgency": "HIGH!", "intent": "incident report"}`
	fb := merge.Fallback{Urgency: core.UrgencyLow, Intent: core.IntentRequest}

	got := merge.Normalize(modelJSON, nil, fb, merge.AnalysisKeys, 5)

	assert.Equal(t, core.SentimentPositive, got.Sentiment)
	assert.Equal(t, core.UrgencyHigh, got.Urgency)
	assert.Equal(t, core.IntentIncident, got.Intent)
}

func TestNormalizeUnmappedIntentBecomesOther(t *testing.T) {
	modelJSON := `{"intent": "zzz"}`
	fb := merge.Fallback{Intent: core.IntentRequest}

	got := merge.Normalize(modelJSON, nil, fb, merge.AnalysisKeys, 5)

	assert.Equal(t, core.IntentOther, got.Intent)
}

func TestNormalizeBoundsKeywords(t *testing.T) {
	modelJSON := `{"keywords": ["k1", 7, "k2", "", "k3", "k4", "k5", "k6"]}`

	got := merge.Normalize(modelJSON, nil, merge.Fallback{}, merge.AnalysisKeys, 5)
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5"}, got.Keywords)

	got = merge.Normalize(modelJSON, nil, merge.Fallback{}, merge.ExtractionKeys, 10)
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5", "k6"}, got.Keywords)
}

func TestNormalizeReplyShapes(t *testing.T) {
	tests := []struct {
		name      string
		modelJSON string
		want      string
	}{
		{"plain string", `{"generated_reply": "Happy to help."}`, "Happy to help."},
		{"object with body", `{"generated_reply": {"body": "See the attached steps."}}`, "See the attached steps."},
		{"object without body", `{"generated_reply": {"text": "nope"}}`, core.DefaultReply},
		{"number", `{"generated_reply": 42}`, core.DefaultReply},
		{"blank string", `{"generated_reply": "   "}`, core.DefaultReply},
		{"missing", `{}`, core.DefaultReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := merge.Normalize(tt.modelJSON, nil, merge.Fallback{}, merge.AnalysisKeys, 5)
			assert.Equal(t, tt.want, got.GeneratedReply)
		})
	}
}

func TestNormalizeExtractionKeysOmitReply(t *testing.T) {
	modelJSON := `{"generated_reply": "should not appear"}`

	got := merge.Normalize(modelJSON, nil, merge.Fallback{}, merge.ExtractionKeys, 10)

	assert.Empty(t, got.GeneratedReply)
}

func TestNormalizeSummaryFallbacks(t *testing.T) {
	got := merge.Normalize(`{"summary": "User cannot log in."}`, nil, merge.Fallback{}, merge.AnalysisKeys, 5)
	assert.Equal(t, "User cannot log in.", got.Summary)

	got = merge.Normalize(`{"summary": "   "}`, nil, merge.Fallback{Subject: "VPN issue"}, merge.AnalysisKeys, 5)
	assert.Equal(t, "VPN issue", got.Summary)

	got = merge.Normalize(`{}`, nil, merge.Fallback{}, merge.AnalysisKeys, 5)
	assert.Equal(t, core.SummaryPlaceholder, got.Summary)
}

func TestNormalizeIsPure(t *testing.T) {
	modelJSON := `{"entities": {"system_name": "portal"}, "keywords": ["a", "b"]}`
	regexEntities := map[string]string{"incident_number": "INC1"}
	fb := merge.Fallback{Urgency: core.UrgencyMedium, Intent: core.IntentOther, Subject: "s"}

	first := merge.Normalize(modelJSON, regexEntities, fb, merge.AnalysisKeys, 5)
	second := merge.Normalize(modelJSON, regexEntities, fb, merge.AnalysisKeys, 5)

	require.Equal(t, first, second)
	assert.Equal(t, map[string]string{"incident_number": "INC1"}, regexEntities)
}

func TestNormalizeToleratesGarbageJSON(t *testing.T) {
	got := merge.Normalize("not json", nil, merge.Fallback{}, merge.AnalysisKeys, 5)

	assert.Equal(t, core.SentimentNeutral, got.Sentiment)
	assert.Equal(t, core.UrgencyMedium, got.Urgency)
	assert.Equal(t, core.IntentOther, got.Intent)
	assert.NotNil(t, got.Keywords)
	assert.NotNil(t, got.Entities)
	assert.Equal(t, core.SummaryPlaceholder, got.Summary)
	assert.Equal(t, core.DefaultReply, got.GeneratedReply)
}
