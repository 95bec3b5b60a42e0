// Package merge combines regex-extracted entities, rule-based classification
// and sanitized model JSON into one canonical classification record. The
// merge is pure and total: identical inputs produce identical output, and
// every expected field is populated no matter how little the model returned.
package merge

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// Expected key sets per operation. Extraction responses carry no reply and
// reply generation cares about nothing else.
var (
	AnalysisKeys   = []string{"sentiment", "urgency", "keywords", "intent", "entities", "summary", "generated_reply"}
	ExtractionKeys = []string{"sentiment", "urgency", "keywords", "intent", "entities", "summary"}
	ReplyKeys      = []string{"generated_reply"}
)

// Fallback carries the deterministic per-request values used when the model
// output is missing or unusable: the rule-based classification and the
// subject line for the summary.
type Fallback struct {
	Urgency core.Urgency
	Intent  core.Intent
	Subject string
}

// Normalize builds the canonical record from sanitized model JSON, the
// regex-extracted entities and the rule-based fallback. Regex-derived entity
// values win over model-provided ones on key collision; model keywords are
// bounded to maxKeywords without reordering.
func Normalize(modelJSON string, regexEntities map[string]string, fb Fallback, expectedKeys []string, maxKeywords int) *core.ClassificationResult {
	parsed := map[string]interface{}{}
	if err := json.Unmarshal([]byte(modelJSON), &parsed); err != nil || parsed == nil {
		parsed = map[string]interface{}{}
	}

	if fb.Urgency == "" {
		fb.Urgency = core.UrgencyMedium
	}
	if fb.Intent == "" {
		fb.Intent = core.IntentOther
	}

	expected := make(map[string]bool, len(expectedKeys))
	for _, k := range expectedKeys {
		expected[k] = true
	}

	result := &core.ClassificationResult{
		Sentiment: core.SentimentNeutral,
		Urgency:   fb.Urgency,
		Intent:    fb.Intent,
		Keywords:  []string{},
		Entities:  map[string]string{},
	}

	if expected["sentiment"] {
		if s, ok := parsed["sentiment"].(string); ok {
			result.Sentiment = CanonicalSentiment(s)
		}
	}
	if expected["urgency"] {
		if s, ok := parsed["urgency"].(string); ok {
			result.Urgency = CanonicalUrgency(s, fb.Urgency)
		}
	}
	if expected["intent"] {
		if s, ok := parsed["intent"].(string); ok {
			result.Intent = CanonicalIntent(s)
		}
	}
	if expected["keywords"] {
		result.Keywords = boundKeywords(parsed["keywords"], maxKeywords)
	}
	if expected["entities"] {
		result.Entities = mergeEntities(parsed["entities"], regexEntities)
	}
	if expected["summary"] {
		result.Summary = summaryOrDefault(parsed["summary"], fb.Subject)
	}
	if expected["generated_reply"] {
		result.GeneratedReply = replyText(parsed["generated_reply"])
	}

	return result
}

func boundKeywords(v interface{}, max int) []string {
	keywords := []string{}
	arr, ok := v.([]interface{})
	if !ok {
		return keywords
	}
	for _, item := range arr {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		keywords = append(keywords, s)
		if max > 0 && len(keywords) == max {
			break
		}
	}
	return keywords
}

// mergeEntities overlays regex-derived entities on top of the model's and
// then drops placeholder values. Regex values win because they come from
// explicit text with fixed validators.
func mergeEntities(modelValue interface{}, regexEntities map[string]string) map[string]string {
	merged := make(map[string]string)

	if m, ok := modelValue.(map[string]interface{}); ok {
		for k, v := range m {
			switch val := v.(type) {
			case string:
				merged[k] = val
			case float64:
				merged[k] = strconv.FormatFloat(val, 'f', -1, 64)
			case bool:
				merged[k] = strconv.FormatBool(val)
			}
		}
	}

	for k, v := range regexEntities {
		merged[k] = v
	}

	for k, v := range merged {
		if v == "" || v == "N/A" {
			delete(merged, k)
			continue
		}
		// "Desk" is a known model over-generalization for this key.
		if k == "business_service" && v == "Desk" {
			delete(merged, k)
		}
	}

	return merged
}

func summaryOrDefault(v interface{}, subject string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if strings.TrimSpace(subject) != "" {
		return subject
	}
	return core.SummaryPlaceholder
}

// replyText normalizes the reply field shape: strings pass through, objects
// yield their "body" text sub-field, anything else becomes the fixed
// default reply.
func replyText(v interface{}) string {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) != "" {
			return val
		}
	case map[string]interface{}:
		if body, ok := val["body"].(string); ok && strings.TrimSpace(body) != "" {
			return body
		}
	}
	return core.DefaultReply
}
