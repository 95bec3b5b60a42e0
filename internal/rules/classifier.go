// Package rules implements the keyword-driven classifier used as the
// deterministic baseline and fallback for model-based analysis.
package rules

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

var intentTitle = cases.Title(language.English)

// Urgency determines the urgency level from keywords in the text.
// High-set matches win over medium-set matches regardless of how many
// medium keywords also occur.
func Urgency(text string) core.Urgency {
	lower := strings.ToLower(text)

	if containsAny(lower, highUrgencyKeywords) {
		return core.UrgencyHigh
	}
	if containsAny(lower, mediumUrgencyKeywords) {
		return core.UrgencyMedium
	}
	return core.UrgencyLow
}

// Intent determines the intent of the email from keywords in the text.
// Follow-up is the most specific signal and is checked first, incidents
// second; the remaining categories are tested in their fixed table order.
func Intent(text string) core.Intent {
	lower := strings.ToLower(text)

	if containsAny(lower, followUpKeywords) {
		return core.IntentFollowUp
	}
	if containsAny(lower, incidentKeywords) {
		return core.IntentIncident
	}

	for _, cat := range intentCategories {
		if cat.name == "follow-up" || cat.name == "incident" {
			continue
		}
		if containsAny(lower, cat.keywords) {
			return core.Intent(intentTitle.String(cat.name))
		}
	}

	return core.IntentOther
}

// MatchesFollowUp reports whether any follow-up keyword occurs in the text.
// The merge stage uses the same test when canonicalizing model-provided
// intent strings.
func MatchesFollowUp(text string) bool {
	return containsAny(strings.ToLower(text), followUpKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
