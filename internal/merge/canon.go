package merge

import (
	"strings"

	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/rules"
)

// CanonicalSentiment maps free-text sentiment onto the closed set. Unmatched
// text is Neutral.
func CanonicalSentiment(text string) core.Sentiment {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "positive"):
		return core.SentimentPositive
	case strings.Contains(lower, "negative"):
		return core.SentimentNegative
	default:
		return core.SentimentNeutral
	}
}

// CanonicalUrgency maps free-text urgency onto the closed set, testing the
// tiers in fixed priority order. Unmatched text yields the rule-based
// fallback so the field is never left unmapped.
func CanonicalUrgency(text string, fallback core.Urgency) core.Urgency {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "high"):
		return core.UrgencyHigh
	case strings.Contains(lower, "med"):
		return core.UrgencyMedium
	case strings.Contains(lower, "low"):
		return core.UrgencyLow
	default:
		return fallback
	}
}

// CanonicalIntent maps free-text intent onto the closed set. The follow-up
// keyword set is tested first and incidents second, mirroring the rule-based
// classifier's precedence; anything unmatched is Other.
func CanonicalIntent(text string) core.Intent {
	if rules.MatchesFollowUp(text) {
		return core.IntentFollowUp
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "incident"):
		return core.IntentIncident
	case strings.Contains(lower, "request"):
		return core.IntentRequest
	case strings.Contains(lower, "question"):
		return core.IntentQuestion
	case strings.Contains(lower, "change"):
		return core.IntentChange
	case strings.Contains(lower, "problem"):
		return core.IntentProblem
	case strings.Contains(lower, "information"):
		return core.IntentInformation
	case strings.Contains(lower, "task"):
		return core.IntentTaskAssignment
	default:
		return core.IntentOther
	}
}
