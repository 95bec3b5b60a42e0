// Package entities mines structured fields out of free-form email text
// using a fixed table of regular expressions, with per-field shape
// validation so that dirty captures are dropped instead of kept.
package entities

import (
	"regexp"
	"strings"
)

var (
	identifierShape = regexp.MustCompile(`^[A-Z0-9]+$`)
	properNounShape = regexp.MustCompile(`^[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*$`)
	locationShape   = regexp.MustCompile(`(?i)^[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*\s+(?:` + locationSuffixes + `)$`)
	dateShape       = regexp.MustCompile(`(?i)^(?:(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+\d{1,2}(?:st|nd|rd|th)?\s*,?\s*\d{4}\b|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|(?:tomorrow|next week|next month|today|yesterday)\b)`)
)

// Extract runs every entity pattern against the text and returns the
// validated matches. Each entity yields at most one value, taken from the
// first match in the text.
func Extract(text string) map[string]string {
	entities := make(map[string]string)

	for name, pattern := range entityPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}

		switch name {
		case "incident_number", "change_request", "problem_number", "task_number", "user_id", "request_number":
			if value = cleanMatch(value); identifierShape.MatchString(value) {
				entities[name] = value
			}
		case "business_service":
			if normalized := NormalizeBusinessService(value); normalized != "" {
				entities[name] = normalized
			}
		case "date":
			if dateShape.MatchString(value) {
				entities[name] = value
			}
		case "department":
			if value = cleanMatch(value); properNounShape.MatchString(value) {
				entities[name] = value
			}
		case "location":
			if value = cleanMatch(value); locationShape.MatchString(value) {
				entities[name] = value
			}
		default:
			if value = cleanMatch(value); value != "" {
				entities[name] = value
			}
		}
	}

	return entities
}

// cleanMatch drops any newline-delimited continuation and strips leading and
// trailing non-alphanumeric characters from a captured value.
func cleanMatch(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimFunc(value, func(r rune) bool {
		return !isAlphanumeric(r)
	})
}

func isAlphanumeric(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
