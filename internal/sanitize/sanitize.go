// Package sanitize turns raw model output into valid JSON. The pipeline is
// total: every input string, however malformed, yields a parseable JSON
// object, falling back to a canonical default when nothing can be recovered.
package sanitize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// Shape selects which canonical default object stands in when recovery fails.
type Shape int

const (
	// ShapeClassification is the sentiment/urgency/keywords/intent/entities
	// skeleton.
	ShapeClassification Shape = iota
	// ShapeReply is the single generated_reply field.
	ShapeReply
)

// DefaultClassification is the canonical empty classification object.
const DefaultClassification = `{"sentiment": "Neutral", "urgency": "Medium", "keywords": [], "intent": "Other", "entities": {}}`

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	replyField = regexp.MustCompile(`"generated_reply"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	controlEscaper = strings.NewReplacer("\n", `\n`, "\t", `\t`)
)

// DefaultFor returns the canonical fallback JSON object for a shape.
func DefaultFor(shape Shape) string {
	if shape == ShapeReply {
		return `{"generated_reply": "` + core.DefaultReply + `"}`
	}
	return DefaultClassification
}

// Response cleans raw model output into a valid JSON object. Markdown code
// fences are stripped, the first-{ to last-} substring is carved out of any
// surrounding prose, control characters are dropped and line endings
// normalized. If the candidate still does not parse, a generated_reply string
// field is recovered when one is present; otherwise the canonical default for
// the shape is returned.
func Response(raw string, shape Shape) string {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = fenceOpen.ReplaceAllString(content, "")
		content = strings.TrimRight(content, "`")
		content = strings.TrimSpace(content)
	}

	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}

	content = normalizeText(content)

	if isObject(content) {
		return content
	}

	if m := replyField.FindStringSubmatch(content); m != nil {
		candidate := `{"generated_reply": "` + controlEscaper.Replace(m[1]) + `"}`
		if isObject(candidate) {
			return candidate
		}
	}

	return DefaultFor(shape)
}

// normalizeText folds CR and CRLF line endings to LF and drops every other
// control character. Newlines and tabs survive since they are legal JSON
// whitespace between tokens.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func isObject(s string) bool {
	var obj map[string]interface{}
	return json.Unmarshal([]byte(s), &obj) == nil && obj != nil
}
