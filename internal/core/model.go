package core

import "time"

// Sentiment is one of the closed set of sentiment labels.
type Sentiment string

// Sentiment values.
const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// Urgency is one of the closed set of urgency levels.
type Urgency string

// Urgency values.
const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Intent is one of the closed set of intent labels.
type Intent string

// Intent values.
const (
	IntentRequest        Intent = "Request"
	IntentInformation    Intent = "Information"
	IntentQuestion       Intent = "Question"
	IntentTaskAssignment Intent = "Task Assignment"
	IntentFollowUp       Intent = "Follow-up"
	IntentIncident       Intent = "Incident"
	IntentChange         Intent = "Change"
	IntentProblem        Intent = "Problem"
	IntentOther          Intent = "Other"
)

// DefaultReply is the fixed reply text used whenever no model-generated
// reply is available.
const DefaultReply = "Thank you for your email. I will review and respond to your message shortly."

// SummaryPlaceholder fills the summary field when neither the model output
// nor the subject line provides one.
const SummaryPlaceholder = "No summary available"

// Email represents an incoming email to analyze
type Email struct {
	Subject     string
	Body        string
	Sender      string
	Recipient   string
	ExtraFields map[string]interface{}
}

// ClassificationResult is the canonical analysis record produced for an email.
// After normalization every field is populated and the enum fields always hold
// one of the closed-set values above.
type ClassificationResult struct {
	Sentiment      Sentiment         `json:"sentiment"`
	Urgency        Urgency           `json:"urgency"`
	Intent         Intent            `json:"intent"`
	Keywords       []string          `json:"keywords"`
	Entities       map[string]string `json:"entities"`
	Summary        string            `json:"summary"`
	GeneratedReply string            `json:"generated_reply,omitempty"`
}

// ModelAttempt records a single model invocation within a fallback chain.
// Attempts exist only for the duration of one request and are never persisted.
type ModelAttempt struct {
	Model    string
	RawText  string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the attempt produced a completion.
func (a ModelAttempt) Succeeded() bool {
	return a.Err == nil
}
