package core

import "context"

// CompletionClient is the interface to a text completion provider. Providers
// report plain success or failure; callers do not interpret provider-specific
// error types beyond that.
type CompletionClient interface {
	// Complete sends a prompt to the named model and returns the raw
	// completion text.
	Complete(ctx context.Context, modelID string, prompt string) (string, error)
}

// EmailAnalyzer is the interface boundary layers use to analyze emails. None
// of its methods return an error: every call yields a schema-complete result,
// degrading to deterministic defaults when the model chain is unavailable.
type EmailAnalyzer interface {
	// Analyze runs the full pipeline: entities, classification, summary and
	// a suggested reply.
	Analyze(ctx context.Context, email *Email) *ClassificationResult

	// ExtractEntities runs the pipeline without reply generation.
	ExtractEntities(ctx context.Context, email *Email) *ClassificationResult

	// GenerateReply produces only a suggested reply to the email.
	GenerateReply(ctx context.Context, email *Email) string
}
