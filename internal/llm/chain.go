// Package llm drives the ordered model fallback chain and builds the prompts
// sent through it.
package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/core"
)

// ChainModel is one entry in a fallback chain: a provider-qualified reference
// such as "together:mistralai/Mistral-7B-Instruct-v0.1", the bare model id
// sent to the provider, and the client that reaches it.
type ChainModel struct {
	Ref     string
	ModelID string
	Client  core.CompletionClient
}

// Chain tries an ordered list of models until one returns a completion. Each
// attempt is bounded by the per-call timeout; a failed or timed-out attempt
// advances to the next model rather than retrying.
type Chain struct {
	name    string
	models  []ChainModel
	timeout time.Duration
	logger  *zap.Logger
}

// NewChain builds a chain. The name distinguishes chains in logs and metrics
// (the analysis chain and the reply chain are configured separately).
func NewChain(name string, models []ChainModel, timeout time.Duration, logger *zap.Logger) *Chain {
	return &Chain{
		name:    name,
		models:  models,
		timeout: timeout,
		logger:  logger,
	}
}

// Name returns the chain's configured name.
func (c *Chain) Name() string {
	return c.name
}

// Invoke sends the prompt to each model in order and returns the first raw
// completion, the per-model attempt log, and whether any model succeeded.
// When ok is false the caller supplies its terminal default; no error is
// returned from an exhausted chain.
func (c *Chain) Invoke(ctx context.Context, prompt string) (string, []core.ModelAttempt, bool) {
	attempts := make([]core.ModelAttempt, 0, len(c.models))

	for _, m := range c.models {
		attempt := c.try(ctx, m, prompt)
		attempts = append(attempts, attempt)

		if attempt.Succeeded() {
			c.logger.Info("Model completion succeeded",
				zap.String("chain", c.name),
				zap.String("model", m.Ref),
				zap.Duration("duration", attempt.Duration))
			return attempt.RawText, attempts, true
		}

		c.logger.Warn("Model attempt failed, advancing chain",
			zap.String("chain", c.name),
			zap.String("model", m.Ref),
			zap.Duration("duration", attempt.Duration),
			zap.Error(attempt.Err))
	}

	c.logger.Error("All models in chain failed",
		zap.String("chain", c.name),
		zap.Int("attempts", len(attempts)))
	return "", attempts, false
}

func (c *Chain) try(ctx context.Context, m ChainModel, prompt string) core.ModelAttempt {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := m.Client.Complete(callCtx, m.ModelID, prompt)
	return core.ModelAttempt{
		Model:    m.Ref,
		RawText:  text,
		Err:      err,
		Duration: time.Since(start),
	}
}
