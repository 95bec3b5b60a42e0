// Package analyzer combines the deterministic extractors, the rule-based
// classifier and the model chains into the email analysis operations. The
// regex and rule passes run concurrently with the model invocation and their
// results are merged afterwards, so a fully unavailable model chain still
// yields a complete classification record.
package analyzer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/bypass"
	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/entities"
	"github.com/mikey/llm-email-analyzer/internal/llm"
	"github.com/mikey/llm-email-analyzer/internal/merge"
	"github.com/mikey/llm-email-analyzer/internal/metrics"
	"github.com/mikey/llm-email-analyzer/internal/rules"
	"github.com/mikey/llm-email-analyzer/internal/sanitize"
	"github.com/mikey/llm-email-analyzer/internal/utils"
)

// Options bounds the per-email work.
type Options struct {
	MaxBodySize        int
	MaxAnalyzeKeywords int
	MaxExtractKeywords int
}

// Service is the core email analysis service.
type Service struct {
	analysisChain *llm.Chain
	replyChain    *llm.Chain
	bypass        *bypass.Checker
	text          *utils.TextProcessor
	metrics       *metrics.Metrics
	logger        *zap.Logger
	opts          Options
}

var _ core.EmailAnalyzer = (*Service)(nil)

// NewService creates a new email analysis service
func NewService(
	analysisChain *llm.Chain,
	replyChain *llm.Chain,
	bypassChecker *bypass.Checker,
	text *utils.TextProcessor,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Service {
	return &Service{
		analysisChain: analysisChain,
		replyChain:    replyChain,
		bypass:        bypassChecker,
		text:          text,
		metrics:       m,
		logger:        logger,
		opts:          opts,
	}
}

// Analyze classifies an email into the canonical record: sentiment, urgency,
// intent, keywords, entities, summary and a suggested reply. It never fails;
// missing or unusable model output is repaired from the deterministic
// signals.
func (s *Service) Analyze(ctx context.Context, email *core.Email) *core.ClassificationResult {
	start := time.Now()
	content := s.emailContent(email)

	if s.bypass.ShouldBypass(email.Sender) {
		s.logger.Info("Skipping model chain for automated sender",
			zap.String("sender", email.Sender),
			zap.String("action", "bypass"))
		s.metrics.MarkBypass()
		return s.deterministic(content, email.Subject, merge.AnalysisKeys, s.opts.MaxAnalyzeKeywords)
	}

	regexEntities, fb, modelJSON := s.runPipeline(ctx, content, email.Subject,
		s.analysisChain, llm.AnalysisPrompt(content), sanitize.ShapeClassification)
	result := merge.Normalize(modelJSON, regexEntities, fb, merge.AnalysisKeys, s.opts.MaxAnalyzeKeywords)

	s.logger.Info("Email analyzed",
		zap.String("sender", email.Sender),
		zap.String("subject", email.Subject),
		zap.String("intent", string(result.Intent)),
		zap.String("urgency", string(result.Urgency)),
		zap.Duration("duration", time.Since(start)))

	return result
}

// ExtractEntities runs the entity-focused analysis. The record shape matches
// Analyze minus the generated reply, and the extraction prompt admits more
// keywords.
func (s *Service) ExtractEntities(ctx context.Context, email *core.Email) *core.ClassificationResult {
	start := time.Now()
	content := s.emailContent(email)

	if s.bypass.ShouldBypass(email.Sender) {
		s.metrics.MarkBypass()
		return s.deterministic(content, email.Subject, merge.ExtractionKeys, s.opts.MaxExtractKeywords)
	}

	regexEntities, fb, modelJSON := s.runPipeline(ctx, content, email.Subject,
		s.analysisChain, llm.ExtractionPrompt(content), sanitize.ShapeClassification)
	result := merge.Normalize(modelJSON, regexEntities, fb, merge.ExtractionKeys, s.opts.MaxExtractKeywords)

	s.logger.Info("Entities extracted",
		zap.String("sender", email.Sender),
		zap.Int("entity_count", len(result.Entities)),
		zap.Duration("duration", time.Since(start)))

	return result
}

// GenerateReply produces a professional reply to the email. Automated
// senders and exhausted chains both receive the fixed default reply.
func (s *Service) GenerateReply(ctx context.Context, email *core.Email) string {
	start := time.Now()

	if s.bypass.ShouldBypass(email.Sender) {
		s.metrics.MarkBypass()
		return core.DefaultReply
	}

	content := s.emailContent(email)
	prompt := llm.ReplyPrompt(content, len(email.ExtraFields) > 0)

	raw, attempts, ok := s.replyChain.Invoke(ctx, prompt)
	s.recordAttempts(s.replyChain.Name(), attempts)
	if !ok {
		return core.DefaultReply
	}

	reply := merge.Normalize(sanitize.Response(raw, sanitize.ShapeReply),
		nil, merge.Fallback{}, merge.ReplyKeys, 0).GeneratedReply

	s.logger.Info("Reply generated",
		zap.String("sender", email.Sender),
		zap.Int("reply_length", len(reply)),
		zap.Duration("duration", time.Since(start)))

	return reply
}

// runPipeline runs the regex extractor, the rule classifier and the model
// chain concurrently, then sanitizes whatever the chain produced. An
// exhausted chain yields an empty JSON object so the merge falls back to the
// deterministic signals alone.
func (s *Service) runPipeline(
	ctx context.Context,
	content string,
	subject string,
	chain *llm.Chain,
	prompt string,
	shape sanitize.Shape,
) (map[string]string, merge.Fallback, string) {
	var (
		wg            sync.WaitGroup
		regexEntities map[string]string
		fb            merge.Fallback
		raw           string
		attempts      []core.ModelAttempt
		ok            bool
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		regexEntities = entities.Extract(content)
	}()
	go func() {
		defer wg.Done()
		fb = merge.Fallback{
			Urgency: rules.Urgency(content),
			Intent:  rules.Intent(content),
			Subject: subject,
		}
	}()
	go func() {
		defer wg.Done()
		raw, attempts, ok = chain.Invoke(ctx, prompt)
	}()
	wg.Wait()

	s.recordAttempts(chain.Name(), attempts)

	modelJSON := "{}"
	if ok {
		modelJSON = sanitize.Response(raw, shape)
	}
	return regexEntities, fb, modelJSON
}

// deterministic builds the record from the regex and rule passes alone.
func (s *Service) deterministic(content, subject string, expectedKeys []string, maxKeywords int) *core.ClassificationResult {
	fb := merge.Fallback{
		Urgency: rules.Urgency(content),
		Intent:  rules.Intent(content),
		Subject: subject,
	}
	return merge.Normalize("{}", entities.Extract(content), fb, expectedKeys, maxKeywords)
}

// emailContent renders the prompt-facing view of the email with the body
// truncated to the configured maximum size.
func (s *Service) emailContent(email *core.Email) string {
	prepared := *email
	prepared.Body = s.text.PrepareBody(email.Body, s.opts.MaxBodySize)
	return llm.EmailContent(&prepared)
}

func (s *Service) recordAttempts(chain string, attempts []core.ModelAttempt) {
	for _, a := range attempts {
		s.metrics.ObserveModelAttempt(chain, a.Model, a.Succeeded(), a.Duration)
	}
}
