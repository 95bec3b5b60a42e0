package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/bypass"
	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/llm"
	"github.com/mikey/llm-email-analyzer/internal/metrics"
	"github.com/mikey/llm-email-analyzer/internal/utils"
)

type stubClient struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (c *stubClient) Complete(_ context.Context, _ string, prompt string) (string, error) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

var testOptions = Options{MaxBodySize: 4096, MaxAnalyzeKeywords: 5, MaxExtractKeywords: 10}

func newTestService(analysis, reply *stubClient, opts Options) *Service {
	chain := func(name string, client *stubClient) *llm.Chain {
		return llm.NewChain(name, []llm.ChainModel{
			{Ref: "stub:" + name, ModelID: name, Client: client},
		}, time.Second, zap.NewNop())
	}

	return NewService(
		chain("analysis", analysis),
		chain("reply", reply),
		bypass.NewChecker(nil, []string{"noreply@"}, zap.NewNop()),
		utils.NewTextProcessor(zap.NewNop()),
		metrics.New(prometheus.NewRegistry()),
		zap.NewNop(),
		opts,
	)
}

func TestAnalyzeMergesModelAndDeterministicSignals(t *testing.T) {
	analysis := &stubClient{reply: `{
		"sentiment": "Negative",
		"urgency": "High",
		"keywords": ["printer", "error"],
		"intent": "Incident",
		"entities": {"error_code": "500", "system_name": "PrintServer"},
		"summary": "Printer reports an authentication error.",
		"generated_reply": "We are looking into the printer errors."
	}`}
	svc := newTestService(analysis, &stubClient{}, testOptions)

	result := svc.Analyze(context.Background(), &core.Email{
		Subject: "Printer problem",
		Body:    "Ticket Number: INC908721\nError code is 401",
	})

	assert.Equal(t, core.SentimentNegative, result.Sentiment)
	assert.Equal(t, core.UrgencyHigh, result.Urgency)
	assert.Equal(t, core.IntentIncident, result.Intent)
	assert.Equal(t, []string{"printer", "error"}, result.Keywords)
	// Regex-extracted values win over the model's on collision; keys only
	// the model saw survive alongside them.
	assert.Equal(t, map[string]string{
		"incident_number": "INC908721",
		"error_code":      "401",
		"system_name":     "PrintServer",
	}, result.Entities)
	assert.Equal(t, "Printer reports an authentication error.", result.Summary)
	assert.Equal(t, "We are looking into the printer errors.", result.GeneratedReply)

	require.Equal(t, 1, analysis.calls)
	assert.Contains(t, analysis.prompts[0], "Ticket Number: INC908721")
	assert.Contains(t, analysis.prompts[0], "Please provide a JSON response")
}

func TestAnalyzeSurvivesFullChainFailure(t *testing.T) {
	analysis := &stubClient{err: errors.New("provider unavailable")}
	svc := newTestService(analysis, &stubClient{}, testOptions)

	result := svc.Analyze(context.Background(), &core.Email{
		Subject: "Quarterly audit",
		Body:    "We must finish the audit today.",
	})

	require.Equal(t, 1, analysis.calls)
	assert.Equal(t, &core.ClassificationResult{
		Sentiment:      core.SentimentNeutral,
		Urgency:        core.UrgencyHigh,
		Intent:         core.IntentOther,
		Keywords:       []string{},
		Entities:       map[string]string{"date": "today"},
		Summary:        "Quarterly audit",
		GeneratedReply: core.DefaultReply,
	}, result)
}

func TestAnalyzeEmptyEmail(t *testing.T) {
	analysis := &stubClient{err: errors.New("no provider")}
	svc := newTestService(analysis, &stubClient{}, testOptions)

	result := svc.Analyze(context.Background(), &core.Email{})

	assert.Equal(t, &core.ClassificationResult{
		Sentiment:      core.SentimentNeutral,
		Urgency:        core.UrgencyLow,
		Intent:         core.IntentOther,
		Keywords:       []string{},
		Entities:       map[string]string{},
		Summary:        core.SummaryPlaceholder,
		GeneratedReply: core.DefaultReply,
	}, result)
}

func TestAnalyzeTruncatesOversizedBody(t *testing.T) {
	analysis := &stubClient{reply: "{}"}
	opts := Options{MaxBodySize: 64, MaxAnalyzeKeywords: 5, MaxExtractKeywords: 10}
	svc := newTestService(analysis, &stubClient{}, opts)

	svc.Analyze(context.Background(), &core.Email{
		Subject: "Log dump",
		Body:    strings.Repeat("a", 500),
	})

	require.Equal(t, 1, analysis.calls)
	assert.Contains(t, analysis.prompts[0], "Content truncated due to size limits")
	assert.NotContains(t, analysis.prompts[0], strings.Repeat("a", 100))
}

func TestExtractEntitiesOmitsReply(t *testing.T) {
	analysis := &stubClient{reply: `{"sentiment": "Neutral", "urgency": "Low", "keywords": [], "intent": "Information", "entities": {}, "summary": "Inventory report attached.", "generated_reply": "ignore me"}`}
	svc := newTestService(analysis, &stubClient{}, testOptions)

	result := svc.ExtractEntities(context.Background(), &core.Email{
		Subject: "Inventory report",
		Body:    "The inventory report is attached.",
	})

	assert.Equal(t, core.IntentInformation, result.Intent)
	assert.Equal(t, "Inventory report attached.", result.Summary)
	assert.Empty(t, result.GeneratedReply)

	require.Equal(t, 1, analysis.calls)
	assert.NotContains(t, analysis.prompts[0], "generated_reply")
}

func TestGenerateReply(t *testing.T) {
	tests := []struct {
		name  string
		stub  stubClient
		reply string
	}{
		{
			name:  "string reply passes through",
			stub:  stubClient{reply: `{"generated_reply": "Thanks for the report, we will check."}`},
			reply: "Thanks for the report, we will check.",
		},
		{
			name:  "object reply yields its body",
			stub:  stubClient{reply: `{"generated_reply": {"subject": "Re: printer", "body": "The toner has been replaced."}}`},
			reply: "The toner has been replaced.",
		},
		{
			name:  "prose output falls back to the default",
			stub:  stubClient{reply: "Dear customer, thank you for reaching out."},
			reply: core.DefaultReply,
		},
		{
			name:  "chain failure falls back to the default",
			stub:  stubClient{err: errors.New("provider unavailable")},
			reply: core.DefaultReply,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&stubClient{}, &tt.stub, testOptions)
			reply := svc.GenerateReply(context.Background(), &core.Email{
				Subject: "Printer problem",
				Body:    "The office printer is broken.",
			})
			assert.Equal(t, tt.reply, reply)
		})
	}
}

func TestGenerateReplyPromptReflectsProvidedDetails(t *testing.T) {
	reply := &stubClient{reply: `{"generated_reply": "Done."}`}
	svc := newTestService(&stubClient{}, reply, testOptions)

	svc.GenerateReply(context.Background(), &core.Email{Subject: "Ticket", Body: "Help needed"})
	require.Len(t, reply.prompts, 1)
	assert.Contains(t, reply.prompts[0], "do not invent a resolution")

	svc.GenerateReply(context.Background(), &core.Email{
		Subject:     "Ticket",
		Body:        "Help needed",
		ExtraFields: map[string]interface{}{"resolution": "replaced the toner"},
	})
	require.Len(t, reply.prompts, 2)
	assert.Contains(t, reply.prompts[1], "Base the reply on that resolution")
	assert.Contains(t, reply.prompts[1], "resolution: replaced the toner")
}

func TestBypassSkipsModelChain(t *testing.T) {
	analysis := &stubClient{reply: "{}"}
	reply := &stubClient{reply: `{"generated_reply": "model text"}`}
	svc := newTestService(analysis, reply, testOptions)

	email := &core.Email{
		Sender:  "noreply@alerts.example.com",
		Subject: "Weekly digest",
		Body:    "please review",
	}

	result := svc.Analyze(context.Background(), email)
	assert.Equal(t, core.SentimentNeutral, result.Sentiment)
	assert.Equal(t, core.UrgencyLow, result.Urgency)
	assert.Equal(t, core.IntentRequest, result.Intent)
	assert.Equal(t, map[string]string{"email_address": "noreply@alerts.example.com"}, result.Entities)
	assert.Equal(t, "Weekly digest", result.Summary)
	assert.Equal(t, core.DefaultReply, result.GeneratedReply)

	assert.Equal(t, core.DefaultReply, svc.GenerateReply(context.Background(), email))

	assert.Zero(t, analysis.calls)
	assert.Zero(t, reply.calls)
}
