package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	llm := cfg.GetLLM()
	assert.Equal(t, []string{
		"together:meta-llama/Llama-3.3-70B-Instruct-Turbo",
		"together:mistralai/Mistral-7B-Instruct-v0.1",
		"together:togethercomputer/llama-2-7b-chat",
	}, llm.AnalysisChain)
	assert.Equal(t, []string{
		"together:mistralai/Mistral-7B-Instruct-v0.1",
		"together:togethercomputer/llama-2-7b-chat",
	}, llm.ReplyChain)
	assert.Equal(t, 30*time.Second, llm.Timeout)
	assert.Equal(t, float32(0.2), llm.Temperature)
	assert.Equal(t, 1024, llm.MaxTokens)
	assert.Equal(t, 4096, llm.MaxBodySize)

	analysis := cfg.GetAnalysis()
	assert.Equal(t, 5, analysis.MaxKeywords)
	assert.Equal(t, 10, analysis.ExtractMaxKeywords)

	smtp := cfg.GetSMTP()
	assert.False(t, smtp.Enabled)
	assert.Equal(t, "X-Email-Intent", smtp.Headers.Intent)

	bypass := cfg.GetBypass()
	assert.Contains(t, bypass.AutomatedPrefixes, "noreply@")
	assert.Empty(t, bypass.WhitelistedDomains)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("EMAIL_ANALYZER_LOGGING_LEVEL", "debug")
	t.Setenv("TOGETHER_API_KEY", "tok-test-123")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.GetString("logging.level"))
	assert.Equal(t, "tok-test-123", cfg.GetTogether().APIKey)
}

func TestUnparseableTimeoutFallsBack(t *testing.T) {
	v := NewEmptyViper()
	v.Set("llm.timeout", "not-a-duration")

	cfg := NewFromViper(v)
	assert.Equal(t, 30*time.Second, cfg.GetLLM().Timeout)
}
