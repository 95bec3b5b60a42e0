package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/config"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	v := config.NewEmptyViper()
	v.Set("together.api_key", "test-key")
	return config.NewFromViper(v)
}

func TestParseModelRef(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		provider string
		modelID  string
		wantErr  bool
	}{
		{
			name:     "together model",
			ref:      "together:meta-llama/Llama-3.3-70B-Instruct-Turbo",
			provider: "together",
			modelID:  "meta-llama/Llama-3.3-70B-Instruct-Turbo",
		},
		{
			name:     "bedrock model with dots",
			ref:      "bedrock:anthropic.claude-v2",
			provider: "bedrock",
			modelID:  "anthropic.claude-v2",
		},
		{
			name:    "missing separator",
			ref:     "together",
			wantErr: true,
		},
		{
			name:    "empty provider",
			ref:     ":model",
			wantErr: true,
		},
		{
			name:    "empty model",
			ref:     "together:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, modelID, err := ParseModelRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.modelID, modelID)
		})
	}
}

func TestBuildChain(t *testing.T) {
	f := NewClientFactory(newTestConfig(t), zap.NewNop())

	chain, err := f.BuildChain(context.Background(), "analysis", []string{
		"together:meta-llama/Llama-3.3-70B-Instruct-Turbo",
		"together:mistralai/Mistral-7B-Instruct-v0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "analysis", chain.Name())

	// The provider client is shared between chains.
	assert.Len(t, f.clients, 1)

	_, err = f.BuildChain(context.Background(), "reply", []string{
		"together:mistralai/Mistral-7B-Instruct-v0.1",
	})
	require.NoError(t, err)
	assert.Len(t, f.clients, 1)
}

func TestBuildChainRejectsEmptyChain(t *testing.T) {
	f := NewClientFactory(newTestConfig(t), zap.NewNop())

	_, err := f.BuildChain(context.Background(), "analysis", nil)
	assert.ErrorContains(t, err, "no models configured")
}

func TestBuildChainRejectsUnknownProvider(t *testing.T) {
	f := NewClientFactory(newTestConfig(t), zap.NewNop())

	_, err := f.BuildChain(context.Background(), "analysis", []string{"acme:some-model"})
	assert.ErrorContains(t, err, "unsupported model provider")
}

func TestBuildChainRequiresAPIKey(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	f := NewClientFactory(cfg, zap.NewNop())

	_, err := f.BuildChain(context.Background(), "analysis", []string{"together:some-model"})
	assert.ErrorContains(t, err, "together API key is not configured")
}

func TestBuildChainRejectsMalformedRef(t *testing.T) {
	f := NewClientFactory(newTestConfig(t), zap.NewNop())

	_, err := f.BuildChain(context.Background(), "analysis", []string{"just-a-model-name"})
	assert.ErrorContains(t, err, "invalid model reference")
}
