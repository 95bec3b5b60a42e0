// Package factory builds completion clients and model chains from
// configuration.
package factory

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/adapters/bedrock"
	"github.com/mikey/llm-email-analyzer/internal/adapters/gemini"
	"github.com/mikey/llm-email-analyzer/internal/adapters/openai"
	"github.com/mikey/llm-email-analyzer/internal/adapters/together"
	"github.com/mikey/llm-email-analyzer/internal/config"
	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/llm"
)

// ClientFactory creates completion clients per provider and assembles the
// configured model chains. Providers are constructed once and shared across
// every chain that references them.
type ClientFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	clients map[string]core.CompletionClient
}

// NewClientFactory creates a new client factory.
func NewClientFactory(cfg *config.Config, logger *zap.Logger) *ClientFactory {
	return &ClientFactory{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]core.CompletionClient),
	}
}

// ChainSet holds the two configured model chains.
type ChainSet struct {
	Analysis *llm.Chain
	Reply    *llm.Chain
}

// BuildChainSet assembles the analysis and reply chains from configuration.
func (f *ClientFactory) BuildChainSet(ctx context.Context) (*ChainSet, error) {
	llmCfg := f.cfg.GetLLM()

	analysis, err := f.BuildChain(ctx, "analysis", llmCfg.AnalysisChain)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis chain: %w", err)
	}
	reply, err := f.BuildChain(ctx, "reply", llmCfg.ReplyChain)
	if err != nil {
		return nil, fmt.Errorf("failed to build reply chain: %w", err)
	}

	return &ChainSet{Analysis: analysis, Reply: reply}, nil
}

// BuildChain assembles a named fallback chain from provider:model references.
func (f *ClientFactory) BuildChain(ctx context.Context, name string, refs []string) (*llm.Chain, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("chain %q has no models configured", name)
	}

	models := make([]llm.ChainModel, 0, len(refs))
	for _, ref := range refs {
		provider, modelID, err := ParseModelRef(ref)
		if err != nil {
			return nil, err
		}
		client, err := f.clientFor(ctx, provider)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for %q: %w", ref, err)
		}
		models = append(models, llm.ChainModel{
			Ref:     ref,
			ModelID: modelID,
			Client:  client,
		})
	}

	return llm.NewChain(name, models, f.cfg.GetLLM().Timeout, f.logger), nil
}

// ParseModelRef splits a provider:model reference into its parts.
func ParseModelRef(ref string) (string, string, error) {
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid model reference %q, expected provider:model", ref)
	}
	return parts[0], parts[1], nil
}

// Close releases provider clients that hold open connections.
func (f *ClientFactory) Close() {
	for name, client := range f.clients {
		if closer, ok := client.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				f.logger.Warn("Failed to close provider client",
					zap.String("provider", name),
					zap.Error(err))
			}
		}
	}
}

// clientFor returns the completion client for a provider, creating it on
// first use. Only providers referenced by a configured chain are built, so
// credentials for unused providers are never required.
func (f *ClientFactory) clientFor(ctx context.Context, provider string) (core.CompletionClient, error) {
	if client, ok := f.clients[provider]; ok {
		return client, nil
	}

	llmCfg := f.cfg.GetLLM()

	var client core.CompletionClient
	switch provider {
	case "together":
		togetherCfg := f.cfg.GetTogether()
		if togetherCfg.APIKey == "" {
			return nil, fmt.Errorf("together API key is not configured")
		}
		client = together.NewClient(togetherCfg.APIKey, togetherCfg.BaseURL, llmCfg.MaxTokens, llmCfg.Temperature, f.logger)
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		if openaiCfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key is not configured")
		}
		client = openai.NewClient(openaiCfg.APIKey, llmCfg.MaxTokens, llmCfg.Temperature, f.logger)
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		if geminiCfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is not configured")
		}
		geminiClient, err := gemini.NewClient(ctx, geminiCfg.APIKey, llmCfg.MaxTokens, llmCfg.Temperature, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		client = geminiClient
	case "bedrock":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(f.cfg.GetBedrock().Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		client = bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), llmCfg.MaxTokens, llmCfg.Temperature, f.logger)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", provider)
	}

	f.clients[provider] = client
	return client, nil
}
