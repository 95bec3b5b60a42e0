// Package together reaches Together AI through its OpenAI-compatible chat
// completions API.
package together

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultBaseURL is Together AI's public OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.together.xyz/v1"

// Client is a completion client backed by Together AI
type Client struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new Together AI client
func NewClient(apiKey, baseURL string, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Complete sends the prompt to the given model and returns the raw completion text
func (c *Client) Complete(ctx context.Context, modelID string, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with Together: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from Together model %s", modelID)
	}

	c.logger.Debug("Together completion received",
		zap.String("model", modelID),
		zap.Int("response_length", len(resp.Choices[0].Message.Content)))

	return resp.Choices[0].Message.Content, nil
}
