// Package openai implements the completion client for the OpenAI API.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client is a completion client backed by OpenAI
type Client struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new OpenAI client
func NewClient(apiKey string, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	return &Client{
		client:      openai.NewClient(apiKey),
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
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI model %s", modelID)
	}

	return resp.Choices[0].Message.Content, nil
}
