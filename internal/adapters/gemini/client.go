// Package gemini implements the completion client for Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client is a completion client backed by Google Gemini
type Client struct {
	client      *genai.Client
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, maxTokens int, temperature float32, logger *zap.Logger) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Complete sends the prompt to the given model and returns the raw completion text
func (c *Client) Complete(ctx context.Context, modelID string, prompt string) (string, error) {
	model := c.client.GenerativeModel(modelID)
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(int32(c.maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini model %s", modelID)
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
