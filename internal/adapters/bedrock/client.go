// Package bedrock implements the completion client for Amazon Bedrock. Each
// model family on Bedrock has its own invocation payload and response shape,
// so both are selected per call from the model id prefix.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// Client is a completion client backed by Amazon Bedrock
type Client struct {
	client      *bedrockruntime.Client
	maxTokens   int
	temperature float32
	logger      *zap.Logger
}

// NewClient creates a new Bedrock client
func NewClient(client *bedrockruntime.Client, maxTokens int, temperature float32, logger *zap.Logger) *Client {
	return &Client{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// Complete invokes the given model and returns the raw completion text
func (c *Client) Complete(ctx context.Context, modelID string, prompt string) (string, error) {
	payload, err := c.buildPayload(modelID, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	return c.extractText(modelID, resp.Body)
}

func (c *Client) buildPayload(modelID, prompt string) ([]byte, error) {
	switch {
	case isAnthropicModel(modelID):
		return json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
		})
	case isTitanModel(modelID):
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
			},
		})
	case isLlamaModel(modelID):
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_gen_len": c.maxTokens,
			"temperature": c.temperature,
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
		})
	}
}

func (c *Client) extractText(modelID string, body []byte) (string, error) {
	switch {
	case isAnthropicModel(modelID):
		var resp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return resp.Completion, nil

	case isTitanModel(modelID):
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return resp.Results[0].OutputText, nil

	case isLlamaModel(modelID):
		var resp struct {
			Generation string `json:"generation"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Llama response: %w", err)
		}
		return resp.Generation, nil

	default:
		var resp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		if resp.Output != "" {
			return resp.Output, nil
		}
		if resp.Text != "" {
			return resp.Text, nil
		}
		if resp.Response != "" {
			return resp.Response, nil
		}
		return string(body), nil
	}
}

func isAnthropicModel(modelID string) bool {
	return strings.HasPrefix(modelID, "anthropic.claude")
}

func isTitanModel(modelID string) bool {
	return strings.HasPrefix(modelID, "amazon.titan")
}

func isLlamaModel(modelID string) bool {
	return strings.HasPrefix(modelID, "meta.llama")
}
