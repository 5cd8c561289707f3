package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quizhub/quizhub-api/internal/pkg/errorhandler"
)

const httpTimeout = 120 * time.Second

// Generator produces model completions for question generation prompts.
type Generator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config holds OpenAI client configuration
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIClient calls the OpenAI chat completions API.
type OpenAIClient struct {
	config     Config
	httpClient *http.Client
}

// NewOpenAIClient creates an OpenAI generator client
func NewOpenAIClient(config Config) *OpenAIClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	return &OpenAIClient{
		config: config,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

// Complete sends a system+user prompt pair and returns the first choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	body := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}

	respBody, err := c.doJSONRequest(ctx, c.config.BaseURL+"/chat/completions", body)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) doJSONRequest(ctx context.Context, url string, body any) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		errorhandler.LogExternalServiceError(ctx, "openai", url, resp.StatusCode, nil, string(respBody))
		return nil, fmt.Errorf("api error (status %d)", resp.StatusCode)
	}

	return respBody, nil
}
