package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"alcyxob/program-pipeline/internal/config"
	"alcyxob/program-pipeline/internal/generator"
	"alcyxob/program-pipeline/internal/logger"
)

// HTTPError is a non-2xx response from the completions endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("llm http %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether a later attempt could succeed.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client talks to an OpenAI-compatible /chat/completions endpoint
// (OpenAI, Groq, a local Ollama, ...). Each call is a single attempt.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	log         *logger.Logger
}

// NewClient creates a client from configuration. The API key may be empty for local servers.
func NewClient(cfg config.LLMConfig, log *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("llm base_url is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("llm model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log.With("component", "llm_client", "base_url", baseURL, "model", cfg.Model),
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Generate sends one chat completion request and returns the message content.
func (c *Client) Generate(ctx context.Context, prompt string, opts generator.Options) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if opts.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: opts.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt})
	if opts.StructuredOutput {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	start := time.Now()
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/completions", req, &resp); err != nil {
		c.log.Warn("completion request failed", "duration", time.Since(start).String(), "error", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("llm response has no choices")
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", choice.Message.Refusal)
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("llm returned empty content (finish_reason=%s)", choice.FinishReason)
	}

	c.log.Info("completion received",
		"duration", time.Since(start).String(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason,
	)
	return choice.Message.Content, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("llm decode error: %w", err)
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
