package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"alcyxob/program-pipeline/internal/config"
	"alcyxob/program-pipeline/internal/generator"
	"alcyxob/program-pipeline/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, apiKey string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(config.LLMConfig{
		BaseURL:     srv.URL + "/v1/",
		APIKey:      apiKey,
		Model:       "test-model",
		Temperature: 0.3,
		MaxTokens:   1000,
		Timeout:     5 * time.Second,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGenerate_SendsChatRequest(t *testing.T) {
	var got chatRequest
	var auth, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"test-model","choices":[{"message":{"content":"{\"name\":\"P\"}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`))
	}, "sk-test")

	out, err := c.Generate(context.Background(), "write a program", generator.Options{System: "be a coach", StructuredOutput: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != `{"name":"P"}` {
		t.Errorf("content = %q", out)
	}
	if path != "/v1/chat/completions" {
		t.Errorf("path = %q", path)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Model != "test-model" || got.MaxTokens != 1000 || got.Temperature != 0.3 {
		t.Errorf("unexpected request fields: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "write a program" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", got.ResponseFormat)
	}
}

func TestGenerate_PlainTextWithoutKey(t *testing.T) {
	var raw map[string]any
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&raw)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	}, "")

	if _, err := c.Generate(context.Background(), "hi", generator.Options{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if auth != "" {
		t.Errorf("no Authorization header expected, got %q", auth)
	}
	if _, ok := raw["response_format"]; ok {
		t.Error("response_format should be omitted")
	}
	if msgs := raw["messages"].([]any); len(msgs) != 1 {
		t.Errorf("expected only the user message, got %v", msgs)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantStatus    int
		wantTemporary bool
		wantText      string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, 429, true, "slow down"},
		{"bad request", http.StatusBadRequest, `{"error":"bad model"}`, 400, false, "bad model"},
		{"server error", http.StatusBadGateway, `upstream`, 502, true, "upstream"},
		{"no choices", http.StatusOK, `{"choices":[]}`, 0, false, "no choices"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"  "},"finish_reason":"length"}]}`, 0, false, "finish_reason=length"},
		{"refusal", http.StatusOK, `{"choices":[{"message":{"content":"","refusal":"not allowed"}}]}`, 0, false, "not allowed"},
		{"garbage", http.StatusOK, `not json`, 0, false, "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "k")

			_, err := c.Generate(context.Background(), "p", generator.Options{StructuredOutput: true})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not mention %q", err, tt.wantText)
			}
			var httpErr *HTTPError
			if tt.wantStatus == 0 {
				if errors.As(err, &httpErr) {
					t.Errorf("unexpected HTTPError %v", httpErr)
				}
				return
			}
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %T", err)
			}
			if httpErr.StatusCode != tt.wantStatus || httpErr.Temporary() != tt.wantTemporary {
				t.Errorf("got status %d temporary %v", httpErr.StatusCode, httpErr.Temporary())
			}
		})
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(config.LLMConfig{Model: "m"}, logger.Nop()); err == nil {
		t.Error("expected error for missing base_url")
	}
	if _, err := NewClient(config.LLMConfig{BaseURL: "http://localhost"}, logger.Nop()); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestClientSatisfiesTextGenerator(t *testing.T) {
	var _ generator.TextGenerator = (*Client)(nil)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"under limit", "short", 10, "short"},
		{"ascii", "abcdef", 3, "abc..."},
		{"cut inside a rune", strings.Repeat("é", 3), 3, "é..."},
		{"cut inside a wide rune", "a日本", 3, "a..."},
		{"rune boundary", "éé", 2, "é..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.in, tt.n, got)
			}
		})
	}
}
