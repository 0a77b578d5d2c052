// Package llm provides the chat-completions client used by the agent.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Config for the LLM client
type Config struct {
	BaseURL string        // Endpoint base URL
	APIKey  string        // API key
	Model   string        // Model to use
	Timeout time.Duration // Request timeout
}

// DefaultConfig returns config from environment
func DefaultConfig() Config {
	return Config{
		BaseURL: os.Getenv("STUDYPILOT_LLM_BASE_URL"),
		APIKey:  os.Getenv("STUDYPILOT_LLM_API_KEY"),
		Model:   getEnvOrDefault("STUDYPILOT_LLM_MODEL", "gpt-4o-mini"),
		Timeout: 60 * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// NewClient creates a new LLM client
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Message represents a chat message on the wire.
type Message struct {
	Role       string     `json:"role"` // "system", "user", "assistant", "tool"
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool responses
}

// ToolCall represents a tool call from the model.
type ToolCall struct {
	ID       string       `json:"id,omitempty"`
	Type     string       `json:"type,omitempty"` // always "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction is the function a tool call names. Providers disagree on the
// arguments encoding: some send a JSON object, OpenAI re-encodes the object
// as a string. Both forms decode into the map.
type ToolFunction struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (f *ToolFunction) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Name = raw.Name
	f.Arguments = nil

	if len(raw.Arguments) == 0 || string(raw.Arguments) == "null" {
		return nil
	}

	if raw.Arguments[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw.Arguments, &encoded); err != nil {
			return fmt.Errorf("failed to decode tool arguments: %w", err)
		}
		if encoded == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &f.Arguments); err != nil {
			return fmt.Errorf("failed to decode tool arguments: %w", err)
		}
		return nil
	}

	if err := json.Unmarshal(raw.Arguments, &f.Arguments); err != nil {
		return fmt.Errorf("failed to decode tool arguments: %w", err)
	}
	return nil
}

// ChatRequest is the chat completions request.
type ChatRequest struct {
	Model       string           `json:"model"`
	Messages    []Message        `json:"messages"`
	Tools       []map[string]any `json:"tools,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature float64          `json:"temperature,omitempty"`
}

// ChatResponse is the chat completions response.
type ChatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends a chat completion request. Pass tools on the first call of
// a turn; leave them empty on the resolution call.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 4096
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &chatResp, nil
}

// First returns the first choice's message, or an error on an empty response.
func (r *ChatResponse) First() (*Message, error) {
	if len(r.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	return &r.Choices[0].Message, nil
}

// IsConfigured checks if an endpoint is set
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}
