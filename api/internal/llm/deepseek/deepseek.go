// Package deepseek talks to OpenAI-compatible chat/completions endpoints.
// DeepSeek is the default; OpenAI works through the base URL.
package deepseek

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
)

const (
	DefaultBaseURL   = "https://api.deepseek.com"
	DefaultModel     = "deepseek-chat"
	OpenAIBaseURL    = "https://api.openai.com/v1"
	defaultMaxBytes  = 4 << 20
	errorBodyPreview = 512
)

type Config struct {
	Name             string // reported by Name(), "deepseek" when empty
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	Timeout          time.Duration
	MaxResponseBytes int64
}

type Engine struct {
	name        string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxBytes    int64
	httpc       *http.Client
}

func New(cfg Config) *Engine {
	if cfg.Name == "" {
		cfg.Name = "deepseek"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 75 * time.Second
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = defaultMaxBytes
	}
	return &Engine{
		name:        cfg.Name,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.Temperature,
		maxBytes:    cfg.MaxResponseBytes,
		httpc:       &http.Client{Timeout: cfg.Timeout},
	}
}

func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string     { return e.name }
func (e *Engine) GetModel() string { return e.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate makes exactly one request; the caller owns retries and fallback.
func (e *Engine) Generate(ctx context.Context, system, user string) (string, error) {
	if e.apiKey == "" {
		return "", errors.New(e.name + ": api key is empty")
	}
	msgs := make([]chatMessage, 0, 2)
	if strings.TrimSpace(system) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})

	payload, err := json.Marshal(chatRequest{
		Model:       e.model,
		Messages:    msgs,
		Temperature: e.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", e.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", e.name, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: call: %w", e.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", e.name, err)
	}
	if int64(len(body)) > e.maxBytes {
		return "", fmt.Errorf("%s: response exceeded limit (%d bytes)", e.name, e.maxBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorResponse
		if json.Unmarshal(body, &eb) == nil && eb.Error.Message != "" {
			return "", fmt.Errorf("%s %d: %s (type=%s)", e.name, resp.StatusCode, eb.Error.Message, eb.Error.Type)
		}
		return "", fmt.Errorf("%s %d: %s", e.name, resp.StatusCode, preview(body))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", e.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: response had no choices", e.name)
	}
	return out.Choices[0].Message.Content, nil
}

func preview(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > errorBodyPreview {
		s = s[:errorBodyPreview] + "…"
	}
	return s
}
