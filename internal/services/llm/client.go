package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenRouter chat completions endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

	defaultHTTPTimeout = 15 * time.Second
	defaultAttempts    = 1
)

// ErrNoAPIKey is returned by every request method when the client has no key.
var ErrNoAPIKey = errors.New("llm: api key required")

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client wraps the OpenRouter chat completion API.
type Client struct {
	cfg     Config
	http    *http.Client
	timeout time.Duration
	retry   retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRetryMaxAttempts sets how many times a request is sent. The default is
// a single attempt.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retry.attempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.base = baseDelay
		c.retry.max = maxDelay
	}
}

// WithSleeper replaces the timer used between attempts.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.retry.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		timeout: timeout,
		retry:   defaultRetryPolicy(),
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeout}
	} else if c.http.Timeout > 0 {
		c.timeout = c.http.Timeout
	}
	return c
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.cfg.Model
}

// Request is one system/user exchange.
type Request struct {
	System string
	User   string
	// JSON asks the provider for a json_object response format.
	JSON bool
}

// Complete sends req and returns the first non-empty content the model
// produced. op prefixes every error.
func (c *Client) Complete(ctx context.Context, op string, req Request) (string, error) {
	system := strings.TrimSpace(req.System)
	user := strings.TrimSpace(req.User)
	switch {
	case system == "":
		return "", fmt.Errorf("%s: system prompt required", op)
	case user == "":
		return "", fmt.Errorf("%s: user prompt required", op)
	case !c.Configured():
		return "", fmt.Errorf("%s: %w", op, ErrNoAPIKey)
	}
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return c.retry.do(ctx, op, func() (string, error) {
		return c.send(ctx, op, body)
	})
}

// CompleteJSON asks for a JSON-only answer and returns the raw payload.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.Complete(ctx, "llm complete", Request{System: systemPrompt, User: userPrompt, JSON: true})
}

// CompleteText asks for a plain-text answer, such as a comma-separated list
// of names.
func (c *Client) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.Complete(ctx, "llm text", Request{System: systemPrompt, User: userPrompt})
}

// HealthCheck verifies the API key and model with a one-field JSON ping.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.Complete(ctx, "llm health", Request{
		System: "You must respond with JSON only.",
		User:   `Respond with {"ok":true}`,
		JSON:   true,
	})
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return fmt.Errorf("llm health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("llm health: unexpected response")
	}
	return nil
}
