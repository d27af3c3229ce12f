package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type chatChoice struct {
	Message replyMessage `json:"message"`
	// Some providers answer with the streaming shape even when stream=false.
	Delta        replyMessage `json:"delta"`
	Text         string       `json:"text"`
	FinishReason string       `json:"finish_reason"`
}

type replyMessage struct {
	Content      string `json:"content"`
	Refusal      string `json:"refusal"`
	FunctionCall *struct {
		Arguments string `json:"arguments"`
	} `json:"function_call"`
	ToolCalls []struct {
		Function struct {
			Arguments string `json:"arguments"`
		} `json:"function"`
	} `json:"tool_calls"`
}

// text returns message content, falling back to function or tool call
// arguments for models that answer JSON requests through tools.
func (m replyMessage) text() string {
	if s := strings.TrimSpace(m.Content); s != "" {
		return s
	}
	if m.FunctionCall != nil {
		if s := strings.TrimSpace(m.FunctionCall.Arguments); s != "" {
			return s
		}
	}
	for _, call := range m.ToolCalls {
		if s := strings.TrimSpace(call.Function.Arguments); s != "" {
			return s
		}
	}
	return ""
}

// send posts one request and returns its content.
func (c *Client) send(ctx context.Context, op string, payload chatRequest) (string, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: http error (timeout=%s): %w", op, c.timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read body (timeout=%s): %w", op, c.timeout, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("%s: api error: %s", op, strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Choices) == 0 {
		return "", &EmptyContentError{Op: op, Snippet: snippet(string(body))}
	}

	empty := &EmptyContentError{Op: op, Snippet: snippet(string(body))}
	for _, choice := range decoded.Choices {
		for _, candidate := range []string{choice.Message.text(), choice.Delta.text(), strings.TrimSpace(choice.Text)} {
			if candidate != "" {
				return candidate, nil
			}
		}
		if empty.FinishReason == "" {
			empty.FinishReason = strings.TrimSpace(choice.FinishReason)
		}
		if empty.Refusal == "" {
			empty.Refusal = strings.TrimSpace(choice.Message.Refusal + choice.Delta.Refusal)
		}
	}
	return "", empty
}
