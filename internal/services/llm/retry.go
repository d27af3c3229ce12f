package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.StatusCode, e.Body)
}

// Temporary reports whether the status is worth another attempt.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// Unauthorized reports a rejected API key.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// EmptyContentError is returned when a 2xx response carries no usable content.
type EmptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
	Snippet      string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.Op, e.FinishReason, e.Refusal, e.Snippet)
}

type retryPolicy struct {
	attempts int
	base     time.Duration
	max      time.Duration
	sleeper  func(time.Duration)
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{attempts: defaultAttempts, base: time.Second, max: 10 * time.Second}
}

// do runs send until it succeeds, fails permanently, or runs out of attempts.
func (p retryPolicy) do(ctx context.Context, op string, send func() (string, error)) (string, error) {
	attempts := max(p.attempts, 1)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var content string
		content, err = send()
		if err == nil {
			return content, nil
		}
		if attempt == attempts {
			break
		}
		delay, ok := p.delay(ctx, err, attempt)
		if !ok {
			return "", err
		}
		if werr := p.wait(ctx, delay); werr != nil {
			return "", werr
		}
	}
	if attempts == 1 {
		return "", err
	}
	return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, err)
}

// delay decides whether err is transient and how long to wait before the
// next attempt. A server-supplied Retry-After wins over the backoff curve.
func (p retryPolicy) delay(ctx context.Context, err error, attempt int) (time.Duration, bool) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}
	var empty *EmptyContentError
	if errors.As(err, &empty) {
		return p.backoff(attempt), true
	}
	var status *StatusError
	if errors.As(err, &status) {
		if !status.Temporary() {
			return 0, false
		}
		if status.RetryAfter > 0 {
			return p.clamp(status.RetryAfter), true
		}
		return p.backoff(attempt), true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return p.backoff(attempt), true
	}
	return 0, false
}

// backoff doubles the base delay per attempt: base, 2*base, 4*base...
func (p retryPolicy) backoff(attempt int) time.Duration {
	if p.base <= 0 {
		return 0
	}
	shift := min(max(attempt-1, 0), 16)
	return p.clamp(p.base << shift)
}

func (p retryPolicy) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if p.max > 0 && d > p.max {
		return p.max
	}
	return d
}

func (p retryPolicy) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if p.sleeper != nil {
		p.sleeper(d)
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return max(time.Duration(seconds)*time.Second, 0)
	}
	if when, err := http.ParseTime(value); err == nil {
		return max(time.Until(when), 0)
	}
	return 0
}
