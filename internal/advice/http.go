package advice

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
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "cbudget/1.0"
)

var (
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("advice: unauthorized (API key missing or invalid)")
	// ErrQuotaExceeded indicates the service rate-limited or ran out of quota.
	ErrQuotaExceeded = errors.New("advice: rate limited or quota exceeded")
	// ErrEmptyResponse indicates the service answered without any text.
	ErrEmptyResponse = errors.New("advice: empty response")
	// ErrNotConfigured indicates no usable backend is configured.
	ErrNotConfigured = errors.New("advice: not configured")
)

// Completer sends a prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies provider and model, e.g. "openai/gpt-4o-mini".
	Name() string
}

// postJSON sends body as JSON and decodes a 2xx response into out.
func postJSON(ctx context.Context, hc *http.Client, timeout time.Duration, url string, header http.Header, body, out any) error {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("advice: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("advice: creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("advice: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("advice: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrQuotaExceeded
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("advice: unexpected status %d: %s", resp.StatusCode, snippet(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("advice: parsing response: %w", err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
