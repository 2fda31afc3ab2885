package advice

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaURL is where a local Ollama listens.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaClient talks to a local Ollama server. It needs no credential.
type OllamaClient struct {
	baseURL   string
	model     string
	maxTokens int
	timeout   time.Duration
	http      *http.Client
}

// NewOllamaClient creates a client for the given server and model.
func NewOllamaClient(baseURL, model string, maxTokens int, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		http:      &http.Client{},
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Name implements Completer.
func (c *OllamaClient) Name() string { return "ollama/" + c.model }

// Complete implements Completer.
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	err := postJSON(ctx, c.http, c.timeout, c.baseURL+"/api/generate", nil, generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{NumPredict: c.maxTokens},
	}, &out)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
