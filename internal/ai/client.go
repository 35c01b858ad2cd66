// Package ai provides the completion client for the wellness coach.
// It speaks the Anthropic Messages API over HTTP/JSON.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "claude-3-5-sonnet-20241022"
	// DefaultMaxTokens is the output token budget per completion.
	DefaultMaxTokens = 1024
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	apiVersion   = "2023-06-01"
	messagesPath = "/v1/messages"

	// maxResponseBody bounds how much of a response we read.
	maxResponseBody = 1 << 20 // 1MB
)

// Client timeouts. Completions are slow compared to normal API calls,
// so the total budget is generous while connection setup stays tight.
const (
	clientTimeout         = 60 * time.Second
	dialTimeout           = 10 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 30 * time.Second
)

// ErrNotConfigured indicates the API key is missing.
// Callers substitute fallback text; the error is never shown verbatim.
var ErrNotConfigured = errors.New("anthropic API key not configured")

// UpstreamError indicates the completion service returned a failure.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("completion service returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("completion service returned %d", e.StatusCode)
}

// ChatMessage is one turn of conversation history sent to the service.
// Role must be "user" or "assistant".
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClientConfig holds configuration for the completion client.
type ClientConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls the AI completion service.
// A Client with an empty API key is valid to construct; Complete will
// return ErrNotConfigured so the caller can degrade gracefully.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
}

// NewClient creates a new completion client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = clientTimeout
	}

	return &Client{
		httpClient: newHTTPClient(cfg.Timeout),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
	}
}

// newHTTPClient creates an HTTP client configured for completion calls.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   tlsHandshakeTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// messagesRequest is the Anthropic Messages API request body.
type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []ChatMessage `json:"messages"`
}

// contentBlock is one block of a Messages API response.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse is the Anthropic Messages API success body.
type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

// apiError is the Anthropic Messages API error body.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation to the completion service and returns
// the text of the first content block of the reply.
//
// Errors are tagged, never masked: ErrNotConfigured for a missing key,
// *UpstreamError for non-2xx responses, and wrapped transport errors
// otherwise. The caller decides what the end user sees.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if len(messages) == 0 {
		return "", errors.New("no messages to complete")
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    SystemPrompt,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstream := &UpstreamError{StatusCode: resp.StatusCode}
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil {
			upstream.Message = apiErr.Error.Message
		}
		return "", upstream
	}

	var parsed messagesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: "malformed completion payload"}
	}

	if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: "empty completion payload"}
	}

	return parsed.Content[0].Text, nil
}
