// Package upstream is the relay's client for an OpenAI-compatible
// chat-completions endpoint such as OpenRouter.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/careerai/relay/pkg/llm"
	"github.com/careerai/relay/relay/header"
)

const (
	// DefaultURL is OpenRouter's chat-completions endpoint.
	DefaultURL = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultModel lets OpenRouter pick a model.
	DefaultModel = "openrouter/auto"

	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 60 * time.Second

	defaultRole = "assistant"
)

// Config is the upstream client configuration. It is read once by New and
// never changes afterwards.
type Config struct {
	// APIKey is the server-held bearer credential. May be empty; Complete
	// then fails with ErrMissingAPIKey.
	APIKey string

	// URL is the full chat-completions endpoint.
	URL string

	// Model is used when a request carries no model override.
	Model string

	// Referer and Title are sent as OpenRouter attribution headers.
	Referer string
	Title   string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client issues chat-completion calls. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	url        string
	model      string
	httpClient *http.Client
	headers    *header.Handler
	logger     *slog.Logger
}

// New creates a new Client, filling defaults for empty URL, model and timeout.
func New(config Config, logger *slog.Logger) (*Client, error) {
	url := strings.TrimSpace(config.URL)
	if url == "" {
		url = DefaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("upstream url must be http or https: %q", url)
	}

	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = DefaultModel
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		url:        url,
		model:      model,
		httpClient: httpClient,
		headers:    header.NewHandler(config.APIKey, config.Referer, config.Title),
		logger:     logger,
	}, nil
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	return c.headers.HasCredential()
}

// DefaultModel returns the model used when requests carry no override.
func (c *Client) DefaultModel() string {
	return c.model
}

// URL returns the upstream endpoint.
func (c *Client) URL() string {
	return c.url
}

// Complete forwards req upstream and returns the first completion choice.
//
// Errors are one of: ErrMissingAPIKey (no network call made), *StatusError
// (upstream status >= 400), *MalformedResponseError (success status with an
// unexpected body), or a wrapped transport error.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest, requestID string) (*Completion, error) {
	if !c.headers.HasCredential() {
		return nil, ErrMissingAPIKey
	}

	payload := completionRequest{
		Model:       c.ResolveModel(req.Model),
		Messages:    req.Messages,
		Temperature: req.EffectiveTemperature(),
	}
	if payload.Messages == nil {
		payload.Messages = []llm.ChatMessage{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling upstream request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	c.headers.SetUpstreamRequestHeaders(httpReq, requestID)

	c.logger.Debug("forwarding chat request to upstream",
		"request_id", requestID,
		"url", c.url,
		"model", payload.Model,
		"message_count", len(payload.Messages),
	)

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("posting to upstream: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	c.logger.Debug("received upstream response",
		"request_id", requestID,
		"status", httpResp.StatusCode,
		"duration", time.Since(startTime),
	)

	if httpResp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	return ExtractCompletion(respBody)
}

// ResolveModel returns override when set, else the configured default model.
func (c *Client) ResolveModel(override string) string {
	if override != "" {
		return override
	}
	return c.model
}

// ExtractCompletion reads choices[0].message from a successful upstream body.
// An absent role defaults to "assistant" and an absent content to "". A role
// or content that is present but null or not a string is malformed.
func ExtractCompletion(body []byte) (*Completion, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &MalformedResponseError{Err: errors.New("no choices in response")}
	}

	msg := resp.Choices[0].Message
	if msg == nil {
		return nil, &MalformedResponseError{Err: errors.New("choice 0 has no message")}
	}

	role, err := messageField(msg.Role, "role", defaultRole)
	if err != nil {
		return nil, err
	}
	content, err := messageField(msg.Content, "content", "")
	if err != nil {
		return nil, err
	}

	return &Completion{
		Role:    role,
		Content: content,
		Raw:     json.RawMessage(body),
	}, nil
}

// messageField decodes one string field of choices[0].message, returning
// fallback when the field is absent.
func messageField(raw json.RawMessage, name, fallback string) (string, error) {
	if raw == nil {
		return fallback, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", &MalformedResponseError{Err: fmt.Errorf("message %s is null", name)}
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", &MalformedResponseError{Err: fmt.Errorf("message %s: %w", name, err)}
	}
	return value, nil
}
