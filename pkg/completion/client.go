package completion

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

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"github.com/angelmondragon/notewell-backend/pkg/metrics"
	"github.com/sethvargo/go-retry"
)

const (
	defaultBaseURL           = "https://openrouter.ai/api/v1"
	defaultModel             = "openai/gpt-4o-mini"
	defaultTemperature       = 0.3
	defaultMaxTokens         = 800
	errorBodyReadLimit int64 = 1024
)

var (
	// ErrNotConfigured is returned by NewClient when no API key is set.
	ErrNotConfigured = errors.New("completion api key is required")
	// ErrOverloaded reports that the upstream stayed overloaded after all retries.
	ErrOverloaded = errors.New("completion upstream overloaded")
	// ErrEmptyResponse reports a successful call that carried no text.
	ErrEmptyResponse = errors.New("completion returned no content")
)

// StatusError carries a non-2xx answer from the upstream.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion status %d: %s", e.StatusCode, e.Body)
}

// Overloaded reports whether the upstream asked us to back off.
func (e *StatusError) Overloaded() bool {
	if e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == 529 {
		return true
	}
	return strings.Contains(strings.ToLower(e.Body), "overloaded")
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage wraps prompt as a single user turn.
func UserMessage(prompt string) Message {
	return Message{Role: "user", Content: prompt}
}

// Completer produces text from chat messages.
type Completer interface {
	Complete(ctx context.Context, messages ...Message) (string, error)
	Model() string
}

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	referer    string
	title      string
	maxRetries int
	retryDelay time.Duration
	metrics    *metrics.CompletionMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithRetryDelay overrides the pause between overload retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// WithMetrics records overload retries.
func WithMetrics(m *metrics.CompletionMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the completion client from configuration.
func NewClient(cfg config.CompletionConfig, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     key,
		model:      strings.TrimSpace(cfg.Model),
		referer:    strings.TrimSpace(cfg.Referer),
		title:      strings.TrimSpace(cfg.Title),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
	if client.model == "" {
		client.model = defaultModel
	}
	if client.maxRetries < 0 {
		client.maxRetries = 0
	}
	WithBaseURL(cfg.BaseURL)(client)

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends messages and returns the first choice's text. Overloaded
// answers are retried with a constant delay; once retries run out the error
// wraps ErrOverloaded.
func (c *Client) Complete(ctx context.Context, messages ...Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	delay := c.retryDelay
	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.BackoffFunc(func() (time.Duration, bool) {
		c.metrics.IncRetry()
		return delay, false
	}))

	var text string
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, callErr := c.send(ctx, payload)
		if callErr != nil {
			var statusErr *StatusError
			if errors.As(callErr, &statusErr) && statusErr.Overloaded() {
				return retry.RetryableError(callErr)
			}
			return callErr
		}
		text = out
		return nil
	})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Overloaded() {
			return "", fmt.Errorf("%w: %v", ErrOverloaded, err)
		}
		return "", err
	}
	return text, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) send(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
