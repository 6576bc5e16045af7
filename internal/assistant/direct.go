package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/chunking/internal/domain/chat"
)

// DirectClient calls an OpenAI-compatible chat completions endpoint with a
// bearer credential.
type DirectClient struct {
	apiKey       string
	endpoint     string
	model        string
	temperature  *float64
	maxTokens    int
	systemPrompt string
	retryDelay   time.Duration
	client       *http.Client
	logger       *slog.Logger
}

type completionRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	Temperature *float64       `json:"temperature,omitempty"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewDirectClient creates a client from opts. Zero values fall back to the
// package defaults.
func NewDirectClient(opts Options, logger *slog.Logger) *DirectClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = initialDelay
	}
	return &DirectClient{
		apiKey:       opts.APIKey,
		endpoint:     strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:        model,
		temperature:  opts.Temperature,
		maxTokens:    opts.MaxTokens,
		systemPrompt: opts.SystemPrompt,
		retryDelay:   delay,
		client:       httpClient(opts),
		logger:       loggerOrDiscard(logger),
	}
}

// Complete implements chat.Gateway. A blank reply counts as unavailable.
func (c *DirectClient) Complete(ctx context.Context, req chat.Request) (chat.Reply, error) {
	content, err := c.Chat(ctx, buildMessages(c.systemPrompt, req))
	if err != nil {
		return chat.Reply{}, err
	}
	if strings.TrimSpace(content) == "" {
		return chat.Reply{}, fmt.Errorf("%w: %w", chat.ErrAssistantUnavailable, ErrEmptyCompletion)
	}
	return chat.Reply{Content: content}, nil
}

// Chat sends messages as-is and returns the first choice's content.
// Rate limits and server errors are retried with exponential backoff.
func (c *DirectClient) Chat(ctx context.Context, messages []chat.Message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshaling completion request: %w", chat.ErrAssistantUnavailable, err)
	}

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			delay := c.retryDelay << (attempt - 1)
			c.logger.Debug("retrying completion", "attempt", attempt+1, "delay", delay, "error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", chat.ErrAssistantUnavailable, ctx.Err())
			}
		}

		content, retry, err := c.do(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}

	return "", fmt.Errorf("max attempts (%d) exceeded: %w", maxAttempts, lastErr)
}

func (c *DirectClient) do(ctx context.Context, body []byte) (content string, retry bool, err error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("%w: creating request: %w", chat.ErrAssistantUnavailable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", ctx.Err() == nil, unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, unavailable("reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retry, unavailable("upstream status %d: %s", resp.StatusCode, msg)
	}

	var decoded completionResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", false, unavailable("decoding response: %v", err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message == nil {
		return "", false, fmt.Errorf("%w: %w", chat.ErrAssistantUnavailable, ErrEmptyCompletion)
	}
	return decoded.Choices[0].Message.Content, false, nil
}
