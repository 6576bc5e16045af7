// Package assistant provides the chat.Gateway transports: a direct client
// for an OpenAI-compatible chat completions API and a client for the
// Chunking relay.
package assistant

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rpggio/chunking/internal/domain/chat"
)

// Transport selects how the assistant is reached.
type Transport string

const (
	TransportDirect Transport = "direct"
	TransportRelay  Transport = "relay"
)

const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "gpt-4o-mini"
	DefaultSystemPrompt = "You are a helpful assistant that explains Chunking clearly. Summarize in 5 to 6 bullet points."
	DefaultTimeout      = 60 * time.Second

	maxAttempts  = 3
	initialDelay = time.Second
)

// ErrEmptyCompletion is joined with chat.ErrAssistantUnavailable when the
// upstream answered without any choices.
var ErrEmptyCompletion = errors.New("empty completion")

// Options configures a gateway.
type Options struct {
	Transport    Transport
	APIKey       string
	BaseURL      string
	Model        string
	Temperature  *float64
	MaxTokens    int
	RelayURL     string
	SystemPrompt string
	Timeout      time.Duration

	// RetryDelay is the first backoff delay of the direct client.
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// New builds the gateway selected by opts.Transport.
func New(opts Options, logger *slog.Logger) (chat.Gateway, error) {
	switch opts.Transport {
	case TransportDirect, "":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("direct transport: api key is required")
		}
		return NewDirectClient(opts, logger), nil
	case TransportRelay:
		if opts.RelayURL == "" {
			return nil, fmt.Errorf("relay transport: relay url is required")
		}
		return NewRelayClient(opts, logger), nil
	default:
		return nil, fmt.Errorf("unknown assistant transport %q", opts.Transport)
	}
}

func httpClient(opts Options) *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// buildMessages prepends the system prompt and topic as one system message.
func buildMessages(systemPrompt string, req chat.Request) []chat.Message {
	var system []string
	if p := strings.TrimSpace(systemPrompt); p != "" {
		system = append(system, p)
	}
	if t := strings.TrimSpace(req.Topic); t != "" {
		system = append(system, "The user is working on: "+t)
	}

	out := make([]chat.Message, 0, len(req.Messages)+1)
	if len(system) > 0 {
		out = append(out, chat.Message{Role: chat.RoleSystem, Content: strings.Join(system, "\n\n")})
	}
	return append(out, req.Messages...)
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", chat.ErrAssistantUnavailable, fmt.Sprintf(format, args...))
}
