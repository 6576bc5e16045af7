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

	"github.com/rpggio/chunking/internal/domain/chat"
)

// RelayPath is where the relay accepts chat requests.
const RelayPath = "/api/chat"

// RelayRequest is the relay's request body.
type RelayRequest struct {
	Messages []chat.Message `json:"messages"`
}

// RelayResponse is the relay's success body.
type RelayResponse struct {
	Reply string `json:"reply"`
}

// RelayClient reaches the assistant through a Chunking relay, which holds
// the credential.
type RelayClient struct {
	endpoint     string
	systemPrompt string
	client       *http.Client
	logger       *slog.Logger
}

// NewRelayClient creates a client for the relay at opts.RelayURL.
func NewRelayClient(opts Options, logger *slog.Logger) *RelayClient {
	return &RelayClient{
		endpoint:     strings.TrimRight(opts.RelayURL, "/") + RelayPath,
		systemPrompt: opts.SystemPrompt,
		client:       httpClient(opts),
		logger:       loggerOrDiscard(logger),
	}
}

// Complete implements chat.Gateway.
func (c *RelayClient) Complete(ctx context.Context, req chat.Request) (chat.Reply, error) {
	body, err := json.Marshal(RelayRequest{Messages: buildMessages(c.systemPrompt, req)})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("marshaling relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return chat.Reply{}, unavailable("relay request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return chat.Reply{}, unavailable("reading relay response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("relay returned error", "status", resp.StatusCode, "body", string(respBody))
		return chat.Reply{}, unavailable("relay status %d", resp.StatusCode)
	}

	var decoded RelayResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return chat.Reply{}, unavailable("decoding relay response: %v", err)
	}
	if strings.TrimSpace(decoded.Reply) == "" {
		return chat.Reply{}, fmt.Errorf("%w: %w", chat.ErrAssistantUnavailable, ErrEmptyCompletion)
	}
	return chat.Reply{Content: decoded.Reply}, nil
}
