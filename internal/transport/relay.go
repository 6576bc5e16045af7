package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/chunking/internal/assistant"
	"github.com/rpggio/chunking/internal/domain/chat"
)

// RelayPath is the relay's chat route.
const RelayPath = assistant.RelayPath

const (
	maxRelayBody = 1 << 20
	noResponse   = "No response"
)

// Completer forwards a message list upstream unchanged.
type Completer interface {
	Chat(ctx context.Context, messages []chat.Message) (string, error)
}

type relayHandler struct {
	completer Completer
	logger    *slog.Logger
}

func (h *relayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages json.RawMessage `json:"messages"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRelayBody))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	var messages []chat.Message
	if !isJSONArray(body.Messages) || json.Unmarshal(body.Messages, &messages) != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	reply, err := h.completer.Chat(r.Context(), messages)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyCompletion) {
			writeJSON(w, http.StatusOK, assistant.RelayResponse{Reply: noResponse})
			return
		}
		h.logger.Error("relay upstream failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, assistant.RelayResponse{Reply: reply})
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
