package chat

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Conversation is one chat surface: a topic and an append-only transcript.
//
// Replies are appended in the order gateway calls complete, not the order
// messages were sent. Two overlapping Sends may therefore see their
// replies swapped.
type Conversation struct {
	id      string
	topic   string
	gateway Gateway
	logger  *slog.Logger

	mu      sync.Mutex
	entries []Entry
	pending int
	wg      sync.WaitGroup

	onFailure func(error)
}

// NewConversation creates an empty conversation.
func NewConversation(id, topic string, gateway Gateway, logger *slog.Logger) *Conversation {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Conversation{id: id, topic: topic, gateway: gateway, logger: logger}
}

// OnFailure registers fn to run after a failed completion is recorded.
func (c *Conversation) OnFailure(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFailure = fn
}

// ID returns the conversation id.
func (c *Conversation) ID() string { return c.id }

// Topic returns the topic context sent with every request.
func (c *Conversation) Topic() string { return c.topic }

// Send appends the user's message and asks the assistant in the
// background. Blank text is ignored. The request outlives ctx
// cancellation so a reply or failure entry is always recorded.
func (c *Conversation) Send(ctx context.Context, text string) bool {
	req, ok := c.begin(text)
	if !ok {
		return false
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.finish(context.WithoutCancel(ctx), req)
	}()
	return true
}

// Ask appends the user's message, waits for the assistant and returns the
// entry that was appended for it.
func (c *Conversation) Ask(ctx context.Context, text string) (Entry, error) {
	req, ok := c.begin(text)
	if !ok {
		return Entry{}, ErrEmptyMessage
	}
	return c.finish(ctx, req)
}

// Wait blocks until every background Send has recorded its outcome.
func (c *Conversation) Wait() {
	c.wg.Wait()
}

// Transcript returns a copy of the transcript.
func (c *Conversation) Transcript() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.entries)
}

// Pending reports whether a reply is outstanding; surfaces show a typing
// indicator while it is true.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

func (c *Conversation) begin(text string) (Request, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, Entry{Role: RoleUser, Content: text})
	c.pending++

	return Request{Messages: historyOf(c.entries), Topic: c.topic}, true
}

func (c *Conversation) finish(ctx context.Context, req Request) (Entry, error) {
	reply, err := c.gateway.Complete(ctx, req)

	var entry Entry
	if err != nil {
		c.logger.Error("assistant request failed", "conversation", c.id, "error", err)
		entry = Entry{Role: RoleAssistant, Content: FailureNotice, Failed: true}
	} else {
		entry = Entry{Role: RoleAssistant, Content: strings.TrimSpace(reply.Content)}
	}

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.pending--
	onFailure := c.onFailure
	c.mu.Unlock()

	if err != nil {
		if onFailure != nil {
			onFailure(err)
		}
		return entry, err
	}
	return entry, nil
}

func historyOf(entries []Entry) []Message {
	out := make([]Message, 0, len(entries))
	for _, e := range entries {
		if e.Failed {
			continue
		}
		out = append(out, Message{Role: e.Role, Content: e.Content})
	}
	return out
}
