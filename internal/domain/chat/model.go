package chat

import "context"

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is one role-tagged chat message as sent to the assistant.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Entry is one line of a transcript. Failed entries are user-visible error
// notices and are never sent back to the assistant.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Failed  bool   `json:"failed,omitempty"`
}

// Request is a completion request: the ordered history plus the topic the
// conversation is about.
type Request struct {
	Messages []Message
	Topic    string
}

// Reply is the assistant's answer.
type Reply struct {
	Content string
}

// Gateway completes a chat. Implementations are transport-specific.
type Gateway interface {
	Complete(ctx context.Context, req Request) (Reply, error)
}

const (
	// Greeting is shown while a transcript is empty.
	Greeting = "Hi! I can help you plan and organize your projects with chunking."
	// FailureNotice is appended when the assistant cannot answer.
	FailureNotice = "Unable to reach the assistant right now."
)
