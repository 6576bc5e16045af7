package session

import (
	"time"

	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/project"
)

// ProjectLists is the current/finished partition.
type ProjectLists struct {
	Current  []project.Project `json:"current"`
	Finished []project.Project `json:"finished"`
}

// CreatedProject is a new project and its position in the current list.
type CreatedProject struct {
	Project project.Project
	Index   int
}

// ConversationSummary describes an open conversation.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic,omitempty"`
	Messages  int       `json:"messages"`
	Pending   bool      `json:"pending"`
	StartedAt time.Time `json:"started_at"`
}

type conversation struct {
	*chat.Conversation
	startedAt time.Time
}
