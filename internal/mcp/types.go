package mcp

import (
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/domain/project"
	"github.com/rpggio/chunking/internal/domain/timer"
)

type EmptyParams struct{}

// Projects

type CreateProjectParams struct {
	Name      string `json:"name" jsonschema:"Project name, must not be blank"`
	Goals     string `json:"goals,omitempty" jsonschema:"Free-text goals"`
	Research  bool   `json:"research,omitempty" jsonschema:"Start with the Research task checked"`
	Planning  bool   `json:"planning,omitempty" jsonschema:"Start with the Planning task checked"`
	Execution bool   `json:"execution,omitempty" jsonschema:"Start with the Execution task checked"`
}

type CreateProjectResult struct {
	Project ProjectView `json:"project"`
}

type ProjectView struct {
	Index int            `json:"index"`
	Name  string         `json:"name"`
	Goals string         `json:"goals,omitempty"`
	Tasks []project.Task `json:"tasks"`
}

type ListProjectsResult struct {
	Current  []ProjectView `json:"current"`
	Finished []ProjectView `json:"finished"`
}

type ToggleTaskParams struct {
	List         string `json:"list" jsonschema:"current or finished"`
	ProjectIndex int    `json:"project_index" jsonschema:"Index of the project within the list"`
	TaskIndex    int    `json:"task_index" jsonschema:"0 Research, 1 Planning, 2 Execution"`
}

type ToggleTaskResult struct {
	Project    project.Project    `json:"project"`
	From       project.ListKind   `json:"from"`
	List       project.ListKind   `json:"list"`
	Transition project.Transition `json:"transition"`
	Dropped    bool               `json:"dropped"`
}

type ViewGoalsParams struct {
	List         string `json:"list" jsonschema:"current or finished"`
	ProjectIndex int    `json:"project_index" jsonschema:"Index of the project within the list"`
}

type ViewGoalsResult struct {
	Name  string `json:"name"`
	Goals string `json:"goals"`
}

// Notes

type ListNotesResult struct {
	Notes []note.Note `json:"notes"`
	Draft note.Draft  `json:"draft"`
}

type SaveNoteParams struct {
	Text      string `json:"text" jsonschema:"Note text; blank text is ignored"`
	EditingID int64  `json:"editing_id,omitempty" jsonschema:"Id of the note being edited; omit to add a new note"`
}

type SaveNoteResult struct {
	Saved bool       `json:"saved"`
	Note  *note.Note `json:"note,omitempty"`
}

type NoteIDParams struct {
	ID int64 `json:"id" jsonschema:"Note id"`
}

type DeleteNoteResult struct {
	Deleted bool `json:"deleted"`
}

type DraftResult struct {
	Found bool       `json:"found"`
	Draft note.Draft `json:"draft"`
}

// Timer

type TimerSetParams struct {
	Minutes int `json:"minutes" jsonschema:"Whole minutes"`
	Seconds int `json:"seconds" jsonschema:"Seconds, may exceed 59"`
}

type TimerResult struct {
	Accepted bool           `json:"accepted"`
	Timer    timer.Snapshot `json:"timer"`
}

// Conversations

type StartConversationParams struct {
	Topic string `json:"topic,omitempty" jsonschema:"What the conversation is about, usually a project name"`
}

type StartConversationResult struct {
	ConversationID string `json:"conversation_id"`
	Greeting       string `json:"greeting"`
}

type SendMessageParams struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	Wait           *bool  `json:"wait,omitempty" jsonschema:"Wait for the reply (default true). With false the reply lands in the transcript later"`
}

type SendMessageResult struct {
	Reply  *chat.Entry `json:"reply,omitempty"`
	Queued bool        `json:"queued,omitempty"`
}

type ConversationParams struct {
	ConversationID string `json:"conversation_id"`
}

type TranscriptResult struct {
	Transcript []chat.Entry `json:"transcript"`
	Pending    bool         `json:"pending"`
	Greeting   string       `json:"greeting,omitempty"`
}

// ConversationView is a ConversationSummary with a string timestamp.
type ConversationView struct {
	ID        string `json:"id"`
	Topic     string `json:"topic,omitempty"`
	Messages  int    `json:"messages"`
	Pending   bool   `json:"pending"`
	StartedAt string `json:"started_at"`
}

type ListConversationsResult struct {
	Conversations []ConversationView `json:"conversations"`
}

// Activity

type GetRecentActivityParams struct {
	Subject string `json:"subject,omitempty" jsonschema:"Filter by project name, note id or conversation id"`
	Type    string `json:"type,omitempty" jsonschema:"Filter by activity type"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum number of entries"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Offset for pagination"`
}

type ActivityView struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Subject   string `json:"subject,omitempty"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

type GetRecentActivityResult struct {
	Entries []ActivityView `json:"entries"`
}
