package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated   ActivityType = "project_created"
	TypeTaskToggled      ActivityType = "task_toggled"
	TypeProjectPromoted  ActivityType = "project_promoted"
	TypeProjectDemoted   ActivityType = "project_demoted"
	TypeProjectDropped   ActivityType = "project_dropped"
	TypeNoteCreated      ActivityType = "note_created"
	TypeNoteUpdated      ActivityType = "note_updated"
	TypeNoteDeleted      ActivityType = "note_deleted"
	TypeTimerExpired     ActivityType = "timer_expired"
	TypeAssistantFailure ActivityType = "assistant_failure"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	Subject      string       `json:"subject,omitempty"` // project name, note id, conversation id
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
