package mcp

import (
	"context"
	"errors"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/project"
	"github.com/rpggio/chunking/internal/domain/session"
)

type tools struct {
	session  SessionService
	activity ActivityService
}

func registerTools(server *sdkmcp.Server, services Services) {
	t := &tools{session: services.Session, activity: services.Activity}

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project in the current list with the Research, Planning and Execution tasks",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List current and finished projects with their indexes and tasks",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_task",
		Description: "Check or uncheck a task. A current project with every task done moves to finished; a finished project with any task undone moves back to current",
	}, t.toggleTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "view_goals",
		Description: "Show the goals of a project",
	}, t.viewGoals)

	// Notes
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_notes",
		Description: "List saved notes and the current edit draft",
	}, t.listNotes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_note",
		Description: "Add a note, or replace the text of the note named by editing_id",
	}, t.saveNote)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note by id",
	}, t.deleteNote)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "begin_edit_note",
		Description: "Load a note into the edit draft",
	}, t.beginEditNote)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "cancel_edit_note",
		Description: "Discard the edit draft",
	}, t.cancelEditNote)

	// Timer
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "timer_set",
		Description: "Arm the focus timer with minutes and seconds; stops any running countdown",
	}, t.timerSet)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "timer_start",
		Description: "Start or resume the focus timer",
	}, t.timerStart)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "timer_pause",
		Description: "Pause the focus timer, keeping the remaining time",
	}, t.timerPause)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "timer_reset",
		Description: "Stop the focus timer and clear the remaining time",
	}, t.timerReset)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "timer_status",
		Description: "Show the focus timer state and remaining time as MM:SS",
	}, t.timerStatus)

	// Assistant
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "start_conversation",
		Description: "Open a chat with the planning assistant, optionally about a topic",
	}, t.startConversation)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "send_message",
		Description: "Send a message and wait for the assistant's reply",
	}, t.sendMessage)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_transcript",
		Description: "Get the transcript of a conversation",
	}, t.getTranscript)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_conversations",
		Description: "List open conversations",
	}, t.listConversations)

	// Activity
	if t.activity != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_recent_activity",
			Description: "List recent activity, newest first",
		}, t.getRecentActivity)
	}
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, CreateProjectResult, error) {
	created, err := t.session.CreateProject(ctx, project.CreateRequest{
		Name:  in.Name,
		Goals: in.Goals,
		Tasks: [3]bool{in.Research, in.Planning, in.Execution},
	})
	if err != nil {
		return nil, CreateProjectResult{}, mapError(err)
	}
	return nil, CreateProjectResult{Project: projectView(created.Index, created.Project)}, nil
}

func (t *tools) listProjects(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	lists := t.session.Projects()
	return nil, ListProjectsResult{
		Current:  projectViews(lists.Current),
		Finished: projectViews(lists.Finished),
	}, nil
}

func (t *tools) toggleTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in ToggleTaskParams) (*sdkmcp.CallToolResult, ToggleTaskResult, error) {
	kind, err := project.ParseListKind(in.List)
	if err != nil {
		return nil, ToggleTaskResult{}, mapError(err)
	}
	res, err := t.session.ToggleTask(ctx, kind, in.ProjectIndex, in.TaskIndex)
	if err != nil {
		return nil, ToggleTaskResult{}, mapError(err)
	}
	return nil, ToggleTaskResult{
		Project:    res.Project,
		From:       res.From,
		List:       res.List,
		Transition: res.Transition,
		Dropped:    res.Dropped,
	}, nil
}

func (t *tools) viewGoals(_ context.Context, _ *sdkmcp.CallToolRequest, in ViewGoalsParams) (*sdkmcp.CallToolResult, ViewGoalsResult, error) {
	kind, err := project.ParseListKind(in.List)
	if err != nil {
		return nil, ViewGoalsResult{}, mapError(err)
	}
	proj, err := t.session.ViewGoals(kind, in.ProjectIndex)
	if err != nil {
		return nil, ViewGoalsResult{}, mapError(err)
	}
	return nil, ViewGoalsResult{Name: proj.Name, Goals: project.GoalsText(proj)}, nil
}

func (t *tools) listNotes(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListNotesResult, error) {
	return nil, ListNotesResult{Notes: nonNil(t.session.Notes()), Draft: t.session.Draft()}, nil
}

func (t *tools) saveNote(ctx context.Context, _ *sdkmcp.CallToolRequest, in SaveNoteParams) (*sdkmcp.CallToolResult, SaveNoteResult, error) {
	saved, ok := t.session.SaveNote(ctx, in.Text, in.EditingID)
	if !ok {
		return nil, SaveNoteResult{}, nil
	}
	return nil, SaveNoteResult{Saved: true, Note: &saved}, nil
}

func (t *tools) deleteNote(ctx context.Context, _ *sdkmcp.CallToolRequest, in NoteIDParams) (*sdkmcp.CallToolResult, DeleteNoteResult, error) {
	return nil, DeleteNoteResult{Deleted: t.session.DeleteNote(ctx, in.ID)}, nil
}

func (t *tools) beginEditNote(_ context.Context, _ *sdkmcp.CallToolRequest, in NoteIDParams) (*sdkmcp.CallToolResult, DraftResult, error) {
	draft, ok := t.session.BeginEditNote(in.ID)
	return nil, DraftResult{Found: ok, Draft: draft}, nil
}

func (t *tools) cancelEditNote(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, DraftResult, error) {
	t.session.CancelEditNote()
	return nil, DraftResult{Draft: t.session.Draft()}, nil
}

func (t *tools) timerSet(_ context.Context, _ *sdkmcp.CallToolRequest, in TimerSetParams) (*sdkmcp.CallToolResult, TimerResult, error) {
	ok := t.session.SetTimer(in.Minutes, in.Seconds)
	return nil, TimerResult{Accepted: ok, Timer: t.session.TimerStatus()}, nil
}

func (t *tools) timerStart(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, TimerResult, error) {
	ok := t.session.StartTimer(ctx)
	return nil, TimerResult{Accepted: ok, Timer: t.session.TimerStatus()}, nil
}

func (t *tools) timerPause(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, TimerResult, error) {
	t.session.PauseTimer()
	return nil, TimerResult{Accepted: true, Timer: t.session.TimerStatus()}, nil
}

func (t *tools) timerReset(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, TimerResult, error) {
	t.session.ResetTimer()
	return nil, TimerResult{Accepted: true, Timer: t.session.TimerStatus()}, nil
}

func (t *tools) timerStatus(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, TimerResult, error) {
	return nil, TimerResult{Accepted: true, Timer: t.session.TimerStatus()}, nil
}

func (t *tools) startConversation(_ context.Context, _ *sdkmcp.CallToolRequest, in StartConversationParams) (*sdkmcp.CallToolResult, StartConversationResult, error) {
	id, err := t.session.StartConversation(in.Topic)
	if err != nil {
		return nil, StartConversationResult{}, mapError(err)
	}
	return nil, StartConversationResult{ConversationID: id, Greeting: chat.Greeting}, nil
}

// sendMessage reports an unreachable assistant as a failed reply entry, the
// same line the transcript shows, rather than as a tool error.
func (t *tools) sendMessage(ctx context.Context, _ *sdkmcp.CallToolRequest, in SendMessageParams) (*sdkmcp.CallToolResult, SendMessageResult, error) {
	if in.Wait != nil && !*in.Wait {
		queued, err := t.session.Send(ctx, in.ConversationID, in.Text)
		if err != nil {
			return nil, SendMessageResult{}, mapError(err)
		}
		if !queued {
			return nil, SendMessageResult{}, mapError(chat.ErrEmptyMessage)
		}
		return nil, SendMessageResult{Queued: true}, nil
	}

	entry, err := t.session.Ask(ctx, in.ConversationID, in.Text)
	if err != nil && !errors.Is(err, chat.ErrAssistantUnavailable) {
		return nil, SendMessageResult{}, mapError(err)
	}
	return nil, SendMessageResult{Reply: &entry}, nil
}

func (t *tools) getTranscript(_ context.Context, _ *sdkmcp.CallToolRequest, in ConversationParams) (*sdkmcp.CallToolResult, TranscriptResult, error) {
	entries, pending, err := t.session.Transcript(in.ConversationID)
	if err != nil {
		return nil, TranscriptResult{}, mapError(err)
	}
	res := TranscriptResult{Transcript: nonNil(entries), Pending: pending}
	if len(entries) == 0 {
		res.Greeting = chat.Greeting
	}
	return nil, res, nil
}

func (t *tools) listConversations(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ListConversationsResult, error) {
	summaries := t.session.Conversations()
	views := make([]ConversationView, 0, len(summaries))
	for _, c := range summaries {
		views = append(views, ConversationView{
			ID:        c.ID,
			Topic:     c.Topic,
			Messages:  c.Messages,
			Pending:   c.Pending,
			StartedAt: c.StartedAt.Format(time.RFC3339),
		})
	}
	return nil, ListConversationsResult{Conversations: views}, nil
}

func (t *tools) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, GetRecentActivityResult, error) {
	opts := activity.ListActivityOptions{Subject: in.Subject, Limit: in.Limit, Offset: in.Offset}
	if in.Type != "" {
		typ := activity.ActivityType(in.Type)
		opts.ActivityType = &typ
	}
	entries, err := t.activity.GetRecentActivity(ctx, opts)
	if err != nil {
		return nil, GetRecentActivityResult{}, mapError(err)
	}
	views := make([]ActivityView, 0, len(entries))
	for _, e := range entries {
		views = append(views, ActivityView{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Subject:   e.Subject,
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil, GetRecentActivityResult{Entries: views}, nil
}

func projectView(index int, p project.Project) ProjectView {
	return ProjectView{Index: index, Name: p.Name, Goals: p.Goals, Tasks: p.Tasks}
}

func projectViews(projects []project.Project) []ProjectView {
	out := make([]ProjectView, 0, len(projects))
	for i, p := range projects {
		out = append(out, projectView(i, p))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ SessionService = (*session.Service)(nil)
