// Package session owns the application state: one project tracker, one
// note store, one focus timer and the open chat conversations. Every user
// intent goes through a Service, which serialises them.
package session

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/domain/project"
	"github.com/rpggio/chunking/internal/domain/timer"
)

// Deps are the collaborators of a Service. Slots is required; Gateway and
// Activity may be nil.
type Deps struct {
	Slots        note.SlotStore
	Gateway      chat.Gateway
	Activity     ActivityLogger
	TimerOptions []timer.Option
	NoteOptions  []note.Option
	Now          func() time.Time
	NewID        func() string
}

// Service is the single owner of session state.
type Service struct {
	mu      sync.Mutex
	tracker *project.Tracker
	notes   *note.Store
	timer   *timer.Timer

	conversations map[string]*conversation
	gateway       chat.Gateway
	activity      ActivityLogger
	now           func() time.Time
	newID         func() string
	logger        *slog.Logger

	// recordMu orders activity writes against Close; writes after Close
	// are dropped so background hooks never reach a closed store.
	recordMu sync.RWMutex
	closed   bool
}

// NewService creates a session and loads persisted notes.
func NewService(ctx context.Context, deps Deps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		tracker:       project.NewTracker(logger),
		notes:         note.NewStore(deps.Slots, logger, deps.NoteOptions...),
		conversations: make(map[string]*conversation),
		gateway:       deps.Gateway,
		activity:      deps.Activity,
		now:           deps.Now,
		newID:         deps.NewID,
		logger:        logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	timerOpts := append([]timer.Option{
		timer.WithLogger(logger),
		timer.WithExpireHook(s.timerExpired),
	}, deps.TimerOptions...)
	s.timer = timer.New(timerOpts...)

	s.notes.Load(ctx)
	return s
}

// Close stops the timer, waits for outstanding assistant replies and stops
// activity logging. A completion sound still playing, or an Ask still in
// flight, finishes without writing activity. Close is idempotent.
func (s *Service) Close() {
	s.timer.Close()

	s.mu.Lock()
	convs := make([]*conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		convs = append(convs, c)
	}
	s.mu.Unlock()

	for _, c := range convs {
		c.Wait()
	}

	s.recordMu.Lock()
	s.closed = true
	s.recordMu.Unlock()
}

// Projects

func (s *Service) OpenProjectForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.OpenForm()
}

func (s *Service) CloseProjectForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.CloseForm()
}

// CreateProject adds a project to the current list. The index is taken
// under the same lock as the append.
func (s *Service) CreateProject(ctx context.Context, req project.CreateRequest) (CreatedProject, error) {
	s.mu.Lock()
	proj, err := s.tracker.CreateProject(req)
	index := len(s.tracker.Current()) - 1
	s.mu.Unlock()
	if err != nil {
		return CreatedProject{}, err
	}

	s.record(ctx, activity.TypeProjectCreated, proj.Name, fmt.Sprintf("Created project %q", proj.Name), nil)
	return CreatedProject{Project: proj, Index: index}, nil
}

// ToggleTask flips one task and applies the promotion rule.
func (s *Service) ToggleTask(ctx context.Context, kind project.ListKind, projectIndex, taskIndex int) (project.ToggleResult, error) {
	s.mu.Lock()
	res, err := s.tracker.ToggleTask(kind, projectIndex, taskIndex)
	s.mu.Unlock()
	if err != nil {
		return project.ToggleResult{}, err
	}

	name := res.Project.Name
	task := res.Project.Tasks[taskIndex]
	s.record(ctx, activity.TypeTaskToggled, name,
		fmt.Sprintf("%s: %s marked %s", name, task.Name, doneWord(task.Done)),
		map[string]any{"list": res.From, "task": task.Name, "done": task.Done})

	switch {
	case res.Dropped:
		s.record(ctx, activity.TypeProjectDropped, name,
			fmt.Sprintf("Dropped %q: %s already holds a project with that name", name, res.List), nil)
	case res.Transition == project.TransitionPromoted:
		s.record(ctx, activity.TypeProjectPromoted, name, fmt.Sprintf("Finished %q", name), nil)
	case res.Transition == project.TransitionDemoted:
		s.record(ctx, activity.TypeProjectDemoted, name, fmt.Sprintf("Reopened %q", name), nil)
	}
	return res, nil
}

// Projects returns copies of both lists.
func (s *Service) Projects() ProjectLists {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProjectLists{Current: s.tracker.Current(), Finished: s.tracker.Finished()}
}

// ViewGoals opens the goals view for a project.
func (s *Service) ViewGoals(kind project.ListKind, projectIndex int) (project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker.ViewGoals(kind, projectIndex)
}

func (s *Service) CloseGoals() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.CloseGoals()
}

// Notes

func (s *Service) Notes() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Notes()
}

// SaveNote stores text, replacing the note with editingID when it exists.
func (s *Service) SaveNote(ctx context.Context, text string, editingID int64) (note.Note, bool) {
	s.mu.Lock()
	_, existed := s.notes.Get(editingID)
	saved, ok := s.notes.SaveNote(ctx, text, editingID)
	s.mu.Unlock()
	if !ok {
		return note.Note{}, false
	}

	subject := strconv.FormatInt(saved.ID, 10)
	if existed && editingID != 0 {
		s.record(ctx, activity.TypeNoteUpdated, subject, "Updated note", nil)
	} else {
		s.record(ctx, activity.TypeNoteCreated, subject, "Added note", nil)
	}
	return saved, true
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id int64) bool {
	s.mu.Lock()
	removed := s.notes.DeleteNote(ctx, id)
	s.mu.Unlock()

	if removed {
		s.record(ctx, activity.TypeNoteDeleted, strconv.FormatInt(id, 10), "Deleted note", nil)
	}
	return removed
}

func (s *Service) BeginEditNote(id int64) (note.Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.BeginEdit(id)
}

func (s *Service) CancelEditNote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes.CancelEdit()
}

func (s *Service) Draft() note.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes.Draft()
}

// Timer

func (s *Service) SetTimer(minutes, seconds int) bool { return s.timer.SetTime(minutes, seconds) }
func (s *Service) StartTimer(ctx context.Context) bool { return s.timer.Start(ctx) }
func (s *Service) PauseTimer()                         { s.timer.Pause() }
func (s *Service) ResetTimer()                         { s.timer.Reset() }
func (s *Service) TimerStatus() timer.Snapshot         { return s.timer.Snapshot() }

func (s *Service) timerExpired() {
	s.record(context.Background(), activity.TypeTimerExpired, "", "Focus timer finished", nil)
}

// Conversations

// StartConversation opens a conversation about topic and returns its id.
func (s *Service) StartConversation(topic string) (string, error) {
	if s.gateway == nil {
		return "", ErrAssistantDisabled
	}

	id := s.newID()
	conv := chat.NewConversation(id, topic, s.gateway, s.logger)
	conv.OnFailure(func(err error) {
		s.record(context.Background(), activity.TypeAssistantFailure, id, "Assistant unavailable",
			map[string]any{"error": err.Error()})
	})

	s.mu.Lock()
	s.conversations[id] = &conversation{Conversation: conv, startedAt: s.now()}
	s.mu.Unlock()

	return id, nil
}

// Ask sends text and waits for the reply entry.
func (s *Service) Ask(ctx context.Context, conversationID, text string) (chat.Entry, error) {
	conv, err := s.conversation(conversationID)
	if err != nil {
		return chat.Entry{}, err
	}
	return conv.Ask(ctx, text)
}

// Send sends text and returns without waiting for the reply.
func (s *Service) Send(ctx context.Context, conversationID, text string) (bool, error) {
	conv, err := s.conversation(conversationID)
	if err != nil {
		return false, err
	}
	return conv.Send(ctx, text), nil
}

// Transcript returns a conversation's transcript and whether a reply is
// outstanding.
func (s *Service) Transcript(conversationID string) ([]chat.Entry, bool, error) {
	conv, err := s.conversation(conversationID)
	if err != nil {
		return nil, false, err
	}
	return conv.Transcript(), conv.Pending(), nil
}

// Conversations lists open conversations, oldest first.
func (s *Service) Conversations() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ConversationSummary, 0, len(s.conversations))
	for id, c := range s.conversations {
		out = append(out, ConversationSummary{
			ID:        id,
			Topic:     c.Topic(),
			Messages:  len(c.Transcript()),
			Pending:   c.Pending(),
			StartedAt: c.startedAt,
		})
	}
	slices.SortFunc(out, func(a, b ConversationSummary) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (s *Service) conversation(id string) (*conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

func (s *Service) record(ctx context.Context, typ activity.ActivityType, subject, summary string, details map[string]any) {
	if s.activity == nil {
		return
	}

	entry := &activity.ActivityEntry{
		ActivityType: typ,
		Subject:      subject,
		Summary:      summary,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("encoding activity details failed", "type", typ, "error", err)
		} else {
			entry.Details = string(raw)
		}
	}

	s.recordMu.RLock()
	defer s.recordMu.RUnlock()
	if s.closed {
		s.logger.Debug("session closed, activity dropped", "type", typ)
		return
	}
	if err := s.activity.LogActivity(ctx, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}

func doneWord(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}
