package note

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/chunking/internal/repository"
)

// Store keeps the note collection in memory and mirrors it to a storage
// slot after every mutation.
//
// Store is not safe for concurrent use; callers serialise intents.
type Store struct {
	slots  SlotStore
	key    string
	logger *slog.Logger
	now    func() time.Time

	notes  []Note
	lastID int64
	draft  Draft
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to mint note IDs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSlotKey overrides the storage slot name.
func WithSlotKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates an empty store. Call Load to read persisted notes.
func NewStore(slots SlotStore, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		slots:  slots,
		key:    SlotKey,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// or malformed slot yields an empty collection.
func (s *Store) Load(ctx context.Context) {
	s.notes = nil
	s.lastID = 0

	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to load notes", "slot", s.key, "error", fmt.Errorf("%w: %w", ErrPersistence, err))
		return
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("discarding malformed notes", "slot", s.key, "error", err)
		return
	}

	s.notes = notes
	for _, n := range notes {
		s.lastID = max(s.lastID, n.ID)
	}
}

// Notes returns a copy of the collection in insertion order.
func (s *Store) Notes() []Note {
	return slices.Clone(s.notes)
}

// Get returns the note with id.
func (s *Store) Get(id int64) (Note, bool) {
	i := s.index(id)
	if i < 0 {
		return Note{}, false
	}
	return s.notes[i], true
}

// SaveNote trims text and stores it. Blank text is a no-op. When editingID
// names an existing note its text is replaced in place, keeping ID and
// position; otherwise a new note is appended. The editor draft is cleared.
//
// The second return value reports whether the collection changed.
func (s *Store) SaveNote(ctx context.Context, text string, editingID int64) (Note, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Note{}, false
	}

	var saved Note
	if i := s.index(editingID); editingID != 0 && i >= 0 {
		s.notes[i].Text = text
		saved = s.notes[i]
	} else {
		saved = Note{ID: s.nextID(), Text: text}
		s.notes = append(s.notes, saved)
	}

	s.draft = Draft{}
	s.persist(ctx)

	return saved, true
}

// DeleteNote removes the note with id. Missing ids are a no-op but the
// collection is still persisted.
func (s *Store) DeleteNote(ctx context.Context, id int64) bool {
	i := s.index(id)
	if i >= 0 {
		s.notes = slices.Delete(s.notes, i, i+1)
		if s.draft.EditingID == id {
			s.draft = Draft{}
		}
	}
	s.persist(ctx)
	return i >= 0
}

// BeginEdit loads a note into the draft buffer.
func (s *Store) BeginEdit(id int64) (Draft, bool) {
	n, ok := s.Get(id)
	if !ok {
		return s.draft, false
	}
	s.draft = Draft{EditingID: n.ID, Text: n.Text}
	return s.draft, true
}

// CancelEdit clears the draft buffer.
func (s *Store) CancelEdit() {
	s.draft = Draft{}
}

// SetDraftText replaces the draft text without touching the editing id.
func (s *Store) SetDraftText(text string) {
	s.draft.Text = text
}

// Draft returns the editor buffer.
func (s *Store) Draft() Draft {
	return s.draft
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}

// nextID returns the current millisecond, bumped past the last issued id so
// two saves within one millisecond stay distinct.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) persist(ctx context.Context) {
	notes := s.notes
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		s.logger.Warn("failed to encode notes", "error", fmt.Errorf("%w: %w", ErrPersistence, err))
		return
	}
	if err := s.slots.Put(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to save notes", "slot", s.key, "error", fmt.Errorf("%w: %w", ErrPersistence, err))
	}
}
