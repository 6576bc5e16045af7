package note_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/repository"
	"github.com/rpggio/chunking/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memSlots struct {
	data map[string][]byte
}

func newMemSlots() *memSlots {
	return &memSlots{data: map[string][]byte{}}
}

func (m *memSlots) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (m *memSlots) Put(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestStore_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	slots := newMemSlots()

	store := note.NewStore(slots, nil, note.WithClock(fixedClock(1000)))
	store.Load(ctx)

	saved, ok := store.SaveNote(ctx, "  read chapter 3  ", 0)
	require.True(t, ok)
	require.Equal(t, int64(1000), saved.ID)
	require.Equal(t, "read chapter 3", saved.Text)

	reloaded := note.NewStore(slots, nil)
	reloaded.Load(ctx)
	require.Equal(t, []note.Note{{ID: 1000, Text: "read chapter 3"}}, reloaded.Notes())
	require.JSONEq(t, `[{"id":1000,"text":"read chapter 3"}]`, string(slots.data[note.SlotKey]))
}

func TestStore_EditInPlace(t *testing.T) {
	ctx := context.Background()
	slots := newMemSlots()

	ms := int64(1000)
	store := note.NewStore(slots, nil, note.WithClock(func() time.Time { ms++; return time.UnixMilli(ms) }))
	store.Load(ctx)

	first, _ := store.SaveNote(ctx, "first", 0)
	second, _ := store.SaveNote(ctx, "second", 0)
	third, _ := store.SaveNote(ctx, "third", 0)

	updated, ok := store.SaveNote(ctx, "second, revised", second.ID)
	require.True(t, ok)
	require.Equal(t, second.ID, updated.ID)

	require.Equal(t, []note.Note{
		{ID: first.ID, Text: "first"},
		{ID: second.ID, Text: "second, revised"},
		{ID: third.ID, Text: "third"},
	}, store.Notes())

	reloaded := note.NewStore(slots, nil)
	reloaded.Load(ctx)
	require.Equal(t, store.Notes(), reloaded.Notes())
}

func TestStore_UnknownEditingIDAppends(t *testing.T) {
	ctx := context.Background()
	store := note.NewStore(newMemSlots(), nil, note.WithClock(fixedClock(5000)))
	store.Load(ctx)

	saved, ok := store.SaveNote(ctx, "orphan edit", 42)
	require.True(t, ok)
	require.Equal(t, int64(5000), saved.ID)
	require.Len(t, store.Notes(), 1)
}

func TestStore_BlankTextIsNoop(t *testing.T) {
	ctx := context.Background()
	slots := &mocks.SlotRepository{}
	slots.On("Get", ctx, note.SlotKey).Return(nil, repository.ErrNotFound)

	store := note.NewStore(slots, nil)
	store.Load(ctx)

	_, ok := store.SaveNote(ctx, "   ", 0)
	require.False(t, ok)
	require.Empty(t, store.Notes())
	slots.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_IDsStayUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	store := note.NewStore(newMemSlots(), nil, note.WithClock(fixedClock(1000)))
	store.Load(ctx)

	a, _ := store.SaveNote(ctx, "a", 0)
	b, _ := store.SaveNote(ctx, "b", 0)
	c, _ := store.SaveNote(ctx, "c", 0)
	require.Equal(t, []int64{1000, 1001, 1002}, []int64{a.ID, b.ID, c.ID})
}

func TestStore_IDsContinuePastLoadedNotes(t *testing.T) {
	ctx := context.Background()
	slots := newMemSlots()
	slots.data[note.SlotKey] = []byte(`[{"id":9000,"text":"from the future"}]`)

	store := note.NewStore(slots, nil, note.WithClock(fixedClock(1000)))
	store.Load(ctx)

	saved, _ := store.SaveNote(ctx, "now", 0)
	require.Equal(t, int64(9001), saved.ID)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	slots := newMemSlots()
	ms := int64(0)
	store := note.NewStore(slots, nil, note.WithClock(func() time.Time { ms++; return time.UnixMilli(ms) }))
	store.Load(ctx)

	a, _ := store.SaveNote(ctx, "a", 0)
	b, _ := store.SaveNote(ctx, "b", 0)

	require.True(t, store.DeleteNote(ctx, a.ID))
	require.False(t, store.DeleteNote(ctx, a.ID))
	require.Equal(t, []note.Note{b}, store.Notes())

	require.True(t, store.DeleteNote(ctx, b.ID))
	require.JSONEq(t, `[]`, string(slots.data[note.SlotKey]))
}

func TestStore_LoadMalformedOrFailing(t *testing.T) {
	ctx := context.Background()

	slots := newMemSlots()
	slots.data[note.SlotKey] = []byte(`{not json`)
	store := note.NewStore(slots, nil)
	store.Load(ctx)
	require.Empty(t, store.Notes())

	failing := &mocks.SlotRepository{}
	failing.On("Get", ctx, note.SlotKey).Return(nil, errors.New("disk unavailable"))
	store = note.NewStore(failing, nil)
	store.Load(ctx)
	require.Empty(t, store.Notes())
}

func TestStore_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	slots := &mocks.SlotRepository{}
	slots.On("Get", ctx, note.SlotKey).Return(nil, repository.ErrNotFound)
	slots.On("Put", ctx, note.SlotKey, mock.Anything).Return(errors.New("quota exceeded"))

	store := note.NewStore(slots, logger, note.WithClock(fixedClock(1000)))
	store.Load(ctx)

	saved, ok := store.SaveNote(ctx, "still here", 0)
	require.True(t, ok)
	require.Equal(t, []note.Note{saved}, store.Notes())
	require.Contains(t, logs.String(), "failed to save notes")
	require.Contains(t, logs.String(), "quota exceeded")
}

func TestStore_Draft(t *testing.T) {
	ctx := context.Background()
	store := note.NewStore(newMemSlots(), nil, note.WithClock(fixedClock(1000)))
	store.Load(ctx)

	saved, _ := store.SaveNote(ctx, "original", 0)

	draft, ok := store.BeginEdit(saved.ID)
	require.True(t, ok)
	require.Equal(t, note.Draft{EditingID: saved.ID, Text: "original"}, draft)

	store.SetDraftText("edited")
	require.Equal(t, "edited", store.Draft().Text)

	store.CancelEdit()
	require.Equal(t, note.Draft{}, store.Draft())

	_, ok = store.BeginEdit(12345)
	require.False(t, ok)

	store.BeginEdit(saved.ID)
	store.SaveNote(ctx, "edited", store.Draft().EditingID)
	require.Equal(t, note.Draft{}, store.Draft(), "saving clears the draft")
	require.Equal(t, "edited", store.Notes()[0].Text)
}
