package render

import (
	"testing"

	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/domain/timer"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	t.Setenv("CHUNKING_MD_STYLE", "notty")

	require.Empty(t, Markdown("   ", 80))

	out := Markdown("- **Research** the market\n- Plan the launch", 80)
	require.Contains(t, out, "Research")
	require.Contains(t, out, "Plan the launch")

	require.Equal(t, out, Markdown("- **Research** the market\n- Plan the launch", 80), "cached renderer gives the same output")
}

func TestMarkdownStyle(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("COLORFGBG", "")

	t.Setenv("CHUNKING_MD_STYLE", "light")
	require.Equal(t, "light", markdownStyle())

	t.Setenv("CHUNKING_MD_STYLE", "")
	require.Equal(t, "dark", markdownStyle())

	t.Setenv("COLORFGBG", "0;15")
	require.Equal(t, "light", markdownStyle())

	t.Setenv("NO_COLOR", "1")
	require.Equal(t, "notty", markdownStyle())
}

func TestNotes(t *testing.T) {
	require.Contains(t, Notes(nil), "No notes yet.")

	out := Notes([]note.Note{{ID: 1700000000000, Text: "first"}, {ID: 1700000000001, Text: "second"}})
	require.Contains(t, out, "1700000000000")
	require.Contains(t, out, "first")
	require.Contains(t, out, "second")
}

func TestTimer(t *testing.T) {
	out := Timer(timer.Snapshot{Remaining: 90, State: timer.StateArmed, Display: "01:30"})
	require.Contains(t, out, "01:30")
	require.Contains(t, out, "armed")
}

func TestEntry(t *testing.T) {
	t.Setenv("CHUNKING_MD_STYLE", "notty")

	require.Contains(t, Entry(chat.Entry{Role: chat.RoleUser, Content: "hi"}, 80), "hi")
	require.Contains(t, Entry(chat.Entry{Role: chat.RoleAssistant, Content: chat.FailureNotice, Failed: true}, 80), chat.FailureNotice)
	require.Contains(t, Entry(chat.Entry{Role: chat.RoleAssistant, Content: "- step"}, 80), "step")
}
