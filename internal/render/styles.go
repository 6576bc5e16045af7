package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/domain/timer"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#A39BFF"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	alert  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	good   = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#58D68D"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle   = lipgloss.NewStyle().Foreground(alert)
	idStyle      = lipgloss.NewStyle().Foreground(muted).Width(15)
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	assistStyle  = lipgloss.NewStyle().Bold(true).Foreground(good)
	timerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	expiredStyle = timerStyle.Foreground(alert)
	runningStyle = timerStyle.Foreground(good)
)

// Title renders a section heading.
func Title(s string) string { return titleStyle.Render(s) }

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }

// Error renders an error line.
func Error(s string) string { return errorStyle.Render(s) }

// Notes renders the note list, one note per line prefixed by its id.
func Notes(notes []note.Note) string {
	if len(notes) == 0 {
		return Muted("No notes yet.")
	}
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(idStyle.Render(fmt.Sprint(n.ID)))
		b.WriteString(" ")
		b.WriteString(n.Text)
	}
	return b.String()
}

// Timer renders the countdown display with a state label.
func Timer(s timer.Snapshot) string {
	style := timerStyle
	switch s.State {
	case timer.StateRunning:
		style = runningStyle
	case timer.StateExpired:
		style = expiredStyle
	}
	return style.Render(s.Display) + " " + Muted(string(s.State))
}

// Entry renders one transcript line. Assistant replies are markdown.
func Entry(e chat.Entry, width int) string {
	switch {
	case e.Failed:
		return Error(e.Content)
	case e.Role == chat.RoleUser:
		return userStyle.Render("you") + " " + e.Content
	default:
		return assistStyle.Render("assistant") + "\n" + Markdown(e.Content, width)
	}
}
