// Package render formats domain values for the terminal.
package render

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const minWidth = 20

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and width. WithAutoStyle queries the
	// terminal and can block, so a fixed style is chosen up front.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// Markdown renders assistant replies. On failure the input is returned
// unchanged.
func Markdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CHUNKING_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "notty", "plain":
		return "notty"
	}
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	// COLORFGBG is "fg;bg"; palette entries 0-6 and 8 are dark.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg == 7 || bg > 8 {
				return "light"
			}
		}
	}
	return "dark"
}
