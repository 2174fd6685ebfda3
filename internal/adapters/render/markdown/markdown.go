package markdown

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const (
	StylePlain = "notty"
	StyleDark  = "dark"
	StyleLight = "light"

	minWidth = 20
)

var (
	rendererMu sync.Mutex
	// WithAutoStyle can block on terminal background queries, so renderers
	// use a fixed style and are cached per style and width.
	renderers = map[string]*glamour.TermRenderer{}
)

// Render formats md for the terminal. The input is returned unchanged when
// glamour cannot render it.
func Render(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < minWidth {
		width = minWidth
	}
	if style == "" {
		style = Style()
	}

	key := style + ":" + strconv.Itoa(width)

	rendererMu.Lock()
	r := renderers[key]
	rendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		rendererMu.Lock()
		if existing := renderers[key]; existing != nil {
			r = existing
		} else {
			renderers[key] = rr
			r = rr
		}
		rendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Style picks the glamour style from AICMS_MD_STYLE, then NO_COLOR, then the
// COLORFGBG hint. Terminal queries are never issued.
func Style() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("AICMS_MD_STYLE"))) {
	case "plain", StylePlain:
		return StylePlain
	case StyleLight:
		return StyleLight
	case StyleDark:
		return StyleDark
	}
	if os.Getenv("NO_COLOR") != "" {
		return StylePlain
	}
	// COLORFGBG is "fg;bg"; 0-6 and 8 are dark backgrounds in the xterm palette.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg == 7 || bg >= 9 {
				return StyleLight
			}
		}
	}
	return StyleDark
}
