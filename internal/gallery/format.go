package gallery

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// PreviewWidth is the card preview length in terminal cells.
const PreviewWidth = 150

// Preview flattens content to one line and cuts it to width cells, marking
// the cut with "...".
func Preview(content string, width int) string {
	flat := strings.Join(strings.Fields(content), " ")
	if runewidth.StringWidth(flat) <= width {
		return flat
	}
	return runewidth.Truncate(flat, width, "") + "..."
}

// FormatDate renders t in local time with a relative hint, e.g.
// "Mar 4, 2025, 09:15 PM (3 days ago)".
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM") + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
}

// CapitalizeFirst upper-cases the first letter and leaves the rest alone.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
