package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jwulff/storybuilder/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	divider := ui.DividerStyle.Render(strings.Repeat("─", m.width))
	sections := []string{m.renderHeader(), m.renderStatusBar(), divider}

	if m.view == ViewGallery {
		sections = append(sections, m.renderGallery())
	} else {
		sections = append(sections, m.renderBuilder())
	}
	sections = append(sections, divider)

	if bar := m.renderNoticeBar(); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("COSMIC STORY BUILDER")
	if m.view == ViewGallery {
		return title + ui.DimStyle.Render(" · Gallery")
	}
	return title + ui.DimStyle.Render(" · Builder")
}

func (m Model) renderStatusBar() string {
	if m.view == ViewGallery {
		return m.galleryStatus()
	}
	if edit, ok := m.builder.Editing(); ok {
		return ui.EditBadgeStyle.Render("✎ EDITING") + ui.StatusStyle.Render(fmt.Sprintf(" story #%d", edit.Index+1))
	}
	return ui.StatusStyle.Render("New story")
}

func (m Model) renderNoticeBar() string {
	switch {
	case m.confirm != nil:
		return ui.ConfirmStyle.Render(m.confirm.prompt) + ui.DimStyle.Render(" (y/N)")
	case m.notice == "":
		return ""
	case m.noticeIsError:
		return ui.ErrorStyle.Render("Error: ") + ui.ErrorTextStyle.Render(m.notice)
	default:
		return ui.NoticeStyle.Render(m.notice)
	}
}

func (m Model) renderFooter() string {
	var parts []string
	if m.confirm != nil {
		parts = []string{footerItem("y", "Confirm"), footerItem("any key", "Cancel")}
	} else if m.view == ViewGallery {
		parts = m.galleryFooter()
	} else {
		parts = m.builderFooter()
	}
	parts = append(parts, footerItem("Ctrl+C", "Quit"))
	return strings.Join(parts, "  ")
}

func footerItem(key, desc string) string {
	return ui.FooterKeyStyle.Render(key) + ui.FooterDescStyle.Render(" "+desc)
}

// contentHeight is the number of lines left for the main area.
func (m Model) contentHeight() int {
	if m.height == 0 {
		return 20
	}
	// Reserve: header(1) + status(1) + divider(1) + divider(1) + notice(1) + footer(1) + padding
	reserved := 7
	return max(5, m.height-reserved)
}

// Helpers

// joinColumns lays two rendered panels side by side with a divider.
func joinColumns(left string, leftWidth int, right string, height int) string {
	divider := ui.DividerStyle.Render("│")

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	rows := make([]string, 0, height)
	for i := 0; i < height; i++ {
		l := strings.Repeat(" ", leftWidth)
		if i < len(leftLines) {
			l = padRight(leftLines[i], leftWidth)
		}
		r := ""
		if i < len(rightLines) {
			r = rightLines[i]
		}
		rows = append(rows, l+divider+" "+r)
	}
	return strings.Join(rows, "\n")
}

// fitLines pads or cuts lines to exactly height, each padded to width.
func fitLines(lines []string, width, height int) string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, l := range lines {
		lines[i] = padRight(l, width)
	}
	return strings.Join(lines, "\n")
}

// scrollWindow returns at most height lines starting at offset, clamping the
// offset so the last page stays full.
func scrollWindow(lines []string, offset, height int) []string {
	if height <= 0 {
		return nil
	}
	maxOffset := max(0, len(lines)-height)
	offset = min(max(0, offset), maxOffset)
	return lines[offset:min(len(lines), offset+height)]
}

func padRight(s string, width int) string {
	// Visible width, ignoring ANSI codes.
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// truncateToWidth cuts unstyled text to width cells.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if runewidth.StringWidth(word) > width {
				word = truncateToWidth(word, width)
			}
			if current == "" {
				current = word
			} else if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
