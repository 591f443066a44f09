package app

import (
	"fmt"
	"strings"

	"github.com/jwulff/storybuilder/internal/gallery"
	"github.com/jwulff/storybuilder/internal/story"
	"github.com/jwulff/storybuilder/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const cardHeight = 4

// handleGalleryKey processes key presses on the gallery view.
func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.loading {
		switch msg.String() {
		case KeyQuit:
			return m, tea.Quit
		case KeyBack, KeyEsc:
			return m, navigateCmd(NavigateMsg{To: ViewBuilder})
		}
		return m, nil
	}
	if m.detail {
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case KeyQuit:
		return m, tea.Quit

	case KeyBack, KeyEsc:
		return m, navigateCmd(NavigateMsg{To: ViewBuilder})

	case KeySearch:
		m.searching = true
		m.search.Focus()
		return m, nil

	case KeySort:
		m.gallery.SetSort(m.gallery.SortKey().Next())
		m.selected = 0
		return m, nil

	case KeyDown, KeyJ:
		if m.selected < len(m.gallery.Visible())-1 {
			m.selected++
		}
		return m, nil

	case KeyUp, KeyK:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case KeyEnter:
		if r, ok := m.selectedRecord(); ok {
			m.detail = true
			m.detailID = r.ID
			m.detailScroll = 0
		}
		return m, nil

	case KeyEdit:
		if r, ok := m.selectedRecord(); ok {
			return m, handOffCmd(m.gallery, r.ID)
		}
		return m, nil

	case KeyDelete:
		if r, ok := m.selectedRecord(); ok {
			m.askDelete(r.ID)
		}
		return m, nil

	case KeyCopy:
		if r, ok := m.selectedRecord(); ok {
			return m, copyCmd(m.copier, story.ShareText(r.Title, r.Content))
		}
		return m, nil

	case KeyClearAll:
		return m.askClearAll()

	case KeyReload:
		m.loading = true
		m.loadSeq++
		return m, after(m.loadDelay, LoadTickMsg{Seq: m.loadSeq})
	}
	return m, nil
}

// handleSearchKey edits the query. Every change refilters from the full
// snapshot.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc, KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.gallery.Query() {
		m.gallery.SetQuery(m.search.Value())
		m.selected = 0
	}
	return m, cmd
}

// handleDetailKey processes key presses while one story is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, ok := m.gallery.Find(m.detailID)
	if !ok {
		m.detail = false
		return m, nil
	}

	switch msg.String() {
	case KeyEsc, KeyQuit, KeyBack:
		m.detail = false
	case KeyDown, KeyJ:
		m.detailScroll++
	case KeyUp, KeyK:
		m.detailScroll = max(0, m.detailScroll-1)
	case KeyPgDown:
		m.detailScroll += max(1, m.contentHeight()/2)
	case KeyPgUp:
		m.detailScroll = max(0, m.detailScroll-max(1, m.contentHeight()/2))
	case KeyEdit:
		return m, handOffCmd(m.gallery, r.ID)
	case KeyDelete:
		m.askDelete(r.ID)
	case KeyCopy:
		return m, copyCmd(m.copier, story.ShareText(r.Title, r.Content))
	}
	return m, nil
}

func (m *Model) askDelete(id string) {
	m.confirm = &confirmation{
		action: confirmDelete,
		id:     id,
		prompt: "Are you sure you want to delete this story? This action cannot be undone.",
	}
}

func (m Model) askClearAll() (tea.Model, tea.Cmd) {
	if m.gallery.Len() == 0 {
		return m, m.setNotice("No stories to clear!", false)
	}
	m.confirm = &confirmation{
		action: confirmClearAll,
		prompt: "Are you sure you want to delete ALL stories? This action cannot be undone.",
	}
	return m, nil
}

func (m Model) selectedRecord() (story.Record, bool) {
	visible := m.gallery.Visible()
	if m.selected < 0 || m.selected >= len(visible) {
		return story.Record{}, false
	}
	return visible[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.gallery.Visible())
	if m.selected >= n {
		m.selected = max(0, n-1)
	}
}

func (m Model) galleryStatus() string {
	query := m.search.View()
	if !m.searching && m.search.Value() == "" {
		query = ui.DimStyle.Render("press / to search")
	}
	status := ui.LabelStyle.Render("Search: ") + query +
		ui.DimStyle.Render("   Sort: ") + ui.LabelStyle.Render(m.gallery.SortKey().Label())
	if !m.loading {
		status += ui.DimStyle.Render(fmt.Sprintf("   %d of %d stories", len(m.gallery.Visible()), m.gallery.Len()))
	}
	return status
}

func (m Model) renderGallery() string {
	width := max(20, m.width)
	height := m.contentHeight()

	switch {
	case m.loading:
		return m.renderLoading(width, height)
	case m.detail:
		if r, ok := m.gallery.Find(m.detailID); ok {
			return m.renderDetail(r, width, height)
		}
	}

	visible := m.gallery.Visible()
	if len(visible) == 0 {
		msg := "No stories match your search."
		if m.gallery.Len() == 0 {
			msg = "No stories yet. Press b to create your first cosmic adventure!"
		}
		return fitLines([]string{"", "  " + ui.DimStyle.Render(msg)}, width, height)
	}

	perPage := max(1, height/cardHeight)
	start := 0
	if m.selected >= perPage {
		start = m.selected - perPage + 1
	}
	end := min(len(visible), start+perPage)

	now := m.now()
	var lines []string
	for i := start; i < end; i++ {
		r := visible[i]
		title := truncateToWidth(r.Title, width-4)
		if i == m.selected {
			lines = append(lines, ui.SelectedStyle.Render("> "+title))
		} else {
			lines = append(lines, "  "+ui.StoryTitleStyle.Render(title))
		}
		lines = append(lines,
			"  "+gallery.Preview(r.Content, min(gallery.PreviewWidth, max(10, width-7))),
			"  "+ui.DimStyle.Render(truncateToWidth(
				gallery.FormatDate(r.Timestamp, now)+" · "+gallery.CapitalizeFirst(r.Settings.Protagonist), width-4)),
			"",
		)
	}
	return fitLines(lines, width, height)
}

func (m Model) renderLoading(width, height int) string {
	lines := []string{"", "  " + ui.SpinnerStyle.Render("✦ Loading stories..."), ""}
	n := max(10, min(60, width-6))
	for i := 0; i < 3; i++ {
		lines = append(lines,
			"  "+ui.SkeletonStyle.Render(strings.Repeat("░", n/2)),
			"  "+ui.SkeletonStyle.Render(strings.Repeat("░", n)),
			"  "+ui.SkeletonStyle.Render(strings.Repeat("░", n/3)),
			"",
		)
	}
	return fitLines(lines, width, height)
}

func (m Model) renderDetail(r story.Record, width, height int) string {
	textW := max(10, width-4)

	var body []string
	for _, wl := range wrapText(r.Title, textW) {
		body = append(body, ui.StoryTitleStyle.Render(wl))
	}
	body = append(body,
		ui.DimStyle.Render(truncateToWidth(gallery.FormatDate(r.Timestamp, m.now()), textW)),
		ui.LabelStyle.Render(truncateToWidth("Hero: "+gallery.CapitalizeFirst(r.Settings.Protagonist)+"   Setting: "+r.Settings.Setting, textW)),
		"",
	)
	for _, img := range r.Images {
		body = append(body, ui.CaptionStyle.Render(truncateToWidth("▣ "+img.Title, textW)))
	}
	if len(r.Images) > 0 {
		body = append(body, "")
	}
	for i, p := range r.Paragraphs() {
		if i > 0 {
			body = append(body, "")
		}
		body = append(body, wrapText(p, textW)...)
	}

	var lines []string
	for _, l := range scrollWindow(body, m.detailScroll, height) {
		lines = append(lines, "  "+l)
	}
	return fitLines(lines, width, height)
}

func (m Model) galleryFooter() []string {
	switch {
	case m.searching:
		return []string{footerItem("Enter/Esc", "Done")}
	case m.loading:
		return []string{footerItem("b", "Builder"), footerItem("q", "Quit")}
	case m.detail:
		return []string{
			footerItem("↑↓", "Scroll"),
			footerItem("e", "Edit"),
			footerItem("c", "Share"),
			footerItem("d", "Delete"),
			footerItem("Esc", "Close"),
		}
	}
	return []string{
		footerItem("j/k", "Nav"),
		footerItem("Enter", "Read"),
		footerItem("/", "Search"),
		footerItem("s", "Sort"),
		footerItem("e", "Edit"),
		footerItem("c", "Share"),
		footerItem("d", "Delete"),
		footerItem("X", "Clear all"),
		footerItem("b", "Builder"),
		footerItem("q", "Quit"),
	}
}
