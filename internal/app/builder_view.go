package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/jwulff/storybuilder/internal/builder"
	"github.com/jwulff/storybuilder/internal/story"
	"github.com/jwulff/storybuilder/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Form fields, in tab order.
const (
	fieldProtagonist = iota
	fieldSetting
	fieldConflict
	fieldCompanion
	fieldCustom
	fieldCount
)

type formField struct {
	label       string
	placeholder string
	required    bool
}

var formFields = [fieldCount]formField{
	fieldProtagonist: {label: "Hero", placeholder: "brave astronaut, alien explorer...", required: true},
	fieldSetting:     {label: "Setting", placeholder: "Mars colony, space station...", required: true},
	fieldConflict:    {label: "Adventure", placeholder: "discovered an alien artifact...", required: true},
	fieldCompanion:   {label: "Companion", placeholder: "a robot sidekick, a wise alien..."},
	fieldCustom:      {label: "Custom Element", placeholder: "a mysterious crystal, a time portal..."},
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i, f := range formFields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = f.placeholder
		ti.CharLimit = 120
		ti.Width = 30
		inputs[i] = ti
	}
	return inputs
}

func (m *Model) focusInput(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) blurInputs() {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
}

func (m *Model) resizeInputs() {
	w := max(10, m.formPanelWidth()-4)
	for j := range m.inputs {
		m.inputs[j].Width = w
	}
	m.search.Width = max(10, m.width/3)
}

func (m Model) formValues() story.Settings {
	return story.Settings{
		Protagonist:   m.inputs[fieldProtagonist].Value(),
		Setting:       m.inputs[fieldSetting].Value(),
		Conflict:      m.inputs[fieldConflict].Value(),
		Companion:     m.inputs[fieldCompanion].Value(),
		CustomElement: m.inputs[fieldCustom].Value(),
	}
}

func (m *Model) syncInputsFromForm() {
	s := m.builder.Form()
	m.inputs[fieldProtagonist].SetValue(s.Protagonist)
	m.inputs[fieldSetting].SetValue(s.Setting)
	m.inputs[fieldConflict].SetValue(s.Conflict)
	m.inputs[fieldCompanion].SetValue(s.Companion)
	m.inputs[fieldCustom].SetValue(s.CustomElement)
}

// handleBuilderKey processes key presses on the builder view.
func (m Model) handleBuilderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyTab, KeyDown:
		m.focusInput((m.focus + 1) % fieldCount)
		return m, nil

	case KeyShiftTab, KeyUp:
		m.focusInput((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case KeyEnter:
		if m.focus == fieldCustom {
			return m.startGenerate()
		}
		m.focusInput(m.focus + 1)
		return m, nil

	case KeyGenerate:
		return m.startGenerate()

	case KeySave:
		if _, ok := m.builder.Draft(); !ok || m.generating {
			return m, nil
		}
		m.builder.SetForm(m.formValues())
		return m, saveCmd(m.builder, m.now)

	case KeyShare:
		text, err := m.builder.ShareText()
		if err != nil || m.generating {
			return m, nil
		}
		return m, copyCmd(m.copier, text)

	case KeyNewStory:
		m.builder.Clear()
		for j := range m.inputs {
			m.inputs[j].Reset()
		}
		if m.generating {
			m.generating = false
			m.generateSeq++
		}
		m.formError = ""
		m.storyScroll = 0
		m.focusInput(0)
		return m, nil

	case KeyOpenGallery:
		return m, navigateCmd(NavigateMsg{To: ViewGallery})

	case KeyPgDown:
		m.storyScroll += max(1, m.contentHeight()/2)
		return m, nil

	case KeyPgUp:
		m.storyScroll = max(0, m.storyScroll-max(1, m.contentHeight()/2))
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// startGenerate validates the form and schedules generation after the
// configured delay.
func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	m.builder.SetForm(m.formValues())
	if err := m.builder.Validate(); err != nil {
		m.formError = builder.ValidationMessage
		return m, nil
	}
	m.formError = ""
	m.generating = true
	m.generateSeq++
	return m, after(m.generateDelay, GenerateTickMsg{Seq: m.generateSeq})
}

func (m Model) formPanelWidth() int {
	if m.width == 0 {
		return 34
	}
	return max(24, m.width*36/100)
}

func (m Model) storyPanelWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(30, m.width-m.formPanelWidth()-3)
}

func (m Model) renderBuilder() string {
	formW := m.formPanelWidth()
	storyW := m.storyPanelWidth()
	h := m.contentHeight()

	return joinColumns(m.renderFormPanel(formW, h), formW, m.renderStoryPanel(storyW, h), h)
}

func (m Model) renderFormPanel(width, height int) string {
	lines := []string{ui.PanelTitleActiveStyle.Render("YOUR ADVENTURE"), ""}

	for i, f := range formFields {
		label := f.label
		style := ui.LabelStyle
		if i == m.focus {
			style = ui.LabelActiveStyle
		}
		line := style.Render(label)
		if f.required {
			line += ui.RequiredStyle.Render(" *")
		}
		lines = append(lines, line, m.inputs[i].View(), "")
	}

	action := "Generate Story"
	if _, editing := m.builder.Editing(); editing {
		action = "Update Story"
	}
	lines = append(lines, ui.FooterKeyStyle.Render("Ctrl+G")+" "+ui.LabelStyle.Render(action))

	if m.formError != "" {
		lines = append(lines, "")
		for _, wl := range wrapText(m.formError, max(10, width-2)) {
			lines = append(lines, ui.ErrorTextStyle.Render(wl))
		}
	}

	return fitLines(lines, width, height)
}

func (m Model) renderStoryPanel(width, height int) string {
	textW := max(10, width-4)

	if m.generating {
		return fitLines([]string{
			"",
			"  " + ui.SpinnerStyle.Render("✦ Generating your cosmic adventure..."),
			"  " + ui.DimStyle.Render("The universe is aligning the perfect story for you!"),
		}, width, height)
	}

	draft, ok := m.builder.Draft()
	if !ok {
		return fitLines([]string{
			"",
			"  " + ui.DimStyle.Render("Your cosmic adventure will appear here..."),
			"  " + ui.DimStyle.Render("Fill out the form and press Ctrl+G to begin!"),
		}, width, height)
	}

	var body []string
	for _, wl := range wrapText(draft.Title, textW) {
		body = append(body, ui.StoryTitleStyle.Render(wl))
	}
	body = append(body, "")
	for _, img := range draft.Images {
		body = append(body, ui.CaptionStyle.Render(truncateToWidth("▣ "+img.Title, textW)))
	}
	if len(draft.Images) > 0 {
		body = append(body, "")
	}
	for i, p := range strings.Split(draft.Content, story.ParagraphSeparator) {
		if i > 0 {
			body = append(body, "")
		}
		body = append(body, wrapText(p, textW)...)
	}

	header := ui.PanelTitleStyle.Render("STORY")
	if _, editing := m.builder.Editing(); editing {
		header += ui.EditBadgeStyle.Render(" EDITING")
	}
	lines := []string{header}
	for _, l := range scrollWindow(body, m.storyScroll, height-1) {
		lines = append(lines, "  "+l)
	}
	return fitLines(lines, width, height)
}

func (m Model) builderFooter() []string {
	parts := []string{
		footerItem("Tab", "Next field"),
		footerItem("Ctrl+G", "Generate"),
	}
	if _, ok := m.builder.Draft(); ok {
		parts = append(parts,
			footerItem("Ctrl+S", "Save"),
			footerItem("Ctrl+Y", "Share"),
			footerItem("PgUp/PgDn", "Scroll"),
		)
	}
	parts = append(parts,
		footerItem("Ctrl+N", "New"),
		footerItem("Ctrl+O", "Gallery"),
	)
	return parts
}
