package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/builder"
	"github.com/jwulff/storybuilder/internal/clipboard"
	"github.com/jwulff/storybuilder/internal/gallery"
	"github.com/jwulff/storybuilder/internal/stories"

	tea "github.com/charmbracelet/bubbletea"
)

// Copier puts share text on a clipboard.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

// Deps are the collaborators and timings the model runs with.
type Deps struct {
	Builder *builder.Builder
	Gallery *gallery.Gallery
	Copier  Copier
	Logger  *zap.Logger

	// Start is the first view shown.
	Start View

	// GenerateDelay and LoadDelay are the pauses before generating and
	// before the gallery appears. Zero skips the pause.
	GenerateDelay time.Duration
	LoadDelay     time.Duration
	// NoticeTTL is how long a notice stays up. Zero keeps it until replaced.
	NoticeTTL time.Duration

	Now func() time.Time
}

// confirmAction is the destructive operation awaiting a yes.
type confirmAction int

const (
	confirmDelete confirmAction = iota
	confirmClearAll
)

type confirmation struct {
	action confirmAction
	id     string
	prompt string
}

// Model is the root bubbletea model for the story builder TUI.
type Model struct {
	builder *builder.Builder
	gallery *gallery.Gallery
	copier  Copier
	logger  *zap.Logger
	now     func() time.Time

	generateDelay time.Duration
	loadDelay     time.Duration
	noticeTTL     time.Duration

	// UI state
	view      View
	startView View
	width     int
	height    int

	// Builder
	inputs      []textinput.Model
	focus       int
	generating  bool
	generateSeq int
	formError   string
	storyScroll int

	// Gallery
	search       textinput.Model
	searching    bool
	loading      bool
	loadSeq      int
	selected     int
	detail       bool
	detailID     string
	detailScroll int

	confirm *confirmation

	// Notices
	notice        string
	noticeIsError bool
	noticeSeq     int
}

// New creates a Model showing deps.Start.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	copier := deps.Copier
	if copier == nil {
		copier = clipboard.New(nil, logger)
	}

	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search stories..."
	search.CharLimit = 100

	m := Model{
		builder:       deps.Builder,
		gallery:       deps.Gallery,
		copier:        copier,
		logger:        logger.Named("tui"),
		now:           now,
		generateDelay: deps.GenerateDelay,
		loadDelay:     deps.LoadDelay,
		noticeTTL:     deps.NoticeTTL,
		view:          ViewBuilder,
		startView:     deps.Start,
		inputs:        newFormInputs(),
		search:        search,
	}
	m.focusInput(0)
	return m
}

// Init shows the start view. The builder checks for a pending handoff only
// when navigated to with the edit marker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, navigateCmd(NavigateMsg{To: m.startView}))
}

func navigateCmd(msg NavigateMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// after delivers msg once d has elapsed, or immediately for d <= 0.
func after(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// resumeCmd lets the builder pick up a pending handoff.
func resumeCmd(b *builder.Builder, marker bool) tea.Cmd {
	return func() tea.Msg {
		return ResumedMsg{Editing: b.Resume(context.Background(), marker)}
	}
}

// generateCmd composes the draft and, in edit mode, writes the update.
func generateCmd(b *builder.Builder, now func() time.Time, seq int) tea.Cmd {
	return func() tea.Msg {
		res, err := b.Generate(context.Background(), now())
		return GeneratedMsg{Seq: seq, Result: res, Err: err}
	}
}

func saveCmd(b *builder.Builder, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		rec, _, err := b.Save(context.Background(), now())
		return SavedMsg{Record: rec, Err: err}
	}
}

func copyCmd(c Copier, text string) tea.Cmd {
	return func() tea.Msg {
		method, err := c.Copy(text)
		return CopiedMsg{Method: method, Err: err}
	}
}

func loadGalleryCmd(g *gallery.Gallery, seq int) tea.Cmd {
	return func() tea.Msg {
		g.Load(context.Background())
		return GalleryLoadedMsg{Seq: seq}
	}
}

func deleteCmd(g *gallery.Gallery, id string) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: g.Delete(context.Background(), id)}
	}
}

func clearAllCmd(g *gallery.Gallery) tea.Cmd {
	return func() tea.Msg {
		n, err := g.ClearAll(context.Background())
		return ClearedMsg{Count: n, Err: err}
	}
}

func handOffCmd(g *gallery.Gallery, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := g.HandOff(context.Background(), id)
		return HandedOffMsg{Err: err}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil

	case NavigateMsg:
		return m.navigate(msg)

	case ResumedMsg:
		if !msg.Editing || m.view != ViewBuilder {
			return m, nil
		}
		m.syncInputsFromForm()
		m.formError = ""
		m.storyScroll = 0
		return m, m.setNotice("Story loaded for editing!", false)

	case GenerateTickMsg:
		if msg.Seq != m.generateSeq || !m.generating || m.view != ViewBuilder {
			return m, nil
		}
		return m, generateCmd(m.builder, m.now, msg.Seq)

	case GeneratedMsg:
		if msg.Seq != m.generateSeq || !m.generating {
			if msg.Err != nil || !msg.Result.Updated {
				return m, nil
			}
			// Abandoned, but the stored story was already overwritten.
			cmd := m.setNotice("Story updated successfully!", false)
			if m.view == ViewGallery && !m.loading {
				m.loading = true
				m.loadSeq++
				cmd = tea.Batch(cmd, after(m.loadDelay, LoadTickMsg{Seq: m.loadSeq}))
			}
			return m, cmd
		}
		m.generating = false
		m.storyScroll = 0
		switch {
		case errors.Is(msg.Err, builder.ErrMissingFields):
			m.formError = builder.ValidationMessage
		case errors.Is(msg.Err, builder.ErrStoryGone):
			return m, m.setNotice("The story you were editing no longer exists. Save to keep this one as new.", true)
		case msg.Err != nil:
			m.logger.Warn("Generate failed", zap.Error(msg.Err))
			return m, m.setNotice("Could not update story: "+msg.Err.Error(), true)
		case msg.Result.Updated:
			return m, m.setNotice("Story updated successfully!", false)
		}
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			m.logger.Warn("Save failed", zap.Error(msg.Err))
			return m, m.setNotice("Could not save story: "+msg.Err.Error(), true)
		}
		return m, m.setNotice("Story saved to your device!", false)

	case CopiedMsg:
		if msg.Err != nil {
			m.logger.Info("Copy failed", zap.Error(msg.Err))
			return m, m.setNotice(clipboard.ManualCopyMessage, true)
		}
		return m, m.setNotice("Story copied to clipboard!", false)

	case LoadTickMsg:
		if msg.Seq != m.loadSeq || !m.loading || m.view != ViewGallery {
			return m, nil
		}
		return m, loadGalleryCmd(m.gallery, msg.Seq)

	case GalleryLoadedMsg:
		if msg.Seq != m.loadSeq || m.view != ViewGallery {
			return m, nil
		}
		m.loading = false
		m.clampSelection()
		return m, nil

	case DeletedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, stories.ErrNotFound) {
			m.logger.Warn("Delete failed", zap.String("id", msg.ID), zap.Error(msg.Err))
			return m, m.setNotice("Could not delete story: "+msg.Err.Error(), true)
		}
		if m.detailID == msg.ID {
			m.detail = false
			m.detailID = ""
		}
		m.clampSelection()
		return m, m.setNotice("Story deleted successfully!", false)

	case ClearedMsg:
		switch {
		case errors.Is(msg.Err, gallery.ErrEmpty):
			return m, m.setNotice("No stories to clear!", false)
		case msg.Err != nil:
			m.logger.Warn("Clear failed", zap.Error(msg.Err))
			return m, m.setNotice("Could not clear stories: "+msg.Err.Error(), true)
		}
		m.detail = false
		m.selected = 0
		return m, m.setNotice("All stories cleared!", false)

	case HandedOffMsg:
		if msg.Err != nil {
			m.logger.Warn("Handoff failed", zap.Error(msg.Err))
			return m, m.setNotice("Could not open story for editing: "+msg.Err.Error(), true)
		}
		return m, navigateCmd(NavigateMsg{To: ViewBuilder, Edit: true})

	case ClearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
			m.noticeIsError = false
		}
		return m, nil
	}

	return m.updateInputs(msg)
}

// navigate switches views. Pending work for the view being left is
// abandoned: its sequence number moves on so late completions are dropped.
func (m Model) navigate(msg NavigateMsg) (tea.Model, tea.Cmd) {
	m.confirm = nil
	switch msg.To {
	case ViewGallery:
		m.view = ViewGallery
		if m.generating {
			m.generating = false
			m.generateSeq++
		}
		m.blurInputs()
		m.searching = false
		m.detail = false
		m.loading = true
		m.loadSeq++
		return m, after(m.loadDelay, LoadTickMsg{Seq: m.loadSeq})
	default:
		m.view = ViewBuilder
		m.loading = false
		m.loadSeq++
		m.searching = false
		m.search.Blur()
		m.focusInput(m.focus)
		return m, resumeCmd(m.builder, msg.Edit)
	}
}

// setNotice shows text and schedules its removal.
func (m *Model) setNotice(text string, isError bool) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeIsError = isError
	if m.noticeTTL <= 0 {
		return nil
	}
	return after(m.noticeTTL, ClearNoticeMsg{Seq: m.noticeSeq})
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m, tea.Quit
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.view == ViewGallery {
		return m.handleGalleryKey(msg)
	}
	return m.handleBuilderKey(msg)
}

// handleConfirmKey runs the pending action on y and cancels on anything else.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	switch msg.String() {
	case KeyYes, KeyYesUpper:
	default:
		return m, nil
	}
	switch c.action {
	case confirmDelete:
		return m, deleteCmd(m.gallery, c.id)
	case confirmClearAll:
		return m, clearAllCmd(m.gallery)
	}
	return m, nil
}

// updateInputs forwards non-key messages (cursor blink) to the focused input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ViewGallery {
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}
