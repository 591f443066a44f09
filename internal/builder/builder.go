// Package builder is the story builder's controller: the form, the current
// draft and the edit mode entered from a gallery handoff. Rendering lives in
// package app; everything here is callable without a terminal.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/handoff"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/story"
	"github.com/jwulff/storybuilder/internal/synth"
)

// ValidationMessage is shown when a required field is blank.
const ValidationMessage = "Please fill in at least the Hero, Setting, and Adventure fields!"

var (
	// ErrMissingFields means protagonist, setting or conflict is blank.
	ErrMissingFields = errors.New("missing required fields")
	// ErrNoDraft means there is no generated story to save or share.
	ErrNoDraft = errors.New("no story generated yet")
	// ErrStoryGone means the story being edited was deleted meanwhile.
	ErrStoryGone = errors.New("story being edited no longer exists")
)

// StoryStore is the part of stories.Store the builder writes through.
type StoryStore interface {
	Append(ctx context.Context, r story.Record) (int, story.Record, error)
	Replace(ctx context.Context, id string, r story.Record) (int, error)
	ReplaceAt(ctx context.Context, position int, r story.Record) error
}

// Composer turns settings into a draft.
type Composer interface {
	Compose(settings story.Settings) synth.Draft
}

// Receiver yields a pending handoff.
type Receiver interface {
	Receive(ctx context.Context, marker bool) (handoff.Payload, bool)
}

// EditTarget identifies the stored story an edit will overwrite.
type EditTarget struct {
	ID    string
	Index int
}

// Result is the outcome of Generate.
type Result struct {
	Draft synth.Draft
	// Updated is set when the draft replaced the story being edited.
	Updated bool
	Record  story.Record
}

// Builder holds the form, draft and edit state. Safe for concurrent use.
type Builder struct {
	store    StoryStore
	composer Composer
	receiver Receiver
	logger   *zap.Logger

	mu       sync.Mutex
	form     story.Settings
	draft    synth.Draft
	hasDraft bool
	editing  *EditTarget
}

// New returns a Builder in new-story mode.
func New(store StoryStore, composer Composer, receiver Receiver, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		store:    store,
		composer: composer,
		receiver: receiver,
		logger:   logger.Named("builder"),
	}
}

// SetForm replaces the form values.
func (b *Builder) SetForm(s story.Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = s
}

// Form returns the form values.
func (b *Builder) Form() story.Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.form
}

// Draft returns the current draft, if any.
func (b *Builder) Draft() (synth.Draft, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft, b.hasDraft
}

// Editing reports the edit target while in edit mode.
func (b *Builder) Editing() (EditTarget, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.editing == nil {
		return EditTarget{}, false
	}
	return *b.editing, true
}

// Validate checks the required form fields.
func (b *Builder) Validate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return validate(b.form)
}

func validate(s story.Settings) error {
	if missing := s.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	return nil
}

// Resume enters edit mode from a pending handoff when marker is set. It
// reports whether a handoff was consumed; false is the new-story path.
func (b *Builder) Resume(ctx context.Context, marker bool) bool {
	if b.receiver == nil {
		return false
	}
	p, ok := b.receiver.Receive(ctx, marker)
	if !ok {
		return false
	}
	b.EnterEdit(p)
	return true
}

// EnterEdit fills the form from the handed-off story, shows it as the draft
// and makes the next Generate overwrite it.
func (b *Builder) EnterEdit(p handoff.Payload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = p.Story.Settings
	b.draft = synth.Draft{
		Title:   p.Story.Title,
		Content: p.Story.Content,
		Images:  p.Story.Images,
	}
	b.hasDraft = true
	b.editing = &EditTarget{ID: p.Story.ID, Index: p.Index}
	b.logger.Info("Editing story", zap.String("id", p.Story.ID), zap.Int("index", p.Index))
}

// Generate composes a new draft from the form. In edit mode the draft also
// replaces the stored story, with the timestamp set to now, and edit mode
// ends. A vanished story ends edit mode with ErrStoryGone; the draft is kept
// either way.
func (b *Builder) Generate(ctx context.Context, now time.Time) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validate(b.form); err != nil {
		return Result{}, err
	}

	draft := b.composer.Compose(b.form)
	b.draft = draft
	b.hasDraft = true
	res := Result{Draft: draft}

	if b.editing == nil {
		return res, nil
	}

	target := *b.editing
	rec := b.record(now)
	rec.ID = target.ID
	pos, err := b.replace(ctx, target, rec)
	switch {
	case err == nil:
		b.editing = nil
		res.Updated = true
		res.Record = rec
		b.logger.Info("Story updated", zap.String("id", target.ID), zap.Int("position", pos))
		return res, nil
	case errors.Is(err, stories.ErrNotFound):
		b.editing = nil
		b.logger.Warn("Edited story is gone", zap.String("id", target.ID), zap.Int("index", target.Index))
		return res, fmt.Errorf("update story: %w", ErrStoryGone)
	default:
		return res, fmt.Errorf("update story: %w", err)
	}
}

func (b *Builder) replace(ctx context.Context, target EditTarget, rec story.Record) (int, error) {
	if target.ID != "" {
		return b.store.Replace(ctx, target.ID, rec)
	}
	return target.Index, b.store.ReplaceAt(ctx, target.Index, rec)
}

// Save appends the current draft as a new story.
func (b *Builder) Save(ctx context.Context, now time.Time) (story.Record, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasDraft {
		return story.Record{}, -1, ErrNoDraft
	}
	pos, stored, err := b.store.Append(ctx, b.record(now))
	if err != nil {
		return story.Record{}, -1, fmt.Errorf("save story: %w", err)
	}
	b.logger.Info("Story saved", zap.String("id", stored.ID), zap.Int("position", pos))
	return stored, pos, nil
}

// Clear empties the form and the draft and leaves edit mode.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.form = story.Settings{}
	b.draft = synth.Draft{}
	b.hasDraft = false
	b.editing = nil
}

// ShareText is the clipboard text for the current draft.
func (b *Builder) ShareText() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasDraft {
		return "", ErrNoDraft
	}
	return story.ShareText(b.draft.Title, b.draft.Content), nil
}

// record builds a stored record from the draft and the form. Caller holds mu.
func (b *Builder) record(now time.Time) story.Record {
	images := b.draft.Images
	if images == nil {
		images = []story.ImageRef{}
	}
	return story.Record{
		Title:     b.draft.Title,
		Content:   b.draft.Content,
		Timestamp: now.UTC(),
		Settings:  b.form,
		Images:    images,
	}
}
