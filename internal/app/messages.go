package app

import (
	"github.com/jwulff/storybuilder/internal/builder"
	"github.com/jwulff/storybuilder/internal/clipboard"
	"github.com/jwulff/storybuilder/internal/story"
)

// View identifies the screen being shown.
type View int

const (
	ViewBuilder View = iota
	ViewGallery
)

// NavigateMsg switches views. Edit is the marker that tells the builder to
// pick up a pending handoff.
type NavigateMsg struct {
	To   View
	Edit bool
}

// ResumedMsg reports whether the builder entered edit mode on arrival.
type ResumedMsg struct {
	Editing bool
}

// GenerateTickMsg fires when the generate delay has elapsed.
type GenerateTickMsg struct {
	Seq int
}

// GeneratedMsg carries the outcome of a generate request.
type GeneratedMsg struct {
	Seq    int
	Result builder.Result
	Err    error
}

// SavedMsg carries the outcome of a save.
type SavedMsg struct {
	Record story.Record
	Err    error
}

// CopiedMsg carries the outcome of a share.
type CopiedMsg struct {
	Method clipboard.Method
	Err    error
}

// LoadTickMsg fires when the gallery load delay has elapsed.
type LoadTickMsg struct {
	Seq int
}

// GalleryLoadedMsg signals the gallery snapshot was refreshed.
type GalleryLoadedMsg struct {
	Seq int
}

// DeletedMsg carries the outcome of deleting one story.
type DeletedMsg struct {
	ID  string
	Err error
}

// ClearedMsg carries the outcome of clearing every story.
type ClearedMsg struct {
	Count int
	Err   error
}

// HandedOffMsg carries the outcome of sending a story to the builder.
type HandedOffMsg struct {
	Err error
}

// ClearNoticeMsg clears the notice it was scheduled for.
type ClearNoticeMsg struct {
	Seq int
}
