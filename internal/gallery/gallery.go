// Package gallery is the browsing side of the story collection: a loaded
// snapshot, a filtered and sorted projection of it, and the operations that
// act on one story from the projection.
//
// The projection is always recomputed from the full snapshot; deletes update
// both so a removed story does not come back until the next Load.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/handoff"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/story"
)

// ErrEmpty is returned by ClearAll when there is nothing to clear.
var ErrEmpty = errors.New("no stories to clear")

// StoryStore is the part of stories.Store the gallery needs.
type StoryStore interface {
	Load(ctx context.Context) []story.Record
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Sender hands a story to the builder.
type Sender interface {
	Send(ctx context.Context, p handoff.Payload) error
}

// Gallery holds the snapshot and its projection. Safe for concurrent use.
type Gallery struct {
	store   StoryStore
	sender  Sender
	logger  *zap.Logger
	mu      sync.Mutex
	all     []story.Record
	visible []story.Record
	query   string
	sortKey SortKey
}

// New returns an empty Gallery sorted newest first.
func New(store StoryStore, sender Sender, logger *zap.Logger) *Gallery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gallery{
		store:   store,
		sender:  sender,
		logger:  logger.Named("gallery"),
		sortKey: SortNewest,
	}
}

// Load replaces the snapshot with the store's contents and reprojects.
func (g *Gallery) Load(ctx context.Context) {
	records := g.store.Load(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.all = records
	g.reproject()
	g.logger.Debug("Gallery loaded", zap.Int("stories", len(records)))
}

// SetQuery changes the filter. The current sort is kept.
func (g *Gallery) SetQuery(query string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.query = query
	g.reproject()
}

// SetSort changes the ordering. The current filter is kept.
func (g *Gallery) SetSort(key SortKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sortKey = key
	g.reproject()
}

// Query returns the current filter text.
func (g *Gallery) Query() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query
}

// SortKey returns the current ordering.
func (g *Gallery) SortKey() SortKey {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sortKey
}

// Visible returns the projection.
func (g *Gallery) Visible() []story.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.visible)
}

// Len returns the size of the full snapshot.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.all)
}

// Find returns the snapshot record with id.
func (g *Gallery) Find(id string) (story.Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := position(g.all, id); i >= 0 {
		return g.all[i], true
	}
	return story.Record{}, false
}

// Delete removes the story from the store, the snapshot and the projection.
// A story already gone from the store is still dropped locally and reported
// as stories.ErrNotFound.
func (g *Gallery) Delete(ctx context.Context, id string) error {
	err := g.store.Remove(ctx, id)
	if err != nil && !errors.Is(err, stories.ErrNotFound) {
		return fmt.Errorf("delete story: %w", err)
	}

	g.mu.Lock()
	g.all = slices.DeleteFunc(g.all, func(r story.Record) bool { return r.ID == id })
	g.visible = slices.DeleteFunc(g.visible, func(r story.Record) bool { return r.ID == id })
	g.mu.Unlock()

	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	g.logger.Info("Story deleted", zap.String("id", id))
	return nil
}

// ClearAll empties the store and the gallery. It returns the number of
// stories removed, or ErrEmpty when there were none.
func (g *Gallery) ClearAll(ctx context.Context) (int, error) {
	g.mu.Lock()
	n := len(g.all)
	g.mu.Unlock()
	if n == 0 {
		return 0, ErrEmpty
	}

	if err := g.store.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear stories: %w", err)
	}

	g.mu.Lock()
	g.all = []story.Record{}
	g.visible = []story.Record{}
	g.mu.Unlock()
	return n, nil
}

// HandOff sends the story with id to the builder for editing, along with its
// current position in the collection.
func (g *Gallery) HandOff(ctx context.Context, id string) (handoff.Payload, error) {
	g.mu.Lock()
	i := position(g.all, id)
	var p handoff.Payload
	if i >= 0 {
		p = handoff.Payload{Story: g.all[i], Index: i}
	}
	g.mu.Unlock()

	if i < 0 {
		return handoff.Payload{}, fmt.Errorf("hand off %q: %w", id, stories.ErrNotFound)
	}
	if err := g.sender.Send(ctx, p); err != nil {
		return handoff.Payload{}, fmt.Errorf("hand off %q: %w", id, err)
	}
	return p, nil
}

func (g *Gallery) reproject() {
	g.visible = Sort(Filter(g.all, g.query), g.sortKey)
}

func position(records []story.Record, id string) int {
	return slices.IndexFunc(records, func(r story.Record) bool { return r.ID == id })
}
