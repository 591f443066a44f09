// Package handoff carries one story from the gallery to the builder.
//
// The gallery sends a payload into the session space and navigates with the
// edit marker set. The builder receives it at most once: receiving reads and
// deletes the payload, so a repeated or unmarked navigation finds nothing and
// falls back to a new story.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/kv"
	"github.com/jwulff/storybuilder/internal/story"
)

// Key is the session key the payload is stored under.
const Key = "editingStory"

// Payload is the story being handed off and its position when it was sent.
type Payload struct {
	Story story.Record `json:"story"`
	Index int          `json:"index"`
}

// Channel is the one-shot transfer over a session kv.Storage.
type Channel struct {
	storage kv.Storage
	logger  *zap.Logger
}

// New returns a Channel over storage.
func New(storage kv.Storage, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Channel{storage: storage, logger: logger.Named("handoff")}
}

// Send stores p, replacing any payload not yet received.
func (c *Channel) Send(ctx context.Context, p Payload) error {
	if c == nil || c.storage == nil {
		return kv.ErrNotConfigured
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal handoff: %w", err)
	}
	if err := c.storage.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("send handoff: %w", err)
	}
	return nil
}

// Receive consumes the pending payload when marker is set. It reports false
// when there is nothing usable; that is the normal new-story path, not an
// error. Without the marker the payload is left in place.
func (c *Channel) Receive(ctx context.Context, marker bool) (Payload, bool) {
	if !marker || c == nil || c.storage == nil {
		return Payload{}, false
	}
	data, ok, err := kv.Take(ctx, c.storage, Key)
	if err != nil {
		c.logger.Warn("Failed to read handoff", zap.Error(err))
		return Payload{}, false
	}
	if !ok {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		c.logger.Warn("Dropping unreadable handoff", zap.Error(err))
		return Payload{}, false
	}
	return p, true
}
