// Package stories persists the ordered story collection as one JSON array
// under a single key.
//
// Every mutation loads the array, changes it and writes the whole array back.
// Load treats a missing or unparsable payload as an empty collection, but a
// mutation that cannot read the payload fails without writing. Records carry
// a generated ID; positions are still accepted but go stale after a delete.
package stories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/kv"
	"github.com/jwulff/storybuilder/internal/story"
)

// StorageKey is the key the collection is persisted under.
const StorageKey = "spaceStories"

var (
	// ErrNotFound means the position or ID no longer refers to a record.
	ErrNotFound = errors.New("story not found")
	// ErrCorrupt means the persisted payload is not a story array.
	ErrCorrupt = errors.New("stories payload is corrupt")
)

// Store is the story collection. Safe for concurrent use; mutations are
// serialized.
type Store struct {
	mu      sync.Mutex
	storage kv.Storage
	logger  *zap.Logger
	newID   func() string
}

// New returns a Store persisting into storage.
func New(storage kv.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		storage: storage,
		logger:  logger.Named("stories"),
		newID:   uuid.NewString,
	}
}

// Load returns the persisted collection. It never fails: a missing key,
// a backend error or a corrupt payload all read as no stories.
func (s *Store) Load(ctx context.Context) []story.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		s.logger.Warn("Failed to read stories, treating as empty", zap.Error(err))
		return []story.Record{}
	}
	if s.backfillIDs(records) {
		if err := s.write(ctx, records); err != nil {
			s.logger.Warn("Failed to persist backfilled story ids", zap.Error(err))
		}
	}
	return records
}

// Append adds r at the end and returns its position and the stored record.
func (s *Store) Append(ctx context.Context, r story.Record) (int, story.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return 0, story.Record{}, fmt.Errorf("append: %w", err)
	}
	s.backfillIDs(records)
	if r.ID == "" {
		r.ID = s.newID()
	}
	records = append(records, r)
	if err := s.write(ctx, records); err != nil {
		return 0, story.Record{}, err
	}
	s.logger.Debug("Story appended", zap.String("id", r.ID), zap.Int("position", len(records)-1))
	return len(records) - 1, r, nil
}

// ReplaceAt overwrites the record at position. An empty r.ID keeps the
// existing record's ID.
func (s *Store) ReplaceAt(ctx context.Context, position int, r story.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("replace at %d: %w", position, err)
	}
	if position < 0 || position >= len(records) {
		return fmt.Errorf("replace at %d: %w", position, ErrNotFound)
	}
	s.backfillIDs(records)
	if r.ID == "" {
		r.ID = records[position].ID
	}
	records[position] = r
	return s.write(ctx, records)
}

// RemoveAt deletes the record at position, shifting later records down.
func (s *Store) RemoveAt(ctx context.Context, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("remove at %d: %w", position, err)
	}
	if position < 0 || position >= len(records) {
		return fmt.Errorf("remove at %d: %w", position, ErrNotFound)
	}
	s.backfillIDs(records)
	records = append(records[:position], records[position+1:]...)
	return s.write(ctx, records)
}

// Get returns the record with id and its current position.
func (s *Store) Get(ctx context.Context, id string) (story.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return story.Record{}, -1, fmt.Errorf("get %s: %w", id, err)
	}
	i := indexOf(records, id)
	if i < 0 {
		return story.Record{}, -1, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return records[i], i, nil
}

// Replace overwrites the record with id, wherever it currently sits, and
// returns that position.
func (s *Store) Replace(ctx context.Context, id string, r story.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return -1, fmt.Errorf("replace %s: %w", id, err)
	}
	i := indexOf(records, id)
	if i < 0 {
		return -1, fmt.Errorf("replace %s: %w", id, ErrNotFound)
	}
	r.ID = id
	records[i] = r
	if err := s.write(ctx, records); err != nil {
		return -1, err
	}
	return i, nil
}

// Remove deletes the record with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	i := indexOf(records, id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	records = append(records[:i], records[i+1:]...)
	return s.write(ctx, records)
}

// ImportAll appends every record whose ID is not already present, in one
// write, and reports how many were added.
func (s *Store) ImportAll(ctx context.Context, incoming []story.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read(ctx)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	s.backfillIDs(records)
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.ID] = true
	}

	added := 0
	for _, r := range incoming {
		if r.ID == "" {
			r.ID = s.newID()
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		records = append(records, r)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.write(ctx, records); err != nil {
		return 0, err
	}
	return added, nil
}

// Clear removes the persisted payload entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storage == nil {
		return kv.ErrNotConfigured
	}
	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear stories: %w", err)
	}
	s.logger.Info("All stories cleared")
	return nil
}

// read returns the persisted records, an empty slice for a missing key, and
// an error for backend failures and corrupt payloads.
func (s *Store) read(ctx context.Context) ([]story.Record, error) {
	if s.storage == nil {
		return nil, kv.ErrNotConfigured
	}
	payload, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read stories: %w", err)
	}
	if !ok {
		return []story.Record{}, nil
	}
	var records []story.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []story.Record{}
	}
	for i := range records {
		if records[i].Images == nil {
			records[i].Images = []story.ImageRef{}
		}
	}
	return records, nil
}

func (s *Store) write(ctx context.Context, records []story.Record) error {
	if s.storage == nil {
		return kv.ErrNotConfigured
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal stories: %w", err)
	}
	if err := s.storage.Set(ctx, StorageKey, string(payload)); err != nil {
		return fmt.Errorf("write stories: %w", err)
	}
	return nil
}

// backfillIDs assigns IDs to records saved without one and reports whether
// any were assigned.
func (s *Store) backfillIDs(records []story.Record) bool {
	changed := false
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = s.newID()
			changed = true
		}
	}
	return changed
}

func indexOf(records []story.Record, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
