package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getSetOnly hides Memory's Take so the fallback path in Take is exercised.
type getSetOnly struct{ m *Memory }

func (g getSetOnly) Get(ctx context.Context, key string) (string, bool, error) {
	return g.m.Get(ctx, key)
}
func (g getSetOnly) Set(ctx context.Context, key, value string) error { return g.m.Set(ctx, key, value) }
func (g getSetOnly) Remove(ctx context.Context, key string) error     { return g.m.Remove(ctx, key) }

func TestMemoryGetSetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, m.Remove(ctx, "k"))
	require.NoError(t, m.Remove(ctx, "k"), "removing a missing key is fine")
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok, "key still present after Remove")
}

func TestTakeConsumesOnce(t *testing.T) {
	ctx := context.Background()

	for name, s := range map[string]Storage{
		"taker":    NewMemory(),
		"fallback": getSetOnly{m: NewMemory()},
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "editingStory", "payload"))

			v, ok, err := Take(ctx, s, "editingStory")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "payload", v)

			_, ok, err = Take(ctx, s, "editingStory")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryNilAndCanceled(t *testing.T) {
	var m *Memory
	_, _, err := m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrNotConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemory().Set(ctx, "k", "v"), context.Canceled)
}
