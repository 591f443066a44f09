package builder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/storybuilder/internal/gallery"
	"github.com/jwulff/storybuilder/internal/handoff"
	"github.com/jwulff/storybuilder/internal/kv"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/story"
	"github.com/jwulff/storybuilder/internal/synth"
)

var (
	t1 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	t2 = t1.Add(24 * time.Hour)
)

type env struct {
	builder *Builder
	store   *stories.Store
	channel *handoff.Channel
}

func newEnv(t *testing.T) env {
	t.Helper()
	store := stories.New(kv.NewMemory(), nil)
	channel := handoff.New(kv.NewMemory(), nil)
	return env{
		builder: New(store, synth.NewSeeded(7), channel, nil),
		store:   store,
		channel: channel,
	}
}

func captainRho() story.Settings {
	return story.Settings{
		Protagonist: "Captain Rho",
		Setting:     "Orbital Ring Delta",
		Conflict:    "discovered a derelict ship",
	}
}

func TestGenerateRequiresFields(t *testing.T) {
	e := newEnv(t)
	e.builder.SetForm(story.Settings{Protagonist: "Captain Rho"})

	_, err := e.builder.Generate(context.Background(), t1)
	require.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "setting, conflict")

	_, ok := e.builder.Draft()
	assert.False(t, ok, "no draft on validation failure")
}

func TestGenerateAndSave(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.builder.SetForm(captainRho())

	res, err := e.builder.Generate(ctx, t1)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Empty(t, e.store.Load(ctx), "generate alone does not persist")

	stored, pos, err := e.builder.Save(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.NotEmpty(t, stored.ID)
	assert.NotEmpty(t, stored.Title)
	assert.Contains(t, stored.Content, "Captain Rho")
	assert.Contains(t, stored.Content, "Orbital Ring Delta")
	assert.Len(t, stored.Images, 4)
	assert.Equal(t, captainRho(), stored.Settings)

	loaded := e.store.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, stored.ID, loaded[0].ID)
}

func TestSaveWithoutDraft(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.builder.Save(context.Background(), t1)
	assert.ErrorIs(t, err, ErrNoDraft)
	_, err = e.builder.ShareText()
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestHandoffConsumedOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	for _, title := range []string{"A", "B", "C"} {
		_, _, err := e.store.Append(ctx, story.Record{Title: title, Settings: captainRho()})
		require.NoError(t, err)
	}
	g := gallery.New(e.store, e.channel, nil)
	g.Load(ctx)
	target := e.store.Load(ctx)[2]
	_, err := g.HandOff(ctx, target.ID)
	require.NoError(t, err)

	require.True(t, e.builder.Resume(ctx, true))
	edit, ok := e.builder.Editing()
	require.True(t, ok)
	assert.Equal(t, EditTarget{ID: target.ID, Index: 2}, edit)
	assert.Equal(t, captainRho(), e.builder.Form())
	draft, ok := e.builder.Draft()
	require.True(t, ok)
	assert.Equal(t, "C", draft.Title)

	fresh := New(e.store, synth.NewSeeded(1), e.channel, nil)
	assert.False(t, fresh.Resume(ctx, true), "second read finds nothing")
	_, editing := fresh.Editing()
	assert.False(t, editing)
	_, hasDraft := fresh.Draft()
	assert.False(t, hasDraft)
}

func TestResumeWithoutMarker(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.channel.Send(ctx, handoff.Payload{Story: story.Record{ID: "x"}}))
	assert.False(t, e.builder.Resume(ctx, false))
}

func TestFullCycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.builder.SetForm(captainRho())
	_, err := e.builder.Generate(ctx, t1)
	require.NoError(t, err)
	saved, pos, err := e.builder.Save(ctx, t1)
	require.NoError(t, err)

	e.builder.EnterEdit(handoff.Payload{Story: saved, Index: pos})
	form := e.builder.Form()
	form.Companion = "a rogue AI"
	e.builder.SetForm(form)

	res, err := e.builder.Generate(ctx, t2)
	require.NoError(t, err)
	require.True(t, res.Updated)

	loaded := e.store.Load(ctx)
	require.Len(t, loaded, 1, "update keeps the length")
	assert.Equal(t, saved.ID, loaded[0].ID)
	assert.True(t, loaded[0].Timestamp.Equal(t2))
	assert.Equal(t, "a rogue AI", loaded[0].Settings.Companion)
	assert.Equal(t, res.Draft.Content, loaded[0].Content)

	_, ok := e.builder.Editing()
	assert.False(t, ok, "edit mode ends after one update")
	res, err = e.builder.Generate(ctx, t2)
	require.NoError(t, err)
	assert.False(t, res.Updated, "next generate does not update")

	require.NoError(t, e.store.Remove(ctx, saved.ID))
	assert.Empty(t, e.store.Load(ctx))
}

func TestUpdateVanishedStory(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.builder.EnterEdit(handoff.Payload{Story: story.Record{ID: "gone", Settings: captainRho()}, Index: 0})

	res, err := e.builder.Generate(ctx, t1)
	require.ErrorIs(t, err, ErrStoryGone)
	assert.NotEmpty(t, res.Draft.Title, "draft is still shown")
	_, ok := e.builder.Editing()
	assert.False(t, ok)
	assert.Empty(t, e.store.Load(ctx))
}

func TestUpdateLegacyPayloadByPosition(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, stored, err := e.store.Append(ctx, story.Record{Title: "old", Settings: captainRho()})
	require.NoError(t, err)

	e.builder.EnterEdit(handoff.Payload{Story: story.Record{Title: "old", Settings: captainRho()}, Index: 0})
	res, err := e.builder.Generate(ctx, t2)
	require.NoError(t, err)
	assert.True(t, res.Updated)

	loaded := e.store.Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, stored.ID, loaded[0].ID)
	assert.NotEqual(t, "old", loaded[0].Title)
}

func TestClearLeavesEditMode(t *testing.T) {
	e := newEnv(t)
	e.builder.EnterEdit(handoff.Payload{Story: story.Record{ID: "x", Title: "T", Content: "c"}})
	text, err := e.builder.ShareText()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "T\n\nc"))

	e.builder.Clear()
	_, ok := e.builder.Editing()
	assert.False(t, ok)
	assert.Equal(t, story.Settings{}, e.builder.Form())
}
