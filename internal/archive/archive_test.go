package archive

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwulff/storybuilder/internal/kv"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/story"
)

func sample(title string) story.Record {
	return story.Record{
		Title:     title,
		Content:   "first\n\nsecond",
		Timestamp: time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC),
		Settings:  story.Settings{Protagonist: "pilot", Setting: "Io", Conflict: "stranded"},
		Images:    []story.ImageRef{{URL: "/placeholder.svg?query=io", Title: "The Setting", Index: 0}},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := stories.New(kv.NewMemory(), nil)
	for _, title := range []string{"Alpha", "Beta"} {
		_, _, err := src.Append(ctx, sample(title))
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	n, err := Export(ctx, &buf, src)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, strings.Count(buf.String(), "\n"), "one line per record")

	dst := stories.New(kv.NewMemory(), nil)
	read, added, err := Import(ctx, bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Equal(t, 2, read)
	assert.Equal(t, 2, added)

	want := src.Load(ctx)
	got := dst.Load(ctx)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Content, got[i].Content)
		assert.True(t, got[i].Timestamp.Equal(want[i].Timestamp), "record %d timestamp", i)
	}

	_, added, err = Import(ctx, bytes.NewReader(buf.Bytes()), dst)
	require.NoError(t, err)
	assert.Zero(t, added, "known ids are skipped")
}

func TestReaderSkipsBlankLines(t *testing.T) {
	input := "\n" + `{"title":"A","content":"c","timestamp":"2025-01-01T00:00:00Z","settings":{"protagonist":"p","setting":"s","conflict":"c","companion":"","customElement":""}}` + "\n\n"
	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "A", rec.Title)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestImportRejectsMalformedLine(t *testing.T) {
	ctx := context.Background()
	dst := stories.New(kv.NewMemory(), nil)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(sample("Good")))
	require.NoError(t, w.Flush())
	buf.WriteString("{not json}\n")

	_, _, err := Import(ctx, &buf, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Empty(t, dst.Load(ctx), "nothing stored on a bad line")
}

func TestReaderLineTooLong(t *testing.T) {
	long := `{"title":"` + strings.Repeat("x", MaxLineSize) + `"}` + "\n"
	r := NewReader(strings.NewReader(long))
	_, err := r.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestImportEmpty(t *testing.T) {
	read, added, err := Import(context.Background(), strings.NewReader(""), stories.New(kv.NewMemory(), nil))
	require.NoError(t, err)
	assert.Zero(t, read)
	assert.Zero(t, added)
}

func TestImportRejectsEmptyRecord(t *testing.T) {
	_, _, err := Import(context.Background(), strings.NewReader("{}\n"), stories.New(kv.NewMemory(), nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestImportOverCorruptStoreFails(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, stories.StorageKey, "{broken"))

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(sample("Alpha")))
	require.NoError(t, w.Flush())

	_, _, err := Import(ctx, &buf, stories.New(mem, nil))
	assert.ErrorIs(t, err, stories.ErrCorrupt)

	payload, _, err := mem.Get(ctx, stories.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "{broken", payload)
}
