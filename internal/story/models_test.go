package story

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsMissing(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     []string
	}{
		{name: "complete", settings: Settings{Protagonist: "pilot", Setting: "Mars", Conflict: "lost"}},
		{name: "blank", settings: Settings{}, want: []string{"protagonist", "setting", "conflict"}},
		{name: "whitespace hero", settings: Settings{Protagonist: "  ", Setting: "Mars", Conflict: "lost"}, want: []string{"protagonist"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.Missing())
		})
	}
}

func TestRecordJSONFieldNames(t *testing.T) {
	r := Record{
		ID:        "abc",
		Title:     "The Legend of the Stellar Void",
		Content:   "one\n\ntwo",
		Timestamp: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Settings:  Settings{Protagonist: "pilot", CustomElement: "a comet"},
		Images:    []ImageRef{{URL: "/placeholder.svg", Title: "The Setting", Index: 0}},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	for _, field := range []string{`"title"`, `"content"`, `"timestamp"`, `"settings"`, `"customElement"`, `"images"`, `"url"`, `"index"`} {
		assert.Contains(t, string(data), field)
	}
}

func TestRecordParsesBrowserTimestamp(t *testing.T) {
	payload := `{"title":"t","content":"c","timestamp":"2024-05-06T07:08:09.123Z","settings":{"protagonist":"p","setting":"s","conflict":"c","companion":"","customElement":""}}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	assert.Equal(t, 2024, r.Timestamp.Year())
	assert.Empty(t, r.ID)
	assert.Empty(t, r.Images)
}

func TestParagraphsAndShareText(t *testing.T) {
	r := Record{Title: "T", Content: "first\n\nsecond"}
	assert.Equal(t, []string{"first", "second"}, r.Paragraphs())
	assert.Nil(t, Record{}.Paragraphs())

	shared := ShareText(r.Title, r.Content)
	assert.True(t, strings.HasPrefix(shared, "T\n\nfirst"))
	assert.True(t, strings.HasSuffix(shared, ShareFooter))
}
