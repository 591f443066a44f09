// Package story holds the story record types shared by the builder, the
// gallery and every persistence backend.
package story

import (
	"strings"
	"time"
)

// DefaultCompanion is substituted when the companion field is left blank.
const DefaultCompanion = "their own determination and wit"

// ShareFooter closes every shared story.
const ShareFooter = "--- Created with Cosmic Story Builder ---"

// ParagraphSeparator joins story paragraphs.
const ParagraphSeparator = "\n\n"

// Record is one saved story.
type Record struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Settings  Settings   `json:"settings"`
	Images    []ImageRef `json:"images"`
}

// Settings are the form inputs that produced a story.
type Settings struct {
	Protagonist   string `json:"protagonist"`
	Setting       string `json:"setting"`
	Conflict      string `json:"conflict"`
	Companion     string `json:"companion"`
	CustomElement string `json:"customElement"`
}

// ImageRef points at an illustration for a story.
type ImageRef struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Index int    `json:"index"`
}

// Missing reports which of the required fields are blank.
func (s Settings) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.Protagonist) == "" {
		missing = append(missing, "protagonist")
	}
	if strings.TrimSpace(s.Setting) == "" {
		missing = append(missing, "setting")
	}
	if strings.TrimSpace(s.Conflict) == "" {
		missing = append(missing, "conflict")
	}
	return missing
}

// Paragraphs splits the content on the paragraph separator.
func (r Record) Paragraphs() []string {
	if r.Content == "" {
		return nil
	}
	return strings.Split(r.Content, ParagraphSeparator)
}

// ShareText renders the story the way it is copied to the clipboard.
func ShareText(title, content string) string {
	return title + ParagraphSeparator + content + ParagraphSeparator + ShareFooter
}
