// Package synth fills the story templates with the builder's settings.
//
// Template, custom-element insertion, conclusion and title are each picked
// uniformly at random from fixed tables. The random source is injected so a
// seeded Synthesizer always produces the same story.
package synth

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
	"sync"

	"github.com/jwulff/storybuilder/internal/story"
)

// DefaultImageBase is the placeholder image endpoint.
const DefaultImageBase = "/placeholder.svg"

// Rand is the random source. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Draft is a freshly composed story that has not been saved yet.
type Draft struct {
	Title    string
	Content  string
	Images   []story.ImageRef
	Template int
}

// Synthesizer composes drafts. Safe for concurrent use.
type Synthesizer struct {
	mu        sync.Mutex
	rng       Rand
	imageBase string
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithImageBase overrides the placeholder image endpoint.
func WithImageBase(base string) Option {
	return func(s *Synthesizer) {
		if base != "" {
			s.imageBase = base
		}
	}
}

// New returns a Synthesizer drawing from rng.
func New(rng Rand, opts ...Option) *Synthesizer {
	s := &Synthesizer{rng: rng, imageBase: DefaultImageBase}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSeeded returns a deterministic Synthesizer.
func NewSeeded(seed uint64, opts ...Option) *Synthesizer {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), opts...)
}

// NewRandom returns a Synthesizer seeded from crypto/rand.
func NewRandom(opts ...Option) (*Synthesizer, error) {
	seed, err := newSeed()
	if err != nil {
		return nil, err
	}
	return NewSeeded(seed, opts...), nil
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Compose builds a draft from settings. Required fields are the caller's
// concern; a blank companion gets story.DefaultCompanion.
func (s *Synthesizer) Compose(settings story.Settings) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	ti := s.rng.IntN(len(templates))
	tmpl := templates[ti]

	companion := settings.Companion
	if strings.TrimSpace(companion) == "" {
		companion = story.DefaultCompanion
	}

	r := strings.NewReplacer(
		"{protagonist}", "the "+settings.Protagonist,
		"{setting}", settings.Setting,
		"{conflict}", settings.Conflict,
		"{companion}", companion,
	)
	paragraphs := []string{r.Replace(tmpl.text)}

	if custom := strings.TrimSpace(settings.CustomElement); custom != "" {
		insertion := customInsertions[s.rng.IntN(len(customInsertions))]
		paragraphs = append(paragraphs, fmt.Sprintf(insertion, custom))
	}
	paragraphs = append(paragraphs, conclusions[s.rng.IntN(len(conclusions))])

	return Draft{
		Title:    s.title(),
		Content:  strings.Join(paragraphs, story.ParagraphSeparator),
		Images:   s.images(tmpl.images, settings.Protagonist, settings.Setting),
		Template: ti,
	}
}

func (s *Synthesizer) title() string {
	prefix := titlePrefixes[s.rng.IntN(len(titlePrefixes))]
	suffix := titleSuffixes[s.rng.IntN(len(titleSuffixes))]
	return prefix + " " + suffix
}

func (s *Synthesizer) images(tags []string, protagonist, setting string) []story.ImageRef {
	r := strings.NewReplacer("{protagonist}", protagonist, "{setting}", setting)
	images := make([]story.ImageRef, 0, len(tags))
	for i, tag := range tags {
		spec, ok := imageSpecs[tag]
		if !ok {
			spec = fallbackImage
		}
		images = append(images, story.ImageRef{
			URL:   s.imageURL(r.Replace(spec.query)),
			Title: spec.caption,
			Index: i,
		})
	}
	return images
}

func (s *Synthesizer) imageURL(query string) string {
	// Spaces as %20 rather than '+', matching encodeURIComponent.
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return s.imageBase + "?height=300&width=400&query=" + escaped
}

// ImageTags returns the image tag list of every template, in template order.
func ImageTags() [][]string {
	out := make([][]string, len(templates))
	for i, t := range templates {
		out[i] = append([]string(nil), t.images...)
	}
	return out
}

// Caption returns the caption shown for an image tag.
func Caption(tag string) string {
	if spec, ok := imageSpecs[tag]; ok {
		return spec.caption
	}
	return fallbackImage.caption
}
