package gallery

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jwulff/storybuilder/internal/story"
)

// SortKey selects the gallery ordering.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
)

// ErrUnknownSort is returned by ParseSortKey for anything but the three keys.
var ErrUnknownSort = errors.New("unknown sort key")

var sortKeys = []SortKey{SortNewest, SortOldest, SortTitle}

// ParseSortKey parses a sort key. The empty string is SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNewest, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// Next cycles newest, oldest, title.
func (k SortKey) Next() SortKey {
	i := slices.Index(sortKeys, k)
	return sortKeys[(i+1)%len(sortKeys)]
}

// Label is the human name shown in the sort selector.
func (k SortKey) Label() string {
	switch k {
	case SortOldest:
		return "Oldest First"
	case SortTitle:
		return "Title A-Z"
	default:
		return "Newest First"
	}
}

// Filter returns the records whose title, content, protagonist or setting
// contains query, ignoring case. A blank query matches everything. The input
// is not modified.
func Filter(records []story.Record, query string) []story.Record {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return slices.Clone(records)
	}

	out := make([]story.Record, 0, len(records))
	for _, r := range records {
		for _, field := range []string{r.Title, r.Content, r.Settings.Protagonist, r.Settings.Setting} {
			if strings.Contains(fold.String(field), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Sort returns a copy of records in key order. Equal elements keep their
// relative order.
func Sort(records []story.Record, key SortKey) []story.Record {
	out := slices.Clone(records)
	switch key {
	case SortOldest:
		slices.SortStableFunc(out, func(a, b story.Record) int {
			return a.Timestamp.Compare(b.Timestamp)
		})
	case SortTitle:
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b story.Record) int {
			return c.CompareString(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b story.Record) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
	}
	return out
}
