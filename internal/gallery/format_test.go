package gallery

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short text", Preview("short\n\ntext", PreviewWidth))

	long := strings.Repeat("a", 200)
	got := Preview(long, PreviewWidth)
	assert.Equal(t, strings.Repeat("a", 150)+"...", got)

	// Wide runes count as two cells.
	assert.Equal(t, "星星...", Preview("星星星星", 5))
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	got := FormatDate(now.Add(-72*time.Hour), now)
	assert.Contains(t, got, "3 days ago")
	assert.Contains(t, got, "2025")
	assert.Equal(t, "Unknown date", FormatDate(time.Time{}, now))
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "Captain rho", CapitalizeFirst("captain rho"))
	assert.Equal(t, "Émile", CapitalizeFirst("émile"))
	assert.Equal(t, "", CapitalizeFirst(""))
}
