package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTimeFrom(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1m ago"},
		{45 * time.Minute, "45m ago"},
		{5 * time.Hour, "5h ago"},
		{24 * time.Hour, "1d ago"},
		{14 * 24 * time.Hour, "2w ago"},
		{60 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTimeFrom(now.Add(-tt.ago), now), tt.ago.String())
	}
	assert.Equal(t, "never", RelativeTimeFrom(time.Time{}, now))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 tabs", Plural(0, "tab"))
	assert.Equal(t, "1 tab", Plural(1, "tab"))
	assert.Equal(t, "7 sessions", Plural(7, "session"))
}
