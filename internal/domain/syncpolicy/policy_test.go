package syncpolicy_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/syncpolicy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSession(id string, windows, tabsPerWindow int, title, favicon string) entity.Session {
	groups := make([]entity.WindowGroup, 0, windows)
	for w := 0; w < windows; w++ {
		tabs := make([]entity.TabSnapshot, 0, tabsPerWindow)
		for i := 0; i < tabsPerWindow; i++ {
			tabs = append(tabs, entity.TabSnapshot{
				URL:        fmt.Sprintf("https://example.com/%d/%d", w, i),
				Title:      title,
				FaviconURL: favicon,
				WindowID:   w + 1,
				Index:      i,
			})
		}
		groups = append(groups, entity.WindowGroup{WindowID: w + 1, Tabs: tabs})
	}
	return entity.NewSession(entity.SessionID(id), id, groups, time.Unix(1700000000, 0))
}

func TestProject_Caps(t *testing.T) {
	limits := syncpolicy.DefaultLimits()
	sessions := make([]entity.Session, 0, 20)
	for i := 0; i < 20; i++ {
		sessions = append(sessions, makeSession(fmt.Sprintf("s%d", i), 5, 10, strings.Repeat("t", 80), "data:image/png;base64,AAAA"))
	}

	projected := syncpolicy.Project(sessions, limits)

	require.Len(t, projected, limits.MaxSessions)
	first := projected[0]
	assert.Len(t, first.Windows, limits.MaxWindows)
	for _, w := range first.Windows {
		assert.Len(t, w.Tabs, limits.MaxTabsPerWindow)
	}
	require.Len(t, first.Tabs, limits.MaxTabs)
	assert.Equal(t, limits.MaxTabs, first.TabCount)
	assert.Equal(t, limits.MaxWindows, first.WindowCount)

	tab := first.Windows[0].Tabs[0]
	assert.Equal(t, limits.TitleMaxLen, len([]rune(tab.Title)))
	assert.True(t, strings.HasSuffix(tab.Title, syncpolicy.Ellipsis))
	assert.Empty(t, tab.FaviconURL)

	// input untouched
	assert.Len(t, sessions[0].Windows, 5)
	assert.Equal(t, "data:image/png;base64,AAAA", sessions[0].Windows[0].Tabs[0].FaviconURL)
}

func TestProject_Idempotent(t *testing.T) {
	limits := syncpolicy.DefaultLimits()
	sessions := []entity.Session{
		makeSession("a", 4, 12, strings.Repeat("é", 75), "data:x"),
		makeSession("b", 1, 2, "", "https://example.com/favicon.ico"),
		makeSession("c", 2, 3, strings.Repeat("x", 60), ""),
	}

	once := syncpolicy.Project(sessions, limits)
	twice := syncpolicy.Project(once, limits)

	assert.Equal(t, once, twice)
}

func TestProject_KeepsRemoteFavicons(t *testing.T) {
	projected := syncpolicy.Project([]entity.Session{makeSession("a", 1, 1, "Title", "https://example.com/favicon.ico")}, syncpolicy.DefaultLimits())
	assert.Equal(t, "https://example.com/favicon.ico", projected[0].Windows[0].Tabs[0].FaviconURL)
	assert.Equal(t, "Title", projected[0].Windows[0].Tabs[0].Title)
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		max   int
		want  string
	}{
		{name: "empty becomes untitled", title: "", max: 60, want: "Untitled"},
		{name: "short unchanged", title: "GitHub", max: 60, want: "GitHub"},
		{name: "exact length unchanged", title: strings.Repeat("a", 60), max: 60, want: strings.Repeat("a", 60)},
		{name: "long truncated", title: strings.Repeat("a", 61), max: 60, want: strings.Repeat("a", 57) + "..."},
		{name: "no limit", title: strings.Repeat("a", 100), max: 0, want: strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, syncpolicy.TruncateTitle(tt.title, tt.max))
		})
	}
}

func TestFits(t *testing.T) {
	limits := syncpolicy.DefaultLimits()
	limits.ItemQuotaBytes = 0

	small := syncpolicy.Project([]entity.Session{makeSession("a", 1, 2, "t", "")}, limits)
	ok, size, err := syncpolicy.Fits(small, limits)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Positive(t, size)

	limits.QuotaBytes = size
	ok, _, err = syncpolicy.Fits(small, limits)
	require.NoError(t, err)
	assert.False(t, ok, "above 80% of quota must not fit")

	limits = syncpolicy.DefaultLimits()
	limits.ItemQuotaBytes = size - 1
	ok, _, err = syncpolicy.Fits(small, limits)
	require.NoError(t, err)
	assert.False(t, ok, "above per-item quota must not fit")
}

func TestEstimateSerializedSize(t *testing.T) {
	size, err := syncpolicy.EstimateSerializedSize(map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, len(`{"a":"b"}`), size)
}
