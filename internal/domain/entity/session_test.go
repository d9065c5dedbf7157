package entity_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tabs(windowID int, urls ...string) []entity.TabSnapshot {
	out := make([]entity.TabSnapshot, 0, len(urls))
	for i, u := range urls {
		out = append(out, entity.TabSnapshot{URL: u, Title: u, WindowID: windowID, Index: i})
	}
	return out
}

func TestNewSessionID(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := entity.NewSessionID(now)
	b := entity.NewSessionID(now)

	assert.True(t, strings.HasPrefix(string(a), entity.SessionIDPrefix))
	assert.NotEqual(t, a, b)
	assert.Len(t, string(a), len(entity.SessionIDPrefix)+26)
}

func TestNewSession_CountsDerivedFromWindows(t *testing.T) {
	now := time.Now()
	s := entity.NewSession("s1", "Work", []entity.WindowGroup{
		{WindowID: 1, Tabs: tabs(1, "https://a", "https://b", "https://c")},
		{WindowID: 2, Tabs: tabs(2, "https://d")},
		{WindowID: 3},
	}, now)

	assert.Equal(t, 4, s.TabCount)
	assert.Equal(t, 2, s.WindowCount)
	require.Len(t, s.Tabs, 4)
	assert.Equal(t, "https://d", s.Tabs[3].URL)
	assert.Equal(t, s.Created, s.LastAccessed)
}

func TestSession_UnmarshalJSON_IgnoresStoredCounts(t *testing.T) {
	raw := `{"id":"s1","name":"Work","tabCount":99,"windowCount":7,"created":1700000000000,
		"windows":[{"id":5,"tabs":[{"url":"https://a"},{"url":"https://b"},{"url":"https://c"}]},
		           {"windowId":6,"tabs":[{"url":"https://d"}]}]}`

	var s entity.Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, 4, s.TabCount)
	assert.Equal(t, 2, s.WindowCount)
	assert.Equal(t, 5, s.Windows[0].WindowID)
	assert.Equal(t, 6, s.Windows[1].WindowID)
	assert.Equal(t, int64(1700000000000), s.Created.Millis())
	assert.Equal(t, s.Created, s.LastAccessed)
}

func TestNormalize_LegacyGroupsByWindow(t *testing.T) {
	legacy := entity.LegacySession{
		ID:   "old",
		Name: "Legacy",
		Tabs: []entity.TabSnapshot{
			{URL: "https://a", WindowID: 2},
			{URL: "https://b", WindowID: 1},
			{URL: "https://c", WindowID: 2},
		},
	}

	s := entity.Normalize(legacy)

	require.Len(t, s.Windows, 2)
	assert.Equal(t, 2, s.Windows[0].WindowID)
	assert.Len(t, s.Windows[0].Tabs, 2)
	assert.Equal(t, 1, s.Windows[1].WindowID)
	assert.Equal(t, 3, s.TabCount)
	assert.Equal(t, []string{"https://a", "https://c", "https://b"}, []string{s.Tabs[0].URL, s.Tabs[1].URL, s.Tabs[2].URL})
}

func TestDecodeStoredSession(t *testing.T) {
	stored, err := entity.DecodeStoredSession([]byte(`{"id":"x","tabs":[{"url":"https://a"}]}`))
	require.NoError(t, err)
	assert.IsType(t, entity.LegacySession{}, stored)

	stored, err = entity.DecodeStoredSession([]byte(`{"id":"x","windows":[{"tabs":[]}]}`))
	require.NoError(t, err)
	assert.IsType(t, entity.WindowedSession{}, stored)

	_, err = entity.DecodeStoredSession([]byte(`[1,2]`))
	require.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestDecodeSessions(t *testing.T) {
	sessions, err := entity.DecodeSessions(nil)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	sessions, err = entity.DecodeSessions([]byte(`[{"id":"a","name":"A","tabs":[{"url":"https://a"}]}]`))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, entity.SessionID("a"), sessions[0].ID)

	_, err = entity.DecodeSessions([]byte(`{"id":"a"}`))
	require.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestSession_Clone(t *testing.T) {
	s := entity.NewSession("s1", "Work", []entity.WindowGroup{{WindowID: 1, Tabs: tabs(1, "https://a")}}, time.Now())
	c := s.Clone()
	c.Windows[0].Tabs[0].URL = "https://changed"
	c.Tabs[0].URL = "https://changed"

	assert.Equal(t, "https://a", s.Windows[0].Tabs[0].URL)
	assert.Equal(t, "https://a", s.Tabs[0].URL)
}
