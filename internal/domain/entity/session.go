package entity

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID uniquely identifies a saved session.
// New ids are ULIDs prefixed with "session_"; imported and recovered ids are kept verbatim.
type SessionID string

// SessionIDPrefix prefixes every generated session id.
const SessionIDPrefix = "session_"

// NewSessionID returns a time-sortable session id.
func NewSessionID(now time.Time) SessionID {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	return SessionID(SessionIDPrefix + strings.ToLower(id.String()))
}

// TabSnapshot captures one tab at save time.
type TabSnapshot struct {
	URL        string    `json:"url" yaml:"url"`
	Title      string    `json:"title" yaml:"title"`
	FaviconURL string    `json:"favIconUrl,omitempty" yaml:"favIconUrl,omitempty"`
	WindowID   int       `json:"windowId" yaml:"windowId"`
	Index      int       `json:"index" yaml:"index"`
	Pinned     bool      `json:"pinned" yaml:"pinned"`
	Active     bool      `json:"active" yaml:"active"`
	Saved      Timestamp `json:"saved" yaml:"saved"`
}

// WindowGroup is an ordered group of tabs that shared a window.
// WindowID is only a hint about where the tabs came from.
type WindowGroup struct {
	WindowID int           `json:"windowId" yaml:"windowId"`
	Tabs     []TabSnapshot `json:"tabs" yaml:"tabs"`
}

// Session is a named, persisted snapshot of one or more windows.
// Tabs, TabCount and WindowCount are derived from Windows.
type Session struct {
	ID           SessionID     `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Windows      []WindowGroup `json:"windows" yaml:"windows"`
	Tabs         []TabSnapshot `json:"tabs" yaml:"tabs"`
	TabCount     int           `json:"tabCount" yaml:"tabCount"`
	WindowCount  int           `json:"windowCount" yaml:"windowCount"`
	Created      Timestamp     `json:"created" yaml:"created"`
	LastAccessed Timestamp     `json:"lastAccessed" yaml:"lastAccessed"`
}

// NewSession builds a session from window groups, deriving tabs and counts.
// Empty window groups are dropped.
func NewSession(id SessionID, name string, windows []WindowGroup, now time.Time) Session {
	ts := NewTimestamp(now)
	s := Session{
		ID:           id,
		Name:         name,
		Windows:      compactWindows(windows),
		Created:      ts,
		LastAccessed: ts,
	}
	s.Recount()
	return s
}

// Recount re-derives Tabs from Windows and recomputes both counts.
func (s *Session) Recount() {
	s.Tabs = FlattenWindows(s.Windows)
	s.TabCount = len(s.Tabs)
	s.WindowCount = len(s.Windows)
}

// Touch updates LastAccessed.
func (s *Session) Touch(now time.Time) {
	s.LastAccessed = NewTimestamp(now)
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Windows = make([]WindowGroup, len(s.Windows))
	for i, w := range s.Windows {
		out.Windows[i] = WindowGroup{WindowID: w.WindowID, Tabs: append([]TabSnapshot(nil), w.Tabs...)}
	}
	out.Tabs = append([]TabSnapshot(nil), s.Tabs...)
	return out
}

// FlattenWindows concatenates the tabs of every window in order.
func FlattenWindows(windows []WindowGroup) []TabSnapshot {
	n := 0
	for _, w := range windows {
		n += len(w.Tabs)
	}
	tabs := make([]TabSnapshot, 0, n)
	for _, w := range windows {
		tabs = append(tabs, w.Tabs...)
	}
	return tabs
}

// GroupTabsByWindow groups a flat tab list by WindowID, preserving first-seen window order.
func GroupTabsByWindow(tabs []TabSnapshot) []WindowGroup {
	var groups []WindowGroup
	pos := make(map[int]int)
	for _, tab := range tabs {
		i, ok := pos[tab.WindowID]
		if !ok {
			i = len(groups)
			pos[tab.WindowID] = i
			groups = append(groups, WindowGroup{WindowID: tab.WindowID})
		}
		groups[i].Tabs = append(groups[i].Tabs, tab)
	}
	return groups
}

// CloneSessions deep-copies a session list.
func CloneSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		out[i] = s.Clone()
	}
	return out
}

func compactWindows(windows []WindowGroup) []WindowGroup {
	out := make([]WindowGroup, 0, len(windows))
	for _, w := range windows {
		if len(w.Tabs) == 0 {
			continue
		}
		out = append(out, WindowGroup{WindowID: w.WindowID, Tabs: append([]TabSnapshot(nil), w.Tabs...)})
	}
	return out
}
