package entity

import "time"

// BrowserTab is a live tab as reported by the tab control surface.
type BrowserTab struct {
	ID           BrowserTabID
	WindowID     int
	Index        int
	URL          string
	Title        string
	FaviconURL   string
	Pinned       bool
	Active       bool
	LastAccessed time.Time // zero when the surface does not report it
}

// Snapshot captures the tab for a saved session.
func (t BrowserTab) Snapshot(now time.Time) TabSnapshot {
	return TabSnapshot{
		URL:        t.URL,
		Title:      t.Title,
		FaviconURL: t.FaviconURL,
		WindowID:   t.WindowID,
		Index:      t.Index,
		Pinned:     t.Pinned,
		Active:     t.Active,
		Saved:      NewTimestamp(now),
	}
}

// BrowserWindow is a live window.
type BrowserWindow struct {
	ID      int
	Focused bool
}

// CreateTabOptions configures a new tab.
type CreateTabOptions struct {
	WindowID int // 0 = current window
	Index    int // -1 = append
	Active   bool
	Pinned   bool
}

// UpdateTabOptions changes an existing tab. Empty URL leaves the URL unchanged.
type UpdateTabOptions struct {
	URL    string
	Active *bool
	Pinned *bool
}

// CreateWindowOptions configures a new window and its first tab.
type CreateWindowOptions struct {
	URL     string
	Focused bool
}
