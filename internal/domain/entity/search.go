package entity

import "time"

// SearchOptions excludes whole corpora from a search.
type SearchOptions struct {
	ExcludeOpenTabs  bool
	ExcludeSessions  bool
	ExcludeSuspended bool
}

// TabHit is a matching tab with its relevance score.
type TabHit struct {
	ID           BrowserTabID `json:"id,omitempty"`
	UniqueID     UniqueID     `json:"uniqueId,omitempty"`
	URL          string       `json:"url"`
	Title        string       `json:"title"`
	FaviconURL   string       `json:"favIconUrl,omitempty"`
	WindowID     int          `json:"windowId"`
	Score        float64      `json:"relevanceScore"`
	LastAccessed time.Time    `json:"-"`
}

// SessionHit is a session with at least one matching tab or a matching name.
type SessionHit struct {
	SessionID    SessionID `json:"sessionId"`
	SessionName  string    `json:"sessionName"`
	NameMatch    bool      `json:"nameMatch"`
	Tabs         []TabHit  `json:"tabs"`
	TotalMatches int       `json:"totalMatches"`
}

// SearchResults groups hits per corpus.
type SearchResults struct {
	Query         string       `json:"query"`
	OpenTabs      []TabHit     `json:"openTabs"`
	SuspendedTabs []TabHit     `json:"suspendedTabs"`
	Sessions      []SessionHit `json:"sessions"`
	Total         int          `json:"total"`
}

// EmptySearchResults returns a result set with non-nil empty slices.
func EmptySearchResults() SearchResults {
	return SearchResults{
		OpenTabs:      []TabHit{},
		SuspendedTabs: []TabHit{},
		Sessions:      []SessionHit{},
	}
}

// QuickAction tells the caller what to do with a quick-search hit.
type QuickAction string

const (
	ActionSwitchToTab        QuickAction = "switch-to-tab"
	ActionRestoreTab         QuickAction = "restore-tab"
	ActionRestoreFromSession QuickAction = "restore-from-session"
)

// QuickResult is one flattened quick-search entry.
type QuickResult struct {
	Type        string      `json:"type"`
	Action      QuickAction `json:"action"`
	Tab         TabHit      `json:"data"`
	SessionID   SessionID   `json:"sessionId,omitempty"`
	SessionName string      `json:"sessionName,omitempty"`
}

// SuggestionType distinguishes history suggestions from session names.
type SuggestionType string

const (
	SuggestionRecentSearch SuggestionType = "recent-search"
	SuggestionSession      SuggestionType = "session"
)

// Suggestion is an autocomplete entry.
type Suggestion struct {
	Type      SuggestionType `json:"type"`
	Text      string         `json:"text"`
	SessionID SessionID      `json:"sessionId,omitempty"`
}
