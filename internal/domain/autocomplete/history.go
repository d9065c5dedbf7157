// Package autocomplete holds search history and query suggestions.
package autocomplete

import (
	"strings"

	"github.com/bnema/omni/internal/domain/entity"
)

const (
	// DefaultHistoryLimit bounds the search history.
	DefaultHistoryLimit = 50
	// DefaultSuggestionLimit bounds the suggestion list.
	DefaultSuggestionLimit = 10
	// MinQueryLength is the length below which only recent searches are suggested.
	MinQueryLength = 2

	recentSearches = 5
	historyMatches = 3
	sessionMatches = 3
)

// History is a bounded most-recent-first list of distinct queries.
// It is not safe for concurrent use.
type History struct {
	entries []string
	limit   int
}

// NewHistory returns a history seeded with entries, most recent first.
func NewHistory(limit int, entries []string) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	h := &History{limit: limit}
	for i := len(entries) - 1; i >= 0; i-- {
		h.Add(entries[i])
	}
	return h
}

// Add moves query to the front, dropping any earlier copy. Blank queries are ignored.
// It returns true if the list changed.
func (h *History) Add(query string) bool {
	if query == "" {
		return false
	}
	if len(h.entries) > 0 && h.entries[0] == query {
		return false
	}
	for i, e := range h.entries {
		if e == query {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{query}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
	return true
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Clear empties the history.
func (h *History) Clear() {
	h.entries = nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Suggest builds suggestions for a partial query. Under MinQueryLength characters
// only recent searches are returned; otherwise matching history entries come first,
// followed by matching session names, capped at limit.
func Suggest(history []string, sessions []entity.Session, partial string, limit int) []entity.Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	out := make([]entity.Suggestion, 0, limit)

	if len([]rune(strings.TrimSpace(partial))) < MinQueryLength {
		for i, e := range history {
			if i >= recentSearches || len(out) >= limit {
				break
			}
			out = append(out, entity.Suggestion{Type: entity.SuggestionRecentSearch, Text: e})
		}
		return out
	}

	query := strings.ToLower(strings.TrimSpace(partial))
	n := 0
	for _, e := range history {
		if n >= historyMatches {
			break
		}
		if e != query && strings.Contains(e, query) {
			out = append(out, entity.Suggestion{Type: entity.SuggestionRecentSearch, Text: e})
			n++
		}
	}

	n = 0
	for _, s := range sessions {
		if n >= sessionMatches {
			break
		}
		if strings.Contains(strings.ToLower(s.Name), query) {
			out = append(out, entity.Suggestion{Type: entity.SuggestionSession, Text: s.Name, SessionID: s.ID})
			n++
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
