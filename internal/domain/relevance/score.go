// Package relevance scores tabs against a search query.
package relevance

import (
	"math"
	"strings"
	"time"

	"github.com/bnema/omni/internal/domain/url"
)

// Weights for each kind of match.
const (
	TitleMatch  = 10.0
	TitlePrefix = 5.0
	DomainMatch = 8.0
	DomainExact = 5.0
	URLMatch    = 6.0
	RecencyDays = 5.0
)

// NormalizeQuery lower-cases and trims a raw query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Matches reports whether the title, URL or domain contains the normalized query.
func Matches(title, rawURL, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), query) ||
		strings.Contains(strings.ToLower(rawURL), query) ||
		strings.Contains(strings.ToLower(url.ExtractDomain(rawURL)), query)
}

// Score weighs a match. A title-prefix match always outranks a URL-only match
// because the recency bonus is capped below the gap between them.
func Score(title, rawURL, query string, lastAccessed, now time.Time) float64 {
	if query == "" {
		return 0
	}
	t := strings.ToLower(title)
	u := strings.ToLower(rawURL)
	d := strings.ToLower(url.ExtractDomain(rawURL))

	var score float64
	if strings.Contains(t, query) {
		score += TitleMatch
		if strings.HasPrefix(t, query) {
			score += TitlePrefix
		}
	}
	if d != "" && strings.Contains(d, query) {
		score += DomainMatch
		if d == query {
			score += DomainExact
		}
	}
	if strings.Contains(u, query) {
		score += URLMatch
	}
	if !lastAccessed.IsZero() {
		days := now.Sub(lastAccessed).Hours() / 24
		score += math.Max(0, RecencyDays-math.Max(0, days))
	}
	return score
}
