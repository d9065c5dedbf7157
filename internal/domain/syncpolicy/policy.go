// Package syncpolicy derives the size-capped projection of sessions written to the synced tier.
package syncpolicy

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/url"
)

const (
	// Ellipsis is appended to truncated titles.
	Ellipsis = "..."
	// UntitledTitle replaces empty titles.
	UntitledTitle = "Untitled"
	// SafetyMargin is the fraction of the tier quota a write may use.
	SafetyMargin = 0.8
)

// Limits caps the synced-tier projection.
type Limits struct {
	MaxSessions      int
	MaxWindows       int
	MaxTabsPerWindow int
	MaxTabs          int
	TitleMaxLen      int
	QuotaBytes       int
	ItemQuotaBytes   int
}

// DefaultLimits mirrors the browser sync storage quotas.
func DefaultLimits() Limits {
	return Limits{
		MaxSessions:      15,
		MaxWindows:       3,
		MaxTabsPerWindow: 8,
		MaxTabs:          15,
		TitleMaxLen:      60,
		QuotaBytes:       100 * 1024,
		ItemQuotaBytes:   8 * 1024,
	}
}

// Budget is the number of bytes a synced write may use.
func (l Limits) Budget() int {
	return int(float64(l.QuotaBytes) * SafetyMargin)
}

// Project returns the synced-tier projection of sessions. It never mutates its input
// and Project(Project(x)) equals Project(x).
func Project(sessions []entity.Session, limits Limits) []entity.Session {
	n := len(sessions)
	if limits.MaxSessions > 0 && n > limits.MaxSessions {
		n = limits.MaxSessions
	}
	out := make([]entity.Session, 0, n)
	for _, s := range sessions[:n] {
		out = append(out, projectSession(s, limits))
	}
	return out
}

func projectSession(s entity.Session, limits Limits) entity.Session {
	windows := s.Windows
	if limits.MaxWindows > 0 && len(windows) > limits.MaxWindows {
		windows = windows[:limits.MaxWindows]
	}
	projected := make([]entity.WindowGroup, 0, len(windows))
	for _, w := range windows {
		projected = append(projected, entity.WindowGroup{
			WindowID: w.WindowID,
			Tabs:     projectTabs(w.Tabs, limits.MaxTabsPerWindow, limits.TitleMaxLen),
		})
	}

	out := entity.Session{
		ID:           s.ID,
		Name:         s.Name,
		Windows:      projected,
		Tabs:         projectTabs(s.Tabs, limits.MaxTabs, limits.TitleMaxLen),
		Created:      s.Created,
		LastAccessed: s.LastAccessed,
	}
	out.TabCount = len(out.Tabs)
	out.WindowCount = len(out.Windows)
	return out
}

func projectTabs(tabs []entity.TabSnapshot, max, titleMax int) []entity.TabSnapshot {
	if max > 0 && len(tabs) > max {
		tabs = tabs[:max]
	}
	out := make([]entity.TabSnapshot, len(tabs))
	for i, t := range tabs {
		t.Title = TruncateTitle(t.Title, titleMax)
		if url.IsInlineImage(t.FaviconURL) {
			t.FaviconURL = ""
		}
		out[i] = t
	}
	return out
}

// TruncateTitle caps a title at max runes including the ellipsis. Empty titles become "Untitled".
func TruncateTitle(title string, max int) string {
	if title == "" {
		return UntitledTitle
	}
	if max <= 0 || utf8.RuneCountInString(title) <= max {
		return title
	}
	keep := max - utf8.RuneCountInString(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(title)
	return string(runes[:keep]) + Ellipsis
}

// EstimateSerializedSize returns the JSON-encoded size of value in bytes.
func EstimateSerializedSize(value any) (int, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// Fits reports whether the projected list can be written to the synced tier:
// within the safety margin of the tier quota and within the per-item quota.
// It returns the estimated size alongside the verdict.
func Fits(projected []entity.Session, limits Limits) (bool, int, error) {
	size, err := EstimateSerializedSize(projected)
	if err != nil {
		return false, 0, err
	}
	if limits.QuotaBytes > 0 && size > limits.Budget() {
		return false, size, nil
	}
	if limits.ItemQuotaBytes > 0 && size > limits.ItemQuotaBytes {
		return false, size, nil
	}
	return true, size, nil
}
