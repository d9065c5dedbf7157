package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/omni/internal/domain/entity"
)

// SearchCLIRenderer renders search results, quick results and suggestions.
type SearchCLIRenderer struct {
	theme *Theme
}

func NewSearchCLIRenderer(theme *Theme) *SearchCLIRenderer {
	return &SearchCLIRenderer{theme: theme}
}

func (r *SearchCLIRenderer) RenderResults(res entity.SearchResults) string {
	if res.Total == 0 {
		return r.theme.Subtle.Render(fmt.Sprintf("No matches for %q.", res.Query))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		r.theme.Highlight.Render(IconSearch),
		r.theme.Title.Render(res.Query),
		r.theme.Subtle.Render(matchCount(res.Total)),
	))

	if len(res.OpenTabs) > 0 {
		r.section(&b, IconTab, "Open tabs", len(res.OpenTabs))
		for _, h := range res.OpenTabs {
			r.hit(&b, fmt.Sprintf("%d", h.ID), h)
		}
	}
	if len(res.SuspendedTabs) > 0 {
		r.section(&b, IconPause, "Suspended", len(res.SuspendedTabs))
		for _, h := range res.SuspendedTabs {
			r.hit(&b, string(h.UniqueID), h)
		}
	}
	if len(res.Sessions) > 0 {
		r.section(&b, IconSessionStack, "Sessions", len(res.Sessions))
		for _, s := range res.Sessions {
			name := r.theme.Normal.Render(s.SessionName)
			if s.NameMatch {
				name = r.theme.Highlight.Render(s.SessionName)
			}
			b.WriteString(fmt.Sprintf("  %s %s  %s\n",
				r.theme.Highlight.Render(IconSession), name, r.theme.Subtle.Render(string(s.SessionID))))
			for _, h := range s.Tabs {
				r.hit(&b, "", h)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *SearchCLIRenderer) section(b *strings.Builder, icon, title string, n int) {
	b.WriteString(fmt.Sprintf("\n%s %s %s\n",
		r.theme.Highlight.Render(icon), r.theme.Subtitle.Render(title), r.theme.CountBadge(n, "hit")))
}

func (r *SearchCLIRenderer) hit(b *strings.Builder, ref string, h entity.TabHit) {
	indent := "  "
	if ref == "" {
		indent = "      "
	} else {
		ref = r.theme.Subtle.Render(ref) + "  "
	}
	b.WriteString(fmt.Sprintf("%s%s%s  %s %s\n",
		indent,
		ref,
		r.theme.Normal.Render(truncate(h.Title, maxTitleWidth)),
		r.theme.Subtle.Render(h.URL),
		r.theme.Subtle.Render(fmt.Sprintf("(%.0f)", h.Score)),
	))
}

func (r *SearchCLIRenderer) RenderQuick(results []entity.QuickResult) string {
	if len(results) == 0 {
		return r.theme.Subtle.Render("No matches.")
	}
	var b strings.Builder
	for _, q := range results {
		action := r.theme.Badge.Render(string(q.Action))
		ref := fmt.Sprintf("%d", q.Tab.ID)
		switch q.Action {
		case entity.ActionRestoreTab:
			ref = string(q.Tab.UniqueID)
		case entity.ActionRestoreFromSession:
			ref = string(q.SessionID)
		}
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
			action,
			r.theme.Normal.Render(truncate(q.Tab.Title, maxTitleWidth)),
			r.theme.Subtle.Render(q.Tab.URL),
			r.theme.Subtle.Render(ref),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *SearchCLIRenderer) RenderSuggestions(items []entity.Suggestion) string {
	if len(items) == 0 {
		return r.theme.Subtle.Render("No suggestions.")
	}
	var b strings.Builder
	for _, s := range items {
		icon := IconClock
		if s.Type == entity.SuggestionSession {
			icon = IconSessionStack
		}
		b.WriteString(fmt.Sprintf("%s %s\n", r.theme.Highlight.Render(icon), s.Text))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *SearchCLIRenderer) RenderHistory(history []string) string {
	if len(history) == 0 {
		return r.theme.Subtle.Render("Search history is empty.")
	}
	var b strings.Builder
	for i, q := range history {
		b.WriteString(fmt.Sprintf("%s %s\n", r.theme.Subtle.Render(fmt.Sprintf("%3d", i+1)), q))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *SearchCLIRenderer) RenderHistoryCleared() string {
	return fmt.Sprintf("%s Search history cleared.", r.theme.SuccessStyle.Render(IconTrash))
}

func matchCount(n int) string {
	if n == 1 {
		return "1 match"
	}
	return fmt.Sprintf("%d matches", n)
}
