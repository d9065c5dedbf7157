package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
)

func TestSearchCLIRenderer_Results(t *testing.T) {
	r := styles.NewSearchCLIRenderer(styles.NewTheme())

	none := entity.EmptySearchResults()
	none.Query = "zig"
	assert.Contains(t, r.RenderResults(none), `No matches for "zig".`)

	res := entity.SearchResults{
		Query:         "go",
		OpenTabs:      []entity.TabHit{{ID: 7, URL: "https://go.dev", Title: "Go", Score: 120}},
		SuspendedTabs: []entity.TabHit{{UniqueID: "u-1", URL: "https://go.dev/blog", Title: "Blog", Score: 80}},
		Sessions: []entity.SessionHit{{
			SessionID:    "s1",
			SessionName:  "Go reading",
			NameMatch:    true,
			Tabs:         []entity.TabHit{{URL: "https://go.dev/ref/spec", Title: "Spec", Score: 90}},
			TotalMatches: 1,
		}},
		Total: 3,
	}
	out := r.RenderResults(res)
	assert.Contains(t, out, "3 matches")
	assert.Contains(t, out, "Open tabs")
	assert.Contains(t, out, "Suspended")
	assert.Contains(t, out, "u-1")
	assert.Contains(t, out, "Go reading")
	assert.Contains(t, out, "https://go.dev/ref/spec")
	assert.Contains(t, out, "(120)")

	res.Total = 1
	assert.Contains(t, r.RenderResults(res), "1 match")
}

func TestSearchCLIRenderer_QuickAndSuggestions(t *testing.T) {
	r := styles.NewSearchCLIRenderer(styles.NewTheme())

	assert.Contains(t, r.RenderQuick(nil), "No matches.")
	quick := r.RenderQuick([]entity.QuickResult{
		{Action: entity.ActionSwitchToTab, Tab: entity.TabHit{ID: 4, Title: "Go"}},
		{Action: entity.ActionRestoreTab, Tab: entity.TabHit{UniqueID: "u-9", Title: "Blog"}},
		{Action: entity.ActionRestoreFromSession, Tab: entity.TabHit{Title: "Spec"}, SessionID: "s1"},
	})
	assert.Contains(t, quick, "switch-to-tab")
	assert.Contains(t, quick, "u-9")
	assert.Contains(t, quick, "s1")

	assert.Contains(t, r.RenderSuggestions(nil), "No suggestions.")
	sugg := r.RenderSuggestions([]entity.Suggestion{
		{Type: entity.SuggestionRecentSearch, Text: "golang"},
		{Type: entity.SuggestionSession, Text: "Go reading", SessionID: "s1"},
	})
	assert.Contains(t, sugg, styles.IconClock+" golang")
	assert.Contains(t, sugg, styles.IconSessionStack+" Go reading")

	assert.Contains(t, r.RenderHistory(nil), "empty")
	assert.Contains(t, r.RenderHistory([]string{"zig", "go"}), "  2 go")
	assert.Contains(t, r.RenderHistoryCleared(), "cleared")
}
