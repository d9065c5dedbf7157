package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
)

const maxTitleWidth = 60

// TabsCLIRenderer renders output for the tabs subcommands.
type TabsCLIRenderer struct {
	theme *Theme
}

func NewTabsCLIRenderer(theme *Theme) *TabsCLIRenderer {
	return &TabsCLIRenderer{theme: theme}
}

func (r *TabsCLIRenderer) RenderOpenTabs(tabs []entity.BrowserTab) string {
	if len(tabs) == 0 {
		return r.theme.Subtle.Render("No open tabs.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n\n", r.theme.Highlight.Render(IconTab), r.theme.Title.Render("Open tabs")))
	window := -1
	for _, t := range tabs {
		if t.WindowID != window {
			window = t.WindowID
			b.WriteString(r.theme.Subtitle.Render(fmt.Sprintf("Window %d", window)))
			b.WriteString("\n")
		}
		marker := " "
		if t.Pinned {
			marker = IconPin
		}
		title := truncate(t.Title, maxTitleWidth)
		if t.Active {
			title = r.theme.Highlight.Render(title)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			r.theme.Subtle.Render(fmt.Sprintf("%6d", t.ID)),
			marker,
			title,
			r.theme.Subtle.Render(t.URL),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TabsCLIRenderer) RenderSuspendedList(recs []entity.SuspendedTab) string {
	if len(recs) == 0 {
		return r.theme.Subtle.Render("No suspended tabs.")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n\n", r.theme.Highlight.Render(IconPause), r.theme.Title.Render("Suspended tabs")))
	for _, rec := range recs {
		b.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
			r.theme.Subtle.Render(string(rec.UniqueID)),
			r.theme.Normal.Render(truncate(rec.Title, maxTitleWidth)),
			r.theme.Subtle.Render(rec.URL),
			r.theme.TimeBadge(rec.SuspendedAt.Time),
		))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TabsCLIRenderer) RenderSuspended(rec entity.SuspendedTab) string {
	return fmt.Sprintf("%s Suspended %s as %s",
		r.theme.SuccessStyle.Render(IconPause),
		r.theme.Highlight.Render(truncate(rec.Title, maxTitleWidth)),
		r.theme.Subtle.Render(string(rec.UniqueID)),
	)
}

func (r *TabsCLIRenderer) RenderRestored(res usecase.RestoredTab) string {
	how := "in place"
	if res.Reopened {
		how = "in a new tab"
	}
	return fmt.Sprintf("%s Restored %s %s",
		r.theme.SuccessStyle.Render(IconRestore),
		r.theme.Highlight.Render(res.Record.URL),
		how,
	)
}

func (r *TabsCLIRenderer) RenderSwept(n int) string {
	if n == 0 {
		return fmt.Sprintf("%s No orphaned records.", r.theme.Subtle.Render(IconBroom))
	}
	return fmt.Sprintf("%s Removed %s", r.theme.SuccessStyle.Render(IconBroom), Plural(n, "orphaned record"))
}

func (r *TabsCLIRenderer) RenderReconciled(res usecase.ReconcileResult) string {
	return fmt.Sprintf("%s Reconciled: %d rebound, %d dropped",
		r.theme.SuccessStyle.Render(IconCheck), res.Rebound, res.Dropped)
}

func (r *TabsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
