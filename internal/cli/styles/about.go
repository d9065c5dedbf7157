package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/omni/internal/domain/build"
)

// AboutInfo is what `omni about` prints next to the logo.
type AboutInfo struct {
	Build build.Info

	DatabasePath   string
	SyncedPath     string
	ControlURL     string
	PlaceholderURL string
}

type aboutRow struct {
	icon  string
	key   string
	value string
}

// AboutRenderer renders build info and storage locations beside the omni mark.
type AboutRenderer struct {
	theme *Theme
}

// NewAboutRenderer creates a new about renderer with the given theme.
func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

// Render lays out the mark on the left and two blocks of rows on the right.
func (r *AboutRenderer) Render(info AboutInfo) string {
	buildRows := []aboutRow{
		{IconVersion, "Version", info.Build.Version},
		{IconGitBranch, "Commit", info.Build.Commit},
		{IconCalendar, "Built", info.Build.BuildDate},
		{IconGo, "Go", info.Build.GoVersion},
	}
	runtimeRows := []aboutRow{
		{IconDatabase, "Local", info.DatabasePath},
		{IconCloud, "Synced", info.SyncedPath},
		{IconGlobe, "Browser", orDefault(info.ControlURL, "launch on demand")},
		{IconPause, "Page", info.PlaceholderURL},
	}

	body := strings.Join([]string{
		r.rows(buildRows),
		r.rows(runtimeRows),
		r.footer(),
	}, "\n\n")

	mark := lipgloss.NewStyle().
		Foreground(r.theme.Accent).
		Bold(true).
		MarginTop(1).
		MarginLeft(2).
		Render(omniMark)

	return lipgloss.JoinHorizontal(lipgloss.Top, mark, "   ", body)
}

const omniMark = ` ▄████▄
██    ██
██ ▐▌ ██
██    ██
 ▀████▀`

func (r *AboutRenderer) rows(rows []aboutRow) string {
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row.key))
	}
	icon := lipgloss.NewStyle().Foreground(r.theme.Accent)
	key := r.theme.Subtle.Width(width)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		lines = append(lines, icon.Render(row.icon)+" "+key.Render(row.key)+"  "+r.theme.Highlight.Render(row.value))
	}
	return strings.Join(lines, "\n")
}

func (r *AboutRenderer) footer() string {
	icon := lipgloss.NewStyle().Foreground(r.theme.Accent)
	return icon.Render(IconGithub) + " " + r.theme.Subtle.Render(build.RepoURL()) + "\n" +
		icon.Render(IconHeart) + " " + r.theme.Subtle.Render("by "+strings.Join(build.Contributors(), ", "))
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
