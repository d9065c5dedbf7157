package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
)

// SessionsCLIRenderer renders non-interactive CLI output for sessions subcommands
// (e.g. `omni sessions list`, `save`, `restore`, `delete`).
type SessionsCLIRenderer struct {
	theme *Theme
}

func NewSessionsCLIRenderer(theme *Theme) *SessionsCLIRenderer {
	return &SessionsCLIRenderer{theme: theme}
}

func (r *SessionsCLIRenderer) RenderEmptyList() string {
	return r.theme.Subtle.Render("No saved sessions found.")
}

func (r *SessionsCLIRenderer) RenderList(items []entity.Session, limit int) string {
	if len(items) == 0 {
		return r.RenderEmptyList()
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconSessionStack), r.theme.Title.Render("Sessions"))
	b.WriteString(title)
	if limit > 0 && len(items) > limit {
		b.WriteString(r.theme.Subtle.Render(fmt.Sprintf(" (showing %d of %d)", limit, len(items))))
		items = items[:limit]
	}
	b.WriteString("\n\n")

	for _, s := range items {
		b.WriteString(r.renderOne(s))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.theme.Subtle.Render("Tip: `omni sessions restore <id>` reopens a session; a unique id suffix is enough."))
	return b.String()
}

func (r *SessionsCLIRenderer) renderOne(s entity.Session) string {
	name := r.theme.Title.Render(s.Name)
	id := r.theme.Subtle.Render(string(s.ID))
	tabs := r.theme.CountBadge(s.TabCount, "tab")
	windows := r.theme.CountBadge(s.WindowCount, "window")
	accessed := r.theme.Subtle.Render(RelativeTime(s.LastAccessed.Time))

	return fmt.Sprintf("%s %s  %s  %s %s  %s",
		r.theme.Highlight.Render(IconSession),
		name,
		id,
		tabs,
		windows,
		accessed,
	)
}

func (r *SessionsCLIRenderer) RenderSaved(out *usecase.SaveSessionOutput) string {
	line := fmt.Sprintf("%s Saved %s as %s (%s, %s)",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Highlight.Render(out.Session.Name),
		r.theme.Subtle.Render(string(out.Session.ID)),
		Plural(out.Session.TabCount, "tab"),
		Plural(out.Session.WindowCount, "window"),
	)
	if out.Skipped > 0 {
		line += r.theme.Subtle.Render(fmt.Sprintf(", skipped %d", out.Skipped))
	}
	return line
}

func (r *SessionsCLIRenderer) RenderRestored(out *usecase.RestoreSessionOutput) string {
	line := fmt.Sprintf("%s Restored %s: %s in %s",
		r.theme.SuccessStyle.Render(IconRestore),
		r.theme.Highlight.Render(out.Session.Name),
		Plural(out.TabsOpened, "tab"),
		Plural(len(out.WindowIDs), "window"),
	)
	if out.TabsFailed > 0 {
		line += " " + r.theme.WarningStyle.Render(fmt.Sprintf("(%d failed)", out.TabsFailed))
	}
	return line
}

func (r *SessionsCLIRenderer) RenderConverted(out *usecase.ConvertAllTabsOutput) string {
	line := fmt.Sprintf("%s Saved %s to %s and closed %s",
		r.theme.SuccessStyle.Render(IconCheck),
		Plural(out.Session.TabCount, "tab"),
		r.theme.Highlight.Render(out.Session.Name),
		Plural(out.Closed, "tab"),
	)
	if out.Failed > 0 {
		line += " " + r.theme.WarningStyle.Render(fmt.Sprintf("(%d could not be closed)", out.Failed))
	}
	return line
}

func (r *SessionsCLIRenderer) RenderDeleted(sessionID entity.SessionID, remaining int) string {
	return fmt.Sprintf("%s Session %s deleted, %s left.",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.Highlight.Render(string(sessionID)),
		Plural(remaining, "session"),
	)
}

func (r *SessionsCLIRenderer) RenderExported(count int, path string) string {
	return fmt.Sprintf("%s Exported %s to %s",
		r.theme.SuccessStyle.Render(IconExport),
		Plural(count, "session"),
		r.theme.Highlight.Render(path),
	)
}

func (r *SessionsCLIRenderer) RenderImported(res usecase.ImportResult) string {
	mode := "replaced"
	if res.Merged {
		mode = "merged"
	}
	return fmt.Sprintf("%s Imported %s (%s, %d stored)",
		r.theme.SuccessStyle.Render(IconImport),
		Plural(res.Imported, "session"),
		mode,
		res.Total,
	)
}

func (r *SessionsCLIRenderer) RenderRecovery(res usecase.RecoveryResult) string {
	if !res.Recovered {
		return fmt.Sprintf("%s Nothing to recover: sessions exist or the bookmark backup is empty.",
			r.theme.Subtle.Render(IconInfo))
	}
	return fmt.Sprintf("%s Recovered %s from the bookmark backup",
		r.theme.SuccessStyle.Render(IconBookmark),
		Plural(res.Count, "session"),
	)
}

func (r *SessionsCLIRenderer) RenderMirrorCleaned(res entity.MirrorCleanResult) string {
	if !res.Deleted {
		return fmt.Sprintf("%s Bookmark backup not removed: %s",
			r.theme.Subtle.Render(IconInfo), res.Reason)
	}
	return fmt.Sprintf("%s Bookmark backup removed", r.theme.SuccessStyle.Render(IconTrash))
}

func (r *SessionsCLIRenderer) RenderStats(stats usecase.StoreStats) string {
	key := r.theme.Subtle
	val := r.theme.Highlight

	usage := 0.0
	if stats.SyncedQuota > 0 {
		usage = float64(stats.SyncedBytes) / float64(stats.SyncedQuota) * 100
	}
	usageStyle := val
	if usage >= 80 {
		usageStyle = r.theme.WarningStyle
	}
	mirror := "off"
	if stats.MirrorEnabled {
		mirror = "on"
	}

	lines := []string{
		fmt.Sprintf("%s %s", r.theme.Highlight.Render(IconSessionStack), r.theme.Title.Render("Session storage")),
		"",
		fmt.Sprintf("  %s %s %s  %s",
			r.theme.Highlight.Render(IconDatabase), key.Render("Local "),
			val.Render(Plural(stats.LocalSessions, "session")), key.Render(fmt.Sprintf("%d bytes", stats.LocalBytes))),
		fmt.Sprintf("  %s %s %s  %s",
			r.theme.Highlight.Render(IconCloud), key.Render("Synced"),
			val.Render(Plural(stats.SyncedSessions, "session")),
			usageStyle.Render(fmt.Sprintf("%d / %d bytes (%.1f%%)", stats.SyncedBytes, stats.SyncedQuota, usage))),
		fmt.Sprintf("  %s %s %s",
			r.theme.Highlight.Render(IconBookmark), key.Render("Mirror"), val.Render(mirror)),
	}
	return strings.Join(lines, "\n")
}

func (r *SessionsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}
