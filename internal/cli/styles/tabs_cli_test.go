package styles_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
)

func TestTabsCLIRenderer_OpenTabs(t *testing.T) {
	r := styles.NewTabsCLIRenderer(styles.NewTheme())

	assert.Contains(t, r.RenderOpenTabs(nil), "No open tabs.")

	out := r.RenderOpenTabs([]entity.BrowserTab{
		{ID: 11, WindowID: 1, URL: "https://go.dev", Title: "Go", Pinned: true},
		{ID: 12, WindowID: 1, URL: "https://pkg.go.dev", Title: "Packages"},
		{ID: 21, WindowID: 2, URL: "https://example.com", Title: strings.Repeat("x", 80)},
	})
	assert.Contains(t, out, "Window 1")
	assert.Contains(t, out, "Window 2")
	assert.Contains(t, out, "https://pkg.go.dev")
	assert.Contains(t, out, styles.IconPin)
	assert.Contains(t, out, strings.Repeat("x", 59)+"…")
	assert.NotContains(t, out, strings.Repeat("x", 61))
}

func TestTabsCLIRenderer_Suspension(t *testing.T) {
	r := styles.NewTabsCLIRenderer(styles.NewTheme())
	rec := entity.SuspendedTab{
		UniqueID:    "3f1c9a2e-7b44-4d2e-9a51-0c6f2f5d8e11",
		URL:         "https://news.example",
		Title:       "News",
		SuspendedAt: entity.NewTimestamp(time.Now().Add(-3 * 24 * time.Hour)),
	}

	assert.Contains(t, r.RenderSuspendedList(nil), "No suspended tabs.")
	list := r.RenderSuspendedList([]entity.SuspendedTab{rec})
	assert.Contains(t, list, string(rec.UniqueID))
	assert.Contains(t, list, "3d ago")

	assert.Contains(t, r.RenderSuspended(rec), string(rec.UniqueID))
	assert.Contains(t, r.RenderRestored(usecase.RestoredTab{Record: rec}), "in place")
	assert.Contains(t, r.RenderRestored(usecase.RestoredTab{Record: rec, Reopened: true}), "in a new tab")

	assert.Contains(t, r.RenderSwept(0), "No orphaned records.")
	assert.Contains(t, r.RenderSwept(2), "2 orphaned records")
	assert.Contains(t, r.RenderReconciled(usecase.ReconcileResult{Rebound: 1, Dropped: 3}), "1 rebound, 3 dropped")
	assert.Contains(t, r.RenderError(errors.New("denied")), "denied")
}
