package styles_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/entity"
)

func testSession(id, name string, tabs int, accessed time.Time) entity.Session {
	var snaps []entity.TabSnapshot
	for i := 0; i < tabs; i++ {
		snaps = append(snaps, entity.TabSnapshot{URL: "https://example.com", WindowID: 1, Index: i})
	}
	s := entity.NewSession(entity.SessionID(id), name, []entity.WindowGroup{{WindowID: 1, Tabs: snaps}}, accessed)
	return s
}

func TestSessionsCLIRenderer(t *testing.T) {
	r := styles.NewSessionsCLIRenderer(styles.NewTheme())

	out := r.RenderEmptyList()
	require.Contains(t, out, "No saved sessions found.")

	now := time.Now().UTC()
	items := []entity.Session{
		testSession("session_01j0abcd", "Research", 3, now.Add(-2*time.Hour)),
		testSession("session_01j0efgh", "Shopping", 1, now),
	}
	out = r.RenderList(items, 20)
	require.Contains(t, out, "Sessions")
	require.Contains(t, out, "session_01j0abcd")
	require.Contains(t, out, "Research")
	require.Contains(t, out, "3 tabs")
	require.Contains(t, out, "1 tab")
	require.Contains(t, out, "1 window")
	require.Contains(t, out, "2h ago")
	require.NotContains(t, out, "showing")

	limited := r.RenderList(items, 1)
	assert.Contains(t, limited, "showing 1 of 2")
	assert.NotContains(t, limited, "Shopping")

	errOut := r.RenderError(errors.New("boom"))
	require.Contains(t, errOut, "boom")
}

func TestSessionsCLIRenderer_Outcomes(t *testing.T) {
	r := styles.NewSessionsCLIRenderer(styles.NewTheme())
	s := testSession("session_01j0abcd", "Research", 2, time.Now())

	saved := r.RenderSaved(&usecase.SaveSessionOutput{Session: s, Skipped: 1})
	assert.Contains(t, saved, "Saved")
	assert.Contains(t, saved, "2 tabs")
	assert.Contains(t, saved, "skipped 1")

	restored := r.RenderRestored(&usecase.RestoreSessionOutput{Session: s, WindowIDs: []int{4}, TabsOpened: 2, TabsFailed: 1})
	assert.Contains(t, restored, "2 tabs in 1 window")
	assert.Contains(t, restored, "1 failed")

	converted := r.RenderConverted(&usecase.ConvertAllTabsOutput{Session: s, Closed: 2})
	assert.Contains(t, converted, "closed 2 tabs")
	assert.NotContains(t, converted, "could not be closed")

	assert.Contains(t, r.RenderDeleted("session_01j0abcd", 0), "0 sessions left")
	assert.Contains(t, r.RenderExported(3, "/tmp/out.json"), "/tmp/out.json")
	assert.Contains(t, r.RenderImported(usecase.ImportResult{Imported: 2, Total: 5, Merged: true}), "merged")
	assert.Contains(t, r.RenderImported(usecase.ImportResult{Imported: 1, Total: 1}), "replaced")
	assert.Contains(t, r.RenderRecovery(usecase.RecoveryResult{}), "Nothing to recover")
	assert.Contains(t, r.RenderRecovery(usecase.RecoveryResult{Recovered: true, Count: 4}), "4 sessions")
	assert.Contains(t, r.RenderMirrorCleaned(entity.MirrorCleanResult{Reason: "not found"}), "not found")
	assert.Contains(t, r.RenderMirrorCleaned(entity.MirrorCleanResult{Deleted: true}), "removed")
}

func TestSessionsCLIRenderer_Stats(t *testing.T) {
	r := styles.NewSessionsCLIRenderer(styles.NewTheme())

	out := r.RenderStats(usecase.StoreStats{
		LocalSessions:  20,
		SyncedSessions: 15,
		LocalBytes:     40960,
		SyncedBytes:    51200,
		SyncedQuota:    102400,
		MirrorEnabled:  true,
	})
	assert.Contains(t, out, "20 sessions")
	assert.Contains(t, out, "51200 / 102400 bytes (50.0%)")
	assert.Contains(t, out, "on")

	empty := r.RenderStats(usecase.StoreStats{})
	assert.Contains(t, empty, "(0.0%)")
	assert.Contains(t, empty, "off")
}
