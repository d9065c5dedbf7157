package usecase_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/domain/repository/mocks"
	"github.com/bnema/omni/internal/domain/syncpolicy"
	"github.com/bnema/omni/internal/infrastructure/persistence/memkv"
	"github.com/bnema/omni/internal/logging/logtest"
)

func newTestStore(local, synced repository.KeyValueStore, opts ...usecase.SessionStoreOption) *usecase.SessionStore {
	cfg := usecase.DefaultSessionStoreConfig()
	cfg.MirrorDefault = false
	opts = append([]usecase.SessionStoreOption{usecase.WithStoreClock(fixedClock(baseTime))}, opts...)
	return usecase.NewSessionStore(local, synced, cfg, opts...)
}

func TestSessionStore_AddRecomputesCounts(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	work := makeSession("session_work", "Work",
		window(1, tab(1, 0, "a", "https://a.example"), tab(1, 1, "b", "https://b.example"), tab(1, 2, "c", "https://c.example")),
		window(2, tab(2, 0, "d", "https://d.example")),
	)
	work.TabCount = 99
	work.WindowCount = 7

	saved, err := store.Add(ctx, work)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.TabCount)
	assert.Equal(t, 2, saved.WindowCount)
	assert.Len(t, saved.Tabs, 4)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 4, listed[0].TabCount)
	assert.Equal(t, 2, listed[0].WindowCount)
}

func TestSessionStore_AddFillsDefaults(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	saved, err := store.Add(ctx, entity.Session{Windows: []entity.WindowGroup{window(1, tab(1, 0, "a", "https://a.example"))}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(saved.ID), entity.SessionIDPrefix))
	assert.Equal(t, "Session", saved.Name)
	assert.Equal(t, baseTime.UnixMilli(), saved.Created.Millis())
	assert.Equal(t, saved.Created, saved.LastAccessed)
}

func TestSessionStore_AddRemoveSequence(t *testing.T) {
	ctx := testContext()
	local, synced := memkv.New(), memkv.New()
	store := newTestStore(local, synced)

	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		_, err := store.Add(ctx, makeSession(id, id, window(1, tab(1, 0, id, "https://"+id+".example"))))
		require.NoError(t, err)
	}
	_, err := store.Remove(ctx, "s2")
	require.NoError(t, err)
	remaining, err := store.Remove(ctx, "s4")
	require.NoError(t, err)

	want := []entity.SessionID{"s3", "s1"}
	assert.Equal(t, want, sessionIDs(remaining))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, sessionIDs(listed))
	assert.Equal(t, want, sessionIDs(readSessions(ctx, local, repository.KeySessionsBackup)))
	assert.Equal(t, want, sessionIDs(readSessions(ctx, synced, repository.KeySessions)))
}

func TestSessionStore_ConcurrentAddsAreSerialized(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%02d", i)
			_, err := store.Add(ctx, makeSession(id, id, window(1, tab(1, 0, id, "https://example.com/"+id))))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, n)
}

func TestSessionStore_LocalCapacity(t *testing.T) {
	ctx := testContext()
	cfg := usecase.DefaultSessionStoreConfig()
	cfg.MaxSessionsLocal = 3
	cfg.MirrorDefault = false
	store := usecase.NewSessionStore(memkv.New(), memkv.New(), cfg)

	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("s%d", i)
		_, err := store.Add(ctx, makeSession(id, id, window(1, tab(1, 0, id, "https://example.com"))))
		require.NoError(t, err)
	}

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.SessionID{"s5", "s4", "s3"}, sessionIDs(listed))
}

func TestSessionStore_SyncedTierSkippedWhenTooLarge(t *testing.T) {
	ctx, rec := logtest.Context()
	local, synced := memkv.New(), memkv.New()

	cfg := usecase.DefaultSessionStoreConfig()
	cfg.MirrorDefault = false
	cfg.Limits.QuotaBytes = 1024
	cfg.Limits.ItemQuotaBytes = 0
	store := usecase.NewSessionStore(local, synced, cfg)

	var tabs []entity.TabSnapshot
	for i := 0; i < 8; i++ {
		tabs = append(tabs, tab(1, i, "title", fmt.Sprintf("https://example.com/%s/%d", strings.Repeat("x", 100), i)))
	}
	_, err := store.Add(ctx, makeSession("big", "Big", window(1, tabs...)))
	require.NoError(t, err)

	assert.Len(t, readSessions(ctx, local, repository.KeySessionsBackup), 1)
	assert.Empty(t, readSessions(ctx, synced, repository.KeySessions))
	assert.True(t, rec.Has("synced_tier_skipped"))
	assert.False(t, rec.Has("synced_tier_written"))
	assert.Equal(t, usecase.StateIdle, store.State())
}

func TestSessionStore_SyncedTierProjection(t *testing.T) {
	ctx := testContext()
	local, synced := memkv.New(), memkv.New()
	store := newTestStore(local, synced)

	var tabs []entity.TabSnapshot
	for i := 0; i < 12; i++ {
		tb := tab(1, i, strings.Repeat("t", 80), fmt.Sprintf("https://e.example/%d", i))
		tb.FaviconURL = "data:image/png;base64,AAAA"
		tabs = append(tabs, tb)
	}
	_, err := store.Add(ctx, makeSession("s1", "Long", window(1, tabs...)))
	require.NoError(t, err)

	stored := readSessions(ctx, synced, repository.KeySessions)
	require.Len(t, stored, 1)
	assert.Equal(t, 8, stored[0].TabCount)
	for _, tb := range stored[0].Tabs {
		assert.Len(t, tb.Title, 60)
		assert.True(t, strings.HasSuffix(tb.Title, syncpolicy.Ellipsis))
		assert.Empty(t, tb.FaviconURL)
	}

	full := readSessions(ctx, local, repository.KeySessionsBackup)
	require.Len(t, full, 1)
	assert.Equal(t, 12, full[0].TabCount)
}

func TestSessionStore_SyncedFailureIsNotFatal(t *testing.T) {
	ctx, rec := logtest.Context()
	synced := newFaultyKV()
	synced.setFailure(alwaysFail(errors.New("sync quota exceeded")))
	store := newTestStore(memkv.New(), synced)

	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)

	assert.True(t, rec.Has("synced_tier_write_failed"))
	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestSessionStore_LocalFailureIsFatal(t *testing.T) {
	ctx := testContext()
	local, synced := newFaultyKV(), memkv.New()
	local.setFailure(alwaysFail(errors.New("disk full")))
	store := newTestStore(local, synced)

	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrLocalPersistence)

	assert.Empty(t, readSessions(ctx, synced, repository.KeySessions))
}

func TestSessionStore_RemoveUnknown(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	_, err := store.Remove(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSessionStore_ListPrefersLocalTier(t *testing.T) {
	ctx := testContext()
	local, synced := memkv.New(), memkv.New()

	put := func(kv repository.KeyValueStore, key string, sessions ...entity.Session) {
		data, err := json.Marshal(sessions)
		require.NoError(t, err)
		require.NoError(t, kv.Set(ctx, map[string]json.RawMessage{key: data}))
	}
	put(synced, repository.KeySessions, makeSession("remote", "Remote", window(1, tab(1, 0, "r", "https://r.example"))))

	store := newTestStore(local, synced)
	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.SessionID{"remote"}, sessionIDs(listed))

	put(local, repository.KeySessionsBackup, makeSession("mine", "Mine", window(1, tab(1, 0, "m", "https://m.example"))))
	listed, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.SessionID{"mine"}, sessionIDs(listed))
}

func TestSessionStore_ExportImportRoundTrip(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)
	_, err = store.Add(ctx, makeSession("s2", "Two",
		window(1, tab(1, 0, "b", "https://b.example")),
		window(2, tab(2, 0, "c", "https://c.example"), tab(2, 1, "d", "https://d.example")),
	))
	require.NoError(t, err)

	original, err := store.List(ctx)
	require.NoError(t, err)

	doc, err := store.ExportAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ExportFormatVersion, doc.Version)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	other := newTestStore(memkv.New(), memkv.New())
	_, err = other.Add(ctx, makeSession("stale", "Stale", window(1, tab(1, 0, "x", "https://x.example"))))
	require.NoError(t, err)

	result, err := other.ImportAll(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, usecase.ImportResult{Imported: 2, Total: 2, Merged: false}, result)

	imported, err := other.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, imported)
}

func TestSessionStore_ImportMergeSkipsKnownIDs(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())
	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)

	doc := entity.NewExportDocument([]entity.Session{
		makeSession("s1", "One again", window(1, tab(1, 0, "z", "https://z.example"))),
		makeSession("s9", "Nine", window(1, tab(1, 0, "n", "https://n.example"))),
	}, baseTime)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	result, err := store.ImportAll(ctx, data, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Total)
	assert.True(t, result.Merged)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.SessionID{"s1", "s9"}, sessionIDs(listed))
	assert.Equal(t, "One", listed[0].Name)
}

func TestSessionStore_ImportAssignsMissingIDs(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	var sessions []entity.Session
	for _, name := range []string{"One", "Two", "Three"} {
		sessions = append(sessions, makeSession("", name, window(1, tab(1, 0, name, "https://"+name+".example"))))
	}
	data, err := json.Marshal(entity.NewExportDocument(sessions, baseTime))
	require.NoError(t, err)

	result, err := store.ImportAll(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, usecase.ImportResult{Imported: 3, Total: 3, Merged: false}, result)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	seen := map[entity.SessionID]bool{}
	for _, session := range listed {
		assert.True(t, strings.HasPrefix(string(session.ID), entity.SessionIDPrefix), session.ID)
		seen[session.ID] = true
	}
	assert.Len(t, seen, 3)

	got, err := store.Get(ctx, listed[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Name)
}

func TestSessionStore_ImportCountsOnlyStoredSessions(t *testing.T) {
	ctx := testContext()
	cfg := usecase.DefaultSessionStoreConfig()
	cfg.MirrorDefault = false
	cfg.MaxSessionsLocal = 2
	store := usecase.NewSessionStore(memkv.New(), memkv.New(), cfg, usecase.WithStoreClock(fixedClock(baseTime)))

	doc := entity.NewExportDocument([]entity.Session{
		makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))),
		makeSession("s2", "Two", window(1, tab(1, 0, "b", "https://b.example"))),
		makeSession("s3", "Three", window(1, tab(1, 0, "c", "https://c.example"))),
		makeSession("s1", "One dup", window(1, tab(1, 0, "d", "https://d.example"))),
	}, baseTime)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	result, err := store.ImportAll(ctx, data, false)
	require.NoError(t, err)
	assert.Equal(t, usecase.ImportResult{Imported: 2, Total: 2, Merged: false}, result)
}

func TestSessionStore_ImportRejectsMalformed(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	cases := map[string]string{
		"missing version":  `{"sessions": []}`,
		"missing sessions": `{"version": "1.0.0"}`,
		"sessions object":  `{"version": "1.0.0", "sessions": {}}`,
		"not json":         `sessions`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := store.ImportAll(ctx, []byte(body), false)
			assert.ErrorIs(t, err, entity.ErrInvalidFormat)
		})
	}
}

func TestSessionStore_TouchAndGet(t *testing.T) {
	ctx := testContext()
	local := memkv.New()
	later := baseTime.Add(48 * time.Hour)

	store := newTestStore(local, memkv.New())
	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)

	store = newTestStore(local, memkv.New(), usecase.WithStoreClock(fixedClock(later)))
	touched, err := store.Touch(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, later.UnixMilli(), touched.LastAccessed.Millis())
	assert.Equal(t, baseTime.UnixMilli(), touched.Created.Millis())

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, touched.LastAccessed, got.LastAccessed)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = store.Touch(ctx, "nope")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSessionStore_InitMigratesLegacyKey(t *testing.T) {
	ctx, rec := logtest.Context()
	local, synced := memkv.New(), memkv.New()

	legacy := `[{"id":"old","name":"Old","created":1700000000000,"tabs":[` +
		`{"url":"https://a.example","title":"A","windowId":3},` +
		`{"url":"https://b.example","title":"B","windowId":4}]}]`
	require.NoError(t, local.Set(ctx, map[string]json.RawMessage{repository.KeySessions: json.RawMessage(legacy)}))

	store := newTestStore(local, synced)
	require.NoError(t, store.Init(ctx))

	raw, err := local.Get(ctx, repository.KeySessions)
	require.NoError(t, err)
	assert.NotContains(t, raw, repository.KeySessions)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 2, listed[0].WindowCount)
	assert.Equal(t, 2, listed[0].TabCount)
	assert.True(t, rec.Has("legacy_sessions_migrated"))
	assert.Len(t, readSessions(ctx, synced, repository.KeySessions), 1)
}

func TestSessionStore_InitRepairsSyncedTier(t *testing.T) {
	ctx, rec := logtest.Context()
	local, synced := memkv.New(), memkv.New()

	data, err := json.Marshal([]entity.Session{makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example")))})
	require.NoError(t, err)
	require.NoError(t, local.Set(ctx, map[string]json.RawMessage{repository.KeySessionsBackup: data}))

	store := newTestStore(local, synced)
	require.NoError(t, store.Init(ctx))

	assert.True(t, rec.Has("synced_tier_repaired"))
	assert.Equal(t, []entity.SessionID{"s1"}, sessionIDs(readSessions(ctx, synced, repository.KeySessions)))
}

func TestSessionStore_MirrorLayout(t *testing.T) {
	ctx := testContext()
	mirror := newMemMirror()
	store := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))
	require.NoError(t, store.SetMirrorEnabled(ctx, true))

	_, err := store.Add(ctx, makeSession("s1", "Single", window(1, tab(1, 0, "A", "https://a.example"), tab(1, 1, "", "https://b.example"))))
	require.NoError(t, err)
	_, err = store.Add(ctx, makeSession("s2", "Multi",
		window(1, tab(1, 0, "C", "https://c.example")),
		window(2, tab(2, 0, "D", "https://d.example"), tab(2, 1, "E", "https://e.example")),
	))
	require.NoError(t, err)

	root := entity.MirrorRootTitle
	backup := entity.MirrorBackupTitle
	assert.Equal(t, []string{backup}, mirror.titles(root))
	assert.Equal(t, []string{"Multi [s2]", "Single [s1]"}, mirror.titles(root, backup))
	assert.Equal(t, []string{"A", "https://b.example"}, mirror.titles(root, backup, "Single [s1]"))
	assert.Equal(t, []string{"Window 1 (1 tabs)", "Window 2 (2 tabs)"}, mirror.titles(root, backup, "Multi [s2]"))
	assert.Equal(t, []string{"D", "E"}, mirror.titles(root, backup, "Multi [s2]", "Window 2 (2 tabs)"))

	_, err = store.Remove(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Single [s1]"}, mirror.titles(root, backup))
}

func TestSessionStore_RecoverFromMirror(t *testing.T) {
	ctx, rec := logtest.Context()
	mirror := newMemMirror()

	source := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))
	require.NoError(t, source.SetMirrorEnabled(ctx, true))
	_, err := source.Add(ctx, makeSession("s1", "Single", window(1, tab(1, 0, "A", "https://a.example"))))
	require.NoError(t, err)
	_, err = source.Add(ctx, makeSession("s2", "Multi",
		window(1, tab(1, 0, "C", "https://c.example")),
		window(2, tab(2, 0, "D", "https://d.example"), tab(2, 1, "E", "https://e.example")),
	))
	require.NoError(t, err)

	// A folder added by hand, without an id suffix.
	children, err := mirror.ListChildren(ctx, "")
	require.NoError(t, err)
	backups, err := mirror.ListChildren(ctx, children[0].ID)
	require.NoError(t, err)
	manual, err := mirror.CreateFolder(ctx, backups[0].ID, "")
	require.NoError(t, err)
	_, err = mirror.CreateLeaf(ctx, manual.ID, "https://m.example", "M")
	require.NoError(t, err)

	local, synced := memkv.New(), memkv.New()
	store := newTestStore(local, synced, usecase.WithMirror(mirror))
	result, err := store.RecoverIfEmpty(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.RecoveryResult{Recovered: true, Count: 3}, result)
	assert.True(t, rec.Has("sessions_recovered"))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, entity.SessionID("s2"), listed[0].ID)
	assert.Equal(t, "Multi", listed[0].Name)
	assert.Equal(t, 2, listed[0].WindowCount)
	assert.Equal(t, 3, listed[0].TabCount)
	assert.Equal(t, entity.SessionID("s1"), listed[1].ID)
	assert.Equal(t, 1, listed[1].TabCount)
	assert.True(t, strings.HasPrefix(string(listed[2].ID), entity.SessionIDPrefix))
	assert.Equal(t, entity.RecoveredSessionName, listed[2].Name)

	assert.Len(t, readSessions(ctx, synced, repository.KeySessions), 3)

	again, err := store.RecoverIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, again.Recovered)
}

func TestSessionStore_InitRecoversWhenBothTiersEmpty(t *testing.T) {
	ctx := testContext()
	mirror := newMemMirror()

	source := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))
	require.NoError(t, source.SetMirrorEnabled(ctx, true))
	_, err := source.Add(ctx, makeSession("s1", "Single", window(1, tab(1, 0, "A", "https://a.example"))))
	require.NoError(t, err)

	store := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))
	require.NoError(t, store.Init(ctx))

	listed, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entity.SessionID{"s1"}, sessionIDs(listed))
}

func TestSessionStore_MirrorFailureIsNotFatal(t *testing.T) {
	ctx, rec := logtest.Context()
	ctrl := gomock.NewController(t)
	mirror := mocks.NewMockBookmarkMirror(ctrl)
	mirror.EXPECT().ListChildren(gomock.Any(), entity.BookmarkID("")).Return(nil, errors.New("bookmarks api gone")).AnyTimes()

	store := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))
	require.NoError(t, store.SetMirrorEnabled(ctx, true))

	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)
	assert.True(t, rec.Has("mirror_write_failed"))
}

func TestSessionStore_MirrorDisabledBySetting(t *testing.T) {
	ctx := testContext()
	ctrl := gomock.NewController(t)
	mirror := mocks.NewMockBookmarkMirror(ctrl)

	cfg := usecase.DefaultSessionStoreConfig()
	store := usecase.NewSessionStore(memkv.New(), memkv.New(), cfg, usecase.WithMirror(mirror))
	require.NoError(t, store.SetMirrorEnabled(ctx, false))

	_, err := store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.False(t, stats.MirrorEnabled)
	assert.Equal(t, 1, stats.LocalSessions)
	assert.Equal(t, 1, stats.SyncedSessions)
	assert.Positive(t, stats.LocalBytes)
	assert.Positive(t, stats.SyncedBytes)
}

func TestSessionStore_CleanMirror(t *testing.T) {
	ctx := testContext()

	unavailable := newTestStore(memkv.New(), memkv.New())
	res, err := unavailable.CleanMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.MirrorCleanResult{Reason: entity.CleanReasonMirrorUnavailable}, res)

	mirror := newMemMirror()
	store := newTestStore(memkv.New(), memkv.New(), usecase.WithMirror(mirror))

	res, err = store.CleanMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.CleanReasonRootNotFound, res.Reason)

	_, err = mirror.CreateFolder(ctx, "", entity.MirrorRootTitle)
	require.NoError(t, err)
	res, err = store.CleanMirror(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.CleanReasonBackupNotFound, res.Reason)

	require.NoError(t, store.SetMirrorEnabled(ctx, true))
	_, err = store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	require.NoError(t, err)

	res, err = store.CleanMirror(ctx)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Empty(t, mirror.titles(entity.MirrorRootTitle))
}

func TestSessionStore_Dispose(t *testing.T) {
	ctx := testContext()
	store := newTestStore(memkv.New(), memkv.New())

	require.NoError(t, store.Dispose(ctx))
	require.NoError(t, store.Dispose(ctx))

	_, err := store.List(ctx)
	assert.ErrorIs(t, err, usecase.ErrStoreClosed)
	_, err = store.Add(ctx, makeSession("s1", "One", window(1, tab(1, 0, "a", "https://a.example"))))
	assert.ErrorIs(t, err, usecase.ErrStoreClosed)
}
