package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/logging"
)

const (
	defaultBrowserTimeout = 5 * time.Second
	restoreCommitAttempts = 3
)

// RestoredTab is the live tab showing the original URL again.
type RestoredTab struct {
	Tab      entity.BrowserTab   `json:"tab"`
	Record   entity.SuspendedTab `json:"record"`
	Reopened bool                `json:"reopened"` // no placeholder was live, a new tab was opened
}

// ReconcileResult reports what Reconcile changed.
type ReconcileResult struct {
	Rebound int `json:"rebound"`
	Dropped int `json:"dropped"`
}

// SuspensionTracker maps uniqueIds to the pre-suspension state of tabs and keeps
// that map consistent with the live tab set and the local tier.
type SuspensionTracker struct {
	tabs        port.TabController
	store       repository.KeyValueStore
	deny        *url.DenyList
	placeholder url.Placeholder
	newID       port.IDGenerator
	now         port.Clock
	timeout     time.Duration
	events      port.EventPublisher
	metrics     port.Recorder

	mu      sync.RWMutex
	records map[entity.UniqueID]entity.SuspendedTab
	byTab   map[entity.BrowserTabID]entity.UniqueID

	persistMu sync.Mutex
	locks     *idLocks
}

// SuspensionTrackerOption customizes a SuspensionTracker.
type SuspensionTrackerOption func(*SuspensionTracker)

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(gen port.IDGenerator) SuspensionTrackerOption {
	return func(t *SuspensionTracker) { t.newID = gen }
}

// WithTrackerClock overrides time.Now.
func WithTrackerClock(now port.Clock) SuspensionTrackerOption {
	return func(t *SuspensionTracker) { t.now = now }
}

// WithBrowserTimeout bounds every call to the tab control surface.
func WithBrowserTimeout(d time.Duration) SuspensionTrackerOption {
	return func(t *SuspensionTracker) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithTrackerEvents sets the state-changed publisher.
func WithTrackerEvents(events port.EventPublisher) SuspensionTrackerOption {
	return func(t *SuspensionTracker) { t.events = events }
}

// WithTrackerMetrics sets the metrics recorder.
func WithTrackerMetrics(metrics port.Recorder) SuspensionTrackerOption {
	return func(t *SuspensionTracker) { t.metrics = metrics }
}

// NewSuspensionTracker creates a tracker. Call Init before use.
func NewSuspensionTracker(
	tabs port.TabController,
	store repository.KeyValueStore,
	deny *url.DenyList,
	placeholder url.Placeholder,
	opts ...SuspensionTrackerOption,
) *SuspensionTracker {
	t := &SuspensionTracker{
		tabs:        tabs,
		store:       store,
		deny:        deny,
		placeholder: placeholder,
		newID:       uuid.NewString,
		now:         time.Now,
		timeout:     defaultBrowserTimeout,
		events:      port.NopPublisher{},
		metrics:     port.NopRecorder{},
		records:     make(map[entity.UniqueID]entity.SuspendedTab),
		byTab:       make(map[entity.BrowserTabID]entity.UniqueID),
		locks:       newIDLocks(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init loads persisted records. Legacy records without a uniqueId get a fresh one
// and the migrated list is written back.
func (t *SuspensionTracker) Init(ctx context.Context) error {
	if err := t.reload(ctx); err != nil {
		return err
	}
	t.mu.RLock()
	count := len(t.records)
	t.mu.RUnlock()
	logging.FromContext(ctx).Debug().Str(logging.FieldEvent, "tracker_loaded").Int("count", count).
		Msg("suspended tabs loaded")
	return nil
}

// reload replaces the in-memory records with the persisted list. Another omni
// process may have written since the last load.
func (t *SuspensionTracker) reload(ctx context.Context) error {
	t.persistMu.Lock()
	defer t.persistMu.Unlock()

	raw, err := t.store.Get(ctx, repository.KeySuspendedTabs)
	if err != nil {
		return fmt.Errorf("%w: read suspended tabs: %v", entity.ErrLocalPersistence, err)
	}
	loaded, err := entity.DecodeSuspendedTabs(raw[repository.KeySuspendedTabs])
	if err != nil {
		return err
	}
	for _, rec := range loaded {
		if rec.UniqueID == "" {
			_, err := t.commitLocked(ctx, trackerDelta{})
			return err
		}
	}
	t.replace(loaded)
	return nil
}

// Dispose drops the in-memory state. Persisted records are kept.
func (t *SuspensionTracker) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[entity.UniqueID]entity.SuspendedTab)
	t.byTab = make(map[entity.BrowserTabID]entity.UniqueID)
}

// Suspend replaces a tab with the placeholder page and records its state.
func (t *SuspensionTracker) Suspend(ctx context.Context, tabID entity.BrowserTabID) (entity.SuspendedTab, error) {
	log := logging.FromContext(ctx)

	tab, err := callWithTimeout(ctx, t.timeout, func(ctx context.Context) (entity.BrowserTab, error) {
		return t.tabs.GetTab(ctx, tabID)
	})
	if err != nil {
		return entity.SuspendedTab{}, fmt.Errorf("get tab %d: %w", tabID, err)
	}
	if t.deny.Denied(tab.URL) || t.placeholder.Matches(tab.URL) {
		log.Debug().Str(logging.FieldEvent, "suspend_rejected").Int("tab_id", int(tabID)).Str("url", tab.URL).
			Msg("tab not suspendable")
		return entity.SuspendedTab{}, fmt.Errorf("tab %d (%s): %w", tabID, tab.URL, entity.ErrNotSuspendable)
	}
	rec := entity.SuspendedTab{
		UniqueID:     entity.UniqueID(t.newID()),
		BrowserTabID: tab.ID,
		URL:          tab.URL,
		Title:        tab.Title,
		FaviconURL:   tab.FaviconURL,
		WindowID:     tab.WindowID,
		Index:        tab.Index,
		SuspendedAt:  entity.NewTimestamp(t.now()),
	}
	ctx = logging.WithUniqueID(ctx, string(rec.UniqueID))
	log = logging.FromContext(ctx)

	release, err := t.locks.lock(ctx, rec.UniqueID)
	if err != nil {
		return entity.SuspendedTab{}, err
	}
	defer release()

	if _, err := t.commit(ctx, trackerDelta{put: []entity.SuspendedTab{rec}}); err != nil {
		return entity.SuspendedTab{}, err
	}

	_, err = callWithTimeout(ctx, t.timeout, func(ctx context.Context) (entity.BrowserTab, error) {
		return t.tabs.UpdateTab(ctx, tab.ID, entity.UpdateTabOptions{URL: t.placeholder.URL(string(rec.UniqueID))})
	})
	if err != nil {
		// Navigation never happened: the record must not outlive this call.
		_, rbErr := t.commit(context.WithoutCancel(ctx), trackerDelta{drop: []entity.UniqueID{rec.UniqueID}})
		if rbErr != nil {
			log.Error().Err(rbErr).Str(logging.FieldEvent, "suspend_rollback_failed").Msg("could not roll back suspended record")
		}
		return entity.SuspendedTab{}, fmt.Errorf("navigate tab %d to placeholder: %w", tabID, err)
	}

	t.metrics.TabSuspended()
	t.events.Publish(entity.EventSuspendedChanged)
	log.Info().
		Str(logging.FieldEvent, "tab_suspended").
		Int("tab_id", int(tab.ID)).
		Int("window_id", tab.WindowID).
		Str("url", tab.URL).
		Msg("tab suspended")
	return rec, nil
}

// Restore navigates the live placeholder for id back to the original URL.
// When no placeholder is live anymore the URL is reopened in a new tab.
func (t *SuspensionTracker) Restore(ctx context.Context, id entity.UniqueID) (RestoredTab, error) {
	ctx = logging.WithUniqueID(ctx, string(id))
	log := logging.FromContext(ctx)

	release, err := t.locks.lock(ctx, id)
	if err != nil {
		return RestoredTab{}, err
	}
	defer release()

	rec, ok, err := t.Lookup(ctx, id)
	if err != nil {
		return RestoredTab{}, err
	}
	if !ok {
		return RestoredTab{}, fmt.Errorf("suspended tab %s: %w", id, entity.ErrNotFound)
	}

	live, found, err := t.findPlaceholder(ctx, id)
	if err != nil {
		return RestoredTab{}, err
	}

	result := RestoredTab{Record: rec}
	if found {
		active := true
		result.Tab, err = callWithTimeout(ctx, t.timeout, func(ctx context.Context) (entity.BrowserTab, error) {
			return t.tabs.UpdateTab(ctx, live.ID, entity.UpdateTabOptions{URL: rec.URL, Active: &active})
		})
	} else {
		result.Reopened = true
		result.Tab, err = t.reopen(ctx, rec)
	}
	if err != nil {
		return RestoredTab{}, fmt.Errorf("restore %s: %w", id, err)
	}

	// The tab already shows the original URL; keep trying until the record is gone.
	for attempt := 1; ; attempt++ {
		_, err = t.commit(ctx, trackerDelta{drop: []entity.UniqueID{id}})
		if err == nil || attempt >= restoreCommitAttempts {
			break
		}
		log.Warn().Err(err).Str(logging.FieldEvent, "restore_commit_retry").Int("attempt", attempt).
			Msg("persisting restore failed, retrying")
	}
	if err != nil {
		return RestoredTab{}, err
	}

	t.metrics.TabRestored()
	t.events.Publish(entity.EventSuspendedChanged)
	log.Info().
		Str(logging.FieldEvent, "tab_restored").
		Int("tab_id", int(result.Tab.ID)).
		Bool("reopened", result.Reopened).
		Str("url", rec.URL).
		Msg("tab restored")
	return result, nil
}

func (t *SuspensionTracker) reopen(ctx context.Context, rec entity.SuspendedTab) (entity.BrowserTab, error) {
	log := logging.FromContext(ctx)
	opts := entity.CreateTabOptions{WindowID: rec.WindowID, Index: -1, Active: true}
	tab, err := callWithTimeout(ctx, t.timeout, func(ctx context.Context) (entity.BrowserTab, error) {
		return t.tabs.CreateTab(ctx, rec.URL, opts)
	})
	if err == nil || rec.WindowID == 0 || errors.Is(err, entity.ErrTimeout) {
		return tab, err
	}
	log.Debug().Err(err).Str(logging.FieldEvent, "restore_window_gone").Int("window_id", rec.WindowID).
		Msg("original window gone, opening in current window")
	opts.WindowID = 0
	return callWithTimeout(ctx, t.timeout, func(ctx context.Context) (entity.BrowserTab, error) {
		return t.tabs.CreateTab(ctx, rec.URL, opts)
	})
}

// findPlaceholder scans live tabs for the placeholder carrying id.
func (t *SuspensionTracker) findPlaceholder(ctx context.Context, id entity.UniqueID) (entity.BrowserTab, bool, error) {
	tabs, err := callWithTimeout(ctx, t.timeout, func(ctx context.Context) ([]entity.BrowserTab, error) {
		return port.ListAllTabs(ctx, t.tabs)
	})
	if err != nil {
		return entity.BrowserTab{}, false, fmt.Errorf("list tabs: %w", err)
	}
	for _, tab := range tabs {
		if got, ok := t.placeholder.Parse(tab.URL); ok && got == string(id) {
			return tab, true, nil
		}
	}
	return entity.BrowserTab{}, false, nil
}

// IsSuspended reports whether a browser tab currently shows a tracked placeholder.
func (t *SuspensionTracker) IsSuspended(tabID entity.BrowserTabID) bool {
	_, ok := t.lookupTab(tabID)
	return ok
}

// Get returns a record by uniqueId.
func (t *SuspensionTracker) Get(id entity.UniqueID) (entity.SuspendedTab, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[id]
	return rec, ok
}

// Lookup is Get falling back to the persisted list, which another omni
// process may have written since the last load.
func (t *SuspensionTracker) Lookup(ctx context.Context, id entity.UniqueID) (entity.SuspendedTab, bool, error) {
	if rec, ok := t.Get(id); ok {
		return rec, true, nil
	}
	if err := t.reload(ctx); err != nil {
		return entity.SuspendedTab{}, false, err
	}
	rec, ok := t.Get(id)
	return rec, ok, nil
}

// List returns every record, most recently suspended first.
func (t *SuspensionTracker) List() []entity.SuspendedTab {
	t.mu.RLock()
	out := make([]entity.SuspendedTab, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	t.mu.RUnlock()

	sortRecords(out)
	return out
}

// SweepOrphans deletes records suspended more than maxAge ago. Records held by
// a running Suspend or Restore are skipped until the next sweep.
func (t *SuspensionTracker) SweepOrphans(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := t.reload(ctx); err != nil {
		return 0, err
	}
	now := t.now()
	var stale []entity.UniqueID
	for _, rec := range t.List() {
		if rec.OlderThan(now, maxAge) {
			stale = append(stale, rec.UniqueID)
		}
	}
	return t.dropRecords(ctx, "orphans_swept", stale)
}

// HandleTabRemoved drops the record of a closed suspended tab.
func (t *SuspensionTracker) HandleTabRemoved(ctx context.Context, tabID entity.BrowserTabID) (bool, error) {
	id, ok := t.lookupTab(tabID)
	if !ok {
		if err := t.reload(ctx); err != nil {
			return false, err
		}
		if id, ok = t.lookupTab(tabID); !ok {
			return false, nil
		}
	}
	n, err := t.dropRecords(ctx, "suspended_tab_closed", []entity.UniqueID{id})
	return n > 0, err
}

// HandleWindowRemoved drops the records of every suspended tab in a closed window.
func (t *SuspensionTracker) HandleWindowRemoved(ctx context.Context, windowID int) (int, error) {
	if err := t.reload(ctx); err != nil {
		return 0, err
	}
	var ids []entity.UniqueID
	for _, rec := range t.List() {
		if rec.WindowID == windowID {
			ids = append(ids, rec.UniqueID)
		}
	}
	return t.dropRecords(ctx, "suspended_window_closed", ids)
}

// FollowRemovals drops records as their tabs and windows close, until ctx is done.
func (t *SuspensionTracker) FollowRemovals(ctx context.Context, source port.TabWatcher) error {
	log := logging.FromContext(ctx)
	err := source.WatchRemovals(ctx, func(r port.TabRemoval) {
		if _, err := t.HandleTabRemoved(ctx, r.TabID); err != nil {
			log.Warn().Err(err).Str(logging.FieldEvent, "tab_removal_failed").Int("tab_id", int(r.TabID)).
				Msg("could not drop record of closed tab")
		}
		if !r.LastInWindow || r.WindowID == 0 {
			return
		}
		if _, err := t.HandleWindowRemoved(ctx, r.WindowID); err != nil {
			log.Warn().Err(err).Str(logging.FieldEvent, "window_removal_failed").Int("window_id", r.WindowID).
				Msg("could not drop records of closed window")
		}
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Reconcile matches records against live placeholders: browser tab ids are
// rebound from the placeholders found, and records with no live placeholder are dropped.
func (t *SuspensionTracker) Reconcile(ctx context.Context) (ReconcileResult, error) {
	log := logging.FromContext(ctx)

	tabs, err := callWithTimeout(ctx, t.timeout, func(ctx context.Context) ([]entity.BrowserTab, error) {
		return port.ListAllTabs(ctx, t.tabs)
	})
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list tabs: %w", err)
	}

	if err := t.reload(ctx); err != nil {
		return ReconcileResult{}, err
	}

	live := make(map[entity.UniqueID]entity.BrowserTab)
	for _, tab := range tabs {
		if id, ok := t.placeholder.Parse(tab.URL); ok {
			live[entity.UniqueID(id)] = tab
		}
	}

	var (
		result  ReconcileResult
		missing []entity.UniqueID
		rebound []entity.SuspendedTab
	)
	for _, rec := range t.List() {
		tab, ok := live[rec.UniqueID]
		if !ok {
			missing = append(missing, rec.UniqueID)
			continue
		}
		if tab.ID != rec.BrowserTabID || tab.WindowID != rec.WindowID || tab.Index != rec.Index {
			rec.BrowserTabID, rec.WindowID, rec.Index = tab.ID, tab.WindowID, tab.Index
			rebound = append(rebound, rec)
		}
	}

	if len(rebound) > 0 {
		applied, err := t.commit(ctx, trackerDelta{update: rebound})
		if err != nil {
			return result, err
		}
		result.Rebound = applied.updated
	}

	result.Dropped, err = t.dropRecords(ctx, "suspended_tabs_reconciled", missing)
	if err != nil {
		return result, err
	}
	log.Info().Str(logging.FieldEvent, "tracker_reconciled").Int("rebound", result.Rebound).
		Int("dropped", result.Dropped).Msg("suspended tabs reconciled")
	return result, nil
}

// dropRecords removes ids not currently locked, in one persisted write.
func (t *SuspensionTracker) dropRecords(ctx context.Context, event string, ids []entity.UniqueID) (int, error) {
	log := logging.FromContext(ctx)

	var locked []entity.UniqueID
	for _, id := range ids {
		release, ok := t.locks.tryLock(id)
		if !ok {
			log.Debug().Str(logging.FieldEvent, "record_busy").Str("unique_id", string(id)).Msg("record in use, skipped")
			continue
		}
		defer release()
		locked = append(locked, id)
	}
	if len(locked) == 0 {
		return 0, nil
	}

	applied, err := t.commit(ctx, trackerDelta{drop: locked})
	if err != nil {
		return 0, err
	}
	removed := applied.dropped

	if len(removed) > 0 {
		if event == "orphans_swept" {
			t.metrics.OrphansSwept(len(removed))
		}
		t.events.Publish(entity.EventSuspendedChanged)
		log.Info().Str(logging.FieldEvent, event).Int("count", len(removed)).Msg("suspended records removed")
	}
	return len(removed), nil
}

// trackerDelta is one change to the persisted records, keyed by uniqueId.
type trackerDelta struct {
	put    []entity.SuspendedTab // insert or replace
	update []entity.SuspendedTab // replace only while still persisted
	drop   []entity.UniqueID
}

type appliedDelta struct {
	updated int
	dropped []entity.SuspendedTab
}

// commit merges delta into the persisted list and refreshes memory from the
// result. Records written by other processes since the last load survive.
// Memory is left untouched when the write fails.
func (t *SuspensionTracker) commit(ctx context.Context, delta trackerDelta) (appliedDelta, error) {
	t.persistMu.Lock()
	defer t.persistMu.Unlock()
	return t.commitLocked(ctx, delta)
}

// commitLocked is commit for callers holding persistMu.
func (t *SuspensionTracker) commitLocked(ctx context.Context, delta trackerDelta) (appliedDelta, error) {
	log := logging.FromContext(ctx)

	var (
		applied  appliedDelta
		merged   []entity.SuspendedTab
		migrated int
	)
	err := repository.Update(ctx, t.store, repository.KeySuspendedTabs, func(current json.RawMessage) (json.RawMessage, error) {
		loaded, err := entity.DecodeSuspendedTabs(current)
		if err != nil {
			return nil, err
		}
		applied, migrated = appliedDelta{}, 0

		byID := make(map[entity.UniqueID]entity.SuspendedTab, len(loaded)+len(delta.put))
		for _, rec := range loaded {
			if rec.UniqueID == "" {
				rec.UniqueID = entity.UniqueID(t.newID())
				migrated++
			}
			if _, dup := byID[rec.UniqueID]; !dup {
				byID[rec.UniqueID] = rec
			}
		}
		for _, rec := range delta.put {
			byID[rec.UniqueID] = rec
		}
		for _, rec := range delta.update {
			if _, ok := byID[rec.UniqueID]; ok {
				byID[rec.UniqueID] = rec
				applied.updated++
			}
		}
		for _, id := range delta.drop {
			if rec, ok := byID[id]; ok {
				applied.dropped = append(applied.dropped, rec)
				delete(byID, id)
			}
		}

		merged = make([]entity.SuspendedTab, 0, len(byID))
		for _, rec := range byID {
			merged = append(merged, rec)
		}
		sortRecords(merged)
		return json.Marshal(merged)
	})
	if err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "tracker_persist_failed").
			Msg("suspended tabs not persisted, change discarded")
		if errors.Is(err, entity.ErrInvalidFormat) {
			return appliedDelta{}, err
		}
		return appliedDelta{}, fmt.Errorf("%w: write suspended tabs: %v", entity.ErrLocalPersistence, err)
	}

	t.replace(merged)
	if migrated > 0 {
		log.Info().Str(logging.FieldEvent, "suspended_tabs_migrated").Int("count", migrated).
			Msg("assigned unique ids to legacy suspended tabs")
	}
	return applied, nil
}

// replace swaps the in-memory records for recs. Duplicate uniqueIds keep the first.
func (t *SuspensionTracker) replace(recs []entity.SuspendedTab) {
	records := make(map[entity.UniqueID]entity.SuspendedTab, len(recs))
	byTab := make(map[entity.BrowserTabID]entity.UniqueID, len(recs))
	for _, rec := range recs {
		if _, dup := records[rec.UniqueID]; dup {
			continue
		}
		records[rec.UniqueID] = rec
		if rec.BrowserTabID != 0 {
			byTab[rec.BrowserTabID] = rec.UniqueID
		}
	}
	t.mu.Lock()
	t.records, t.byTab = records, byTab
	t.mu.Unlock()
}

func (t *SuspensionTracker) lookupTab(tabID entity.BrowserTabID) (entity.UniqueID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byTab[tabID]
	return id, ok
}

// sortRecords orders most recently suspended first.
func sortRecords(recs []entity.SuspendedTab) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].SuspendedAt.Equal(recs[j].SuspendedAt.Time) {
			return recs[i].SuspendedAt.After(recs[j].SuspendedAt.Time)
		}
		return recs[i].UniqueID < recs[j].UniqueID
	})
}

// callWithTimeout bounds a browser call. A deadline hit maps to ErrTimeout.
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	v, err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return v, fmt.Errorf("%w: %v", entity.ErrTimeout, err)
	}
	return v, err
}
