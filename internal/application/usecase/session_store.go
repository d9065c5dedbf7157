package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/domain/syncpolicy"
	"github.com/bnema/omni/internal/logging"
)

// ErrStoreClosed is returned by every SessionStore operation after Dispose.
var ErrStoreClosed = errors.New("session store closed")

// SaveState is a step of the save cycle.
type SaveState int32

const (
	StateIdle SaveState = iota
	StateValidating
	StateWritingLocal
	StateWritingSynced
	StateSkippingSynced
	StateMirroringExternal
	StateSkippingMirror
)

var saveStateNames = map[SaveState]string{
	StateIdle:              "idle",
	StateValidating:        "validating",
	StateWritingLocal:      "writing_local",
	StateWritingSynced:     "writing_synced",
	StateSkippingSynced:    "skipping_synced",
	StateMirroringExternal: "mirroring_external",
	StateSkippingMirror:    "skipping_mirror",
}

func (s SaveState) String() string {
	if name, ok := saveStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// SessionStoreConfig holds the tier capacities and mirror default.
type SessionStoreConfig struct {
	Limits           syncpolicy.Limits
	MaxSessionsLocal int
	// MirrorDefault applies when the local settings record has no bookmarksBackup value.
	MirrorDefault bool
}

// DefaultSessionStoreConfig returns the browser-extension capacities.
func DefaultSessionStoreConfig() SessionStoreConfig {
	return SessionStoreConfig{
		Limits:           syncpolicy.DefaultLimits(),
		MaxSessionsLocal: 50,
		MirrorDefault:    true,
	}
}

// ImportResult reports the outcome of ImportAll.
type ImportResult struct {
	Imported int  `json:"imported"`
	Total    int  `json:"total"`
	Merged   bool `json:"merged"`
}

// RecoveryResult reports the outcome of RecoverIfEmpty.
type RecoveryResult struct {
	Recovered bool `json:"recovered"`
	Count     int  `json:"count"`
}

// StoreStats summarizes both tiers.
type StoreStats struct {
	LocalSessions  int  `json:"localSessions"`
	SyncedSessions int  `json:"syncedSessions"`
	LocalBytes     int  `json:"localBytes"`
	SyncedBytes    int  `json:"syncedBytes"`
	SyncedQuota    int  `json:"syncedQuota"`
	MirrorEnabled  bool `json:"mirrorEnabled"`
}

type storeSettings struct {
	BookmarksBackup *bool `json:"bookmarksBackup,omitempty"`
}

// SessionStore owns the saved session list across the local and synced tiers.
// Every operation runs alone: the store is read-modify-write on both tiers.
type SessionStore struct {
	local   repository.KeyValueStore
	synced  repository.KeyValueStore
	mirror  *bookmarkBackup
	cfg     SessionStoreConfig
	events  port.EventPublisher
	metrics port.Recorder
	now     port.Clock

	queue  chan struct{}
	state  atomic.Int32
	closed atomic.Bool
}

// SessionStoreOption customizes a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithMirror enables the external bookmark mirror.
func WithMirror(mirror repository.BookmarkMirror) SessionStoreOption {
	return func(s *SessionStore) {
		if mirror != nil {
			s.mirror = newBookmarkBackup(mirror, s.newRecoveredID)
		}
	}
}

// WithStoreEvents sets the state-changed publisher.
func WithStoreEvents(events port.EventPublisher) SessionStoreOption {
	return func(s *SessionStore) { s.events = events }
}

// WithStoreMetrics sets the metrics recorder.
func WithStoreMetrics(metrics port.Recorder) SessionStoreOption {
	return func(s *SessionStore) { s.metrics = metrics }
}

// WithStoreClock overrides time.Now.
func WithStoreClock(now port.Clock) SessionStoreOption {
	return func(s *SessionStore) { s.now = now }
}

// NewSessionStore creates a store over the two tiers.
func NewSessionStore(local, synced repository.KeyValueStore, cfg SessionStoreConfig, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		local:   local,
		synced:  synced,
		cfg:     cfg,
		events:  port.NopPublisher{},
		metrics: port.NopRecorder{},
		now:     time.Now,
		queue:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current save-cycle state.
func (s *SessionStore) State() SaveState {
	return SaveState(s.state.Load())
}

// acquire waits for exclusive access, honoring ctx.
func (s *SessionStore) acquire(ctx context.Context) (func(), error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}
	select {
	case s.queue <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.closed.Load() {
		<-s.queue
		return nil, ErrStoreClosed
	}
	return func() { <-s.queue }, nil
}

// Init migrates legacy data, repairs an empty synced tier and, when both
// tiers are empty, attempts recovery from the mirror. Only local tier read
// failures are returned.
func (s *SessionStore) Init(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "session_store")
	log := logging.FromContext(ctx)

	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := s.migrateLegacyLocked(ctx); err != nil {
		return err
	}

	sessions, err := s.readLocalLocked(ctx, repository.KeySessionsBackup)
	if err != nil {
		return err
	}
	synced := s.readSyncedLocked(ctx)

	if len(sessions) > 0 && len(synced) == 0 {
		log.Info().Str(logging.FieldEvent, "synced_tier_repaired").Int("count", len(sessions)).
			Msg("synced tier empty, rewriting projection from local tier")
		if _, err := s.saveLocked(ctx, sessions); err != nil {
			return err
		}
	}

	if len(sessions) == 0 && len(synced) == 0 {
		if _, err := s.recoverLocked(ctx); err != nil {
			log.Warn().Err(err).Str(logging.FieldEvent, "recovery_failed").Msg("mirror recovery failed")
		}
	}
	return nil
}

// Dispose stops the store. It waits for the running operation to finish.
func (s *SessionStore) Dispose(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		if errors.Is(err, ErrStoreClosed) {
			return nil
		}
		return err
	}
	s.closed.Store(true)
	release()
	return nil
}

func (s *SessionStore) migrateLegacyLocked(ctx context.Context) error {
	log := logging.FromContext(ctx)

	legacy, err := s.readLocalLocked(ctx, repository.KeySessions)
	if err != nil {
		return err
	}
	if len(legacy) == 0 {
		return nil
	}

	current, err := s.readLocalLocked(ctx, repository.KeySessionsBackup)
	if err != nil {
		return err
	}
	merged := mergeByID(current, legacy)

	if _, err := s.saveLocked(ctx, merged); err != nil {
		return err
	}
	if err := s.local.Remove(ctx, repository.KeySessions); err != nil {
		return fmt.Errorf("%w: remove legacy sessions: %v", entity.ErrLocalPersistence, err)
	}
	log.Info().Str(logging.FieldEvent, "legacy_sessions_migrated").Int("count", len(legacy)).
		Msg("migrated legacy local sessions")
	return nil
}

// List returns the saved sessions. The local tier is authoritative; the synced
// tier is used only while the local tier is empty.
func (s *SessionStore) List(ctx context.Context) ([]entity.Session, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.listLocked(ctx)
}

func (s *SessionStore) listLocked(ctx context.Context) ([]entity.Session, error) {
	local, err := s.readLocalLocked(ctx, repository.KeySessionsBackup)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		return local, nil
	}
	synced := s.readSyncedLocked(ctx)
	if len(synced) > 0 {
		logging.FromContext(ctx).Debug().Str(logging.FieldEvent, "synced_tier_adopted").
			Int("count", len(synced)).Msg("local tier empty, using synced tier")
		return synced, nil
	}
	return []entity.Session{}, nil
}

// Get returns one session or entity.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id entity.SessionID) (entity.Session, error) {
	sessions, err := s.List(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	for _, session := range sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return entity.Session{}, fmt.Errorf("session %s: %w", id, entity.ErrNotFound)
}

// Add prepends a session and rewrites both tiers.
// Counts are recomputed; a missing id or name is filled in.
func (s *SessionStore) Add(ctx context.Context, session entity.Session) (entity.Session, error) {
	log := logging.FromContext(ctx)

	release, err := s.acquire(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	defer release()

	session = withDefaults(session.Clone(), s.now())

	sessions, err := s.listLocked(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	sessions = append([]entity.Session{session}, sessions...)

	if _, err := s.saveLocked(ctx, sessions); err != nil {
		return entity.Session{}, err
	}

	log.Info().
		Str(logging.FieldEvent, "session_added").
		Str("session_id", string(session.ID)).
		Str("name", session.Name).
		Int("tab_count", session.TabCount).
		Int("window_count", session.WindowCount).
		Msg("session saved")
	return session, nil
}

// Remove deletes a session by id and rewrites both tiers.
func (s *SessionStore) Remove(ctx context.Context, id entity.SessionID) ([]entity.Session, error) {
	log := logging.FromContext(ctx)

	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	sessions, err := s.listLocked(ctx)
	if err != nil {
		return nil, err
	}
	kept := make([]entity.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}
	if len(kept) == len(sessions) {
		return nil, fmt.Errorf("session %s: %w", id, entity.ErrNotFound)
	}

	saved, err := s.saveLocked(ctx, kept)
	if err != nil {
		return nil, err
	}
	log.Info().Str(logging.FieldEvent, "session_removed").Str("session_id", string(id)).Msg("session removed")
	return saved, nil
}

// Touch sets LastAccessed on a session.
func (s *SessionStore) Touch(ctx context.Context, id entity.SessionID) (entity.Session, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	defer release()

	sessions, err := s.listLocked(ctx)
	if err != nil {
		return entity.Session{}, err
	}
	for i := range sessions {
		if sessions[i].ID == id {
			sessions[i].Touch(s.now())
			touched := sessions[i]
			if _, err := s.saveLocked(ctx, sessions); err != nil {
				return entity.Session{}, err
			}
			return touched, nil
		}
	}
	return entity.Session{}, fmt.Errorf("session %s: %w", id, entity.ErrNotFound)
}

// ExportAll wraps the authoritative session list into an export document.
func (s *SessionStore) ExportAll(ctx context.Context) (entity.ExportDocument, error) {
	sessions, err := s.List(ctx)
	if err != nil {
		return entity.ExportDocument{}, err
	}
	logging.FromContext(ctx).Info().Str(logging.FieldEvent, "sessions_exported").
		Int("count", len(sessions)).Msg("sessions exported")
	return entity.NewExportDocument(sessions, s.now()), nil
}

// ImportAll validates an export document and merges or replaces the session list.
// With merge, only sessions whose id is not already present are appended.
func (s *SessionStore) ImportAll(ctx context.Context, data []byte, merge bool) (ImportResult, error) {
	log := logging.FromContext(ctx)

	doc, err := entity.ParseExportDocument(data)
	if err != nil {
		return ImportResult{}, err
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	defer release()

	now := s.now()
	incoming := make([]entity.Session, len(doc.Sessions))
	for i, session := range doc.Sessions {
		incoming[i] = withDefaults(session, now)
	}

	var (
		next     []entity.Session
		existing = map[entity.SessionID]struct{}{}
	)
	if merge {
		current, err := s.listLocked(ctx)
		if err != nil {
			return ImportResult{}, err
		}
		for _, session := range current {
			existing[session.ID] = struct{}{}
		}
		next = mergeByID(current, incoming)
	} else {
		next = incoming
	}

	saved, err := s.saveLocked(ctx, next)
	if err != nil {
		return ImportResult{}, err
	}

	// Count what was stored, after dedupe and the local cap.
	fromDoc := make(map[entity.SessionID]struct{}, len(incoming))
	for _, session := range incoming {
		fromDoc[session.ID] = struct{}{}
	}
	imported := 0
	for _, session := range saved {
		_, inDoc := fromDoc[session.ID]
		_, before := existing[session.ID]
		if inDoc && !before {
			imported++
		}
	}

	result := ImportResult{Imported: imported, Total: len(saved), Merged: merge}
	log.Info().
		Str(logging.FieldEvent, "sessions_imported").
		Int("imported", result.Imported).
		Int("total", result.Total).
		Bool("merged", merge).
		Str("export_date", doc.ExportDate).
		Msg("sessions imported")
	return result, nil
}

// RecoverIfEmpty rebuilds the session list from the external mirror when both
// tiers are empty.
func (s *SessionStore) RecoverIfEmpty(ctx context.Context) (RecoveryResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return RecoveryResult{}, err
	}
	defer release()
	return s.recoverLocked(ctx)
}

func (s *SessionStore) recoverLocked(ctx context.Context) (RecoveryResult, error) {
	log := logging.FromContext(ctx)

	if s.mirror == nil {
		return RecoveryResult{}, nil
	}
	local, err := s.readLocalLocked(ctx, repository.KeySessionsBackup)
	if err != nil {
		return RecoveryResult{}, err
	}
	if len(local) > 0 || len(s.readSyncedLocked(ctx)) > 0 {
		return RecoveryResult{}, nil
	}

	recovered, err := s.mirror.read(ctx, s.now())
	if err != nil {
		return RecoveryResult{}, err
	}
	if len(recovered) == 0 {
		return RecoveryResult{}, nil
	}

	saved, err := s.saveLocked(ctx, recovered)
	if err != nil {
		return RecoveryResult{}, err
	}
	log.Info().Str(logging.FieldEvent, "sessions_recovered").Int("count", len(saved)).
		Msg("sessions recovered from bookmark mirror")
	return RecoveryResult{Recovered: true, Count: len(saved)}, nil
}

// MirrorToExternalBackup regenerates the mirror from sessions. Failures are logged only.
func (s *SessionStore) MirrorToExternalBackup(ctx context.Context, sessions []entity.Session) {
	log := logging.FromContext(ctx)
	if s.mirror == nil {
		log.Debug().Str(logging.FieldEvent, "mirror_skipped").Str("reason", entity.CleanReasonMirrorUnavailable).
			Msg("no bookmark mirror configured")
		return
	}
	if err := s.mirror.write(ctx, sessions); err != nil {
		s.metrics.TierWriteFailed("mirror")
		log.Warn().Err(err).Str(logging.FieldEvent, "mirror_write_failed").Msg("bookmark mirror update failed")
	}
}

// CleanMirror removes the automatic backup folder from the mirror.
func (s *SessionStore) CleanMirror(ctx context.Context) (entity.MirrorCleanResult, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return entity.MirrorCleanResult{}, err
	}
	defer release()

	if s.mirror == nil {
		return entity.MirrorCleanResult{Reason: entity.CleanReasonMirrorUnavailable}, nil
	}
	result, err := s.mirror.clean(ctx)
	if err != nil {
		return entity.MirrorCleanResult{}, err
	}
	logging.FromContext(ctx).Info().Str(logging.FieldEvent, "mirror_cleaned").
		Bool("deleted", result.Deleted).Str("reason", result.Reason).Msg("bookmark mirror cleaned")
	return result, nil
}

// SetMirrorEnabled persists the bookmarksBackup setting in the local tier.
func (s *SessionStore) SetMirrorEnabled(ctx context.Context, enabled bool) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	raw, err := s.local.Get(ctx, repository.KeySettings)
	if err != nil {
		return fmt.Errorf("%w: read settings: %v", entity.ErrLocalPersistence, err)
	}
	settings := map[string]json.RawMessage{}
	if v, ok := raw[repository.KeySettings]; ok {
		_ = json.Unmarshal(v, &settings)
	}
	settings["bookmarksBackup"] = json.RawMessage(fmt.Sprintf("%t", enabled))
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := s.local.Set(ctx, map[string]json.RawMessage{repository.KeySettings: data}); err != nil {
		return fmt.Errorf("%w: write settings: %v", entity.ErrLocalPersistence, err)
	}
	return nil
}

// Stats reports session counts and bytes used per tier.
func (s *SessionStore) Stats(ctx context.Context) (StoreStats, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	defer release()

	local, err := s.readLocalLocked(ctx, repository.KeySessionsBackup)
	if err != nil {
		return StoreStats{}, err
	}
	localBytes, err := s.local.BytesInUse(ctx)
	if err != nil {
		return StoreStats{}, fmt.Errorf("%w: %v", entity.ErrLocalPersistence, err)
	}
	stats := StoreStats{
		LocalSessions: len(local),
		LocalBytes:    localBytes,
		SyncedQuota:   s.cfg.Limits.QuotaBytes,
		MirrorEnabled: s.mirror != nil && s.mirrorEnabledLocked(ctx),
	}
	stats.SyncedSessions = len(s.readSyncedLocked(ctx))
	if n, err := s.synced.BytesInUse(ctx); err == nil {
		stats.SyncedBytes = n
	}
	return stats, nil
}

// saveLocked runs one save cycle. Only a local tier failure is returned.
func (s *SessionStore) saveLocked(ctx context.Context, sessions []entity.Session) ([]entity.Session, error) {
	log := logging.FromContext(ctx)
	defer s.setState(ctx, StateIdle)

	s.setState(ctx, StateValidating)
	sessions = dedupeByID(sessions)
	for i := range sessions {
		sessions[i].Recount()
	}
	if s.cfg.MaxSessionsLocal > 0 && len(sessions) > s.cfg.MaxSessionsLocal {
		sessions = sessions[:s.cfg.MaxSessionsLocal]
	}

	s.setState(ctx, StateWritingLocal)
	localData, err := json.Marshal(sessions)
	if err != nil {
		return nil, fmt.Errorf("encode sessions: %w", err)
	}
	if err := s.local.Set(ctx, map[string]json.RawMessage{repository.KeySessionsBackup: localData}); err != nil {
		s.metrics.TierWriteFailed("local")
		log.Error().Err(err).Str(logging.FieldEvent, "local_tier_write_failed").Msg("local tier write failed")
		return nil, fmt.Errorf("%w: %v", entity.ErrLocalPersistence, err)
	}

	syncedCount := s.writeSyncedLocked(ctx, sessions)
	s.metrics.SessionsStored(len(sessions), syncedCount)

	if s.mirror != nil && s.mirrorEnabledLocked(ctx) {
		s.setState(ctx, StateMirroringExternal)
		s.MirrorToExternalBackup(ctx, sessions)
	} else {
		s.setState(ctx, StateSkippingMirror)
	}

	s.events.Publish(entity.EventSessionsChanged)
	return sessions, nil
}

// writeSyncedLocked writes the projection and returns how many sessions it holds.
// Every failure here is downgraded to a warning.
func (s *SessionStore) writeSyncedLocked(ctx context.Context, sessions []entity.Session) int {
	log := logging.FromContext(ctx)

	projected := syncpolicy.Project(sessions, s.cfg.Limits)
	fits, size, err := syncpolicy.Fits(projected, s.cfg.Limits)
	if err != nil || !fits {
		s.setState(ctx, StateSkippingSynced)
		s.metrics.SyncedWriteSkipped("capacity")
		log.Warn().
			Err(entity.ErrCapacityExceeded).
			Str(logging.FieldEvent, "synced_tier_skipped").
			Int("bytes", size).
			Int("budget", s.cfg.Limits.Budget()).
			Int("item_quota", s.cfg.Limits.ItemQuotaBytes).
			Msg("sessions too large for synced tier, local tier only")
		return 0
	}

	s.setState(ctx, StateWritingSynced)
	data, err := json.Marshal(projected)
	if err == nil {
		err = s.synced.Set(ctx, map[string]json.RawMessage{repository.KeySessions: data})
	}
	if err != nil {
		s.metrics.TierWriteFailed("synced")
		log.Warn().
			Err(fmt.Errorf("%w: %v", entity.ErrSyncedPersistence, err)).
			Str(logging.FieldEvent, "synced_tier_write_failed").
			Msg("synced tier write failed, local tier only")
		return 0
	}
	log.Debug().Str(logging.FieldEvent, "synced_tier_written").Int("count", len(projected)).Int("bytes", size).
		Msg("synced tier written")
	return len(projected)
}

func (s *SessionStore) setState(ctx context.Context, state SaveState) {
	s.state.Store(int32(state))
	logging.FromContext(ctx).Trace().Str(logging.FieldEvent, "save_state").Str("state", state.String()).Msg("save cycle")
}

func (s *SessionStore) readLocalLocked(ctx context.Context, key string) ([]entity.Session, error) {
	raw, err := s.local.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrLocalPersistence, key, err)
	}
	sessions, err := entity.DecodeSessions(raw[key])
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", entity.ErrLocalPersistence, key, err)
	}
	return sessions, nil
}

// readSyncedLocked never fails: an unreadable synced tier counts as empty.
func (s *SessionStore) readSyncedLocked(ctx context.Context) []entity.Session {
	log := logging.FromContext(ctx)
	raw, err := s.synced.Get(ctx, repository.KeySessions)
	if err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "synced_tier_read_failed").Msg("synced tier unreadable")
		return nil
	}
	sessions, err := entity.DecodeSessions(raw[repository.KeySessions])
	if err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "synced_tier_read_failed").Msg("synced tier corrupt")
		return nil
	}
	return sessions
}

func (s *SessionStore) mirrorEnabledLocked(ctx context.Context) bool {
	raw, err := s.local.Get(ctx, repository.KeySettings)
	if err != nil {
		return s.cfg.MirrorDefault
	}
	var settings storeSettings
	if v, ok := raw[repository.KeySettings]; ok && json.Unmarshal(v, &settings) == nil && settings.BookmarksBackup != nil {
		return *settings.BookmarksBackup
	}
	return s.cfg.MirrorDefault
}

func (s *SessionStore) newRecoveredID() entity.SessionID {
	return entity.SessionID(entity.SessionIDPrefix + uuid.NewString())
}

// mergeByID appends the sessions of extra whose id is not in base.
func mergeByID(base, extra []entity.Session) []entity.Session {
	seen := make(map[entity.SessionID]struct{}, len(base))
	out := make([]entity.Session, 0, len(base)+len(extra))
	for _, s := range base {
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	for _, s := range extra {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// withDefaults fills in a missing id, name and timestamps and recomputes counts.
func withDefaults(session entity.Session, now time.Time) entity.Session {
	if session.ID == "" {
		session.ID = entity.NewSessionID(now)
	}
	if strings.TrimSpace(session.Name) == "" {
		session.Name = "Session"
	}
	if session.Created.IsZero() {
		session.Created = entity.NewTimestamp(now)
	}
	if session.LastAccessed.IsZero() {
		session.LastAccessed = session.Created
	}
	session.Recount()
	return session
}

// dedupeByID keeps the first session for each id.
func dedupeByID(sessions []entity.Session) []entity.Session {
	return mergeByID(nil, sessions)
}
