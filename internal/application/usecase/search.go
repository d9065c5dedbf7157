package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/autocomplete"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/relevance"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/logging"
)

const (
	quickOpenTabs       = 3
	quickSuspendedTabs  = 2
	quickSessions       = 2
	quickTabsPerSession = 2
)

// SuspendedLister is the read side of the suspension tracker.
type SuspendedLister interface {
	List() []entity.SuspendedTab
}

// SessionLister is the read side of the session store.
type SessionLister interface {
	List(ctx context.Context) ([]entity.Session, error)
}

// SearchConfig bounds history and suggestions.
type SearchConfig struct {
	HistoryLimit    int
	SuggestionLimit int
}

// SearchUseCase searches open tabs, suspended tabs and saved sessions.
type SearchUseCase struct {
	tabs      port.TabController
	suspended SuspendedLister
	sessions  SessionLister
	store     repository.KeyValueStore
	deny      *url.DenyList
	cfg       SearchConfig
	metrics   port.Recorder
	now       port.Clock

	mu      sync.Mutex
	history *autocomplete.History
}

// NewSearchUseCase creates a search use case. Any corpus source may be nil.
func NewSearchUseCase(
	tabs port.TabController,
	suspended SuspendedLister,
	sessions SessionLister,
	store repository.KeyValueStore,
	deny *url.DenyList,
	cfg SearchConfig,
	opts ...SearchOption,
) *SearchUseCase {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = autocomplete.DefaultHistoryLimit
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = autocomplete.DefaultSuggestionLimit
	}
	uc := &SearchUseCase{
		tabs:      tabs,
		suspended: suspended,
		sessions:  sessions,
		store:     store,
		deny:      deny,
		cfg:       cfg,
		metrics:   port.NopRecorder{},
		now:       time.Now,
		history:   autocomplete.NewHistory(cfg.HistoryLimit, nil),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SearchOption customizes a SearchUseCase.
type SearchOption func(*SearchUseCase)

// WithSearchMetrics sets the metrics recorder.
func WithSearchMetrics(metrics port.Recorder) SearchOption {
	return func(uc *SearchUseCase) { uc.metrics = metrics }
}

// WithSearchClock overrides time.Now for recency scoring.
func WithSearchClock(now port.Clock) SearchOption {
	return func(uc *SearchUseCase) { uc.now = now }
}

// Init loads the persisted search history.
func (uc *SearchUseCase) Init(ctx context.Context) error {
	raw, err := uc.store.Get(ctx, repository.KeySearchHistory)
	if err != nil {
		return fmt.Errorf("%w: read search history: %v", entity.ErrLocalPersistence, err)
	}
	var entries []string
	if v, ok := raw[repository.KeySearchHistory]; ok {
		if err := json.Unmarshal(v, &entries); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str(logging.FieldEvent, "search_history_corrupt").
				Msg("ignoring unreadable search history")
			entries = nil
		}
	}

	uc.mu.Lock()
	uc.history = autocomplete.NewHistory(uc.cfg.HistoryLimit, entries)
	uc.mu.Unlock()
	return nil
}

// Search runs query against every corpus not excluded by opts. A blank query
// yields an empty result set.
func (uc *SearchUseCase) Search(ctx context.Context, query string, opts entity.SearchOptions) (entity.SearchResults, error) {
	log := logging.FromContext(ctx)

	results := entity.EmptySearchResults()
	q := relevance.NormalizeQuery(query)
	results.Query = q
	if q == "" {
		return results, nil
	}
	now := uc.now()

	g, gctx := errgroup.WithContext(ctx)
	if !opts.ExcludeOpenTabs && uc.tabs != nil {
		g.Go(func() error {
			hits, err := uc.searchOpenTabs(gctx, q, now)
			if err != nil {
				log.Warn().Err(err).Str(logging.FieldEvent, "search_corpus_failed").Str("corpus", "open_tabs").
					Msg("open tabs unavailable")
				return nil
			}
			results.OpenTabs = hits
			return nil
		})
	}
	if !opts.ExcludeSuspended && uc.suspended != nil {
		g.Go(func() error {
			results.SuspendedTabs = uc.searchSuspended(q, now)
			return nil
		})
	}
	if !opts.ExcludeSessions && uc.sessions != nil {
		g.Go(func() error {
			hits, err := uc.searchSessions(gctx, q, now)
			if err != nil {
				log.Warn().Err(err).Str(logging.FieldEvent, "search_corpus_failed").Str("corpus", "sessions").
					Msg("sessions unavailable")
				return nil
			}
			results.Sessions = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.SearchResults{}, err
	}

	results.Total = len(results.OpenTabs) + len(results.SuspendedTabs)
	for _, s := range results.Sessions {
		results.Total += s.TotalMatches
	}

	uc.record(ctx, q)
	uc.metrics.SearchPerformed(results.Total)
	log.Debug().
		Str(logging.FieldEvent, "search_performed").
		Str("query", q).
		Int("open_tabs", len(results.OpenTabs)).
		Int("suspended_tabs", len(results.SuspendedTabs)).
		Int("sessions", len(results.Sessions)).
		Int("total", results.Total).
		Msg("search completed")
	return results, nil
}

func (uc *SearchUseCase) searchOpenTabs(ctx context.Context, q string, now time.Time) ([]entity.TabHit, error) {
	tabs, err := port.ListAllTabs(ctx, uc.tabs)
	if err != nil {
		return nil, err
	}
	hits := []entity.TabHit{}
	for _, t := range tabs {
		if uc.deny.Denied(t.URL) || !relevance.Matches(t.Title, t.URL, q) {
			continue
		}
		hits = append(hits, entity.TabHit{
			ID:           t.ID,
			URL:          t.URL,
			Title:        t.Title,
			FaviconURL:   t.FaviconURL,
			WindowID:     t.WindowID,
			LastAccessed: t.LastAccessed,
			Score:        relevance.Score(t.Title, t.URL, q, t.LastAccessed, now),
		})
	}
	sortHits(hits)
	return hits, nil
}

func (uc *SearchUseCase) searchSuspended(q string, now time.Time) []entity.TabHit {
	hits := []entity.TabHit{}
	for _, rec := range uc.suspended.List() {
		if !relevance.Matches(rec.Title, rec.URL, q) {
			continue
		}
		hits = append(hits, entity.TabHit{
			ID:           rec.BrowserTabID,
			UniqueID:     rec.UniqueID,
			URL:          rec.URL,
			Title:        rec.Title,
			FaviconURL:   rec.FaviconURL,
			WindowID:     rec.WindowID,
			LastAccessed: rec.SuspendedAt.Time,
			Score:        relevance.Score(rec.Title, rec.URL, q, rec.SuspendedAt.Time, now),
		})
	}
	sortHits(hits)
	return hits
}

func (uc *SearchUseCase) searchSessions(ctx context.Context, q string, now time.Time) ([]entity.SessionHit, error) {
	sessions, err := uc.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		hit  entity.SessionHit
		best float64
	}
	var found []scored
	for _, s := range sessions {
		hit := entity.SessionHit{
			SessionID:   s.ID,
			SessionName: s.Name,
			NameMatch:   strings.Contains(strings.ToLower(s.Name), q),
			Tabs:        []entity.TabHit{},
		}
		for _, t := range s.Tabs {
			if !relevance.Matches(t.Title, t.URL, q) {
				continue
			}
			hit.Tabs = append(hit.Tabs, entity.TabHit{
				URL:          t.URL,
				Title:        t.Title,
				FaviconURL:   t.FaviconURL,
				WindowID:     t.WindowID,
				LastAccessed: s.LastAccessed.Time,
				Score:        relevance.Score(t.Title, t.URL, q, s.LastAccessed.Time, now),
			})
		}
		if len(hit.Tabs) == 0 && !hit.NameMatch {
			continue
		}
		sortHits(hit.Tabs)
		hit.TotalMatches = len(hit.Tabs)

		var best float64
		if len(hit.Tabs) > 0 {
			best = hit.Tabs[0].Score
		}
		if hit.NameMatch && best < relevance.TitleMatch {
			best = relevance.TitleMatch
		}
		found = append(found, scored{hit: hit, best: best})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].best > found[j].best })
	out := make([]entity.SessionHit, len(found))
	for i, f := range found {
		out[i] = f.hit
	}
	return out, nil
}

// QuickSearch flattens the best hits of every corpus into one list.
func (uc *SearchUseCase) QuickSearch(ctx context.Context, query string, limit int) ([]entity.QuickResult, error) {
	results, err := uc.Search(ctx, query, entity.SearchOptions{})
	if err != nil {
		return nil, err
	}

	out := []entity.QuickResult{}
	for i, t := range results.OpenTabs {
		if i >= quickOpenTabs {
			break
		}
		out = append(out, entity.QuickResult{Type: "tab", Action: entity.ActionSwitchToTab, Tab: t})
	}
	for i, t := range results.SuspendedTabs {
		if i >= quickSuspendedTabs {
			break
		}
		out = append(out, entity.QuickResult{Type: "suspended", Action: entity.ActionRestoreTab, Tab: t})
	}
	for i, s := range results.Sessions {
		if i >= quickSessions {
			break
		}
		for j, t := range s.Tabs {
			if j >= quickTabsPerSession {
				break
			}
			out = append(out, entity.QuickResult{
				Type:        "session",
				Action:      entity.ActionRestoreFromSession,
				Tab:         t,
				SessionID:   s.SessionID,
				SessionName: s.SessionName,
			})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Suggestions returns autocomplete entries for a partial query.
func (uc *SearchUseCase) Suggestions(ctx context.Context, partial string) ([]entity.Suggestion, error) {
	var sessions []entity.Session
	if uc.sessions != nil && len([]rune(strings.TrimSpace(partial))) >= autocomplete.MinQueryLength {
		var err error
		if sessions, err = uc.sessions.List(ctx); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str(logging.FieldEvent, "search_corpus_failed").
				Str("corpus", "sessions").Msg("sessions unavailable for suggestions")
			sessions = nil
		}
	}
	return autocomplete.Suggest(uc.History(), sessions, partial, uc.cfg.SuggestionLimit), nil
}

// History returns past queries, most recent first.
func (uc *SearchUseCase) History() []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.history.Entries()
}

// ClearHistory empties and persists the history.
func (uc *SearchUseCase) ClearHistory(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.history.Clear()
	if err := uc.store.Remove(ctx, repository.KeySearchHistory); err != nil {
		return fmt.Errorf("%w: clear search history: %v", entity.ErrLocalPersistence, err)
	}
	return nil
}

// record adds q to the history. Persist failures are logged only.
func (uc *SearchUseCase) record(ctx context.Context, q string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if !uc.history.Add(q) {
		return
	}
	data, err := json.Marshal(uc.history.Entries())
	if err == nil {
		err = uc.store.Set(ctx, map[string]json.RawMessage{repository.KeySearchHistory: data})
	}
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str(logging.FieldEvent, "search_history_write_failed").
			Msg("search history not persisted")
	}
}

func sortHits(hits []entity.TabHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
}
