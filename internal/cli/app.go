// Package cli wires the storage tiers, use cases and adapters behind the omni commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bnema/omni/internal/application/usecase"
	"github.com/bnema/omni/internal/cli/styles"
	"github.com/bnema/omni/internal/domain/build"
	"github.com/bnema/omni/internal/domain/repository"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/infrastructure/browser"
	"github.com/bnema/omni/internal/infrastructure/config"
	"github.com/bnema/omni/internal/infrastructure/events"
	"github.com/bnema/omni/internal/infrastructure/metrics"
	"github.com/bnema/omni/internal/infrastructure/persistence/jsonfile"
	"github.com/bnema/omni/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/omni/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// Storage tiers
	db     *sqlite.LazyDB
	Local  repository.KeyValueStore
	Synced *jsonfile.Store

	Sessions *usecase.SessionStore
	Metrics  *metrics.Metrics
	Events   *events.Broadcaster
	Browser  *browser.LazyController

	deny        *url.DenyList
	placeholder url.Placeholder

	initOnce    sync.Once
	initErr     error
	trackerOnce sync.Once
	tracker     *usecase.SuspensionTracker
	trackerErr  error

	// Context with logger
	ctx context.Context
}

// Options adjusts NewApp for tests and embedding.
type Options struct {
	// LogOutput overrides stderr.
	LogOutput io.Writer
}

// NewApp loads config and builds every dependency. Nothing touches the
// database or the browser until a command needs it.
func NewApp(opts Options) (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	logCfg.TimeFormat = "15:04:05"
	logCfg.Output = opts.LogOutput
	logger := logging.New(logCfg)
	ctx := logging.WithContext(context.Background(), logger)

	app, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Manager = mgr
	return app, nil
}

func newApp(ctx context.Context, cfg *config.Config) (*App, error) {
	deny, err := url.NewDenyList(cfg.Suspension.DenyPatterns)
	if err != nil {
		return nil, fmt.Errorf("deny patterns: %w", err)
	}
	placeholder, err := url.NewPlaceholder(cfg.Suspension.PlaceholderURL)
	if err != nil {
		return nil, fmt.Errorf("placeholder url: %w", err)
	}

	db := sqlite.NewLazyDB(cfg.Database.Path)
	local := sqlite.NewKVStore(db, sqlite.AreaLocal)
	synced := jsonfile.New(cfg.Synced.Path, cfg.Synced.QuotaBytes, cfg.Synced.ItemQuotaBytes)

	m := metrics.New()
	bus := events.NewBroadcaster(time.Duration(cfg.Events.ThrottleMs) * time.Millisecond)

	sessions := usecase.NewSessionStore(local, synced,
		usecase.SessionStoreConfig{
			Limits:           cfg.SyncLimits(),
			MaxSessionsLocal: cfg.Session.MaxSessionsLocal,
			MirrorDefault:    cfg.Session.BookmarksBackup,
		},
		usecase.WithMirror(sqlite.NewBookmarkStore(db)),
		usecase.WithStoreEvents(bus),
		usecase.WithStoreMetrics(m),
	)

	return &App{
		Config:      cfg,
		Theme:       styles.NewTheme(),
		db:          db,
		Local:       local,
		Synced:      synced,
		Sessions:    sessions,
		Metrics:     m,
		Events:      bus,
		Browser:     browser.NewLazyController(browser.Config{ControlURL: cfg.Browser.ControlURL, Headless: cfg.Browser.Headless}),
		deny:        deny,
		placeholder: placeholder,
		ctx:         ctx,
	}, nil
}

// Placeholder returns the parsed placeholder page URL.
func (a *App) Placeholder() url.Placeholder {
	return a.placeholder
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// InitSessions runs the session store startup (migration, repair, recovery) once.
func (a *App) InitSessions() error {
	a.initOnce.Do(func() {
		a.initErr = a.Sessions.Init(a.ctx)
	})
	return a.initErr
}

// Tracker returns the suspension tracker with its records loaded.
func (a *App) Tracker() (*usecase.SuspensionTracker, error) {
	a.trackerOnce.Do(func() {
		a.tracker = usecase.NewSuspensionTracker(a.Browser, a.Local, a.deny, a.placeholder,
			usecase.WithBrowserTimeout(time.Duration(a.Config.Suspension.BrowserTimeoutMs)*time.Millisecond),
			usecase.WithTrackerEvents(a.Events),
			usecase.WithTrackerMetrics(a.Metrics),
		)
		a.trackerErr = a.tracker.Init(a.ctx)
	})
	return a.tracker, a.trackerErr
}

// Search returns the search use case with its history loaded. When
// withOpenTabs is false the browser is never contacted.
func (a *App) Search(withOpenTabs bool) (*usecase.SearchUseCase, error) {
	if err := a.InitSessions(); err != nil {
		return nil, err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return nil, err
	}
	cfg := usecase.SearchConfig{
		HistoryLimit:    a.Config.Search.HistoryLimit,
		SuggestionLimit: a.Config.Search.SuggestionLimit,
	}
	var uc *usecase.SearchUseCase
	if withOpenTabs {
		uc = usecase.NewSearchUseCase(a.Browser, tracker, a.Sessions, a.Local, a.deny, cfg, usecase.WithSearchMetrics(a.Metrics))
	} else {
		uc = usecase.NewSearchUseCase(nil, tracker, a.Sessions, a.Local, a.deny, cfg, usecase.WithSearchMetrics(a.Metrics))
	}
	if err := uc.Init(a.ctx); err != nil {
		return nil, err
	}
	return uc, nil
}

// SaveSession returns the use case capturing live tabs into a session.
func (a *App) SaveSession() (*usecase.SaveSessionUseCase, error) {
	if err := a.InitSessions(); err != nil {
		return nil, err
	}
	tracker, err := a.Tracker()
	if err != nil {
		return nil, err
	}
	return usecase.NewSaveSessionUseCase(a.Browser, a.Sessions, tracker, a.deny, a.placeholder), nil
}

// RestoreSession returns the use case reopening a stored session.
func (a *App) RestoreSession() (*usecase.RestoreSessionUseCase, error) {
	if err := a.InitSessions(); err != nil {
		return nil, err
	}
	return usecase.NewRestoreSessionUseCase(a.Browser, a.Sessions), nil
}

// ConvertAllTabs returns the use case saving every tab then closing them.
func (a *App) ConvertAllTabs() (*usecase.ConvertAllTabsUseCase, error) {
	save, err := a.SaveSession()
	if err != nil {
		return nil, err
	}
	return usecase.NewConvertAllTabsUseCase(a.Browser, save), nil
}

// Close releases all resources.
func (a *App) Close() error {
	var errs []error
	if a.tracker != nil {
		a.tracker.Dispose()
	}
	if err := a.Sessions.Dispose(a.ctx); err != nil {
		errs = append(errs, fmt.Errorf("dispose session store: %w", err))
	}
	a.Events.Close()
	if err := a.Browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
