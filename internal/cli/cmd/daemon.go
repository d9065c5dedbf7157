package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/omni/internal/infrastructure/config"
	"github.com/bnema/omni/internal/infrastructure/placeholder"
	"github.com/bnema/omni/internal/infrastructure/sweeper"
	"github.com/bnema/omni/internal/logging"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Serve placeholder pages, follow closed tabs and sweep orphans",
	Long: `Run in the foreground until interrupted.

On start the daemon loads sessions (running migration and recovery) and
reconciles suspended-tab records against the live placeholders. While
running it:

  serves the placeholder page and its restore endpoint on server.listen
  drops the record of a suspended tab as soon as its tab or window closes
  sweeps orphaned records every suspension.sweep_interval_minutes
  serves Prometheus metrics at /metrics on metrics.listen, when set

State changes are logged and config edits are picked up live.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	cfg := a.Config

	base := a.Ctx()
	if cfg.Logging.File.Enabled {
		fileCtx, closeLog, err := daemonFileLogger(base, cfg)
		if err != nil {
			logging.FromContext(base).Warn().Err(err).
				Str(logging.FieldEvent, "log_file_failed").Msg("logging to stderr only")
		} else {
			defer closeLog()
			base = fileCtx
		}
	}

	ctx, stop := signal.NotifyContext(logging.WithComponent(base, "daemon"), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)
	trace := logging.NewStartupTrace(log)

	if err := a.InitSessions(); err != nil {
		return fmt.Errorf("init sessions: %w", err)
	}
	trace.Mark("sessions_loaded")
	tracker, err := a.Tracker()
	if err != nil {
		return fmt.Errorf("init tracker: %w", err)
	}
	trace.Mark("tracker_loaded")
	if res, err := tracker.Reconcile(ctx); err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "reconcile_failed").Msg("startup reconcile failed")
	} else {
		log.Info().
			Str(logging.FieldEvent, "reconciled").
			Int("rebound", res.Rebound).
			Int("dropped", res.Dropped).
			Msg("suspended tabs reconciled")
	}
	trace.Mark("reconciled")

	sweeps := sweeper.NewService(tracker,
		time.Duration(cfg.Suspension.SweepIntervalMinutes)*time.Minute,
		time.Duration(cfg.Suspension.OrphanMaxAgeDays)*24*time.Hour,
	)
	sweeps.Start(ctx)

	a.Manager.OnConfigChange(func(next *config.Config) {
		log.Info().
			Str(logging.FieldEvent, "config_reloaded").
			Str("log_level", next.Logging.Level).
			Msg("configuration reloaded; restart to apply storage or browser changes")
	})
	if err := a.Manager.Watch(); err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "config_watch_failed").Msg("config hot-reload disabled")
	}

	events, unsubscribe := a.Events.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer logging.RecoverPanic(gctx)
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				log.Debug().
					Str(logging.FieldEvent, "state_changed").
					Str("type", string(ev.Type)).
					Time("at", ev.Timestamp).
					Msg("state changed")
			}
		}
	})

	g.Go(func() error {
		defer logging.RecoverPanic(gctx)
		if err := tracker.FollowRemovals(gctx, a.Browser); err != nil {
			log.Warn().Err(err).Str(logging.FieldEvent, "tab_watch_failed").
				Msg("closed tabs are only noticed by reconcile and sweeps")
		}
		return nil
	})

	muxes := map[string]*http.ServeMux{}
	muxFor := func(addr string) *http.ServeMux {
		if _, ok := muxes[addr]; !ok {
			muxes[addr] = http.NewServeMux()
		}
		return muxes[addr]
	}
	if addr := cfg.Server.Listen; addr != "" {
		if path, ok := placeholder.PagePath(a.Placeholder()); ok {
			placeholder.NewServer(tracker, *log).Register(muxFor(addr), path)
			log.Info().Str(logging.FieldEvent, "placeholder_listen").Str("addr", addr).Str("path", path).
				Msg("serving placeholder pages")
		} else {
			log.Warn().Str(logging.FieldEvent, "placeholder_not_served").Str("url", cfg.Suspension.PlaceholderURL).
				Msg("placeholder_url is not an http address, the page must be served elsewhere")
		}
	}
	if addr := cfg.Metrics.Listen; addr != "" {
		muxFor(addr).Handle("/metrics", a.Metrics.Handler())
		log.Info().Str(logging.FieldEvent, "metrics_listen").Str("addr", addr).Msg("serving metrics")
	}
	for addr, mux := range muxes {
		serveHTTP(gctx, g, addr, mux)
	}

	trace.Finish()
	log.Info().Str(logging.FieldEvent, "daemon_started").Msg("omni daemon running")
	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	sweeps.Stop(shutdownCtx)
	last, swept := sweeps.Stats()
	log.Info().
		Str(logging.FieldEvent, "daemon_stopped").
		Time("last_sweep", last).
		Int("swept", swept).
		Msg("omni daemon stopped")
	return err
}

// serveHTTP runs an http server on addr until ctx is done.
func serveHTTP(ctx context.Context, g *errgroup.Group, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	g.Go(func() error {
		defer logging.RecoverPanic(ctx)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// daemonFileLogger tees the daemon logs into a rotated JSON file.
func daemonFileLogger(ctx context.Context, cfg *config.Config) (context.Context, func(), error) {
	dir, err := config.GetLogDir()
	if err != nil {
		return ctx, nil, err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	logCfg.TimeFormat = "15:04:05"
	logger, closeLog, err := logging.NewWithFile(logCfg, logging.RotatorConfig{
		Dir:        dir,
		BaseName:   "omni.log",
		MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAgeDays: cfg.Logging.File.MaxAgeDays,
		Compress:   cfg.Logging.File.Compress,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("open daemon log: %w", err)
	}
	return logging.WithContext(ctx, logger), closeLog, nil
}
