// Package sweeper periodically removes suspended-tab records that outlived their retention.
package sweeper

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/omni/internal/logging"
)

const (
	defaultInterval = time.Hour
	defaultMaxAge   = 30 * 24 * time.Hour
)

// OrphanSweeper is the part of the suspension tracker the service drives.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, maxAge time.Duration) (int, error)
}

// Service runs orphan sweeps on a fixed interval.
type Service struct {
	sweeper  OrphanSweeper
	interval time.Duration
	maxAge   time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
	lastRun time.Time
	swept   int
}

// NewService creates a sweeper. Non-positive durations use the defaults (hourly, 30 days).
func NewService(sweeper OrphanSweeper, interval, maxAge time.Duration) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	return &Service{
		sweeper:  sweeper,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Start schedules the first sweep one interval from now. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.scheduleLocked()
	logging.FromContext(ctx).Debug().
		Str(logging.FieldEvent, "sweeper_started").
		Dur("interval", s.interval).
		Dur("max_age", s.maxAge).
		Msg("orphan sweeper started")
}

// Stop cancels pending sweeps and waits for a running one to finish.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.running.Wait()
	logging.FromContext(ctx).Debug().Str(logging.FieldEvent, "sweeper_stopped").Msg("orphan sweeper stopped")
}

// RunOnce sweeps immediately and returns the number of records removed.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	n, err := s.sweeper.SweepOrphans(ctx, s.maxAge)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.swept += n
	s.mu.Unlock()

	return n, err
}

// Stats reports when the last sweep ran and how many records were removed in total.
func (s *Service) Stats() (time.Time, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.swept
}

func (s *Service) scheduleLocked() {
	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		if ctx == nil || ctx.Err() != nil {
			s.mu.Unlock()
			return
		}
		s.running.Add(1)
		s.mu.Unlock()
		defer s.running.Done()

		if _, err := s.RunOnce(ctx); err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str(logging.FieldEvent, "sweep_failed").
				Msg("orphan sweep failed")
		}

		s.mu.Lock()
		if s.ctx == ctx && ctx.Err() == nil {
			s.scheduleLocked()
		}
		s.mu.Unlock()
	})
}
