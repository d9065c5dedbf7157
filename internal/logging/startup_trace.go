package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StartupTrace records daemon startup milestones. Milestones are only
// emitted when the logger is at debug level or lower; Finish always logs
// the summary at info.
type StartupTrace struct {
	mu         sync.Mutex
	t0         time.Time
	now        func() time.Time
	milestones []Milestone
	logger     *zerolog.Logger
	finished   bool
}

// Milestone represents a timing checkpoint during startup.
type Milestone struct {
	Name    string
	Elapsed time.Duration // time since t0
	Delta   time.Duration // time since previous milestone
}

// NewStartupTrace starts a trace at the current time.
func NewStartupTrace(logger *zerolog.Logger) *StartupTrace {
	return newStartupTrace(logger, time.Now)
}

func newStartupTrace(logger *zerolog.Logger, now func() time.Time) *StartupTrace {
	return &StartupTrace{
		t0:         now(),
		now:        now,
		milestones: make([]Milestone, 0, 8),
		logger:     logger,
	}
}

// Mark records a milestone with the given name.
func (st *StartupTrace) Mark(name string) {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.finished {
		return
	}

	elapsed := st.now().Sub(st.t0)
	var delta time.Duration
	if len(st.milestones) > 0 {
		delta = elapsed - st.milestones[len(st.milestones)-1].Elapsed
	}

	m := Milestone{Name: name, Elapsed: elapsed, Delta: delta}
	st.milestones = append(st.milestones, m)
	st.emitMilestone(m)
}

// emitMilestone logs a single milestone. Caller must hold mutex.
func (st *StartupTrace) emitMilestone(m Milestone) {
	if st.logger == nil {
		return
	}

	elapsedMs := m.Elapsed.Milliseconds()
	event := st.logger.Debug().
		Str(FieldEvent, "startup_milestone").
		Str("milestone", m.Name).
		Int64("t_ms", elapsedMs)
	if m.Delta > 0 {
		event = event.Int64("delta_ms", m.Delta.Milliseconds())
	}
	event.Msgf("startup: %s (T+%dms)", m.Name, elapsedMs)
}

// Finish marks the trace complete and logs a one-line summary.
func (st *StartupTrace) Finish() {
	if st == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.finished {
		return
	}
	st.finished = true

	if st.logger == nil {
		return
	}

	parts := make([]string, 0, len(st.milestones))
	for _, m := range st.milestones {
		parts = append(parts, fmt.Sprintf("%s:%d", m.Name, m.Elapsed.Milliseconds()))
	}
	st.logger.Info().
		Str(FieldEvent, "startup_complete").
		Int64("total_ms", st.now().Sub(st.t0).Milliseconds()).
		Str("milestones", strings.Join(parts, ",")).
		Msg("startup complete")
}

// Milestones returns a copy of the recorded milestones.
func (st *StartupTrace) Milestones() []Milestone {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]Milestone(nil), st.milestones...)
}
