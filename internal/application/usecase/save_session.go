package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/domain/url"
	"github.com/bnema/omni/internal/logging"
)

// ErrNothingToSave is returned when no tab qualifies for a session.
var ErrNothingToSave = errors.New("no saveable tabs")

// SuspendedLookup resolves a uniqueId to its record.
type SuspendedLookup interface {
	Get(id entity.UniqueID) (entity.SuspendedTab, bool)
}

// SessionWriter is the write side of the session store.
type SessionWriter interface {
	SessionLister
	Add(ctx context.Context, session entity.Session) (entity.Session, error)
}

// SaveSessionUseCase captures live tabs into a new session.
type SaveSessionUseCase struct {
	tabs        port.TabController
	sessions    SessionWriter
	suspended   SuspendedLookup
	deny        *url.DenyList
	placeholder url.Placeholder
	now         port.Clock
}

// NewSaveSessionUseCase creates a new SaveSessionUseCase.
func NewSaveSessionUseCase(
	tabs port.TabController,
	sessions SessionWriter,
	suspended SuspendedLookup,
	deny *url.DenyList,
	placeholder url.Placeholder,
) *SaveSessionUseCase {
	return &SaveSessionUseCase{
		tabs:        tabs,
		sessions:    sessions,
		suspended:   suspended,
		deny:        deny,
		placeholder: placeholder,
		now:         time.Now,
	}
}

// SaveSessionInput selects what to capture.
type SaveSessionInput struct {
	Name     string
	WindowID int // 0 = every window
}

// SaveSessionOutput contains the stored session and the tabs it captured.
type SaveSessionOutput struct {
	Session  entity.Session
	Captured []entity.BrowserTab
	Skipped  int
}

// Execute snapshots the selected windows and stores them as one session.
// Suspended tabs are saved with their original URL.
func (uc *SaveSessionUseCase) Execute(ctx context.Context, input SaveSessionInput) (*SaveSessionOutput, error) {
	log := logging.FromContext(ctx)

	windows, err := uc.windows(ctx, input.WindowID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	out := &SaveSessionOutput{}
	groups := make([]entity.WindowGroup, 0, len(windows))
	for _, w := range windows {
		tabs, err := uc.tabs.ListTabs(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("list tabs of window %d: %w", w.ID, err)
		}
		group := entity.WindowGroup{WindowID: w.ID}
		for _, tab := range tabs {
			snap, ok := uc.snapshot(tab, now)
			if !ok {
				out.Skipped++
				continue
			}
			snap.Index = len(group.Tabs)
			group.Tabs = append(group.Tabs, snap)
			out.Captured = append(out.Captured, tab)
		}
		groups = append(groups, group)
	}
	if len(out.Captured) == 0 {
		return nil, ErrNothingToSave
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		existing, err := uc.sessions.List(ctx)
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("Session %d", len(existing)+1)
	}

	session := entity.NewSession(entity.NewSessionID(now), name, groups, now)
	out.Session, err = uc.sessions.Add(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	log.Info().
		Str(logging.FieldEvent, "session_captured").
		Str("session_id", string(out.Session.ID)).
		Int("tab_count", out.Session.TabCount).
		Int("window_count", out.Session.WindowCount).
		Int("skipped", out.Skipped).
		Msg("tabs saved as session")
	return out, nil
}

func (uc *SaveSessionUseCase) windows(ctx context.Context, windowID int) ([]entity.BrowserWindow, error) {
	all, err := uc.tabs.ListWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	if windowID == 0 {
		return all, nil
	}
	for _, w := range all {
		if w.ID == windowID {
			return []entity.BrowserWindow{w}, nil
		}
	}
	return nil, fmt.Errorf("window %d: %w", windowID, entity.ErrNotFound)
}

// snapshot resolves placeholders to the suspended URL and rejects denied URLs.
func (uc *SaveSessionUseCase) snapshot(tab entity.BrowserTab, now time.Time) (entity.TabSnapshot, bool) {
	if id, ok := uc.placeholder.Parse(tab.URL); ok && uc.suspended != nil {
		rec, found := uc.suspended.Get(entity.UniqueID(id))
		if !found {
			return entity.TabSnapshot{}, false
		}
		tab.URL = rec.URL
		tab.Title = rec.Title
		tab.FaviconURL = rec.FaviconURL
	}
	if uc.deny.Denied(tab.URL) {
		return entity.TabSnapshot{}, false
	}
	return tab.Snapshot(now), true
}
