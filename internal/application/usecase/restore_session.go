package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/logging"
)

// SessionReader looks up and touches stored sessions.
type SessionReader interface {
	Get(ctx context.Context, id entity.SessionID) (entity.Session, error)
	Touch(ctx context.Context, id entity.SessionID) (entity.Session, error)
}

// RestoreSessionUseCase reopens a saved session in new windows.
type RestoreSessionUseCase struct {
	tabs     port.TabController
	sessions SessionReader
}

// NewRestoreSessionUseCase creates a new RestoreSessionUseCase.
func NewRestoreSessionUseCase(tabs port.TabController, sessions SessionReader) *RestoreSessionUseCase {
	return &RestoreSessionUseCase{tabs: tabs, sessions: sessions}
}

// RestoreSessionInput selects the session and, optionally, a subset of its tabs.
type RestoreSessionInput struct {
	SessionID entity.SessionID
	// URLs restricts the restore to these tab URLs. Empty restores everything.
	URLs []string
}

// RestoreSessionOutput reports what was opened.
type RestoreSessionOutput struct {
	Session    entity.Session
	WindowIDs  []int
	TabsOpened int
	TabsFailed int
}

// Execute opens one window per window group. Individual tab failures are
// logged and skipped; a window that cannot be created fails the restore.
func (uc *RestoreSessionUseCase) Execute(ctx context.Context, input RestoreSessionInput) (*RestoreSessionOutput, error) {
	if input.SessionID == "" {
		return nil, fmt.Errorf("session id required")
	}
	ctx = logging.WithSessionID(ctx, string(input.SessionID))
	log := logging.FromContext(ctx)

	session, err := uc.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	groups := selectTabs(session.Windows, input.URLs)
	if len(groups) == 0 {
		return nil, fmt.Errorf("session %s has no matching tabs: %w", input.SessionID, entity.ErrNotFound)
	}

	out := &RestoreSessionOutput{}
	for i, group := range groups {
		first := group.Tabs[0]
		window, err := uc.tabs.CreateWindow(ctx, entity.CreateWindowOptions{URL: first.URL, Focused: i == 0})
		if err != nil {
			return out, fmt.Errorf("create window: %w", err)
		}
		out.WindowIDs = append(out.WindowIDs, window.ID)
		out.TabsOpened++

		for _, tab := range group.Tabs[1:] {
			_, err := uc.tabs.CreateTab(ctx, tab.URL, entity.CreateTabOptions{
				WindowID: window.ID,
				Index:    -1,
				Pinned:   tab.Pinned,
			})
			if err != nil {
				out.TabsFailed++
				log.Warn().Err(err).Str(logging.FieldEvent, "restore_tab_failed").Str("url", tab.URL).
					Msg("could not reopen tab")
				continue
			}
			out.TabsOpened++
		}
	}

	out.Session, err = uc.sessions.Touch(ctx, input.SessionID)
	if err != nil {
		log.Warn().Err(err).Str(logging.FieldEvent, "session_touch_failed").Msg("could not update last access")
		out.Session = session
	}

	log.Info().
		Str(logging.FieldEvent, "session_restored").
		Int("windows", len(out.WindowIDs)).
		Int("tabs_opened", out.TabsOpened).
		Int("tabs_failed", out.TabsFailed).
		Msg("session restored")
	return out, nil
}

func selectTabs(windows []entity.WindowGroup, urls []string) []entity.WindowGroup {
	var wanted map[string]struct{}
	if len(urls) > 0 {
		wanted = make(map[string]struct{}, len(urls))
		for _, u := range urls {
			wanted[u] = struct{}{}
		}
	}

	out := make([]entity.WindowGroup, 0, len(windows))
	for _, w := range windows {
		group := entity.WindowGroup{WindowID: w.WindowID}
		for _, t := range w.Tabs {
			if t.URL == "" {
				continue
			}
			if wanted != nil {
				if _, ok := wanted[t.URL]; !ok {
					continue
				}
			}
			group.Tabs = append(group.Tabs, t)
		}
		if len(group.Tabs) > 0 {
			out = append(out, group)
		}
	}
	return out
}
