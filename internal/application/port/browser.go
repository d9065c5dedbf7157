// Package port defines interfaces for infrastructure adapters.
package port

import (
	"context"

	"github.com/bnema/omni/internal/domain/entity"
)

//go:generate mockgen -destination=mocks/mock_browser.go -package=mocks github.com/bnema/omni/internal/application/port TabController

// TabController is the tab/window control surface of the browser.
// The core calls it but never owns the lifecycle of tabs or windows.
type TabController interface {
	// ListWindows returns every normal window.
	ListWindows(ctx context.Context) ([]entity.BrowserWindow, error)

	// ListTabs returns the tabs of one window in index order.
	ListTabs(ctx context.Context, windowID int) ([]entity.BrowserTab, error)

	// GetTab returns a single tab, or entity.ErrNotFound.
	GetTab(ctx context.Context, id entity.BrowserTabID) (entity.BrowserTab, error)

	// CreateTab opens a new tab.
	CreateTab(ctx context.Context, url string, opts entity.CreateTabOptions) (entity.BrowserTab, error)

	// UpdateTab navigates or changes flags on an existing tab.
	UpdateTab(ctx context.Context, id entity.BrowserTabID, opts entity.UpdateTabOptions) (entity.BrowserTab, error)

	// RemoveTab closes a tab.
	RemoveTab(ctx context.Context, id entity.BrowserTabID) error

	// CreateWindow opens a new window with one tab.
	CreateWindow(ctx context.Context, opts entity.CreateWindowOptions) (entity.BrowserWindow, error)
}

// ListAllTabs walks every window and returns all live tabs.
func ListAllTabs(ctx context.Context, tc TabController) ([]entity.BrowserTab, error) {
	windows, err := tc.ListWindows(ctx)
	if err != nil {
		return nil, err
	}
	var all []entity.BrowserTab
	for _, w := range windows {
		tabs, err := tc.ListTabs(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, tabs...)
	}
	return all, nil
}

// TabRemoval is a tab the user closed in the browser.
type TabRemoval struct {
	TabID    entity.BrowserTabID
	WindowID int // zero when the window was never observed
	// LastInWindow is set when no other open tab of WindowID is known.
	LastInWindow bool
}

// TabWatcher reports tab removals as they happen.
type TabWatcher interface {
	// WatchRemovals calls fn for every closed tab until ctx is done.
	WatchRemovals(ctx context.Context, fn func(TabRemoval)) error
}
