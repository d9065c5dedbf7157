package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/logging"
)

// LazyController implements port.TabController with lazy connection.
// The browser is reached on the first call, so commands that never touch
// tabs don't launch or attach to one.
type LazyController struct {
	cfg     Config
	connect func(context.Context, Config) (*RodController, error)

	once sync.Once
	mu   sync.RWMutex
	ctrl *RodController
	err  error
}

// Compile-time interface check.
var (
	_ port.TabController = (*LazyController)(nil)
	_ port.TabWatcher    = (*LazyController)(nil)
)

// NewLazyController creates a controller that connects on first use.
func NewLazyController(cfg Config) *LazyController {
	return &LazyController{cfg: cfg, connect: Connect}
}

// controller returns the connected controller. A failed connection is sticky.
func (l *LazyController) controller(ctx context.Context) (*RodController, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		log.Debug().Str(logging.FieldEvent, "browser_lazy_connect").Msg("lazy browser connection starting")

		// The connection outlives the call that triggered it.
		ctrl, err := l.connect(context.WithoutCancel(ctx), l.cfg)
		l.mu.Lock()
		l.ctrl, l.err = ctrl, err
		l.mu.Unlock()
		if err != nil {
			log.Error().Err(err).Str(logging.FieldEvent, "browser_connect_failed").Msg("lazy browser connection failed")
		}
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("browser unavailable: %w", l.err)
	}
	return l.ctrl, nil
}

// IsConnected reports whether a connection has been established.
func (l *LazyController) IsConnected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ctrl != nil
}

// Close releases the connection if one was made.
func (l *LazyController) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctrl == nil {
		return nil
	}
	err := l.ctrl.Close()
	l.ctrl = nil
	l.err = fmt.Errorf("browser connection closed")
	return err
}

// ListWindows implements port.TabController.
func (l *LazyController) ListWindows(ctx context.Context) ([]entity.BrowserWindow, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListWindows(ctx)
}

// ListTabs implements port.TabController.
func (l *LazyController) ListTabs(ctx context.Context, windowID int) ([]entity.BrowserTab, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return nil, err
	}
	return c.ListTabs(ctx, windowID)
}

// GetTab implements port.TabController.
func (l *LazyController) GetTab(ctx context.Context, id entity.BrowserTabID) (entity.BrowserTab, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	return c.GetTab(ctx, id)
}

// CreateTab implements port.TabController.
func (l *LazyController) CreateTab(ctx context.Context, url string, opts entity.CreateTabOptions) (entity.BrowserTab, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	return c.CreateTab(ctx, url, opts)
}

// UpdateTab implements port.TabController.
func (l *LazyController) UpdateTab(ctx context.Context, id entity.BrowserTabID, opts entity.UpdateTabOptions) (entity.BrowserTab, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	return c.UpdateTab(ctx, id, opts)
}

// RemoveTab implements port.TabController.
func (l *LazyController) RemoveTab(ctx context.Context, id entity.BrowserTabID) error {
	c, err := l.controller(ctx)
	if err != nil {
		return err
	}
	return c.RemoveTab(ctx, id)
}

// CreateWindow implements port.TabController.
func (l *LazyController) CreateWindow(ctx context.Context, opts entity.CreateWindowOptions) (entity.BrowserWindow, error) {
	c, err := l.controller(ctx)
	if err != nil {
		return entity.BrowserWindow{}, err
	}
	return c.CreateWindow(ctx, opts)
}

// WatchRemovals implements port.TabWatcher. It connects like any other call.
func (l *LazyController) WatchRemovals(ctx context.Context, fn func(port.TabRemoval)) error {
	c, err := l.controller(ctx)
	if err != nil {
		return err
	}
	return c.WatchRemovals(ctx, fn)
}
