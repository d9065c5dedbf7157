// Package browser implements the tab control surface over the Chrome DevTools Protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/logging"
)

// Config selects how the controller reaches a browser.
type Config struct {
	// ControlURL is a DevTools websocket URL. Empty launches a local browser.
	ControlURL string
	Headless   bool
}

// RodController implements port.TabController with go-rod.
// CDP has no notion of pinned or active tabs per window, so both are
// tracked locally for the tabs this controller touched.
type RodController struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	targets map[entity.BrowserTabID]proto.TargetTargetID
	order   map[proto.TargetTargetID]int
	seq     int
	pinned  map[proto.TargetTargetID]bool
	active  map[int]proto.TargetTargetID
	windows map[proto.TargetTargetID]int
	focused int
}

// Connect attaches to the browser at cfg.ControlURL, or launches one.
func Connect(ctx context.Context, cfg Config) (*RodController, error) {
	log := logging.FromContext(ctx)

	c := newRodController()

	controlURL := cfg.ControlURL
	if controlURL == "" {
		path, _ := launcher.LookPath()
		c.launcher = launcher.New().Bin(path).Headless(cfg.Headless)
		u, err := c.launcher.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		controlURL = u
		log.Debug().Str(logging.FieldEvent, "browser_launched").Bool("headless", cfg.Headless).Msg("browser launched")
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		c.killLauncher()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	c.browser = b

	log.Debug().Str(logging.FieldEvent, "browser_connected").Str("control_url", controlURL).Msg("connected to browser")
	return c, nil
}

func newRodController() *RodController {
	return &RodController{
		targets: make(map[entity.BrowserTabID]proto.TargetTargetID),
		order:   make(map[proto.TargetTargetID]int),
		pinned:  make(map[proto.TargetTargetID]bool),
		active:  make(map[int]proto.TargetTargetID),
		windows: make(map[proto.TargetTargetID]int),
	}
}

// Close closes a browser this controller launched. Remote browsers stay open.
func (c *RodController) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.launcher == nil || c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.killLauncher()
	c.browser = nil
	return err
}

func (c *RodController) killLauncher() {
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher = nil
	}
}

func (c *RodController) client(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser == nil {
		return nil, errors.New("browser connection closed")
	}
	return c.browser.Context(ctx), nil
}

// ListWindows implements port.TabController.
func (c *RodController) ListWindows(ctx context.Context) ([]entity.BrowserWindow, error) {
	tabs, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[int]bool)
	var windows []entity.BrowserWindow
	for _, t := range tabs {
		if seen[t.WindowID] {
			continue
		}
		seen[t.WindowID] = true
		windows = append(windows, entity.BrowserWindow{ID: t.WindowID, Focused: t.WindowID == c.focused})
	}
	return windows, nil
}

// ListTabs implements port.TabController.
func (c *RodController) ListTabs(ctx context.Context, windowID int) ([]entity.BrowserTab, error) {
	tabs, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var out []entity.BrowserTab
	for _, t := range tabs {
		if t.WindowID == windowID {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTab implements port.TabController.
func (c *RodController) GetTab(ctx context.Context, id entity.BrowserTabID) (entity.BrowserTab, error) {
	tabs, err := c.snapshot(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	for _, t := range tabs {
		if t.ID == id {
			return t, nil
		}
	}
	return entity.BrowserTab{}, fmt.Errorf("%w: tab %d", entity.ErrNotFound, id)
}

// CreateTab implements port.TabController. CDP cannot target an existing
// window, so the tab opens in the browser's current window.
func (c *RodController) CreateTab(ctx context.Context, url string, opts entity.CreateTabOptions) (entity.BrowserTab, error) {
	b, err := c.client(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	res, err := proto.TargetCreateTarget{URL: url, Background: !opts.Active}.Call(b)
	if err != nil {
		return entity.BrowserTab{}, fmt.Errorf("create tab: %w", err)
	}

	c.mu.Lock()
	c.pinned[res.TargetID] = opts.Pinned
	c.mu.Unlock()

	return c.tabForTarget(ctx, res.TargetID, opts.Active)
}

// UpdateTab implements port.TabController.
func (c *RodController) UpdateTab(ctx context.Context, id entity.BrowserTabID, opts entity.UpdateTabOptions) (entity.BrowserTab, error) {
	b, err := c.client(ctx)
	if err != nil {
		return entity.BrowserTab{}, err
	}
	target, err := c.resolve(ctx, id)
	if err != nil {
		return entity.BrowserTab{}, err
	}

	if opts.URL != "" {
		page, err := b.PageFromTarget(target)
		if err != nil {
			return entity.BrowserTab{}, fmt.Errorf("attach to tab %d: %w", id, err)
		}
		if err := page.Navigate(opts.URL); err != nil {
			return entity.BrowserTab{}, fmt.Errorf("navigate tab %d: %w", id, err)
		}
	}
	if opts.Pinned != nil {
		c.mu.Lock()
		c.pinned[target] = *opts.Pinned
		c.mu.Unlock()
	}
	activate := opts.Active != nil && *opts.Active
	if activate {
		if err := (proto.TargetActivateTarget{TargetID: target}).Call(b); err != nil {
			return entity.BrowserTab{}, fmt.Errorf("activate tab %d: %w", id, err)
		}
	}
	return c.tabForTarget(ctx, target, activate)
}

// RemoveTab implements port.TabController.
func (c *RodController) RemoveTab(ctx context.Context, id entity.BrowserTabID) error {
	b, err := c.client(ctx)
	if err != nil {
		return err
	}
	target, err := c.resolve(ctx, id)
	if err != nil {
		return err
	}
	if _, err := (proto.TargetCloseTarget{TargetID: target}).Call(b); err != nil {
		return fmt.Errorf("close tab %d: %w", id, err)
	}

	c.mu.Lock()
	c.forgetLocked(target)
	c.mu.Unlock()
	return nil
}

// CreateWindow implements port.TabController.
func (c *RodController) CreateWindow(ctx context.Context, opts entity.CreateWindowOptions) (entity.BrowserWindow, error) {
	b, err := c.client(ctx)
	if err != nil {
		return entity.BrowserWindow{}, err
	}
	url := opts.URL
	if url == "" {
		url = "about:blank"
	}
	res, err := proto.TargetCreateTarget{URL: url, NewWindow: true}.Call(b)
	if err != nil {
		return entity.BrowserWindow{}, fmt.Errorf("create window: %w", err)
	}
	tab, err := c.tabForTarget(ctx, res.TargetID, true)
	if err != nil {
		return entity.BrowserWindow{}, err
	}
	if opts.Focused {
		c.mu.Lock()
		c.focused = tab.WindowID
		c.mu.Unlock()
	}
	return entity.BrowserWindow{ID: tab.WindowID, Focused: opts.Focused}, nil
}

// snapshot lists every page target with its window, in first-seen order per window.
func (c *RodController) snapshot(ctx context.Context) ([]entity.BrowserTab, error) {
	b, err := c.client(ctx)
	if err != nil {
		return nil, err
	}
	res, err := proto.TargetGetTargets{}.Call(b)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	type located struct {
		info   *proto.TargetTargetInfo
		window int
	}
	var pages []located
	for _, info := range res.TargetInfos {
		if info.Type != proto.TargetTargetInfoTypePage {
			continue
		}
		win, err := proto.BrowserGetWindowForTarget{TargetID: info.TargetID}.Call(b)
		if err != nil {
			// Closed between the two calls.
			continue
		}
		pages = append(pages, located{info: info, window: int(win.WindowID)})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	live := make(map[proto.TargetTargetID]bool, len(pages))
	for _, p := range pages {
		live[p.info.TargetID] = true
		c.registerLocked(p.info.TargetID)
		c.windows[p.info.TargetID] = p.window
	}
	for target := range c.order {
		if !live[target] {
			c.forgetLocked(target)
		}
	}

	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].window != pages[j].window {
			return pages[i].window < pages[j].window
		}
		return c.order[pages[i].info.TargetID] < c.order[pages[j].info.TargetID]
	})

	tabs := make([]entity.BrowserTab, 0, len(pages))
	index := make(map[int]int)
	for _, p := range pages {
		if c.focused == 0 {
			c.focused = p.window
		}
		active, ok := c.active[p.window]
		if !ok {
			active = p.info.TargetID
			c.active[p.window] = active
		}
		tabs = append(tabs, entity.BrowserTab{
			ID:       TabID(p.info.TargetID),
			WindowID: p.window,
			Index:    index[p.window],
			URL:      p.info.URL,
			Title:    p.info.Title,
			Pinned:   c.pinned[p.info.TargetID],
			Active:   active == p.info.TargetID,
		})
		index[p.window]++
	}
	return tabs, nil
}

func (c *RodController) tabForTarget(ctx context.Context, target proto.TargetTargetID, activate bool) (entity.BrowserTab, error) {
	if activate {
		b, err := c.client(ctx)
		if err != nil {
			return entity.BrowserTab{}, err
		}
		if win, err := (proto.BrowserGetWindowForTarget{TargetID: target}).Call(b); err == nil {
			c.mu.Lock()
			c.active[int(win.WindowID)] = target
			c.mu.Unlock()
		}
	}
	return c.GetTab(ctx, TabID(target))
}

func (c *RodController) resolve(ctx context.Context, id entity.BrowserTabID) (proto.TargetTargetID, error) {
	c.mu.Lock()
	target, ok := c.targets[id]
	c.mu.Unlock()
	if ok {
		return target, nil
	}
	if _, err := c.snapshot(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if target, ok := c.targets[id]; ok {
		return target, nil
	}
	return "", fmt.Errorf("%w: tab %d", entity.ErrNotFound, id)
}

func (c *RodController) registerLocked(target proto.TargetTargetID) {
	if _, ok := c.order[target]; ok {
		return
	}
	c.seq++
	c.order[target] = c.seq
	c.targets[TabID(target)] = target
}

func (c *RodController) forgetLocked(target proto.TargetTargetID) {
	delete(c.order, target)
	delete(c.targets, TabID(target))
	delete(c.pinned, target)
	delete(c.windows, target)
	for win, t := range c.active {
		if t == target {
			delete(c.active, win)
		}
	}
}

// TabID maps a CDP target id to a positive integer tab id. It is stable for
// the target's lifetime, like a browser tab id.
func TabID(target proto.TargetTargetID) entity.BrowserTabID {
	h := fnv.New32a()
	_, _ = h.Write([]byte(target))
	return entity.BrowserTabID(h.Sum32()&0x3fffffff) + 1
}
