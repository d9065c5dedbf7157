package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/logging"
)

var _ port.TabWatcher = (*RodController)(nil)

// WatchRemovals implements port.TabWatcher with CDP target discovery events.
// Only page targets this controller has seen are reported.
func (c *RodController) WatchRemovals(ctx context.Context, fn func(port.TabRemoval)) error {
	log := logging.FromContext(ctx)

	b, err := c.client(ctx)
	if err != nil {
		return err
	}
	if _, err := c.snapshot(ctx); err != nil {
		return err
	}
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(b); err != nil {
		return fmt.Errorf("enable target discovery: %w", err)
	}
	log.Debug().Str(logging.FieldEvent, "tab_watch_started").Msg("watching for closed tabs")

	wait := b.EachEvent(
		func(e *proto.TargetTargetCreated) {
			if e.TargetInfo != nil && e.TargetInfo.Type == proto.TargetTargetInfoTypePage {
				// Window lookups are CDP calls; keep them off the event loop.
				go c.locate(ctx, e.TargetInfo.TargetID)
			}
		},
		func(e *proto.TargetTargetDestroyed) {
			if r, ok := c.removal(e.TargetID); ok {
				fn(r)
			}
		},
	)
	wait()
	return ctx.Err()
}

// locate records the window of a target created after the last snapshot.
func (c *RodController) locate(ctx context.Context, target proto.TargetTargetID) {
	b, err := c.client(ctx)
	if err != nil {
		return
	}
	win, err := proto.BrowserGetWindowForTarget{TargetID: target}.Call(b)
	if err != nil {
		return
	}
	c.track(target, int(win.WindowID))
}

func (c *RodController) track(target proto.TargetTargetID, window int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registerLocked(target)
	c.windows[target] = window
}

// removal forgets target and describes it as a closed tab.
func (c *RodController) removal(target proto.TargetTargetID) (port.TabRemoval, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, known := c.order[target]; !known {
		return port.TabRemoval{}, false
	}
	window, located := c.windows[target]
	c.forgetLocked(target)

	r := port.TabRemoval{TabID: TabID(target), WindowID: window}
	if located {
		r.LastInWindow = true
		for _, w := range c.windows {
			if w == window {
				r.LastInWindow = false
				break
			}
		}
	}
	return r, true
}
