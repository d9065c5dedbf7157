package browser_test

import (
	"os"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/infrastructure/browser"
	"github.com/bnema/omni/internal/logging/logtest"
)

var _ port.TabController = (*browser.RodController)(nil)

func TestTabID_StableAndPositive(t *testing.T) {
	a := browser.TabID(proto.TargetTargetID("8F2A1C0D5E6B7A8990ABCDEF01234567"))
	b := browser.TabID(proto.TargetTargetID("8F2A1C0D5E6B7A8990ABCDEF01234567"))
	c := browser.TabID(proto.TargetTargetID("0000000000000000000000000000FFFF"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Positive(t, int(a))
	assert.Positive(t, int(browser.TabID("")))
}

// Runs against a real browser when OMNI_TEST_CDP_URL points at a DevTools endpoint.
func TestRodController_LiveBrowser(t *testing.T) {
	controlURL := os.Getenv("OMNI_TEST_CDP_URL")
	if controlURL == "" {
		t.Skip("OMNI_TEST_CDP_URL not set")
	}
	ctx, _ := logtest.Context()

	c, err := browser.Connect(ctx, browser.Config{ControlURL: controlURL})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	win, err := c.CreateWindow(ctx, entity.CreateWindowOptions{URL: "about:blank", Focused: true})
	require.NoError(t, err)

	tab, err := c.CreateTab(ctx, "about:blank#second", entity.CreateTabOptions{Pinned: true})
	require.NoError(t, err)
	assert.True(t, tab.Pinned)

	require.Eventually(t, func() bool {
		tabs, err := port.ListAllTabs(ctx, c)
		return err == nil && len(tabs) >= 2
	}, 5*time.Second, 100*time.Millisecond)

	got, err := c.GetTab(ctx, tab.ID)
	require.NoError(t, err)
	assert.Equal(t, tab.ID, got.ID)

	require.NoError(t, c.RemoveTab(ctx, tab.ID))
	_, err = c.GetTab(ctx, tab.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	windows, err := c.ListWindows(ctx)
	require.NoError(t, err)
	var found bool
	for _, w := range windows {
		found = found || w.ID == win.ID
	}
	assert.True(t, found)
}
