package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"

	"github.com/bnema/omni/internal/application/port"
)

func TestRodController_Removal(t *testing.T) {
	c := newRodController()
	c.track("a", 1)
	c.track("b", 1)
	c.track("c", 2)

	r, ok := c.removal("a")
	assert.True(t, ok)
	assert.Equal(t, port.TabRemoval{TabID: TabID("a"), WindowID: 1}, r)

	r, ok = c.removal("b")
	assert.True(t, ok)
	assert.Equal(t, port.TabRemoval{TabID: TabID("b"), WindowID: 1, LastInWindow: true}, r)

	// Unknown targets such as workers are not tabs.
	_, ok = c.removal(proto.TargetTargetID("worker"))
	assert.False(t, ok)

	// A second event for the same target is ignored.
	_, ok = c.removal("b")
	assert.False(t, ok)

	_, tracked := c.targets[TabID("c")]
	assert.True(t, tracked)
}
