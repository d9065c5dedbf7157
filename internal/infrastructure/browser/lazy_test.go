package browser

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/logging/logtest"
)

func TestLazyController_NotConnectedByDefault(t *testing.T) {
	l := NewLazyController(Config{ControlURL: "ws://127.0.0.1:9222"})
	assert.False(t, l.IsConnected())
	assert.NoError(t, l.Close())
}

func TestLazyController_FailureIsSticky(t *testing.T) {
	ctx, rec := logtest.Context()
	var calls atomic.Int32
	l := NewLazyController(Config{})
	l.connect = func(context.Context, Config) (*RodController, error) {
		calls.Add(1)
		return nil, errors.New("no chrome binary")
	}

	_, err := l.ListWindows(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chrome binary")

	_, err = l.CreateTab(ctx, "https://example.com", entity.CreateTabOptions{})
	require.Error(t, err)
	require.Error(t, l.RemoveTab(ctx, 1))

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, l.IsConnected())
	assert.Equal(t, 1, rec.Count("browser_connect_failed"))
}

func TestLazyController_ConnectContextOutlivesCaller(t *testing.T) {
	ctx, _ := logtest.Context()
	callCtx, cancel := context.WithCancel(ctx)

	var connectCtx context.Context
	l := NewLazyController(Config{})
	l.connect = func(c context.Context, _ Config) (*RodController, error) {
		connectCtx = c
		return nil, errors.New("stop here")
	}

	_, _ = l.ListWindows(callCtx)
	cancel()
	require.NotNil(t, connectCtx)
	assert.NoError(t, connectCtx.Err())
}
