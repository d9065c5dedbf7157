package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic_LogsAndRepanics(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	assert.PanicsWithValue(t, "boom", func() {
		defer RecoverPanic(ctx)
		panic("boom")
	})
	assert.Contains(t, buf.String(), `"event":"panic"`)
	assert.Contains(t, buf.String(), `"panic":"boom"`)
}

func TestRecoverPanic_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&buf))

	assert.NotPanics(t, func() {
		defer RecoverPanic(ctx)
	})
	assert.Empty(t, buf.String())
}
