package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartupTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	clock := time.Unix(0, 0)
	st := newStartupTrace(&logger, func() time.Time { return clock })

	clock = clock.Add(10 * time.Millisecond)
	st.Mark("sessions_loaded")
	clock = clock.Add(25 * time.Millisecond)
	st.Mark("reconciled")
	st.Finish()
	st.Mark("ignored")

	ms := st.Milestones()
	require.Len(t, ms, 2)
	assert.Equal(t, 10*time.Millisecond, ms[0].Elapsed)
	assert.Equal(t, 25*time.Millisecond, ms[1].Delta)

	out := buf.String()
	assert.Contains(t, out, `"milestone":"reconciled"`)
	assert.Contains(t, out, `"event":"startup_complete"`)
	assert.Contains(t, out, `"milestones":"sessions_loaded:10,reconciled:35"`)
	assert.NotContains(t, out, "ignored")
}

func TestStartupTrace_NilSafe(t *testing.T) {
	var st *StartupTrace
	st.Mark("x")
	st.Finish()
	assert.Nil(t, st.Milestones())
}
