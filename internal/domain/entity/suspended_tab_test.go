package entity_test

import (
	"testing"
	"time"

	"github.com/bnema/omni/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSuspendedTabs_LegacyShape(t *testing.T) {
	raw := `[
		{"id":12,"url":"https://a","title":"A","windowId":1,"index":0,"suspended":1700000000000},
		{"uniqueId":"u-1","tabId":13,"url":"https://b","suspendedAt":1700000001000}
	]`

	records, err := entity.DecodeSuspendedTabs([]byte(raw))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Empty(t, records[0].UniqueID)
	assert.Equal(t, entity.BrowserTabID(12), records[0].BrowserTabID)
	assert.Equal(t, int64(1700000000000), records[0].SuspendedAt.Millis())

	assert.Equal(t, entity.UniqueID("u-1"), records[1].UniqueID)
	assert.Equal(t, entity.BrowserTabID(13), records[1].BrowserTabID)
}

func TestSuspendedTab_OlderThan(t *testing.T) {
	now := time.Now()
	maxAge := 30 * 24 * time.Hour

	old := entity.SuspendedTab{SuspendedAt: entity.NewTimestamp(now.Add(-31 * 24 * time.Hour))}
	recent := entity.SuspendedTab{SuspendedAt: entity.NewTimestamp(now.Add(-24 * time.Hour))}

	assert.True(t, old.OlderThan(now, maxAge))
	assert.False(t, recent.OlderThan(now, maxAge))
}

func TestTimestamp_UnmarshalString(t *testing.T) {
	var ts entity.Timestamp
	require.NoError(t, ts.UnmarshalJSON([]byte(`"2025-01-02T03:04:05Z"`)))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC).UnixMilli(), ts.Millis())

	require.ErrorIs(t, ts.UnmarshalJSON([]byte(`true`)), entity.ErrInvalidFormat)
}
