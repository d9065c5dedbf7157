package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/omni/internal/domain/syncpolicy"
)

func TestDefaultConfig_MatchesStoreDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 15, cfg.Session.MaxSessionsSynced)
	assert.Equal(t, 50, cfg.Session.MaxSessionsLocal)
	assert.True(t, cfg.Session.BookmarksBackup)
	assert.Equal(t, 102400, cfg.Synced.QuotaBytes)
	assert.Equal(t, 8192, cfg.Synced.ItemQuotaBytes)
	assert.Equal(t, "http://127.0.0.1:7717/suspended", cfg.Suspension.PlaceholderURL)
	assert.Equal(t, "127.0.0.1:7717", cfg.Server.Listen)
	assert.Contains(t, cfg.Suspension.DenyPatterns, "chrome://*")
	assert.Equal(t, 500, cfg.Events.ThrottleMs)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.File.Enabled)
	assert.Equal(t, 10, cfg.Logging.File.MaxSizeMB)
	assert.Equal(t, syncpolicy.DefaultLimits(), cfg.SyncLimits())

	require.NoError(t, validateConfig(cfg))
}

func TestDefaultConfig_DenyPatternsAreCopied(t *testing.T) {
	a := DefaultConfig()
	a.Suspension.DenyPatterns[0] = "changed"

	b := DefaultConfig()
	assert.NotEqual(t, "changed", b.Suspension.DenyPatterns[0])
}
