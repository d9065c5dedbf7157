package config

import (
	"github.com/bnema/omni/internal/domain/syncpolicy"
	"github.com/bnema/omni/internal/domain/url"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	defaultMaxSessionsLocal     = 50
	defaultOrphanMaxAgeDays     = 30
	defaultSweepIntervalMinutes = 60
	defaultServerListen         = "127.0.0.1:7717"
	defaultPlaceholderURL       = "http://" + defaultServerListen + "/suspended"
	defaultBrowserTimeoutMs     = 5000
	defaultHistoryLimit         = 50
	defaultSuggestionLimit      = 10
	defaultThrottleMs           = 500
	defaultLogMaxSizeMB         = 10
	defaultLogMaxBackups        = 5
	defaultLogMaxAgeDays        = 14
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	limits := syncpolicy.DefaultLimits()

	return &Config{
		Synced: SyncedConfig{
			QuotaBytes:     limits.QuotaBytes,
			ItemQuotaBytes: limits.ItemQuotaBytes,
		},
		Session: SessionConfig{
			MaxSessionsSynced:      limits.MaxSessions,
			MaxSessionsLocal:       defaultMaxSessionsLocal,
			MaxWindowsSynced:       limits.MaxWindows,
			MaxTabsPerWindowSynced: limits.MaxTabsPerWindow,
			MaxTabsSynced:          limits.MaxTabs,
			TitleMaxLen:            limits.TitleMaxLen,
			BookmarksBackup:        true,
		},
		Suspension: SuspensionConfig{
			DenyPatterns:         append([]string(nil), url.DefaultDenyPatterns...),
			OrphanMaxAgeDays:     defaultOrphanMaxAgeDays,
			SweepIntervalMinutes: defaultSweepIntervalMinutes,
			PlaceholderURL:       defaultPlaceholderURL,
			BrowserTimeoutMs:     defaultBrowserTimeoutMs,
		},
		Search: SearchConfig{
			HistoryLimit:    defaultHistoryLimit,
			SuggestionLimit: defaultSuggestionLimit,
		},
		Events: EventsConfig{
			ThrottleMs: defaultThrottleMs,
		},
		Browser: BrowserConfig{
			Headless: true,
		},
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File: LogFileConfig{
				Enabled:    true,
				MaxSizeMB:  defaultLogMaxSizeMB,
				MaxBackups: defaultLogMaxBackups,
				MaxAgeDays: defaultLogMaxAgeDays,
				Compress:   true,
			},
		},
	}
}

// SyncLimits converts the session and synced sections into projection limits.
func (c *Config) SyncLimits() syncpolicy.Limits {
	return syncpolicy.Limits{
		MaxSessions:      c.Session.MaxSessionsSynced,
		MaxWindows:       c.Session.MaxWindowsSynced,
		MaxTabsPerWindow: c.Session.MaxTabsPerWindowSynced,
		MaxTabs:          c.Session.MaxTabsSynced,
		TitleMaxLen:      c.Session.TitleMaxLen,
		QuotaBytes:       c.Synced.QuotaBytes,
		ItemQuotaBytes:   c.Synced.ItemQuotaBytes,
	}
}
