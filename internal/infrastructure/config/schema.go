package config

// Config represents the complete configuration for omni.
type Config struct {
	// Database locates the local tier.
	Database DatabaseConfig `mapstructure:"database" yaml:"database" toml:"database"`
	// Synced locates the synced tier and its quotas.
	Synced SyncedConfig `mapstructure:"synced" yaml:"synced" toml:"synced"`
	// Session controls saved sessions and the synced projection.
	Session SessionConfig `mapstructure:"session" yaml:"session" toml:"session"`
	// Suspension controls which tabs may be suspended and how long records live.
	Suspension SuspensionConfig `mapstructure:"suspension" yaml:"suspension" toml:"suspension"`
	Search     SearchConfig     `mapstructure:"search" yaml:"search" toml:"search"`
	Events     EventsConfig     `mapstructure:"events" yaml:"events" toml:"events"`
	// Browser selects the DevTools endpoint used as the tab control surface.
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser" toml:"browser"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" toml:"metrics"`
	// Server serves the placeholder page from the daemon.
	Server  ServerConfig  `mapstructure:"server" yaml:"server" toml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" toml:"logging"`
}

// DatabaseConfig holds the local tier sqlite settings.
type DatabaseConfig struct {
	// Path is the sqlite file. Empty resolves to $XDG_DATA_HOME/omni/omni.sqlite.
	Path string `mapstructure:"path" yaml:"path" toml:"path"`
}

// SyncedConfig holds the synced tier file and quota settings.
type SyncedConfig struct {
	// Path is the JSON file. Empty resolves to $XDG_DATA_HOME/omni/synced.json.
	Path           string `mapstructure:"path" yaml:"path" toml:"path"`
	QuotaBytes     int    `mapstructure:"quota_bytes" yaml:"quota_bytes" toml:"quota_bytes"`
	ItemQuotaBytes int    `mapstructure:"item_quota_bytes" yaml:"item_quota_bytes" toml:"item_quota_bytes"`
}

// SessionConfig bounds the stored sessions and the synced projection.
type SessionConfig struct {
	MaxSessionsSynced      int  `mapstructure:"max_sessions_synced" yaml:"max_sessions_synced" toml:"max_sessions_synced"`
	MaxSessionsLocal       int  `mapstructure:"max_sessions_local" yaml:"max_sessions_local" toml:"max_sessions_local"`
	MaxWindowsSynced       int  `mapstructure:"max_windows_synced" yaml:"max_windows_synced" toml:"max_windows_synced"`
	MaxTabsPerWindowSynced int  `mapstructure:"max_tabs_per_window_synced" yaml:"max_tabs_per_window_synced" toml:"max_tabs_per_window_synced"`
	MaxTabsSynced          int  `mapstructure:"max_tabs_synced" yaml:"max_tabs_synced" toml:"max_tabs_synced"`
	TitleMaxLen            int  `mapstructure:"title_max_len" yaml:"title_max_len" toml:"title_max_len"`
	BookmarksBackup        bool `mapstructure:"bookmarks_backup" yaml:"bookmarks_backup" toml:"bookmarks_backup"`
}

// SuspensionConfig controls tab suspension.
type SuspensionConfig struct {
	// DenyPatterns are URL globs that are never suspended or saved.
	DenyPatterns         []string `mapstructure:"deny_patterns" yaml:"deny_patterns" toml:"deny_patterns"`
	OrphanMaxAgeDays     int      `mapstructure:"orphan_max_age_days" yaml:"orphan_max_age_days" toml:"orphan_max_age_days"`
	SweepIntervalMinutes int      `mapstructure:"sweep_interval_minutes" yaml:"sweep_interval_minutes" toml:"sweep_interval_minutes"`
	PlaceholderURL       string   `mapstructure:"placeholder_url" yaml:"placeholder_url" toml:"placeholder_url"`
	BrowserTimeoutMs     int      `mapstructure:"browser_timeout_ms" yaml:"browser_timeout_ms" toml:"browser_timeout_ms"`
}

// SearchConfig bounds search history and suggestions.
type SearchConfig struct {
	HistoryLimit    int `mapstructure:"history_limit" yaml:"history_limit" toml:"history_limit"`
	SuggestionLimit int `mapstructure:"suggestion_limit" yaml:"suggestion_limit" toml:"suggestion_limit"`
}

// EventsConfig throttles state-changed notifications.
type EventsConfig struct {
	ThrottleMs int `mapstructure:"throttle_ms" yaml:"throttle_ms" toml:"throttle_ms"`
}

// BrowserConfig selects the DevTools endpoint.
type BrowserConfig struct {
	// ControlURL is a DevTools websocket URL. Empty launches a local browser.
	ControlURL string `mapstructure:"control_url" yaml:"control_url" toml:"control_url"`
	Headless   bool   `mapstructure:"headless" yaml:"headless" toml:"headless"`
}

// MetricsConfig exposes Prometheus metrics from the daemon.
type MetricsConfig struct {
	// Listen is the HTTP address of /metrics. Empty disables the endpoint.
	Listen string `mapstructure:"listen" yaml:"listen" toml:"listen"`
}

// ServerConfig is the daemon's HTTP endpoint for placeholder pages.
type ServerConfig struct {
	// Listen is host:port. Empty disables the placeholder server.
	Listen string `mapstructure:"listen" yaml:"listen" toml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" toml:"level"`
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
	// File is the rotated JSON log the daemon writes under $XDG_STATE_HOME/omni/logs.
	File LogFileConfig `mapstructure:"file" yaml:"file" toml:"file"`
}

// LogFileConfig bounds the daemon log files.
type LogFileConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool `mapstructure:"compress" yaml:"compress" toml:"compress"`
}
