package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/bnema/omni/internal/domain/url"
)

// validateConfig collects every violation into one error.
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateSynced(config)...)
	validationErrors = append(validationErrors, validateSession(config)...)
	validationErrors = append(validationErrors, validateSuspension(config)...)
	validationErrors = append(validationErrors, validateSearch(config)...)
	validationErrors = append(validationErrors, validateRuntime(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func positive(key string, value int) []string {
	if value <= 0 {
		return []string{fmt.Sprintf("%s must be positive (got %d)", key, value)}
	}
	return nil
}

func validateSynced(config *Config) []string {
	var errs []string
	errs = append(errs, positive("synced.quota_bytes", config.Synced.QuotaBytes)...)
	errs = append(errs, positive("synced.item_quota_bytes", config.Synced.ItemQuotaBytes)...)
	if config.Synced.ItemQuotaBytes > config.Synced.QuotaBytes {
		errs = append(errs, "synced.item_quota_bytes must not exceed synced.quota_bytes")
	}
	if config.Database.Path != "" && config.Database.Path == config.Synced.Path {
		errs = append(errs, "database.path and synced.path must differ")
	}
	return errs
}

func validateSession(config *Config) []string {
	s := config.Session
	var errs []string
	errs = append(errs, positive("session.max_sessions_synced", s.MaxSessionsSynced)...)
	errs = append(errs, positive("session.max_sessions_local", s.MaxSessionsLocal)...)
	errs = append(errs, positive("session.max_windows_synced", s.MaxWindowsSynced)...)
	errs = append(errs, positive("session.max_tabs_per_window_synced", s.MaxTabsPerWindowSynced)...)
	errs = append(errs, positive("session.max_tabs_synced", s.MaxTabsSynced)...)
	if s.MaxSessionsLocal > 0 && s.MaxSessionsSynced > s.MaxSessionsLocal {
		errs = append(errs, "session.max_sessions_synced must not exceed session.max_sessions_local")
	}
	if s.TitleMaxLen < 4 {
		errs = append(errs, "session.title_max_len must be at least 4")
	}
	return errs
}

func validateSuspension(config *Config) []string {
	s := config.Suspension
	var errs []string
	errs = append(errs, positive("suspension.orphan_max_age_days", s.OrphanMaxAgeDays)...)
	errs = append(errs, positive("suspension.sweep_interval_minutes", s.SweepIntervalMinutes)...)
	errs = append(errs, positive("suspension.browser_timeout_ms", s.BrowserTimeoutMs)...)
	if !strings.Contains(s.PlaceholderURL, "://") {
		errs = append(errs, "suspension.placeholder_url must be an absolute URL")
	} else if _, err := url.NewPlaceholder(s.PlaceholderURL); err != nil {
		errs = append(errs, fmt.Sprintf("suspension.placeholder_url is invalid: %v", err))
	}
	if _, err := url.NewDenyList(s.DenyPatterns); err != nil {
		errs = append(errs, fmt.Sprintf("suspension.deny_patterns: %v", err))
	}
	return errs
}

func validateSearch(config *Config) []string {
	var errs []string
	errs = append(errs, positive("search.history_limit", config.Search.HistoryLimit)...)
	errs = append(errs, positive("search.suggestion_limit", config.Search.SuggestionLimit)...)
	return errs
}

func validateRuntime(config *Config) []string {
	var errs []string
	if config.Events.ThrottleMs < 0 {
		errs = append(errs, "events.throttle_ms must be non-negative")
	}
	if u := config.Browser.ControlURL; u != "" && !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") &&
		!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		errs = append(errs, "browser.control_url must be a ws:// or http:// DevTools endpoint")
	}
	errs = append(errs, hostPort("metrics.listen", config.Metrics.Listen)...)
	errs = append(errs, hostPort("server.listen", config.Server.Listen)...)
	return errs
}

// hostPort accepts an empty address or host:port.
func hostPort(key, addr string) []string {
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return []string{fmt.Sprintf("%s must be host:port: %v", key, err)}
	}
	return nil
}

func validateLogging(config *Config) []string {
	var errs []string
	switch config.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error, fatal (got %q)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be json or console (got %q)", config.Logging.Format))
	}
	if config.Logging.File.Enabled {
		errs = append(errs, positive("logging.file.max_size_mb", config.Logging.File.MaxSizeMB)...)
	}
	if config.Logging.File.MaxBackups < 0 {
		errs = append(errs, "logging.file.max_backups must not be negative")
	}
	if config.Logging.File.MaxAgeDays < 0 {
		errs = append(errs, "logging.file.max_age_days must not be negative")
	}
	return errs
}
