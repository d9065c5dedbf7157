package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// OMNI_SESSION_MAX_SESSIONS_LOCAL, OMNI_BROWSER_CONTROL_URL, ...
	v.SetEnvPrefix("OMNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "OMNI_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OMNI_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "OMNI_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind OMNI_LOG_FORMAT: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configDir, _ := GetConfigDir()
			configFile = filepath.Join(configDir, "config.toml")
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if createErr := m.createDefaultConfig(); createErr != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf("failed to create default config at %s: %w", configDir, createErr)
	}
	if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
		return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
	}
	return nil
}

// reload unmarshals, resolves, normalizes and validates. Must be called with m.mu held.
func (m *Manager) reload(reread bool) error {
	if reread {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(),
			err,
		)
	}
	if err := resolvePaths(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func resolvePaths(config *Config) error {
	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	if config.Synced.Path == "" {
		syncedPath, err := GetSyncedFile()
		if err != nil {
			return fmt.Errorf("failed to get synced tier path: %w", err)
		}
		config.Synced.Path = syncedPath
	}
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}

	config.Browser.ControlURL = strings.TrimSpace(config.Browser.ControlURL)
	config.Metrics.Listen = strings.TrimSpace(config.Metrics.Listen)
	config.Server.Listen = strings.TrimSpace(config.Server.Listen)
	config.Suspension.PlaceholderURL = strings.TrimRight(strings.TrimSpace(config.Suspension.PlaceholderURL), "/")

	seen := make(map[string]bool, len(config.Suspension.DenyPatterns))
	patterns := config.Suspension.DenyPatterns[:0]
	for _, p := range config.Suspension.DenyPatterns {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		patterns = append(patterns, p)
	}
	config.Suspension.DenyPatterns = patterns
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	configCopy.Suspension.DenyPatterns = append([]string(nil), m.config.Suspension.DenyPatterns...)
	return &configCopy
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	return WriteConfigOrdered(DefaultConfig(), configFile)
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.setStorageDefaults(defaults)
	m.setSessionDefaults(defaults)
	m.setSuspensionDefaults(defaults)
	m.setSearchDefaults(defaults)
	m.setRuntimeDefaults(defaults)
	m.setLoggingDefaults(defaults)
}

func (m *Manager) setStorageDefaults(defaults *Config) {
	// Empty paths resolve to XDG locations after unmarshal.
	m.viper.SetDefault("database.path", "")
	m.viper.SetDefault("synced.path", "")
	m.viper.SetDefault("synced.quota_bytes", defaults.Synced.QuotaBytes)
	m.viper.SetDefault("synced.item_quota_bytes", defaults.Synced.ItemQuotaBytes)
}

func (m *Manager) setSessionDefaults(defaults *Config) {
	m.viper.SetDefault("session.max_sessions_synced", defaults.Session.MaxSessionsSynced)
	m.viper.SetDefault("session.max_sessions_local", defaults.Session.MaxSessionsLocal)
	m.viper.SetDefault("session.max_windows_synced", defaults.Session.MaxWindowsSynced)
	m.viper.SetDefault("session.max_tabs_per_window_synced", defaults.Session.MaxTabsPerWindowSynced)
	m.viper.SetDefault("session.max_tabs_synced", defaults.Session.MaxTabsSynced)
	m.viper.SetDefault("session.title_max_len", defaults.Session.TitleMaxLen)
	m.viper.SetDefault("session.bookmarks_backup", defaults.Session.BookmarksBackup)
}

func (m *Manager) setSuspensionDefaults(defaults *Config) {
	m.viper.SetDefault("suspension.deny_patterns", defaults.Suspension.DenyPatterns)
	m.viper.SetDefault("suspension.orphan_max_age_days", defaults.Suspension.OrphanMaxAgeDays)
	m.viper.SetDefault("suspension.sweep_interval_minutes", defaults.Suspension.SweepIntervalMinutes)
	m.viper.SetDefault("suspension.placeholder_url", defaults.Suspension.PlaceholderURL)
	m.viper.SetDefault("suspension.browser_timeout_ms", defaults.Suspension.BrowserTimeoutMs)
}

func (m *Manager) setSearchDefaults(defaults *Config) {
	m.viper.SetDefault("search.history_limit", defaults.Search.HistoryLimit)
	m.viper.SetDefault("search.suggestion_limit", defaults.Search.SuggestionLimit)
}

func (m *Manager) setRuntimeDefaults(defaults *Config) {
	m.viper.SetDefault("events.throttle_ms", defaults.Events.ThrottleMs)
	m.viper.SetDefault("browser.control_url", defaults.Browser.ControlURL)
	m.viper.SetDefault("browser.headless", defaults.Browser.Headless)
	m.viper.SetDefault("metrics.listen", defaults.Metrics.Listen)
	m.viper.SetDefault("server.listen", defaults.Server.Listen)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file.enabled", defaults.Logging.File.Enabled)
	m.viper.SetDefault("logging.file.max_size_mb", defaults.Logging.File.MaxSizeMB)
	m.viper.SetDefault("logging.file.max_backups", defaults.Logging.File.MaxBackups)
	m.viper.SetDefault("logging.file.max_age_days", defaults.Logging.File.MaxAgeDays)
	m.viper.SetDefault("logging.file.compress", defaults.Logging.File.Compress)
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration, or the defaults before Init.
func Get() *Config {
	if globalManager == nil || globalManager.config == nil {
		cfg := DefaultConfig()
		_ = resolvePaths(cfg)
		return cfg
	}
	return globalManager.Get()
}

// GetManager returns the global configuration manager.
func GetManager() *Manager {
	return globalManager
}
