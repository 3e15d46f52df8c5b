// Package config loads swatch configuration from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (SWATCH_THEME_DEFAULT).
const EnvPrefix = "SWATCH"

// ModeSystem defers the initial mode to the system preference.
const ModeSystem = "system"

// Config is the complete swatch configuration.
type Config struct {
	Theme   ThemeConfig   `mapstructure:"theme"`
	Storage StorageConfig `mapstructure:"storage"`
	Style   StyleConfig   `mapstructure:"style"`
	System  SystemConfig  `mapstructure:"system"`
	Logging LoggingConfig `mapstructure:"logging"`
	Daemon  DaemonConfig  `mapstructure:"daemon"`
}

// ThemeConfig selects the initial theme and extra theme directories.
type ThemeConfig struct {
	// Default is used when no preference is persisted.
	Default string `mapstructure:"default"`

	// Mode is light, dark or system.
	Mode string `mapstructure:"mode"`

	// Dirs are searched before the standard theme paths.
	Dirs []string `mapstructure:"dirs"`

	// ProjectDir adds <dir>/.swatch/themes to the search paths.
	ProjectDir string `mapstructure:"project_dir"`
}

// StorageConfig points at the preference database.
type StorageConfig struct {
	// Path is the SQLite file. Empty keeps preferences in memory.
	Path string `mapstructure:"path"`
}

// StyleConfig controls where applied tokens are written.
type StyleConfig struct {
	// Output is the stylesheet file rewritten on every apply. Empty disables it.
	Output string `mapstructure:"output"`

	// Selector scopes the active-mode block. Default: ":root".
	Selector string `mapstructure:"selector"`
}

// SystemConfig controls system color scheme detection.
type SystemConfig struct {
	// SchemeFile, when set, holds "dark" or "light" and is watched for changes.
	SchemeFile string `mapstructure:"scheme_file"`
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DaemonConfig controls the tokend gRPC service.
type DaemonConfig struct {
	Host      string          `mapstructure:"host"`
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds request rates per method.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Default: design.DefaultThemeID,
			Mode:    ModeSystem,
		},
		Storage: StorageConfig{
			Path: filepath.Join(DefaultDataDir(), "swatch.db"),
		},
		Style: StyleConfig{
			Selector: ":root",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Daemon: DaemonConfig{
			Host: "127.0.0.1",
			Port: 50151,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerSecond: 50,
				Burst:             100,
			},
		},
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/swatch or ~/.config/swatch.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "swatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swatch"
	}
	return filepath.Join(home, ".config", "swatch")
}

// DefaultDataDir returns $XDG_DATA_HOME/swatch or ~/.local/share/swatch.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "swatch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swatch"
	}
	return filepath.Join(home, ".local", "share", "swatch")
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("theme.default", def.Theme.Default)
	v.SetDefault("theme.mode", def.Theme.Mode)
	v.SetDefault("theme.dirs", []string{})
	v.SetDefault("theme.project_dir", "")
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("style.output", def.Style.Output)
	v.SetDefault("style.selector", def.Style.Selector)
	v.SetDefault("system.scheme_file", "")
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("daemon.host", def.Daemon.Host)
	v.SetDefault("daemon.port", def.Daemon.Port)
	v.SetDefault("daemon.rate_limit.enabled", def.Daemon.RateLimit.Enabled)
	v.SetDefault("daemon.rate_limit.requests_per_second", def.Daemon.RateLimit.RequestsPerSecond)
	v.SetDefault("daemon.rate_limit.burst", def.Daemon.RateLimit.Burst)
}

// NewViper returns a viper instance wired for swatch: defaults, env
// overrides and the config file search path.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(DefaultConfigDir())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration into a Config. An explicit path must exist; the
// default search path may be empty.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Theme.Default) == "" {
		return errors.New("theme.default is required")
	}
	switch strings.ToLower(c.Theme.Mode) {
	case "", ModeSystem, string(design.ModeLight), string(design.ModeDark):
	default:
		return fmt.Errorf("theme.mode must be light, dark or system, got %q", c.Theme.Mode)
	}
	if c.Daemon.Port < 0 || c.Daemon.Port > 65535 {
		return fmt.Errorf("daemon.port out of range: %d", c.Daemon.Port)
	}
	if c.Daemon.RateLimit.Enabled && (c.Daemon.RateLimit.RequestsPerSecond <= 0 || c.Daemon.RateLimit.Burst <= 0) {
		return errors.New("daemon.rate_limit requires positive requests_per_second and burst")
	}
	return nil
}

// FixedMode returns the configured mode when it is light or dark.
func (c *Config) FixedMode() (design.Mode, bool) {
	mode, err := design.ParseMode(c.Theme.Mode)
	if err != nil {
		return "", false
	}
	return mode, true
}

// ThemeDirs returns the theme search directories in precedence order.
func (c *Config) ThemeDirs() []string {
	dirs := append([]string{}, c.Theme.Dirs...)
	return append(dirs, design.ThemeSearchPaths(c.Theme.ProjectDir)...)
}
