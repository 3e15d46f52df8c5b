// Package system detects the platform color scheme.
//
// Precedence: the SWATCH_COLOR_SCHEME environment variable, then the
// scheme file (a file holding "dark" or "light"), then the terminal
// background as reported by lipgloss. Only the scheme file can change at
// runtime, so it is the only source Watch observes.
package system

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/swatch/internal/logging"
)

// EnvColorScheme overrides detection with "dark" or "light".
const EnvColorScheme = "SWATCH_COLOR_SCHEME"

const defaultDebounce = 100 * time.Millisecond

// Config controls detection.
type Config struct {
	// SchemeFile holds "dark" or "light". Empty disables the file source.
	SchemeFile string

	// Detect reports whether the terminal background is dark.
	// Default: lipgloss.HasDarkBackground.
	Detect func() bool

	// Getenv reads environment variables. Default: os.Getenv.
	Getenv func(string) string

	// Debounce coalesces bursts of file events. Default: 100ms.
	Debounce time.Duration
}

// Preference implements theme.SystemPreference.
type Preference struct {
	cfg    Config
	logger zerolog.Logger

	detectOnce sync.Once
	detected   bool
}

// New creates a Preference.
func New(cfg Config) *Preference {
	if cfg.Detect == nil {
		cfg.Detect = lipgloss.HasDarkBackground
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.SchemeFile != "" {
		cfg.SchemeFile = filepath.Clean(cfg.SchemeFile)
	}
	return &Preference{
		cfg:    cfg,
		logger: logging.Component("system"),
	}
}

// PrefersDark reports the current scheme.
func (p *Preference) PrefersDark() bool {
	if dark, ok := parseScheme(p.cfg.Getenv(EnvColorScheme)); ok {
		return dark
	}
	if dark, ok := p.readSchemeFile(); ok {
		return dark
	}
	// Terminal queries are slow and the answer does not change.
	p.detectOnce.Do(func() {
		p.detected = p.cfg.Detect()
	})
	return p.detected
}

// Watch calls fn from a background goroutine whenever the scheme file
// changes the effective preference. Without a scheme file it does nothing.
func (p *Preference) Watch(fn func(dark bool)) (stop func()) {
	if p.cfg.SchemeFile == "" || fn == nil {
		return func() {}
	}

	w, err := newSchemeWatcher(p.cfg.SchemeFile, p.cfg.Debounce, p.PrefersDark, fn)
	if err != nil {
		p.logger.Warn().Err(err).Str("path", p.cfg.SchemeFile).Msg("failed to watch scheme file")
		return func() {}
	}

	go w.run()
	p.logger.Debug().Str("path", p.cfg.SchemeFile).Msg("watching scheme file")
	return func() { _ = w.Close() }
}

func (p *Preference) readSchemeFile() (bool, bool) {
	if p.cfg.SchemeFile == "" {
		return false, false
	}
	data, err := os.ReadFile(p.cfg.SchemeFile)
	if err != nil {
		return false, false
	}
	return parseScheme(string(data))
}

func parseScheme(s string) (dark bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return true, true
	case "light":
		return false, true
	default:
		return false, false
	}
}
