package theme

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/events"
	"github.com/opencode-ai/swatch/internal/logging"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEventRepository records applied and rejected changes.
func WithEventRepository(repo events.Repository) Option {
	return func(m *Manager) {
		m.events = repo
	}
}

// WithDefaultTheme sets the theme used when nothing is persisted.
func WithDefaultTheme(id string) Option {
	return func(m *Manager) {
		m.defaultTheme = id
	}
}

// WithDefaultMode pins the mode used when nothing is persisted. A pinned
// mode also stops the manager from following the system scheme.
func WithDefaultMode(mode design.Mode) Option {
	return func(m *Manager) {
		if mode.Valid() {
			m.defaultMode = mode
		}
	}
}

// WithoutSystemWatch skips installing the system scheme listener. The
// system preference is still read once by Initialize.
func WithoutSystemWatch() Option {
	return func(m *Manager) {
		m.noWatch = true
	}
}

// Manager is the theme/mode state machine.
type Manager struct {
	registry *design.Registry
	store    Store
	system   SystemPreference
	sink     StyleSink
	events   events.Repository
	logger   zerolog.Logger

	defaultTheme string
	defaultMode  design.Mode
	noWatch      bool

	// opMu serializes state-changing operations end to end.
	opMu sync.Mutex

	mu          sync.RWMutex
	initialized bool
	state       State
	theme       design.Theme
	tokens      design.Tokens
	stopWatch   func()

	subsMu sync.Mutex
	subs   []subscription
	nextID uint64
}

type subscription struct {
	id uint64
	fn Listener
}

// NewManager creates a Manager. store, system and sink may be nil; a nil
// store keeps state in memory, a nil system preference means light.
func NewManager(registry *design.Registry, store Store, system SystemPreference, sink StyleSink, opts ...Option) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	m := &Manager{
		registry: registry,
		store:    store,
		system:   system,
		sink:     sink,
		logger:   logging.Component("theme"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize restores the persisted selection, falls back to the system
// scheme when no mode is stored, applies the result and starts following
// system scheme changes.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.registry == nil {
		return fmt.Errorf("theme registry is required")
	}

	m.opMu.Lock()
	defer m.opMu.Unlock()

	themeID := m.resolveTheme(ctx)
	mode := m.resolveMode(ctx)

	m.commit(ctx, themeID, mode, events.TriggerInitialize)

	m.mu.Lock()
	m.initialized = true
	watch := m.stopWatch == nil && m.system != nil && !m.noWatch
	m.mu.Unlock()

	if watch {
		stop := m.system.Watch(m.onSystemChange)
		m.mu.Lock()
		m.stopWatch = stop
		m.mu.Unlock()
	}

	m.logger.Info().
		Str("theme", themeID).
		Str("mode", string(mode)).
		Msg("theme manager initialized")
	return nil
}

// Close stops following the system scheme.
func (m *Manager) Close() {
	m.mu.Lock()
	stop := m.stopWatch
	m.stopWatch = nil
	m.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// SetTheme selects a registered theme. An unknown id returns
// *design.UnknownThemeError and leaves state untouched.
func (m *Manager) SetTheme(ctx context.Context, id string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.ensureInitialized(); err != nil {
		return err
	}

	theme, err := m.registry.Get(id)
	if err != nil {
		m.logger.Warn().Err(err).Str("theme", id).Msg("theme change rejected")
		if m.events != nil {
			if logErr := events.LogThemeRejected(ctx, m.events, id, err.Error()); logErr != nil {
				m.logger.Warn().Err(logErr).Msg("failed to record rejected theme")
			}
		}
		return err
	}

	m.persist(ctx, KeyTheme, theme.ID)
	m.commit(ctx, theme.ID, m.State().Mode, events.TriggerSetTheme)
	return nil
}

// SetMode selects light or dark and persists the choice, which stops the
// manager from following the system scheme.
func (m *Manager) SetMode(ctx context.Context, mode design.Mode) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	return m.setModeLocked(ctx, mode, events.TriggerSetMode)
}

// ToggleMode switches to the opposite mode.
func (m *Manager) ToggleMode(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.ensureInitialized(); err != nil {
		return err
	}
	return m.setModeLocked(ctx, m.State().Mode.Opposite(), events.TriggerToggleMode)
}

// FollowSystem forgets the persisted mode and re-applies the system scheme.
func (m *Manager) FollowSystem(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if err := m.ensureInitialized(); err != nil {
		return err
	}

	deleter, ok := m.store.(Deleter)
	if !ok {
		return ErrNoDelete
	}
	if err := deleter.Delete(ctx, KeyMode); err != nil {
		return fmt.Errorf("clear mode preference: %w", err)
	}
	if m.events != nil {
		if err := events.LogPreferenceCleared(ctx, m.events, KeyMode); err != nil {
			m.logger.Warn().Err(err).Msg("failed to record cleared preference")
		}
	}

	m.commit(ctx, m.State().ThemeID, m.systemMode(), events.TriggerSystem)
	return nil
}

// Subscribe registers fn for every subsequent apply. Listeners run in
// subscription order. The returned func removes the subscription.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.subsMu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()
			for i, sub := range m.subs {
				if sub.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// State returns the active selection.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Tokens returns a copy of the active token set.
func (m *Manager) Tokens() design.Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Clone()
}

// Theme returns the active theme with both mode variants.
func (m *Manager) Theme() design.Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// Registry returns the registry the manager selects from.
func (m *Manager) Registry() *design.Registry {
	return m.registry
}

// Initialized reports whether Initialize has completed.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

func (m *Manager) ensureInitialized() error {
	if !m.Initialized() {
		return ErrNotInitialized
	}
	return nil
}

func (m *Manager) setModeLocked(ctx context.Context, mode design.Mode, trigger string) error {
	if err := m.ensureInitialized(); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	m.persist(ctx, KeyMode, string(mode))
	m.commit(ctx, m.State().ThemeID, mode, trigger)
	return nil
}

func (m *Manager) onSystemChange(dark bool) {
	ctx := context.Background()

	m.opMu.Lock()
	defer m.opMu.Unlock()

	if !m.Initialized() {
		return
	}

	applied := m.followsSystem(ctx)
	if applied {
		mode := design.ModeLight
		if dark {
			mode = design.ModeDark
		}
		m.commit(ctx, m.State().ThemeID, mode, events.TriggerSystem)
	}

	m.logger.Debug().Bool("dark", dark).Bool("applied", applied).Msg("system color scheme changed")
	if m.events != nil {
		if err := events.LogSchemeChanged(ctx, m.events, dark, applied); err != nil {
			m.logger.Warn().Err(err).Msg("failed to record scheme change")
		}
	}
}

// followsSystem reports whether no explicit mode is in effect.
func (m *Manager) followsSystem(ctx context.Context) bool {
	if m.defaultMode != "" {
		return false
	}
	_, ok, err := m.store.Get(ctx, KeyMode)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to read mode preference")
		return false
	}
	return !ok
}

func (m *Manager) resolveTheme(ctx context.Context) string {
	if id, ok, err := m.store.Get(ctx, KeyTheme); err != nil {
		m.logger.Warn().Err(err).Msg("failed to read theme preference")
	} else if ok {
		if theme, err := m.registry.Get(id); err == nil {
			return theme.ID
		}
		m.logger.Warn().Str("theme", id).Msg("persisted theme is not registered, using default")
	}

	if m.defaultTheme != "" {
		if theme, err := m.registry.Get(m.defaultTheme); err == nil {
			return theme.ID
		}
		m.logger.Warn().Str("theme", m.defaultTheme).Msg("configured default theme is not registered")
	}
	return m.registry.DefaultID()
}

func (m *Manager) resolveMode(ctx context.Context) design.Mode {
	if value, ok, err := m.store.Get(ctx, KeyMode); err != nil {
		m.logger.Warn().Err(err).Msg("failed to read mode preference")
	} else if ok {
		if mode, err := design.ParseMode(value); err == nil {
			return mode
		}
		m.logger.Warn().Str("mode", value).Msg("persisted mode is invalid, ignoring")
	}

	if m.defaultMode != "" {
		return m.defaultMode
	}
	return m.systemMode()
}

func (m *Manager) systemMode() design.Mode {
	if m.system != nil && m.system.PrefersDark() {
		return design.ModeDark
	}
	return design.ModeLight
}

func (m *Manager) persist(ctx context.Context, key, value string) {
	if err := m.store.Set(ctx, key, value); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("failed to persist preference")
	}
}

// commit recomputes tokens for (themeID, mode), applies them and notifies.
// Callers hold opMu.
func (m *Manager) commit(ctx context.Context, themeID string, mode design.Mode, trigger string) {
	theme, err := m.registry.Get(themeID)
	if err != nil {
		// Only reachable if the registry changed underneath us.
		m.logger.Error().Err(err).Msg("active theme vanished from registry")
		return
	}
	tokens := theme.Tokens(mode)

	m.mu.Lock()
	m.state = State{ThemeID: theme.ID, Mode: mode}
	m.theme = theme
	m.tokens = tokens
	m.mu.Unlock()

	m.apply(theme.ID, mode, tokens)

	if m.events != nil {
		if err := events.LogThemeApplied(ctx, m.events, theme.ID, string(mode), trigger); err != nil {
			m.logger.Warn().Err(err).Msg("failed to record applied theme")
		}
	}

	m.notify(Change{ThemeID: theme.ID, Mode: mode, Tokens: tokens})
}

func (m *Manager) apply(themeID string, mode design.Mode, tokens design.Tokens) {
	if m.sink == nil {
		return
	}

	flat := design.Flatten(tokens.Tree())
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		m.sink.SetProperty(design.PropertyName(path), flat[path])
	}

	m.sink.SetAttribute(AttrTheme, themeID)
	m.sink.SetAttribute(AttrMode, string(mode))
	m.sink.SetClass(string(design.ModeLight), mode == design.ModeLight)
	m.sink.SetClass(string(design.ModeDark), mode == design.ModeDark)

	if err := m.sink.Flush(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to flush style sink")
	}
}

func (m *Manager) notify(change Change) {
	m.subsMu.Lock()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.subsMu.Unlock()

	for _, sub := range subs {
		c := change
		c.Tokens = change.Tokens.Clone()
		sub.fn(c)
	}
}
