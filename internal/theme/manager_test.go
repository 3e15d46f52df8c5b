package theme

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/swatch/internal/db"
	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/models"
	"github.com/opencode-ai/swatch/internal/stylectx"
)

type fakeSystem struct {
	mu   sync.Mutex
	dark bool
	fns  map[int]func(bool)
	next int
}

func newFakeSystem(dark bool) *fakeSystem {
	return &fakeSystem{dark: dark, fns: make(map[int]func(bool))}
}

func (f *fakeSystem) PrefersDark() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dark
}

func (f *fakeSystem) Watch(fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.fns[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.fns, id)
	}
}

func (f *fakeSystem) set(dark bool) {
	f.mu.Lock()
	f.dark = dark
	fns := make([]func(bool), 0, len(f.fns))
	for _, fn := range f.fns {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}

func (f *fakeSystem) watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fns)
}

type recordingRepo struct {
	mu     sync.Mutex
	events []*models.Event
}

func (r *recordingRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingRepo) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func builtinRegistry(t *testing.T) *design.Registry {
	t.Helper()
	reg, err := design.Builtin()
	require.NoError(t, err)
	return reg
}

func newTestManager(t *testing.T, store Store, system SystemPreference, sink StyleSink, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	m := NewManager(builtinRegistry(t), store, system, sink, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestInitializeDefaults(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	state := m.State()
	require.Equal(t, design.DefaultThemeID, state.ThemeID)
	require.Equal(t, design.ModeLight, state.Mode)

	theme, err := m.Registry().Get(design.DefaultThemeID)
	require.NoError(t, err)
	require.Equal(t, theme.Light, m.Tokens())
}

func TestUnknownThemeIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	m := newTestManager(t, nil, nil, nil, WithEventRepository(repo))
	require.NoError(t, m.Initialize(ctx))

	before := m.Tokens()
	beforeState := m.State()

	calls := 0
	m.Subscribe(func(Change) { calls++ })

	err := m.SetTheme(ctx, "nonexistent")
	require.Error(t, err)
	require.True(t, errors.Is(err, design.ErrUnknownTheme))

	var unknown *design.UnknownThemeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "nonexistent", unknown.ID)

	require.Equal(t, before, m.Tokens())
	require.Equal(t, beforeState, m.State())
	require.Zero(t, calls)
	require.Equal(t, []models.EventType{models.EventTypeThemeApplied, models.EventTypeThemeRejected}, repo.types())
}

func TestModePersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	system := newFakeSystem(true)

	first := newTestManager(t, store, system, nil)
	require.NoError(t, first.Initialize(ctx))
	require.Equal(t, design.ModeDark, first.State().Mode)

	_, stored, err := store.Get(ctx, KeyMode)
	require.NoError(t, err)
	require.False(t, stored, "system-derived mode must not be persisted")

	require.NoError(t, first.SetMode(ctx, design.ModeLight))
	value, ok, err := store.Get(ctx, KeyMode)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "light", value)
	first.Close()

	restarted := newTestManager(t, store, system, nil)
	require.NoError(t, restarted.Initialize(ctx))
	require.Equal(t, design.ModeLight, restarted.State().Mode)
}

func TestToggleNotifiesSubscribersInOrder(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(ctx))

	var order []string
	var got []Change
	m.Subscribe(func(c Change) {
		order = append(order, "first")
		got = append(got, c)
	})
	m.Subscribe(func(c Change) {
		order = append(order, "second")
		got = append(got, c)
	})

	require.NoError(t, m.ToggleMode(ctx))

	require.Equal(t, []string{"first", "second"}, order)
	require.Len(t, got, 2)
	require.Equal(t, got[0], got[1])
	require.Equal(t, design.DefaultThemeID, got[0].ThemeID)
	require.Equal(t, design.ModeDark, got[0].Mode)
	require.Equal(t, m.Tokens(), got[0].Tokens)
}

func TestSubscribersReceiveIndependentCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(ctx))

	var second Change
	m.Subscribe(func(c Change) { c.Tokens.Spacing[0].Value = "mutated" })
	m.Subscribe(func(c Change) { second = c })

	require.NoError(t, m.SetTheme(ctx, "ocean"))
	require.NotEqual(t, "mutated", second.Tokens.Spacing[0].Value)
	require.NotEqual(t, "mutated", m.Tokens().Spacing[0].Value)
}

func TestUnsubscribe(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(ctx))

	calls := 0
	unsubscribe := m.Subscribe(func(Change) { calls++ })
	require.NoError(t, m.SetMode(ctx, design.ModeDark))
	unsubscribe()
	unsubscribe()
	require.NoError(t, m.SetMode(ctx, design.ModeDark))
	require.Equal(t, 1, calls)
}

func TestNotifiesWithoutDeduplication(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(ctx))

	calls := 0
	m.Subscribe(func(Change) { calls++ })
	require.NoError(t, m.SetMode(ctx, design.ModeLight))
	require.NoError(t, m.SetMode(ctx, design.ModeLight))
	require.Equal(t, 2, calls)
}

func TestApplyWritesSink(t *testing.T) {
	ctx := context.Background()
	sink := stylectx.NewMemory()
	m := newTestManager(t, nil, nil, sink)
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SetTheme(ctx, "ocean"))
	require.NoError(t, m.SetMode(ctx, design.ModeDark))

	tokens := m.Tokens()
	value, ok := sink.Property("--color-primary-base")
	require.True(t, ok)
	require.Equal(t, tokens.Color.Primary.Base, value)

	value, ok = sink.Property("--typography-font-family-sans")
	require.True(t, ok)
	require.Equal(t, strings.Join(tokens.Typography.FontFamily.Sans, ", "), value)

	require.Equal(t, "ocean", sink.Attribute(AttrTheme))
	require.Equal(t, "dark", sink.Attribute(AttrMode))
	require.True(t, sink.HasClass("dark"))
	require.False(t, sink.HasClass("light"))
	require.Equal(t, 3, sink.Flushes())

	flat := design.Flatten(tokens.Tree())
	require.Len(t, sink.Snapshot().Properties, len(flat))
}

func TestSettersRequireInitialize(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)

	require.ErrorIs(t, m.SetTheme(ctx, "ocean"), ErrNotInitialized)
	require.ErrorIs(t, m.SetMode(ctx, design.ModeDark), ErrNotInitialized)
	require.ErrorIs(t, m.ToggleMode(ctx), ErrNotInitialized)
}

func TestSetModeRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(ctx))
	require.ErrorIs(t, m.SetMode(ctx, design.Mode("sepia")), ErrInvalidMode)
	require.Equal(t, design.ModeLight, m.State().Mode)
}

func TestSystemChangeFollowedUntilModeChosen(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	system := newFakeSystem(false)
	m := newTestManager(t, nil, system, nil, WithEventRepository(repo))
	require.NoError(t, m.Initialize(ctx))
	require.Equal(t, 1, system.watchers())

	system.set(true)
	require.Equal(t, design.ModeDark, m.State().Mode)

	require.NoError(t, m.SetMode(ctx, design.ModeLight))
	system.set(true)
	require.Equal(t, design.ModeLight, m.State().Mode)

	require.NoError(t, m.FollowSystem(ctx))
	require.Equal(t, design.ModeDark, m.State().Mode)

	system.set(false)
	require.Equal(t, design.ModeLight, m.State().Mode)

	m.Close()
	require.Zero(t, system.watchers())

	require.Contains(t, repo.types(), models.EventTypeSystemSchemeChanged)
	require.Contains(t, repo.types(), models.EventTypePreferenceCleared)
}

func TestDefaultModePinsMode(t *testing.T) {
	ctx := context.Background()
	system := newFakeSystem(true)
	m := newTestManager(t, nil, system, nil, WithDefaultMode(design.ModeLight))
	require.NoError(t, m.Initialize(ctx))
	require.Equal(t, design.ModeLight, m.State().Mode)

	system.set(true)
	require.Equal(t, design.ModeLight, m.State().Mode)
}

func TestInvalidPersistedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyTheme, "gone"))
	require.NoError(t, store.Set(ctx, KeyMode, "sepia"))

	m := newTestManager(t, store, newFakeSystem(true), nil, WithDefaultTheme("forest"))
	require.NoError(t, m.Initialize(ctx))
	require.Equal(t, State{ThemeID: "forest", Mode: design.ModeDark}, m.State())
}

func TestFollowSystemNeedsDeleter(t *testing.T) {
	ctx := context.Background()
	store := &struct{ Store }{NewMemoryStore()}
	m := newTestManager(t, store, nil, nil)
	require.NoError(t, m.Initialize(ctx))
	require.ErrorIs(t, m.FollowSystem(ctx), ErrNoDelete)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	_, err = database.MigrateUp(ctx)
	require.NoError(t, err)

	store := db.NewPreferenceRepository(database)
	events := db.NewEventRepository(database)

	m := newTestManager(t, store, nil, nil, WithEventRepository(events))
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.SetTheme(ctx, "Forest"))
	require.NoError(t, m.SetMode(ctx, design.ModeDark))

	restarted := newTestManager(t, store, nil, nil)
	require.NoError(t, restarted.Initialize(ctx))
	require.Equal(t, State{ThemeID: "forest", Mode: design.ModeDark}, restarted.State())

	latest, err := events.Latest(ctx, models.EventTypeThemeApplied, 10)
	require.NoError(t, err)
	require.Len(t, latest, 3)
	require.Equal(t, "forest", latest[0].EntityID)
}

func TestWithoutSystemWatchReadsOnce(t *testing.T) {
	ctx := context.Background()
	system := newFakeSystem(true)
	m := newTestManager(t, nil, system, nil, WithoutSystemWatch())
	require.NoError(t, m.Initialize(ctx))

	require.Equal(t, design.ModeDark, m.State().Mode)
	require.Equal(t, 0, system.watchers())
}
