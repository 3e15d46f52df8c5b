package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/swatch/internal/config"
	"github.com/opencode-ai/swatch/internal/db"
	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/logging"
	"github.com/opencode-ai/swatch/internal/stylectx"
	"github.com/opencode-ai/swatch/internal/system"
	"github.com/opencode-ai/swatch/internal/theme"
	"github.com/opencode-ai/swatch/internal/tokens"
)

// appContext wires the engine for one command invocation.
type appContext struct {
	cfg      *config.Config
	logger   zerolog.Logger
	database *db.DB
	events   *db.EventRepository
	registry *design.Registry
	system   *system.Preference
	sink     theme.StyleSink
	themes   *theme.Manager
	tokens   *tokens.Manager

	// customThemes is true when any theme came from a search directory.
	customThemes bool
}

// openApp loads themes, opens storage and initializes the theme manager
// with every side effect: stylesheet output, event log and system watch.
func openApp(ctx context.Context) (*appContext, error) {
	return openAppWith(ctx, false)
}

// openReadOnlyApp is openApp for one-shot queries. The persisted selection
// is read, but nothing is written to the stylesheet or the event log and no
// system watcher is started.
func openReadOnlyApp(ctx context.Context) (*appContext, error) {
	return openAppWith(ctx, true)
}

func openAppWith(ctx context.Context, readOnly bool) (*appContext, error) {
	cfg := GetConfig()
	app := &appContext{
		cfg:    cfg,
		logger: logging.Component("cli"),
	}

	registry, custom, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	app.registry = registry
	app.customThemes = custom

	var store theme.Store
	if cfg.Storage.Path != "" {
		database, err := openDatabase(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		app.database = database
		app.events = db.NewEventRepository(database)
		store = db.NewPreferenceRepository(database)
	}

	if cfg.Style.Output != "" && !readOnly {
		app.sink = stylectx.NewCSSFile(cfg.Style.Output, cfg.Style.Selector)
	}

	app.system = system.New(system.Config{SchemeFile: cfg.System.SchemeFile})

	opts := []theme.Option{
		theme.WithLogger(logging.Component("theme")),
		theme.WithDefaultTheme(cfg.Theme.Default),
	}
	if mode, ok := cfg.FixedMode(); ok {
		opts = append(opts, theme.WithDefaultMode(mode))
	}
	if readOnly {
		opts = append(opts, theme.WithoutSystemWatch())
	} else if app.events != nil {
		opts = append(opts, theme.WithEventRepository(app.events))
	}

	app.themes = theme.NewManager(registry, store, app.system, app.sink, opts...)
	if err := app.themes.Initialize(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("initialize theme: %w", err)
	}
	app.tokens = tokens.New(app.themes)
	return app, nil
}

// Close stops watchers and releases storage.
func (a *appContext) Close() {
	if a.tokens != nil {
		a.tokens.Close()
	}
	if a.themes != nil {
		a.themes.Close()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close database")
		}
	}
}

func loadRegistry(cfg *config.Config) (*design.Registry, bool, error) {
	themes, err := design.LoadThemesFromPaths(cfg.ThemeDirs())
	if err != nil {
		return nil, false, &PreflightError{
			Message:  fmt.Sprintf("failed to load themes: %v", err),
			Hint:     "Fix or remove the palette file named above",
			NextStep: "swatch themes --dirs",
		}
	}

	custom := false
	for _, t := range themes {
		if t.Source != design.SourceBuiltin {
			custom = true
			break
		}
	}

	registry, err := design.NewRegistry(themes...)
	if err != nil {
		return nil, false, err
	}
	return registry, custom, nil
}

func openDatabase(ctx context.Context, path string) (*db.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("failed to open database: %v", err),
			Hint:     "Check storage.path in your config, or set it to \"\" to keep preferences in memory",
			NextStep: "swatch init",
		}
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

// requireStorage fails commands that only make sense with a database.
func (a *appContext) requireStorage() error {
	if a.database != nil {
		return nil
	}
	return &PreflightError{
		Message:  "no preference database configured",
		Hint:     "Set storage.path in the config file",
		NextStep: "swatch init",
	}
}

// exists reports whether path exists.
func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
