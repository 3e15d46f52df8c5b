package design

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// SourceBuiltin marks themes bundled with the binary.
const SourceBuiltin = "builtin"

// LoadTheme reads a palette file (.yaml, .yml or .toml) and builds its theme.
func LoadTheme(path string) (Theme, error) {
	if strings.TrimSpace(path) == "" {
		return Theme{}, fmt.Errorf("theme path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}

	palette, err := parsePalette(data, filepath.Ext(path))
	if err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}

	theme, err := Build(palette)
	if err != nil {
		return Theme{}, fmt.Errorf("build theme %s: %w", path, err)
	}
	theme.Source = path
	return theme, nil
}

// LoadThemesFromDir loads every palette file in dir. A missing dir is not an error.
func LoadThemesFromDir(dir string) ([]Theme, error) {
	if strings.TrimSpace(dir) == "" {
		return []Theme{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Theme{}, nil
		}
		return nil, fmt.Errorf("read themes dir %s: %w", dir, err)
	}

	themes := make([]Theme, 0)
	for _, entry := range entries {
		if entry.IsDir() || !isPaletteFile(entry.Name()) {
			continue
		}
		theme, err := LoadTheme(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		themes = append(themes, theme)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].ID < themes[j].ID
	})
	return themes, nil
}

// LoadBuiltinThemes returns the themes bundled with swatch.
func LoadBuiltinThemes() ([]Theme, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("read builtin themes: %w", err)
	}

	themes := make([]Theme, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := builtinFS.ReadFile("builtin/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read builtin theme %s: %w", entry.Name(), err)
		}
		palette, err := parsePalette(data, filepath.Ext(entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("parse builtin theme %s: %w", entry.Name(), err)
		}
		theme, err := Build(palette)
		if err != nil {
			return nil, fmt.Errorf("build builtin theme %s: %w", entry.Name(), err)
		}
		theme.Source = SourceBuiltin
		themes = append(themes, theme)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].ID < themes[j].ID
	})
	return themes, nil
}

// ThemeSearchPaths returns theme directories in precedence order.
func ThemeSearchPaths(projectDir string) []string {
	paths := make([]string, 0, 3)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".swatch", "themes"))
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "swatch", "themes"))
	}

	paths = append(paths, filepath.Join(string(filepath.Separator), "usr", "share", "swatch", "themes"))
	return paths
}

// LoadThemesFromPaths loads themes from dirs, then builtins, with first-hit
// precedence by theme id.
func LoadThemesFromPaths(dirs []string) ([]Theme, error) {
	seen := make(map[string]struct{})
	resolved := make([]Theme, 0)

	add := func(themes []Theme) {
		for _, theme := range themes {
			if _, exists := seen[theme.ID]; exists {
				continue
			}
			seen[theme.ID] = struct{}{}
			resolved = append(resolved, theme)
		}
	}

	for _, dir := range dirs {
		themes, err := LoadThemesFromDir(dir)
		if err != nil {
			return nil, err
		}
		add(themes)
	}

	builtins, err := LoadBuiltinThemes()
	if err != nil {
		return nil, err
	}
	add(builtins)

	return resolved, nil
}

func isPaletteFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	default:
		return false
	}
}

func parsePalette(data []byte, ext string) (Palette, error) {
	var p Palette
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Palette{}, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Palette{}, err
		}
	}

	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	return p, nil
}
