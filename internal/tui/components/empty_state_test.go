package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/tui/styles"
)

func testStyles(t *testing.T) styles.Styles {
	t.Helper()
	reg, err := design.Builtin()
	if err != nil {
		t.Fatalf("load builtin themes: %v", err)
	}
	theme, err := reg.Get(design.DefaultThemeID)
	if err != nil {
		t.Fatalf("get default theme: %v", err)
	}
	return styles.BuildStyles(theme.Light, design.ModeLight)
}

func TestThemeDirsNoticeRender(t *testing.T) {
	styleSet := testStyles(t)

	t.Run("lists dirs in order", func(t *testing.T) {
		out := NewThemeDirsNotice([]string{"/a/themes", "/b/themes"}).Render(styleSet)
		first := strings.Index(out, "/a/themes")
		second := strings.Index(out, "/b/themes")
		if first < 0 || second < 0 || first > second {
			t.Errorf("Expected dirs in search order, got: %s", out)
		}
		if !strings.Contains(out, "Next: swatch themes --dirs") {
			t.Errorf("Expected hint, got: %s", out)
		}
	})

	t.Run("no dirs", func(t *testing.T) {
		out := NewThemeDirsNotice(nil).Render(styleSet)
		if !strings.Contains(out, "No theme directories") {
			t.Errorf("Expected no-dirs message, got: %s", out)
		}
	})

	t.Run("no hint", func(t *testing.T) {
		out := ThemeDirsNotice{Dirs: []string{"/a"}}.Render(styleSet)
		if strings.Contains(out, "Next:") {
			t.Errorf("Unexpected hint line, got: %s", out)
		}
	})
}

func TestThemeDirsNoticeRenderCompact(t *testing.T) {
	styleSet := testStyles(t)

	tests := []struct {
		name string
		dirs []string
		want string
	}{
		{"single dir", []string{"/tmp/themes"}, "add palettes to /tmp/themes)"},
		{"extra dirs counted", []string{"/tmp/themes", "/etc/themes", "/usr/themes"}, "+2 more"},
		{"no dirs", nil, noticeTitle + " | swatch themes --dirs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewThemeDirsNotice(tt.dirs).RenderCompact(styleSet)
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected %q in %s", tt.want, out)
			}
			if strings.Contains(out, "\n") {
				t.Errorf("Compact output should be a single line, got: %s", out)
			}
		})
	}
}
