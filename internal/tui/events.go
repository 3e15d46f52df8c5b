package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencode-ai/swatch/internal/design"
	"github.com/opencode-ai/swatch/internal/theme"
)

// ThemeChangedMsg wraps a theme.Change for the TUI.
type ThemeChangedMsg struct {
	ThemeID   string
	Mode      design.Mode
	Timestamp time.Time
}

// ActionErrorMsg reports a failed theme action.
type ActionErrorMsg struct {
	Err error
}

func toThemeChangedMsg(change theme.Change) ThemeChangedMsg {
	return ThemeChangedMsg{
		ThemeID:   change.ThemeID,
		Mode:      change.Mode,
		Timestamp: time.Now(),
	}
}

// SubscribeToThemeChanges forwards every applied change to program and
// returns the unsubscribe func. Changes made outside the preview, such as a
// system scheme switch, reach the view this way.
func SubscribeToThemeChanges(ctrl Controller, program *tea.Program) func() {
	if ctrl == nil || program == nil {
		return func() {}
	}
	return ctrl.Subscribe(func(change theme.Change) {
		program.Send(toThemeChangedMsg(change))
	})
}

func toggleModeCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.ToggleMode(context.Background()); err != nil {
			return ActionErrorMsg{Err: err}
		}
		return currentStateMsg(ctrl)
	}
}

func setThemeCmd(ctrl Controller, id string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.SetTheme(context.Background(), id); err != nil {
			return ActionErrorMsg{Err: err}
		}
		return currentStateMsg(ctrl)
	}
}

func currentStateMsg(ctrl Controller) ThemeChangedMsg {
	state := ctrl.State()
	return ThemeChangedMsg{ThemeID: state.ThemeID, Mode: state.Mode, Timestamp: time.Now()}
}
