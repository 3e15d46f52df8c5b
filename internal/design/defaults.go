package design

// Non-color tokens shared by every theme unless a palette overrides them.

func defaultFontFamilies() FontFamilies {
	return FontFamilies{
		Sans:  []string{"Inter", "system-ui", "-apple-system", "Segoe UI", "Roboto", "sans-serif"},
		Serif: []string{"Georgia", "Cambria", "Times New Roman", "serif"},
		Mono:  []string{"JetBrains Mono", "SFMono-Regular", "Menlo", "Consolas", "monospace"},
	}
}

func defaultTypography() Typography {
	return Typography{
		FontFamily: defaultFontFamilies(),
		FontSize: Scale{
			{"xs", "0.75rem"},
			{"sm", "0.875rem"},
			{"base", "1rem"},
			{"lg", "1.125rem"},
			{"xl", "1.25rem"},
			{"2xl", "1.5rem"},
			{"3xl", "1.875rem"},
			{"4xl", "2.25rem"},
			{"5xl", "3rem"},
		},
		FontWeight: Scale{
			{"light", "300"},
			{"normal", "400"},
			{"medium", "500"},
			{"semibold", "600"},
			{"bold", "700"},
		},
		LineHeight: Scale{
			{"none", "1"},
			{"tight", "1.25"},
			{"snug", "1.375"},
			{"normal", "1.5"},
			{"relaxed", "1.625"},
			{"loose", "2"},
		},
		LetterSpacing: Scale{
			{"tighter", "-0.05em"},
			{"tight", "-0.025em"},
			{"normal", "0em"},
			{"wide", "0.025em"},
			{"wider", "0.05em"},
		},
	}
}

func defaultSpacing() Scale {
	return Scale{
		{"0", "0"},
		{"px", "1px"},
		{"1", "0.25rem"},
		{"2", "0.5rem"},
		{"3", "0.75rem"},
		{"4", "1rem"},
		{"5", "1.25rem"},
		{"6", "1.5rem"},
		{"8", "2rem"},
		{"10", "2.5rem"},
		{"12", "3rem"},
		{"16", "4rem"},
		{"20", "5rem"},
		{"24", "6rem"},
	}
}

// Shadows are tinted per mode: dark surfaces need a denser shadow to read.
func defaultShadows(mode Mode) Scale {
	if mode == ModeDark {
		return Scale{
			{"none", "none"},
			{"sm", "0 1px 2px 0 rgba(0, 0, 0, 0.4)"},
			{"md", "0 4px 6px -1px rgba(0, 0, 0, 0.5), 0 2px 4px -2px rgba(0, 0, 0, 0.4)"},
			{"lg", "0 10px 15px -3px rgba(0, 0, 0, 0.5), 0 4px 6px -4px rgba(0, 0, 0, 0.4)"},
			{"xl", "0 20px 25px -5px rgba(0, 0, 0, 0.5), 0 8px 10px -6px rgba(0, 0, 0, 0.4)"},
			{"inner", "inset 0 2px 4px 0 rgba(0, 0, 0, 0.4)"},
		}
	}
	return Scale{
		{"none", "none"},
		{"sm", "0 1px 2px 0 rgba(0, 0, 0, 0.05)"},
		{"md", "0 4px 6px -1px rgba(0, 0, 0, 0.1), 0 2px 4px -2px rgba(0, 0, 0, 0.1)"},
		{"lg", "0 10px 15px -3px rgba(0, 0, 0, 0.1), 0 4px 6px -4px rgba(0, 0, 0, 0.1)"},
		{"xl", "0 20px 25px -5px rgba(0, 0, 0, 0.1), 0 8px 10px -6px rgba(0, 0, 0, 0.1)"},
		{"inner", "inset 0 2px 4px 0 rgba(0, 0, 0, 0.05)"},
	}
}

func defaultBorders() Borders {
	return Borders{
		Width: Scale{
			{"none", "0"},
			{"thin", "1px"},
			{"medium", "2px"},
			{"thick", "4px"},
		},
		Radius: Scale{
			{"none", "0"},
			{"sm", "0.125rem"},
			{"md", "0.375rem"},
			{"lg", "0.5rem"},
			{"xl", "0.75rem"},
			{"full", "9999px"},
		},
	}
}

func defaultTransitions() Transitions {
	return Transitions{
		Duration: Scale{
			{"instant", "0ms"},
			{"fast", "150ms"},
			{"normal", "250ms"},
			{"slow", "400ms"},
		},
		Easing: Scale{
			{"linear", "linear"},
			{"in", "cubic-bezier(0.4, 0, 1, 1)"},
			{"out", "cubic-bezier(0, 0, 0.2, 1)"},
			{"inOut", "cubic-bezier(0.4, 0, 0.2, 1)"},
		},
	}
}

func defaultBreakpoints() Scale {
	return Scale{
		{"sm", "640px"},
		{"md", "768px"},
		{"lg", "1024px"},
		{"xl", "1280px"},
		{"2xl", "1536px"},
	}
}

func defaultZIndex() Scale {
	return Scale{
		{"base", "0"},
		{"dropdown", "1000"},
		{"sticky", "1100"},
		{"overlay", "1200"},
		{"modal", "1300"},
		{"popover", "1400"},
		{"toast", "1500"},
		{"tooltip", "1600"},
	}
}
