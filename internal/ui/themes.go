// Package ui holds the colour themes of the command-line interface.
//
// Themes are plain sets of ANSI escape codes. The active theme is process
// wide; NO_COLOR (https://no-color.org/) and -no-color select NoColorTheme.
package ui

import (
	"os"
	"sync"
)

// Theme is a named set of ANSI escape codes.
type Theme struct {
	Name      string
	Primary   string // accents, backend names
	Secondary string // labels, defaults
	Success   string
	Warning   string
	Error     string
	Info      string // operator glyphs
	Bold      string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme has no escape codes at all.
	NoColorTheme = Theme{Name: "none"}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	currentTheme = t
	themeMu.Unlock()
}

// ThemeByName returns the theme called name ("dark", "light", "none"),
// falling back to DarkTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme
	case "none":
		return NoColorTheme
	}
	return DarkTheme
}

// InitTheme selects the theme at startup. noColor and the NO_COLOR
// environment variable disable colours; otherwise name picks the theme.
func InitTheme(name string, noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); set || noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(ThemeByName(name))
}

// Paint wraps s in code and a reset, or returns s when code is empty.
func (t Theme) Paint(code, s string) string {
	if code == "" {
		return s
	}
	return code + s + t.Reset
}

// Colors adapts a Theme to the colour accessors used by error reporting.
type Colors struct{ Theme Theme }

// CurrentColors returns Colors for the active theme.
func CurrentColors() Colors { return Colors{Theme: GetCurrentTheme()} }

func (c Colors) Yellow() string { return c.Theme.Warning }
func (c Colors) Red() string    { return c.Theme.Error }
func (c Colors) Green() string  { return c.Theme.Success }
func (c Colors) Blue() string   { return c.Theme.Primary }
func (c Colors) Reset() string  { return c.Theme.Reset }
