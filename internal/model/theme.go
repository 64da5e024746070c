package model

import (
	"fmt"
	"strings"
)

// Theme is the display theme attribute.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"

	// ThemeDark is the dark theme.
	ThemeDark Theme = "dark"
)

// Toggle returns the opposite theme. Anything that is not dark flips to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme parses a theme name case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q: expected light or dark", s)
	}
}

// ThemePayload is the body of the get/set theme endpoints.
type ThemePayload struct {
	Theme Theme `json:"theme"`
}
