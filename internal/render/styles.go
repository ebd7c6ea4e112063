// Package render prints parse trees and type expressions as indented,
// optionally colored trees.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // color if the writer is a terminal
	ColorAlways ColorMode = "always" // always emit ANSI colors
	ColorNever  ColorMode = "never"  // plain text
)

// ParseColorMode parses "auto", "always" or "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Colors
var (
	colorIndent = lipgloss.Color("2") // green
	colorLabel  = lipgloss.Color("3") // yellow
	colorError  = lipgloss.Color("1") // red
	colorOK     = lipgloss.Color("2")
)

// Styles is the set of styles bound to one output.
type Styles struct {
	Indent lipgloss.Style
	Label  lipgloss.Style
	Error  lipgloss.Style
	OK     lipgloss.Style
}

// NewStyles returns styles that render for w according to mode.
func NewStyles(w io.Writer, mode ColorMode) Styles {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Indent: r.NewStyle().Foreground(colorIndent),
		Label: r.NewStyle().
			Bold(true).
			Foreground(colorLabel),
		Error: r.NewStyle().Foreground(colorError),
		OK:    r.NewStyle().Foreground(colorOK),
	}
}
