// Package styles provides Lipgloss styles for the trimmer TUI.
package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color palette. Background and frame colours are configurable and are not
// part of it.
const (
	// Surface is the panel background.
	Surface = lipgloss.Color("#181825")
	// Border is the dim accent used for box borders.
	Border = lipgloss.Color("#45475a")
	// Accent marks focus and the playing state.
	Accent = lipgloss.Color("#cba6f7")
	// Muted is secondary text.
	Muted = lipgloss.Color("#a6adc8")
	// Text is primary text.
	Text = lipgloss.Color("#cdd6f4")
	// Pink is used for headers.
	Pink = lipgloss.Color("#f5c2e7")
	// Cyan is used for the playback position.
	Cyan = lipgloss.Color("#89dceb")
	// Amber is used for pending work.
	Amber = lipgloss.Color("#fab387")
	// Red is used for errors.
	Red = lipgloss.Color("#f38ba8")
	// Green is used for success messages.
	Green = lipgloss.Color("#a6e3a1")
)

// Header is the style for box titles.
var Header = lipgloss.NewStyle().
	Foreground(Pink).
	Bold(true)

// PrimaryText is the style for primary text content.
var PrimaryText = lipgloss.NewStyle().
	Foreground(Text)

// SecondaryText is the style for less prominent text.
var SecondaryText = lipgloss.NewStyle().
	Foreground(Muted)

// Warning is the style for error messages.
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages.
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)

// Label returns the selection label style for a typeface name
// (plain, bold or italic).
func Label(typeface string) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(Text)
	switch typeface {
	case "bold":
		s = s.Bold(true)
	case "italic":
		s = s.Italic(true)
	}
	return s
}

// dimFactor is how much of a colour survives outside the selected window.
const dimFactor = 0.35

// Hex formats c as a #rrggbb colour. Fully transparent colours are black.
func Hex(c color.Color) lipgloss.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color(cc.Hex())
}

// Dim darkens c, used for the frames outside the selected window.
func Dim(c color.Color) lipgloss.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return lipgloss.Color("#000000")
	}
	return lipgloss.Color(colorful.Color{R: cc.R * dimFactor, G: cc.G * dimFactor, B: cc.B * dimFactor}.Hex())
}

// Parse turns a #rrggbb string into a colour. Invalid input is black.
func Parse(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}
