// Package components provides the TUI's rendering components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/video-trimmer-cli/pkg/timeutil"
	"github.com/user/video-trimmer-cli/tui/styles"
)

// StatusBarState holds the playback state shown in the status bar.
type StatusBarState struct {
	// PlayIcon is shown while playback is stopped and can be started
	PlayIcon bool
	// PositionMs is the last polled position
	PositionMs int64
	// DurationMs is the video duration
	DurationMs int64
	// SpanMs is the length of the selected window, hidden when zero
	SpanMs int64
	// Title is the video file name
	Title string
}

// StatusBar renders the play state, position / duration, the selection
// length and the file name.
func StatusBar(state StatusBarState, width int) string {
	icon := "⏸"
	if state.PlayIcon {
		icon = "▶"
	}
	left := fmt.Sprintf(" %s %s / %s", icon,
		timeutil.FormatMillis(state.PositionMs),
		timeutil.FormatMillis(state.DurationMs))
	if state.SpanMs > 0 {
		left += "  sel " + timeutil.FormatMillis(state.SpanMs)
	}

	title := state.Title
	room := width - lipgloss.Width(left) - 2
	if room < 0 {
		room = 0
	}
	if lipgloss.Width(title) > room {
		title = ansi.Truncate(title, room, "…")
	}
	right := title + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return lipgloss.NewStyle().
		Background(styles.Surface).
		Foreground(styles.Text).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}
