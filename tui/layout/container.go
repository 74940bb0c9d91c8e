// Package layout fits rendered blocks into the terminal.
package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/video-trimmer-cli/tui/styles"
)

// Container clips or pads content to exactly Width x Height cells. Content
// cut off at the bottom ends in a "more" marker.
type Container struct {
	Width  int
	Height int
}

// Render returns content constrained to Width columns and Height lines.
func (c Container) Render(content string) string {
	if c.Height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > c.Height {
		lines = lines[:c.Height]
		lines[c.Height-1] = lipgloss.NewStyle().Foreground(styles.Border).Render("↓ more")
	}
	for len(lines) < c.Height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = PadToWidth(line, c.Width)
	}
	return strings.Join(lines, "\n")
}
